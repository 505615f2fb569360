package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keyboard shortcuts for the ranking screen
type KeyMap struct {
	Quit key.Binding
	Help key.Binding

	// Selection
	Up   key.Binding
	Down key.Binding

	// Input nudges
	PriceUp     key.Binding
	PriceDown   key.Binding
	RateUp      key.Binding
	RateDown    key.Binding
	RentUp      key.Binding
	RentDown    key.Binding
	VacancyUp   key.Binding
	VacancyDown key.Binding
	Reset       key.Binding

	// Output
	Export     key.Binding
	ExportJSON key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),

		PriceUp: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "price +1%"),
		),
		PriceDown: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "price -1%"),
		),
		RateUp: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "rate +⅛"),
		),
		RateDown: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "rate -⅛"),
		),
		RentUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "rent +2%"),
		),
		RentDown: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "rent -2%"),
		),
		VacancyUp: key.NewBinding(
			key.WithKeys("V"),
			key.WithHelp("V", "vacancy +1"),
		),
		VacancyDown: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "vacancy -1"),
		),
		Reset: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "reset"),
		),

		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export csv"),
		),
		ExportJSON: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "export json"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PriceDown, k.PriceUp, k.Export, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.PriceDown, k.PriceUp, k.RateDown, k.RateUp},
		{k.RentDown, k.RentUp, k.VacancyDown, k.VacancyUp},
		{k.Reset, k.Export, k.ExportJSON, k.Help, k.Quit},
	}
}
