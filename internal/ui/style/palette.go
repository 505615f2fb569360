package style

import "github.com/charmbracelet/lipgloss"

var (
	Cyan    = lipgloss.Color("#00E5FF") // Primary highlight
	Magenta = lipgloss.Color("#FF1B6B") // Accent
	Yellow  = lipgloss.Color("#FFB500") // Warnings
	Green   = lipgloss.Color("#2AFFAA") // Positive cash flow
	Red     = lipgloss.Color("#FF5555") // Negative cash flow / errors
	Blue    = lipgloss.Color("#3B82F6") // Info
	Orange  = lipgloss.Color("#FB923C")

	Base03 = lipgloss.Color("#1B1D23") // Background
	Base02 = lipgloss.Color("#262831") // Darker background
	Base01 = lipgloss.Color("#6C7280") // Muted text
	Base2  = lipgloss.Color("#ECEFF4") // Primary text
	Base1  = lipgloss.Color("#B4BCC8") // Secondary text
)

// Palette provides a centralized color management
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
	Info      lipgloss.Color

	Background    lipgloss.Color
	BackgroundAlt lipgloss.Color
	Text          lipgloss.Color
	TextMuted     lipgloss.Color
	TextSecondary lipgloss.Color

	// Grades map A+..F onto a green to red scale.
	GradeA lipgloss.Color
	GradeB lipgloss.Color
	GradeC lipgloss.Color
	GradeD lipgloss.Color
	GradeF lipgloss.Color
}

// DefaultPalette returns the default color palette
func DefaultPalette() Palette {
	return Palette{
		Primary:   Cyan,
		Secondary: Magenta,
		Success:   Green,
		Error:     Red,
		Warning:   Yellow,
		Info:      Blue,

		Background:    Base03,
		BackgroundAlt: Base02,
		Text:          Base2,
		TextMuted:     Base01,
		TextSecondary: Base1,

		GradeA: Green,
		GradeB: Cyan,
		GradeC: Yellow,
		GradeD: Orange,
		GradeF: Red,
	}
}

// Grade picks the color for a deal score letter grade.
func (p Palette) Grade(grade string) lipgloss.Color {
	if grade == "" {
		return p.TextMuted
	}
	switch grade[0] {
	case 'A':
		return p.GradeA
	case 'B':
		return p.GradeB
	case 'C':
		return p.GradeC
	case 'D':
		return p.GradeD
	default:
		return p.GradeF
	}
}
