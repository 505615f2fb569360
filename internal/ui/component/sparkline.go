package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/dealiq/internal/ui/style"
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline draws a yearly series (cash flow, equity) as one line of blocks.
type Sparkline struct {
	data     []float64
	width    int
	color    lipgloss.Color
	showText bool
}

// NewSparkline creates a new sparkline component
func NewSparkline(width int) *Sparkline {
	return &Sparkline{
		width: width,
		color: style.DefaultPalette().Primary,
	}
}

// SetData copies the data points, keeping the last width of them.
func (s *Sparkline) SetData(data []float64) *Sparkline {
	if len(data) > s.width {
		data = data[len(data)-s.width:]
	}
	s.data = append(s.data[:0], data...)
	return s
}

// SetColor sets the color for the sparkline
func (s *Sparkline) SetColor(color lipgloss.Color) *Sparkline {
	s.color = color
	return s
}

// ShowText appends the trend arrow after the blocks.
func (s *Sparkline) ShowText(show bool) *Sparkline {
	s.showText = show
	return s
}

// View renders the sparkline
func (s *Sparkline) View() string {
	blocks := lipgloss.NewStyle().Foreground(s.color).Render(s.blocks())
	if !s.showText || len(s.data) < 2 {
		return blocks
	}

	palette := style.DefaultPalette()
	trendColor := palette.TextMuted
	switch s.Trend() {
	case "↗":
		trendColor = palette.Success
	case "↘":
		trendColor = palette.Error
	}
	return blocks + " " + lipgloss.NewStyle().Foreground(trendColor).Render(s.Trend())
}

func (s *Sparkline) blocks() string {
	if len(s.data) == 0 {
		return strings.Repeat("▁", s.width)
	}

	lo, hi := s.data[0], s.data[0]
	for _, v := range s.data {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	var b strings.Builder
	for _, v := range s.data {
		if hi == lo {
			b.WriteRune('▄')
			continue
		}
		idx := int((v - lo) / (hi - lo) * float64(len(sparkChars)-1))
		b.WriteRune(sparkChars[clamp(idx, 0, len(sparkChars)-1)])
	}
	if pad := s.width - len(s.data); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	return b.String()
}

// Trend compares the last point against the first. Differences are judged
// against the larger magnitude so series crossing zero still get a direction.
func (s *Sparkline) Trend() string {
	if len(s.data) < 2 {
		return "→"
	}
	first, last := s.data[0], s.data[len(s.data)-1]
	scale := max(abs(first), abs(last))
	switch {
	case scale == 0 || abs(last-first)/scale < 0.001:
		return "→"
	case last > first:
		return "↗"
	default:
		return "↘"
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
