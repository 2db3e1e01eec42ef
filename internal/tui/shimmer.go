package tui

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// ShimmerInterval is how often an animated shimmer advances one frame
const ShimmerInterval = 100 * time.Millisecond

// Shimmer sweeps a soft highlight across a line of text, one frame per tick,
// with a short pause between sweeps.
type Shimmer struct {
	base      colorful.Color
	highlight colorful.Color
	width     float64 // highlight width as a share of the text length
	frames    int     // frames per sweep
	pause     int     // idle frames between sweeps
	frame     int
}

// NewShimmer returns a shimmer blending base towards highlight
func NewShimmer(base, highlight string) *Shimmer {
	b, err := colorful.Hex(base)
	if err != nil {
		b, _ = colorful.Hex(ColorSecondaryText)
	}
	h, err := colorful.Hex(highlight)
	if err != nil {
		h, _ = colorful.Hex("#EAE6FF")
	}
	return &Shimmer{base: b, highlight: h, width: 0.25, frames: 18, pause: 5}
}

// Advance moves the highlight one frame
func (s *Shimmer) Advance() {
	s.frame = (s.frame + 1) % (s.frames + s.pause)
}

// Reset restarts the sweep, e.g. when the selection changes
func (s *Shimmer) Reset() {
	s.frame = 0
}

// center is the highlight position in runes for a text of n runes; the
// sweep starts and ends outside the text
func (s *Shimmer) center(n int) float64 {
	if s.frame >= s.frames {
		return math.Inf(1)
	}
	margin := float64(n) * s.width
	progress := float64(s.frame) / float64(s.frames-1)
	return -margin + progress*(float64(n)+2*margin)
}

// Render colors text for the current frame
func (s *Shimmer) Render(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	sigma := math.Max(1, s.width*float64(len(runes))/2)
	c := s.center(len(runes))

	var b strings.Builder
	for i, r := range runes {
		dx := float64(i) - c
		weight := math.Exp(-(dx * dx) / (2 * sigma * sigma))
		col := s.base.BlendLab(s.highlight, weight).Clamped()
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(col.Hex())).Render(string(r)))
	}
	return b.String()
}

// Gradient colors text with a left to right blend between two hex colors
func Gradient(text, from, to string) string {
	runes := []rune(text)
	a, errA := colorful.Hex(from)
	z, errZ := colorful.Hex(to)
	if errA != nil || errZ != nil || len(runes) < 2 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(from)).Render(text)
	}

	var b strings.Builder
	for i, r := range runes {
		t := float64(i) / float64(len(runes)-1)
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(a.BlendLuv(z, t).Clamped().Hex())).Bold(true).Render(string(r)))
	}
	return b.String()
}

// CelebrationBanner is the line printed when a task is finished or added
func CelebrationBanner(title string) string {
	return Gradient("🎉 Nice work! \""+title+"\" 🎉", ColorAccentMain, ColorWarning)
}
