package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Highway
	NoteWhite rune // █ falling bar on a white key column
	NoteSharp rune // ▌ falling bar for a black key (left half of the column)
	Lane      rune // · empty lane
	Octave    rune // │ lane at every C

	// Keyboard strip
	KeyWhite  rune // ▔ idle white key
	KeyActive rune // ▀ pressed key

	// Progress bar
	BarDone rune // ━
	BarTodo rune // ─
	BarHead rune // ●
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			NoteWhite: '█',
			NoteSharp: '▌',
			Lane:      '·',
			Octave:    '│',

			KeyWhite:  '▔',
			KeyActive: '▀',

			BarDone: '━',
			BarTodo: '─',
			BarHead: '●',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0
	RoleMuted   = 0.25
	RoleFG      = 1.0
	RoleAccent  = 0.75
	RoleWarning = 0.875
)

// Track colors are spread over this part of the palette
const (
	trackLo = 0.375
	trackHi = 0.875
)

// Style helpers

func (t *Theme) BG() lipgloss.Color     { return lipglossColor(t.Palette.Lookup(RoleBG)) }
func (t *Theme) FG() lipgloss.Color     { return lipglossColor(t.Palette.Lookup(RoleFG)) }
func (t *Theme) Accent() lipgloss.Color { return lipglossColor(t.Palette.Lookup(RoleAccent)) }
func (t *Theme) Muted() lipgloss.Color  { return lipglossColor(t.Palette.Lookup(RoleMuted)) }
func (t *Theme) Warning() lipgloss.Color {
	return lipglossColor(t.Palette.Lookup(RoleWarning))
}

// TrackRGB returns the color for track i of n. Track order is file order, so
// a hand keeps its color between runs.
func (t *Theme) TrackRGB(i, n int) RGB {
	if n <= 1 {
		return t.Palette.Lookup(trackLo)
	}
	norm := trackLo + (trackHi-trackLo)*float64(i)/float64(n-1)
	return t.Palette.Lookup(norm)
}

// TrackColor is TrackRGB as a lipgloss color
func (t *Theme) TrackColor(i, n int) lipgloss.Color {
	return lipglossColor(t.TrackRGB(i, n))
}

// SharpColor is the darker variant used for black keys
func (t *Theme) SharpColor(i, n int) lipgloss.Color {
	return lipglossColor(Darken(t.TrackRGB(i, n), 0.7))
}

func lipglossColor(c RGB) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
