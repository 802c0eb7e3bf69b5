package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-notefall/player"
	"go-notefall/song"
	"go-notefall/theme"
)

// Columns per white key. Wide layouts give sharps their own column between
// the white keys, compact ones draw them on the left half of their white key.
const (
	WideColumns    = 2
	CompactColumns = 1
)

// ColumnsFor picks the layout that fits width
func ColumnsFor(width int) int {
	if width >= WideColumns*song.WhiteKeyCount {
		return WideColumns
	}
	return CompactColumns
}

// cell is one character of the highway grid
type cell struct {
	ch    rune
	track int // -1 = empty
	sharp bool
}

// column returns the grid column of key k
func column(k song.Key, cols int) int {
	c := int(k.Index) * cols
	if k.Sharp && cols == WideColumns {
		c++
	}
	return c
}

// Highway is the falling-note view: rows of lookahead time over the keyboard
type Highway struct {
	Theme     *theme.Theme
	Rows      int
	Lookahead float64 // seconds shown, bottom row is now
	Columns   int     // WideColumns or CompactColumns

	// From holds the first note to draw per track, usually the scheduler
	// pointers. Missing tracks start at 0.
	From []int
}

// grid lays out the notes of s visible at played. Row 0 is the top (latest).
func (h *Highway) grid(s *song.Song, played float64) [][]cell {
	width := song.WhiteKeyCount * h.Columns
	g := make([][]cell, h.Rows)
	for r := range g {
		g[r] = make([]cell, width)
		for c := range g[r] {
			g[r][c] = cell{ch: h.Theme.Symbols.Lane, track: -1}
			if c%(7*h.Columns) == song.KeyOffset*h.Columns {
				g[r][c].ch = h.Theme.Symbols.Octave
			}
			if h.Columns == WideColumns && c%2 == 1 {
				g[r][c].ch = ' '
			}
		}
	}
	if h.Rows == 0 || s == nil {
		return g
	}

	rowSpan := h.Lookahead / float64(h.Rows)
	horizon := played + h.Lookahead

	for t, notes := range s.Tracks {
		first := 0
		if t < len(h.From) && h.From[t] >= 0 && h.From[t] <= len(notes) {
			first = h.From[t]
		}
		for _, n := range notes[first:] {
			start, end := float64(n.Start), float64(n.End)
			if start >= horizon {
				break // sorted by start
			}
			if end <= played {
				continue
			}
			col := column(n.Key(), h.Columns)
			sym := h.Theme.Symbols.NoteWhite
			if n.Sharp && h.Columns == CompactColumns {
				sym = h.Theme.Symbols.NoteSharp
			}
			for r := 0; r < h.Rows; r++ {
				lo := played + float64(h.Rows-1-r)*rowSpan
				hi := lo + rowSpan
				if start < hi && end > lo {
					g[r][col] = cell{ch: sym, track: t, sharp: n.Sharp}
				}
			}
		}
	}
	return g
}

// View renders the highway for the song at played seconds
func (h *Highway) View(s *song.Song, played float64) string {
	g := h.grid(s, played)
	tracks := 0
	if s != nil {
		tracks = len(s.Tracks)
	}

	lines := make([]string, len(g))
	for r, row := range g {
		lines[r] = h.renderRow(row, tracks)
	}
	return strings.Join(lines, "\n")
}

// renderRow styles runs of equal cells together
func (h *Highway) renderRow(row []cell, tracks int) string {
	var out strings.Builder
	var run strings.Builder
	cur := cell{track: -2}

	flush := func() {
		if run.Len() == 0 {
			return
		}
		out.WriteString(h.style(cur, tracks).Render(run.String()))
		run.Reset()
	}

	for _, c := range row {
		if c.track != cur.track || c.sharp != cur.sharp {
			flush()
			cur = c
		}
		run.WriteRune(c.ch)
	}
	flush()
	return out.String()
}

func (h *Highway) style(c cell, tracks int) lipgloss.Style {
	switch {
	case c.track < 0:
		return lipgloss.NewStyle().Foreground(h.Theme.Muted())
	case c.sharp:
		return lipgloss.NewStyle().Foreground(h.Theme.SharpColor(c.track, tracks))
	default:
		return lipgloss.NewStyle().Foreground(h.Theme.TrackColor(c.track, tracks))
	}
}

// Keyboard renders the key strip under the highway, lighting active keys
// in the color of the track holding them.
func Keyboard(th *theme.Theme, active []player.ActiveNote, tracks, cols int) string {
	held := make(map[song.Key]int, len(active))
	for _, a := range active {
		held[a.Key] = a.Track
	}

	idle := lipgloss.NewStyle().Foreground(th.FG())
	dim := lipgloss.NewStyle().Foreground(th.Muted())
	lit := func(k song.Key, track int) string {
		c := th.TrackColor(track, tracks)
		if k.Sharp {
			c = th.SharpColor(track, tracks)
		}
		return lipgloss.NewStyle().Foreground(c).Render(string(th.Symbols.KeyActive))
	}

	var blacks, whites strings.Builder
	for i := 0; i < song.WhiteKeyCount; i++ {
		white := song.Key{Index: uint8(i)}
		sharp := song.Key{Index: uint8(i), Sharp: true}

		if t, ok := held[white]; ok {
			whites.WriteString(lit(white, t))
		} else {
			whites.WriteString(idle.Render(string(th.Symbols.KeyWhite)))
		}

		// compact layouts draw the sharp above its white key
		b := " "
		if white.HasSharp() {
			if t, ok := held[sharp]; ok {
				b = lit(sharp, t)
			} else {
				b = dim.Render(string(th.Symbols.KeyActive))
			}
		}

		if cols == WideColumns {
			blacks.WriteString(" ")
			blacks.WriteString(b)
			whites.WriteString(" ")
		} else {
			blacks.WriteString(b)
		}
	}
	return blacks.String() + "\n" + whites.String()
}

// ProgressBar renders a bar of width cells for progress in [min, 1]
func ProgressBar(th *theme.Theme, progress, lo float64, width int) string {
	if width < 1 {
		return ""
	}
	norm := 0.0
	if lo < 1 {
		norm = (progress - lo) / (1 - lo)
	}
	if norm < 0 {
		norm = 0
	}
	if norm > 1 {
		norm = 1
	}
	head := int(norm * float64(width-1))

	done := lipgloss.NewStyle().Foreground(th.Accent())
	todo := lipgloss.NewStyle().Foreground(th.Muted())
	return done.Render(strings.Repeat(string(th.Symbols.BarDone), head)) +
		done.Render(string(th.Symbols.BarHead)) +
		todo.Render(strings.Repeat(string(th.Symbols.BarTodo), width-1-head))
}
