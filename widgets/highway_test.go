package widgets

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"go-notefall/player"
	"go-notefall/song"
	"go-notefall/theme"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func testHighway(cols int) *Highway {
	return &Highway{
		Theme:     theme.New(theme.DefaultPalette()),
		Rows:      4,
		Lookahead: 2,
		Columns:   cols,
	}
}

func testSong() *song.Song {
	return &song.Song{
		Duration: 3,
		Tracks: [][]song.Note{
			{
				{KeyIndex: 10, Start: 0, End: 1, Duration: 1},
				{KeyIndex: 30, Start: 2.5, End: 3, Duration: 0.5}, // past the horizon
			},
			{
				{KeyIndex: 12, Sharp: true, Start: 1, End: 2, Duration: 1},
			},
		},
	}
}

func TestColumnsFor(t *testing.T) {
	assert.Equal(t, WideColumns, ColumnsFor(120))
	assert.Equal(t, WideColumns, ColumnsFor(104))
	assert.Equal(t, CompactColumns, ColumnsFor(80))
}

func TestHighwayGrid(t *testing.T) {
	h := testHighway(WideColumns)
	g := h.grid(testSong(), 0)

	// rows cover [1.5,2) [1,1.5) [0.5,1) [0,0.5) from the top
	assert.Len(t, g, 4)
	for r, row := range g {
		assert.Len(t, row, song.WhiteKeyCount*WideColumns)

		white := row[20]
		if r >= 2 {
			assert.Equal(t, 0, white.track, "row %d", r)
		} else {
			assert.Equal(t, -1, white.track, "row %d", r)
		}

		sharp := row[25]
		if r <= 1 {
			assert.Equal(t, 1, sharp.track, "row %d", r)
			assert.True(t, sharp.sharp)
		} else {
			assert.Equal(t, -1, sharp.track, "row %d", r)
		}
	}

	// note starting beyond the lookahead is not drawn
	for _, row := range g {
		assert.Equal(t, -1, row[60].track)
	}
}

func TestHighwayScrolls(t *testing.T) {
	h := testHighway(CompactColumns)
	g := h.grid(testSong(), 1)

	// the first note has ended, the sharp is in the bottom two rows
	for r, row := range g {
		assert.Equal(t, -1, row[10].track, "row %d", r)
	}
	assert.Equal(t, 1, g[3][12].track)
	assert.Equal(t, 1, g[2][12].track)
	assert.Equal(t, -1, g[1][12].track)
	assert.Equal(t, h.Theme.Symbols.NoteSharp, g[3][12].ch)
}

func TestHighwaySkipsNotesBeforeFrom(t *testing.T) {
	h := testHighway(WideColumns)
	h.From = []int{1}
	g := h.grid(testSong(), 0)

	for r, row := range g {
		assert.Equal(t, -1, row[20].track, "row %d", r)
	}
	// the second track has no entry and is drawn from its first note
	assert.Equal(t, 1, g[0][25].track)

	h.From = []int{5}
	g = h.grid(testSong(), 0)
	assert.Equal(t, 0, g[3][20].track)
}

func TestHighwayView(t *testing.T) {
	h := testHighway(CompactColumns)
	out := h.View(testSong(), 0)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 4)
	for _, l := range lines {
		assert.Equal(t, song.WhiteKeyCount, utf8.RuneCountInString(l))
	}
	assert.Contains(t, lines[3], string(h.Theme.Symbols.NoteWhite))

	empty := h.View(nil, 0)
	assert.NotContains(t, empty, string(h.Theme.Symbols.NoteWhite))
}

func TestKeyboard(t *testing.T) {
	th := theme.New(theme.DefaultPalette())
	active := []player.ActiveNote{{Key: song.Key{Index: 0}, Track: 0}}

	out := Keyboard(th, active, 1, WideColumns)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, song.WhiteKeyCount*2, utf8.RuneCountInString(lines[0]))
	assert.Equal(t, song.WhiteKeyCount*2, utf8.RuneCountInString(lines[1]))
	assert.True(t, strings.HasPrefix(lines[1], string(th.Symbols.KeyActive)))

	compact := strings.Split(Keyboard(th, nil, 1, CompactColumns), "\n")
	assert.Equal(t, song.WhiteKeyCount, utf8.RuneCountInString(compact[1]))
	assert.NotContains(t, compact[1], string(th.Symbols.KeyActive))
}

func TestProgressBar(t *testing.T) {
	th := theme.New(theme.DefaultPalette())

	bar := ProgressBar(th, 0.5, 0, 11)
	assert.Equal(t, 11, utf8.RuneCountInString(bar))
	assert.Equal(t, 5, strings.IndexRune(bar, th.Symbols.BarHead)/utf8.RuneLen(th.Symbols.BarDone))

	start := ProgressBar(th, -0.5, -0.5, 10)
	assert.True(t, strings.HasPrefix(start, string(th.Symbols.BarHead)))

	end := ProgressBar(th, 2, 0, 10)
	assert.True(t, strings.HasSuffix(end, string(th.Symbols.BarHead)))

	assert.Empty(t, ProgressBar(th, 0.5, 0, 0))
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeySection{
		{Title: "Play", Keys: []KeyBinding{{Key: "space", Desc: "play/pause"}}},
	})
	assert.Equal(t, "Play\n  space        play/pause", out)
	assert.Equal(t, "space:play  q:quit", RenderKeyLine([]KeyBinding{{"space", "play"}, {"q", "quit"}}))
}
