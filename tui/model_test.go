package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-notefall/config"
	"go-notefall/midi"
	"go-notefall/song"
	"go-notefall/theme"
)

// two hands at 120bpm, 100 ticks per quarter: 0.5s and 1s notes
func testFile() *song.File {
	return &song.File{
		Path:     "test.mid",
		TimeBase: song.MusicalTimeBase(100),
		Tracks: []song.RawTrack{
			{song.Tempo(0, 120), song.TrackName(0, "meta")},
			{song.TrackName(0, "Right Hand"), song.NoteOn(0, 60, 100), song.NoteOff(100, 60)},
			{song.TrackName(0, "Left Hand"), song.NoteOn(0, 48, 90), song.NoteOff(200, 48)},
		},
	}
}

func testModel(t *testing.T) Model {
	t.Setenv("HOME", t.TempDir())
	out, err := midi.OpenOutput("", 0, 100, 0)
	require.NoError(t, err)
	return NewModel(testFile(), config.DefaultConfig(), theme.New(theme.DefaultPalette()), out)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestMenuRequiresSelection(t *testing.T) {
	m := testModel(t)
	require.Len(t, m.candidates, 2)
	assert.True(t, m.candidates[0].Selected)
	assert.True(t, m.candidates[1].Selected)

	m, _ = send(m, runes("x"))
	m, _ = send(m, runes("j"))
	m, _ = send(m, runes("x"))
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, screenMenu, m.screen)
	assert.Equal(t, song.ErrNoTrackSelected.Error(), m.message)
	assert.Contains(t, m.View(), song.ErrNoTrackSelected.Error())

	m, _ = send(m, runes("x"))
	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, screenPlayer, m.screen)
	assert.NotNil(t, cmd)
	require.NotNil(t, m.sched)
	assert.Len(t, m.sched.Song().Tracks, 1)
	assert.Equal(t, float32(1), m.sched.Song().Duration)
}

func TestPlayerKeys(t *testing.T) {
	m := testModel(t)
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, screenPlayer, m.screen)

	m, _ = send(m, tickMsg{gen: m.gen})
	assert.False(t, m.frame.Playing)
	assert.InDelta(t, m.sched.ProgressMin(), m.frame.Progress, 1e-9)

	m, _ = send(m, runes("p"))
	assert.True(t, m.sched.Playing())

	m, _ = send(m, runes("+"))
	assert.InDelta(t, 1.1, m.sched.Speed(), 1e-9)
	m, _ = send(m, runes("-"))
	m, _ = send(m, runes("-"))
	assert.InDelta(t, 0.9, m.sched.Speed(), 1e-9)

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.True(t, m.sched.Dragging())
	assert.Equal(t, 1.0, m.sched.Progress())

	m, _ = send(m, seekDoneMsg{})
	assert.False(t, m.sched.Dragging())

	m, _ = send(m, runes("m"))
	assert.True(t, m.Output.Muted())
}

func TestStaleTicksAreDropped(t *testing.T) {
	m := testModel(t)
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})

	m, cmd := send(m, tickMsg{gen: m.gen - 1})
	assert.Nil(t, cmd)
	m, cmd = send(m, tickMsg{gen: m.gen})
	assert.NotNil(t, cmd)
}

func TestBackToMenu(t *testing.T) {
	m := testModel(t)
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = send(m, runes("p"))
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, screenMenu, m.screen)
	assert.False(t, m.sched.Playing())
}

func TestPlayerView(t *testing.T) {
	m := testModel(t)
	m, _ = send(m, tea.WindowSizeMsg{Width: 120, Height: 30})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = send(m, tickMsg{gen: m.gen})

	v := m.View()
	assert.Contains(t, v, "PAUSE")
	assert.Contains(t, v, "Right Hand")
	assert.Contains(t, v, "-0:05 / 0:01")
}

func TestQuitSavesConfig(t *testing.T) {
	m := testModel(t)
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = send(m, runes("+"))
	m, cmd := send(m, runes("q"))
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())

	path, err := config.Path()
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "test.mid", cfg.UI.LastFile)
	assert.InDelta(t, 1.1, cfg.Playback.Speed, 1e-9)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".config", "go-notefall", "config.json"), path)
}

func TestClock(t *testing.T) {
	assert.Equal(t, "0:00", clock(0))
	assert.Equal(t, "1:05", clock(65.9))
	assert.Equal(t, "-0:05", clock(-5))
}
