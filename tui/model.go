package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/bep/debounce"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-notefall/config"
	"go-notefall/debug"
	"go-notefall/midi"
	"go-notefall/player"
	"go-notefall/song"
	"go-notefall/theme"
	"go-notefall/widgets"
)

const (
	fps       = 60
	speedStep = 0.1
	seekStep  = 5.0 // seconds per arrow press
	seekIdle  = 400 * time.Millisecond
)

type screen int

const (
	screenMenu screen = iota
	screenPlayer
)

type Model struct {
	File   *song.File
	Config *config.Config
	Theme  *theme.Theme
	Output *midi.Output

	screen     screen
	candidates []song.TrackCandidate
	cursor     int
	message    string

	sched *player.Scheduler
	frame player.Frame
	start time.Time
	gen   int // tick loop generation, bumped per loaded song

	seekDebounce func(func())
	seekDone     chan struct{}

	width, height int
	quitting      bool
}

type tickMsg struct{ gen int }

type seekDoneMsg struct{}

// NewModel starts on the track menu for f. out may be silent but not nil.
func NewModel(f *song.File, cfg *config.Config, th *theme.Theme, out *midi.Output) Model {
	return Model{
		File:         f,
		Config:       cfg,
		Theme:        th,
		Output:       out,
		candidates:   f.Candidates(),
		start:        time.Now(),
		seekDebounce: debounce.New(seekIdle),
		seekDone:     make(chan struct{}, 1),
		width:        80,
		height:       24,
	}
}

// NewPlayerModel skips the menu and plays s directly
func NewPlayerModel(f *song.File, s *song.Song, cfg *config.Config, th *theme.Theme, out *midi.Output) (Model, error) {
	m := NewModel(f, cfg, th, out)
	if err := m.load(s); err != nil {
		return m, err
	}
	return m, nil
}

func tick(gen int) tea.Cmd {
	return tea.Tick(time.Second/fps, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// ListenForSeekEnd waits for the debounced end of an arrow-key seek
func ListenForSeekEnd(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return seekDoneMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	if m.screen == screenPlayer {
		return tea.Batch(tick(m.gen), ListenForSeekEnd(m.seekDone))
	}
	return ListenForSeekEnd(m.seekDone)
}

// load builds the scheduler for s and switches to the player
func (m *Model) load(s *song.Song) error {
	sched, err := player.New(s, m.Config.Player())
	if err != nil {
		return err
	}
	m.sched = sched
	m.frame = player.Frame{}
	m.gen++
	m.screen = screenPlayer
	m.message = ""
	debug.Log("tui", "loaded %d tracks, %.1fs", len(s.Tracks), s.Duration)
	return nil
}

func (m Model) now() float64 {
	return time.Since(m.start).Seconds()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.shutdown()
			return m, tea.Quit
		}
		if m.screen == screenMenu {
			return m.updateMenu(msg)
		}
		return m.updatePlayer(msg)

	case tickMsg:
		if m.screen != screenPlayer || msg.gen != m.gen {
			return m, nil
		}
		m.frame = m.sched.Tick(m.now())
		if err := m.Output.Apply(m.frame); err != nil {
			debug.Log("midi", "apply: %v", err)
		}
		return m, tick(m.gen)

	case seekDoneMsg:
		if m.sched != nil && m.sched.Dragging() {
			m.sched.EndSeek()
		}
		return m, ListenForSeekEnd(m.seekDone)
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.candidates)-1 {
			m.cursor++
		}
	case " ", "space", "x":
		if m.cursor < len(m.candidates) {
			m.candidates[m.cursor].Selected = !m.candidates[m.cursor].Selected
			m.message = ""
		}
	case "enter":
		s, err := m.File.Song(m.candidates)
		if err != nil {
			m.message = err.Error()
			return m, nil
		}
		if err := m.load(s); err != nil {
			m.message = err.Error()
			return m, nil
		}
		return m, tick(m.gen)
	}
	return m, nil
}

func (m Model) updatePlayer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ", "space", "p":
		m.sched.Toggle()

	case "+", "=":
		m.sched.SetSpeed(m.sched.Speed() + speedStep)

	case "-", "_":
		m.sched.SetSpeed(m.sched.Speed() - speedStep)

	case "left", "h":
		m.seek(-seekStep)

	case "right", "l":
		m.seek(seekStep)

	case "m":
		if err := m.Output.SetMuted(!m.Output.Muted()); err != nil {
			debug.Log("midi", "mute: %v", err)
		}

	case "esc", "backspace":
		if len(m.candidates) == 0 {
			break
		}
		m.sched.Pause()
		if err := m.Output.Panic(); err != nil {
			debug.Log("midi", "panic: %v", err)
		}
		m.screen = screenMenu
	}
	return m, nil
}

// seek moves the playhead by delta seconds. Repeated presses extend one drag
// which ends once the keys go quiet.
func (m *Model) seek(delta float64) {
	if !m.sched.Dragging() {
		m.sched.BeginSeek()
	}
	d := float64(m.sched.Song().Duration)
	m.sched.SeekTo(m.sched.Progress() + delta/d)

	done := m.seekDone
	m.seekDebounce(func() {
		select {
		case done <- struct{}{}:
		default:
		}
	})
}

func (m *Model) shutdown() {
	if m.sched != nil {
		m.Config.Playback.Speed = m.sched.Speed()
	}
	m.Config.UI.LastFile = m.File.Path
	if err := m.Config.Save(); err != nil {
		debug.Log("config", "save: %v", err)
	}
	if err := m.Output.Close(); err != nil {
		debug.Log("midi", "close: %v", err)
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.screen == screenMenu {
		return m.menuView()
	}
	return m.playerView()
}

func (m Model) menuView() string {
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	cursorStyle := lipgloss.NewStyle().Foreground(m.Theme.FG()).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render(fmt.Sprintf("go-notefall  %s  %s  %.0fbpm", m.File.Path, m.File.TimeBase, m.File.Tempo())))
	out.WriteString("\n\n")

	if len(m.candidates) == 0 {
		out.WriteString(dimStyle.Render("  no note tracks"))
		out.WriteString("\n")
	}
	for i, c := range m.candidates {
		box := "[ ]"
		if c.Selected {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %2d %s", box, c.Index, c.Name)
		if i == m.cursor {
			out.WriteString(cursorStyle.Render("> " + line))
		} else {
			out.WriteString(dimStyle.Render("  " + line))
		}
		out.WriteString("\n")
	}

	if m.message != "" {
		out.WriteString("\n")
		out.WriteString(warnStyle.Render(m.message))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render(widgets.RenderKeyLine([]widgets.KeyBinding{
		{Key: "j/k", Desc: "move"},
		{Key: "space", Desc: "select"},
		{Key: "enter", Desc: "play"},
		{Key: "q", Desc: "quit"},
	})))
	return out.String()
}

func (m Model) playerView() string {
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	s := m.sched.Song()
	cols := widgets.ColumnsFor(m.width)

	playState := "PAUSE"
	switch {
	case m.frame.Dragging:
		playState = "SEEK"
	case m.frame.Playing:
		playState = "PLAY"
	}
	sound := ""
	switch {
	case m.Output.Silent():
	case m.Output.Muted():
		sound = "  muted"
	default:
		sound = "  " + m.Output.Name()
	}
	header := headerStyle.Render(fmt.Sprintf("go-notefall  %-5s %.1fx  %s / %s%s",
		playState, m.sched.Speed(), clock(m.frame.Played), clock(float64(s.Duration)), sound))

	legend := widgets.RenderTrackLegend(m.Theme, s.Names, trackCounts(s))
	help := dimStyle.Render(widgets.RenderKeyLine([]widgets.KeyBinding{
		{Key: "space", Desc: "play"},
		{Key: "+/-", Desc: "speed"},
		{Key: "←/→", Desc: "seek"},
		{Key: "m", Desc: "mute"},
		{Key: "esc", Desc: "tracks"},
		{Key: "q", Desc: "quit"},
	}))

	keyboard := widgets.Keyboard(m.Theme, m.frame.Active, len(s.Tracks), cols)
	bar := widgets.ProgressBar(m.Theme, m.frame.Progress, m.sched.ProgressMin(), song.WhiteKeyCount*cols)

	// what's left goes to the highway
	used := 1 + lipgloss.Height(header) + 1 + lipgloss.Height(keyboard) + 1 + 1 + lipgloss.Height(legend) + 1 + 1
	rows := m.height - used
	if rows < 4 {
		rows = 4
	}
	hw := &widgets.Highway{
		Theme:     m.Theme,
		Rows:      rows,
		Lookahead: m.Config.UI.Lookahead,
		Columns:   cols,
		From:      m.sched.Pointers(),
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n")
	out.WriteString(hw.View(s, m.frame.Played))
	out.WriteString("\n")
	out.WriteString(keyboard)
	out.WriteString("\n")
	out.WriteString(bar)
	out.WriteString("\n\n")
	out.WriteString(legend)
	out.WriteString("\n\n")
	out.WriteString(help)
	return out.String()
}

func trackCounts(s *song.Song) []int {
	counts := make([]int, len(s.Tracks))
	for i, t := range s.Tracks {
		counts[i] = len(t)
	}
	return counts
}

// clock formats seconds as m:ss, negative during headroom
func clock(sec float64) string {
	sign := ""
	if sec < 0 {
		sign = "-"
		sec = -sec
	}
	total := int(sec)
	return fmt.Sprintf("%s%d:%02d", sign, total/60, total%60)
}
