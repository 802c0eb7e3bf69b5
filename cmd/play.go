package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"go-notefall/config"
	"go-notefall/debug"
	"go-notefall/midi"
	"go-notefall/player"
	"go-notefall/song"
	"go-notefall/theme"
	"go-notefall/tui"
)

var playFlags struct {
	speed    float64
	port     string
	mute     bool
	headless bool
	menu     bool
}

func init() {
	f := playCmd.Flags()
	f.Float64Var(&playFlags.speed, "speed", 0, "playback speed 0-3 (default from config)")
	f.StringVar(&playFlags.port, "port", "", "MIDI output port for note sounds (default from config)")
	f.BoolVar(&playFlags.mute, "mute", false, "no note sounds")
	f.BoolVar(&playFlags.headless, "headless", false, "print notes instead of drawing the keyboard")
	f.BoolVar(&playFlags.menu, "menu", true, "choose tracks before playing")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play <file.mid>",
	Short: "Plays a MIDI file",
	Long:  `Plays a MIDI file as falling notes. Tracks named like "Right Hand" are preselected.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		if cmd.Flags().Changed("speed") {
			cfg.Playback.Speed = playFlags.speed
		}
		if cmd.Flags().Changed("port") {
			cfg.Audio.PortName = playFlags.port
		}
		if playFlags.mute {
			cfg.Audio.NoteSounds = false
		}

		f, err := song.Load(args[0])
		if err != nil {
			return err
		}

		out, err := openOutput(cfg)
		if err != nil {
			return err
		}

		headless := playFlags.headless || !isatty.IsTerminal(os.Stdout.Fd())
		if headless {
			defer out.Close()
			s, err := f.Song(f.Candidates())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runHeadless(ctx, cmd.OutOrStdout(), s, cfg.Player(), out, time.Second/60)
		}

		palette, err := theme.LoadOrDefault(cfg.UI.Palette)
		if err != nil {
			cmd.PrintErrf("palette: %v, using default\n", err)
		}
		th := theme.New(palette)

		var m tui.Model
		if playFlags.menu {
			m = tui.NewModel(f, cfg, th, out)
		} else {
			s, err := f.Song(f.Candidates())
			if err != nil {
				out.Close()
				return err
			}
			if m, err = tui.NewPlayerModel(f, s, cfg, th, out); err != nil {
				out.Close()
				return err
			}
		}

		p := tea.NewProgram(m, tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

// openOutput opens the configured port, or a silent output when sounds are off
func openOutput(cfg *config.Config) (*midi.Output, error) {
	name := cfg.Audio.PortName
	if !cfg.Audio.NoteSounds {
		name = ""
	}
	return midi.OpenOutput(name, cfg.Audio.Channel, cfg.Audio.Velocity, midi.DefaultScanTimeout)
}

// runHeadless plays s once through, printing note transitions to w
func runHeadless(ctx context.Context, w io.Writer, s *song.Song, cfg player.Config, out *midi.Output, interval time.Duration) error {
	sched, err := player.New(s, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%d tracks, %d notes, %.2fs\n", len(s.Tracks), s.NoteCount(), s.Duration)

	start := time.Now()
	sched.Play()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		f := sched.Tick(time.Since(start).Seconds())
		if err := out.Apply(f); err != nil {
			debug.Log("midi", "apply: %v", err)
		}
		printFrame(w, s, f)
		if f.Looped {
			fmt.Fprintln(w, "done")
			return nil
		}
	}
}

func printFrame(w io.Writer, s *song.Song, f player.Frame) {
	name := func(track int) string {
		if track < len(s.Names) {
			return s.Names[track]
		}
		return song.UnknownTrackName
	}
	for _, n := range f.Released {
		fmt.Fprintf(w, "%8.3f  off %-4s %s\n", f.Played, n.Key, name(n.Track))
	}
	for _, n := range f.Started {
		fmt.Fprintf(w, "%8.3f  on  %-4s %s\n", f.Played, n.Key, name(n.Track))
	}
}
