package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"go-notefall/song"
)

var inspectJSON bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print the assembled song as JSON")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Shows the tracks and notes of a MIDI file",
	Long:  `Shows the tracks and notes of a MIDI file`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := song.Load(args[0])
		if err != nil {
			return err
		}
		return inspect(cmd.OutOrStdout(), f, inspectJSON)
	},
}

func inspect(w io.Writer, f *song.File, asJSON bool) error {
	candidates := f.Candidates()

	if asJSON {
		s, err := f.Song(candidates)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	fmt.Fprintf(w, "file:     %s\n", f.Path)
	fmt.Fprintf(w, "timebase: %s\n", f.TimeBase)
	fmt.Fprintf(w, "tempo:    %.2f bpm\n", f.Tempo())
	fmt.Fprintf(w, "tracks:   %d\n\n", len(f.Tracks))

	for _, c := range candidates {
		mark := " "
		if c.Selected {
			mark = "*"
		}
		notes, stats, err := song.ExtractStats(c.Track, f.TimeBase, f.Tempo())
		if err != nil {
			fmt.Fprintf(w, "%s %2d %-20s %v\n", mark, c.Index, c.Name, err)
			continue
		}
		fmt.Fprintf(w, "%s %2d %-20s notes=%d", mark, c.Index, c.Name, len(notes))
		if stats.DanglingOn+stats.DanglingOff+stats.Retriggered+stats.OutOfRange > 0 {
			fmt.Fprintf(w, " dangling=%d/%d retriggered=%d out-of-range=%d",
				stats.DanglingOn, stats.DanglingOff, stats.Retriggered, stats.OutOfRange)
		}
		fmt.Fprintln(w)
	}

	s, err := f.Song(candidates)
	if err != nil {
		fmt.Fprintf(w, "\n%v\n", err)
		return nil
	}
	fmt.Fprintf(w, "\nselected: %d tracks, %d notes, %.2fs\n", len(s.Tracks), s.NoteCount(), s.Duration)
	return nil
}
