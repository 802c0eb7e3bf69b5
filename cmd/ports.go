package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"go-notefall/midi"
)

func init() {
	rootCmd.AddCommand(portsCmd)
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "Lists MIDI output ports",
	Long:  `Lists MIDI output ports usable with --port`,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := midi.Ports(midi.DefaultScanTimeout)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(names) == 0 {
			fmt.Fprintln(w, "no MIDI output ports")
			return nil
		}
		for i, n := range names {
			fmt.Fprintf(w, "%d: %s\n", i, n)
		}
		return nil
	},
}
