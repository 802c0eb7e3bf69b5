package cmd

import (
	"github.com/spf13/cobra"

	"go-notefall/config"
	"go-notefall/debug"
)

var debugDir string

var rootCmd = &cobra.Command{
	Use:   "go-notefall",
	Short: "Falling-note MIDI player",
	Long: `go-notefall reads a Standard MIDI File and plays its piano tracks as
notes falling onto an 88-key keyboard, optionally sounding them on a MIDI port.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debugDir == "" {
			return nil
		}
		return debug.Enable(debugDir)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		debug.Disable()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&debugDir, "debug", "", "write debug.log into this directory")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// loadConfig reads the user config, falling back to defaults on a bad file
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		cmd.PrintErrf("config: %v, using defaults\n", err)
		return config.DefaultConfig()
	}
	return cfg
}
