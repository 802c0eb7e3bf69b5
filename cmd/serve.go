package cmd

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"go-notefall/server"
	"go-notefall/song"
)

var serveFlags struct {
	addr string
	port string
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&serveFlags.port, "port", "", "MIDI output port for note sounds (default from config)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve <file.mid>",
	Short: "Serves playback state over HTTP",
	Long:  `Serves the song and its playback state over HTTP for a browser or headset renderer`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		if cmd.Flags().Changed("port") {
			cfg.Audio.PortName = serveFlags.port
		}

		f, err := song.Load(args[0])
		if err != nil {
			return err
		}
		s, err := f.Song(f.Candidates())
		if err != nil {
			return err
		}

		out, err := openOutput(cfg)
		if err != nil {
			return err
		}
		defer out.Close()

		srv, err := server.New(s, cfg.Player(), out)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		cmd.Printf("serving %s on %s (session %s)\n", f.Path, serveFlags.addr, srv.Session())
		return srv.ListenAndServe(ctx, serveFlags.addr)
	},
}
