package main

import (
	"fmt"
	"os"
	"time"

	"go-notefall/midi"
	"go-notefall/player"
	"go-notefall/song"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "scale":
		if len(os.Args) < 3 {
			usage()
			return
		}
		playScale(os.Args[2])
	case "range":
		if len(os.Args) < 3 {
			usage()
			return
		}
		playRange(os.Args[2])
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list          - List MIDI output ports")
	fmt.Println("  scale <port>  - Play a C major scale from C3")
	fmt.Println("  range <port>  - Play the lowest A and every C up the keyboard")
}

func listPorts() {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	names, err := midi.Ports(midi.DefaultScanTimeout)
	if err != nil {
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}
	for i, n := range names {
		fmt.Printf("  %d: %s\n", i, n)
	}
}

func open(port string) *midi.Output {
	out, err := midi.OpenOutput(port, 0, 100, midi.DefaultScanTimeout)
	if err != nil {
		fmt.Printf("Error opening port: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Using output: %s\n", out.Name())
	return out
}

// strike sounds p for d through the same path the player uses
func strike(out *midi.Output, p song.Pitch, d time.Duration) {
	k, ok := p.Key()
	if !ok {
		fmt.Printf("  %d is off the keyboard\n", p)
		return
	}
	n := []player.ActiveNote{{Key: k}}
	fmt.Printf("  %-4s index %2d\n", k, k.Index)
	out.Apply(player.Frame{Started: n})
	time.Sleep(d)
	out.Apply(player.Frame{Released: n})
}

func playScale(port string) {
	out := open(port)
	defer out.Close()

	for _, semi := range []song.Pitch{0, 2, 4, 5, 7, 9, 11, 12} {
		strike(out, 60+semi, 250*time.Millisecond)
	}
	fmt.Println("Done!")
}

func playRange(port string) {
	out := open(port)
	defer out.Close()

	strike(out, 21, 200*time.Millisecond)
	for c := song.Pitch(24); c <= 108; c += 12 {
		strike(out, c, 200*time.Millisecond)
	}
	fmt.Println("Done!")
}
