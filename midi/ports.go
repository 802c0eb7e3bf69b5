package midi

import (
	"errors"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// DefaultScanTimeout bounds a port scan. CoreMIDI can hang.
const DefaultScanTimeout = 3 * time.Second

var ErrScanTimeout = errors.New("midi port scan timed out")

// Ports lists the output port names
func Ports(timeout time.Duration) ([]string, error) {
	outs, err := outPorts(timeout)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(outs))
	for i, p := range outs {
		names[i] = p.String()
	}
	return names, nil
}

func outPorts(timeout time.Duration) ([]drivers.Out, error) {
	if timeout <= 0 {
		timeout = DefaultScanTimeout
	}

	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- gomidi.GetOutPorts()
	}()

	select {
	case outs := <-ch:
		return outs, nil
	case <-time.After(timeout):
		// User needs to run: sudo killall coreaudiod midiserver
		return nil, ErrScanTimeout
	}
}
