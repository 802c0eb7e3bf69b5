package midi

import (
	"errors"
	"fmt"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-notefall/debug"
	"go-notefall/player"
)

var ErrPortNotFound = errors.New("midi output port not found")

// Sender delivers one message to a port
type Sender func(gomidi.Message) error

// Output plays the notes of scheduler frames on a MIDI port. A nil sender
// makes it silent. Safe for concurrent use.
type Output struct {
	name     string
	send     Sender
	close    func() error
	channel  uint8
	velocity uint8

	mu       sync.Mutex
	muted    bool
	sounding map[uint8]bool
}

// NewOutput wraps send. channel is 0-15.
func NewOutput(name string, send Sender, channel, velocity uint8) *Output {
	return &Output{
		name:     name,
		send:     send,
		channel:  channel & 0x0F,
		velocity: velocity,
		sounding: make(map[uint8]bool),
	}
}

// OpenOutput opens the named output port. An empty name returns a silent
// output.
func OpenOutput(portName string, channel, velocity uint8, timeout time.Duration) (*Output, error) {
	if portName == "" {
		return NewOutput("", nil, channel, velocity), nil
	}

	outs, err := outPorts(timeout)
	if err != nil {
		return nil, err
	}
	for _, port := range outs {
		if port.String() != portName {
			continue
		}
		send, err := gomidi.SendTo(port)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", portName, err)
		}
		o := NewOutput(portName, Sender(send), channel, velocity)
		o.close = port.Close
		debug.Log("midi", "opened %s ch=%d vel=%d", portName, channel, velocity)
		return o, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrPortNotFound, portName)
}

// Name returns the port name, empty when silent
func (o *Output) Name() string { return o.name }

// Silent reports whether the output has no port
func (o *Output) Silent() bool { return o.send == nil }

// Muted reports whether note sounds are off
func (o *Output) Muted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.muted
}

// SetMuted switches note sounds. Muting releases everything sounding.
func (o *Output) SetMuted(muted bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.muted = muted
	if muted {
		return o.releaseAll()
	}
	return nil
}

// Apply sends the transitions of one frame
func (o *Output) Apply(f player.Frame) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.muted || o.send == nil {
		return nil
	}

	var errs []error
	for _, ev := range Events(f, o.channel, o.velocity) {
		if ev.Type == NoteOn && o.sounding[ev.Note] {
			// still held from a note the frame didn't release
			continue
		}
		if ev.Type == NoteOff && !o.sounding[ev.Note] {
			continue
		}
		if err := o.send(ev.Message()); err != nil {
			errs = append(errs, err)
			continue
		}
		if ev.Type == NoteOn {
			o.sounding[ev.Note] = true
		} else {
			delete(o.sounding, ev.Note)
		}
	}
	return errors.Join(errs...)
}

// Sounding returns the number of notes currently held on the port
func (o *Output) Sounding() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sounding)
}

// Panic releases every sounding note and sends all-notes-off
func (o *Output) Panic() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.send == nil {
		return nil
	}
	err := o.releaseAll()
	off := Event{Type: CC, Channel: o.channel, Note: allNotesOff}
	return errors.Join(err, o.send(off.Message()))
}

// Close silences the port and closes it
func (o *Output) Close() error {
	err := o.Panic()
	if o.close != nil {
		err = errors.Join(err, o.close())
	}
	return err
}

func (o *Output) releaseAll() error {
	if o.send == nil {
		return nil
	}
	var errs []error
	for note := range o.sounding {
		ev := Event{Type: NoteOff, Channel: o.channel, Note: note}
		if err := o.send(ev.Message()); err != nil {
			errs = append(errs, err)
		}
	}
	o.sounding = make(map[uint8]bool)
	return errors.Join(errs...)
}
