package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-notefall/player"
)

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
	CC      uint8 = 0xB0
)

// allNotesOff is the channel mode controller that silences a channel
const allNotesOff uint8 = 123

// Event is one outgoing message to the note-sound port
type Event struct {
	Type     uint8 // NoteOn, NoteOff, CC
	Channel  uint8
	Note     uint8 // key number, or controller for CC
	Velocity uint8 // velocity, or value for CC
}

// Message encodes the event for the wire
func (e Event) Message() gomidi.Message {
	switch e.Type {
	case NoteOn:
		return gomidi.NoteOn(e.Channel, e.Note, e.Velocity)
	case NoteOff:
		return gomidi.NoteOff(e.Channel, e.Note)
	default:
		return gomidi.ControlChange(e.Channel, e.Note, e.Velocity)
	}
}

func (e Event) String() string {
	switch e.Type {
	case NoteOn:
		return fmt.Sprintf("on  ch%d %3d vel %d", e.Channel, e.Note, e.Velocity)
	case NoteOff:
		return fmt.Sprintf("off ch%d %3d", e.Channel, e.Note)
	default:
		return fmt.Sprintf("cc  ch%d %3d=%d", e.Channel, e.Note, e.Velocity)
	}
}

// Events returns the messages a frame produces: releases first, so a key
// released and struck again in one frame ends up sounding.
func Events(f player.Frame, channel, velocity uint8) []Event {
	out := make([]Event, 0, len(f.Released)+len(f.Started))
	for _, n := range f.Released {
		out = append(out, Event{Type: NoteOff, Channel: channel, Note: uint8(n.Key.Pitch())})
	}
	for _, n := range f.Started {
		out = append(out, Event{Type: NoteOn, Channel: channel, Note: uint8(n.Key.Pitch()), Velocity: velocity})
	}
	return out
}
