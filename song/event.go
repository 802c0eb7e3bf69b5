package song

import "gitlab.com/gomidi/midi/v2/smf"

// EventKind is the subset of MIDI messages the extractor cares about
type EventKind uint8

const (
	EventOther EventKind = iota
	EventNoteOn
	EventNoteOff
	EventTempo
	EventTrackName
)

// RawEvent is one decoded track event with its delta ticks.
type RawEvent struct {
	Delta    uint32
	Kind     EventKind
	Pitch    Pitch   // NoteOn, NoteOff
	Velocity uint8   // NoteOn
	BPM      float64 // Tempo
	Text     string  // TrackName
}

// RawTrack is an ordered event list as stored in the file.
type RawTrack []RawEvent

// Helpers for building tracks by hand.

func NoteOn(delta uint32, p Pitch, velocity uint8) RawEvent {
	return RawEvent{Delta: delta, Kind: EventNoteOn, Pitch: p, Velocity: velocity}
}

func NoteOff(delta uint32, p Pitch) RawEvent {
	return RawEvent{Delta: delta, Kind: EventNoteOff, Pitch: p}
}

func Tempo(delta uint32, bpm float64) RawEvent {
	return RawEvent{Delta: delta, Kind: EventTempo, BPM: bpm}
}

func TrackName(delta uint32, name string) RawEvent {
	return RawEvent{Delta: delta, Kind: EventTrackName, Text: name}
}

// convertEvent maps a gomidi track event. Unknown messages keep their delta
// so timing stays intact.
func convertEvent(ev smf.Event) RawEvent {
	out := RawEvent{Delta: ev.Delta}
	msg := ev.Message

	var ch, key, vel uint8
	var bpm float64
	var text string

	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		out.Kind = EventNoteOn
		out.Pitch = Pitch(key)
		out.Velocity = vel
	case msg.GetNoteOff(&ch, &key, &vel):
		out.Kind = EventNoteOff
		out.Pitch = Pitch(key)
	case msg.GetMetaTempo(&bpm):
		out.Kind = EventTempo
		out.BPM = bpm
	case msg.GetMetaTrackName(&text):
		out.Kind = EventTrackName
		out.Text = text
	}
	return out
}

// convertTrack maps a whole gomidi track.
func convertTrack(tr smf.Track) RawTrack {
	out := make(RawTrack, 0, len(tr))
	for _, ev := range tr {
		out = append(out, convertEvent(ev))
	}
	return out
}
