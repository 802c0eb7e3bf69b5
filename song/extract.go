package song

// Stats counts what the extractor saw besides completed notes. None of these
// are errors: files routinely start or end mid-note.
type Stats struct {
	Paired      int // completed notes
	DanglingOff int // note-off without an open note
	DanglingOn  int // note-on still open at end of track
	Retriggered int // note-on over an already open note
	OutOfRange  int // paired notes outside the 52-key span, dropped
}

// Extract pairs note on/off events of one track into notes.
// Notes come out in note-off order. Pairs whose pitch falls outside the
// 52-key span are dropped after pairing, so the output length equals the
// matched pairs only when every pitch is on the keyboard; Stats.OutOfRange
// counts the rest.
func Extract(events RawTrack, tb TimeBase, bpm float64) ([]Note, error) {
	notes, _, err := ExtractStats(events, tb, bpm)
	return notes, err
}

// ExtractStats is Extract plus pairing statistics.
func ExtractStats(events RawTrack, tb TimeBase, bpm float64) ([]Note, Stats, error) {
	var stats Stats

	clock, err := NewClock(tb, bpm)
	if err != nil {
		return nil, stats, err
	}

	open := make(map[Pitch]float64)
	var notes []Note

	closeNote := func(p Pitch, now float64) {
		start, ok := open[p]
		if !ok {
			stats.DanglingOff++
			return
		}
		delete(open, p)
		stats.Paired++

		idx, ok := p.KeyIndex()
		if !ok {
			stats.OutOfRange++
			return
		}
		// end is derived so that End == Start+Duration holds in float32
		s, d := float32(start), float32(now-start)
		notes = append(notes, Note{
			KeyIndex: idx,
			Sharp:    p.Sharp(),
			Start:    s,
			End:      s + d,
			Duration: d,
		})
	}

	for _, ev := range events {
		now := clock.Advance(ev.Delta)

		switch ev.Kind {
		case EventNoteOn:
			// velocity 0 is a note-off by MIDI convention
			if ev.Velocity == 0 {
				closeNote(ev.Pitch, now)
				continue
			}
			if _, ok := open[ev.Pitch]; ok {
				stats.Retriggered++
			}
			open[ev.Pitch] = now
		case EventNoteOff:
			closeNote(ev.Pitch, now)
		}
	}

	stats.DanglingOn = len(open)
	return notes, stats, nil
}
