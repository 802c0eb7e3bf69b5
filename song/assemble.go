package song

import (
	"errors"
	"fmt"
	"sort"

	"go-notefall/debug"
)

var ErrNoTrackSelected = errors.New("select at least one track")

// TempoOf returns the first tempo found in track 0, or DefaultTempo.
func TempoOf(tracks []RawTrack) float64 {
	if len(tracks) == 0 {
		return DefaultTempo
	}
	for _, ev := range tracks[0] {
		if ev.Kind == EventTempo && ev.BPM > 0 {
			return ev.BPM
		}
	}
	return DefaultTempo
}

// Assemble extracts every selected candidate into a Song. On error no Song
// is returned, so the caller's previous Song stays authoritative.
func Assemble(candidates []TrackCandidate, bpm float64, tb TimeBase) (*Song, error) {
	if SelectedCount(candidates) == 0 {
		return nil, ErrNoTrackSelected
	}

	s := &Song{}
	for _, c := range candidates {
		if !c.Selected {
			continue
		}

		notes, stats, err := ExtractStats(c.Track, tb, bpm)
		if err != nil {
			return nil, fmt.Errorf("track %d (%s): %w", c.Index, c.Name, err)
		}
		debug.Log("extract", "track=%d name=%q notes=%d danglingOff=%d danglingOn=%d retrig=%d outOfRange=%d",
			c.Index, c.Name, len(notes), stats.DanglingOff, stats.DanglingOn, stats.Retriggered, stats.OutOfRange)

		// note-off order is not start order when notes overlap
		sort.SliceStable(notes, func(i, j int) bool {
			return notes[i].Start < notes[j].Start
		})

		for _, n := range notes {
			if n.End > s.Duration {
				s.Duration = n.End
			}
		}
		if notes == nil {
			notes = []Note{}
		}
		s.Tracks = append(s.Tracks, notes)
		s.Names = append(s.Names, c.Name)
	}

	return s, nil
}
