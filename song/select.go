package song

import "strings"

const (
	UnknownTrackName = "Unknown track"
	handKeyword      = "hand"
)

// TrackCandidate is a track offered for playback. Index is the track's
// position in the file.
type TrackCandidate struct {
	Index    int
	Name     string
	Selected bool
	Track    RawTrack
}

// TrackNameOf returns the first track name meta event, or UnknownTrackName.
func TrackNameOf(tr RawTrack) string {
	for _, ev := range tr {
		if ev.Kind == EventTrackName {
			return ev.Text
		}
	}
	return UnknownTrackName
}

// Select proposes the performable tracks. Track 0 holds tempo and meta data
// and is never a candidate. Tracks named like "... hand" are preselected;
// when none matches, the first candidate is.
func Select(tracks []RawTrack) []TrackCandidate {
	if len(tracks) <= 1 {
		return nil
	}

	candidates := make([]TrackCandidate, 0, len(tracks)-1)
	anySelected := false
	for i := 1; i < len(tracks); i++ {
		name := TrackNameOf(tracks[i])
		selected := strings.Contains(strings.ToLower(name), handKeyword)
		anySelected = anySelected || selected
		candidates = append(candidates, TrackCandidate{
			Index:    i,
			Name:     name,
			Selected: selected,
			Track:    tracks[i],
		})
	}

	if !anySelected {
		candidates[0].Selected = true
	}
	return candidates
}

// SelectedCount returns how many candidates are selected.
func SelectedCount(candidates []TrackCandidate) int {
	n := 0
	for _, c := range candidates {
		if c.Selected {
			n++
		}
	}
	return n
}
