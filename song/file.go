package song

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gitlab.com/gomidi/midi/v2/smf"

	"go-notefall/debug"
)

var ErrLoad = errors.New("could not load midi file")

// File is a decoded Standard MIDI File.
type File struct {
	Path     string
	TimeBase TimeBase
	Tracks   []RawTrack
}

// Load reads and decodes a MIDI file from disk.
func Load(path string) (*File, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	f, err := Read(bytes.NewReader(dat))
	if err != nil {
		return nil, err
	}
	f.Path = path
	return f, nil
}

// Read decodes a MIDI file. The smf reader can panic on truncated input,
// that is reported as a load error.
func Read(r io.Reader) (f *File, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			f = nil
			err = fmt.Errorf("%w: %v", ErrLoad, rec)
		}
	}()

	mf, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	f = &File{TimeBase: TimeBaseFromSMF(mf.TimeFormat)}
	for _, tr := range mf.Tracks {
		f.Tracks = append(f.Tracks, convertTrack(tr))
	}
	debug.Log("load", "tracks=%d timebase=%s", len(f.Tracks), f.TimeBase)
	return f, nil
}

// Tempo returns the file tempo in BPM.
func (f *File) Tempo() float64 {
	return TempoOf(f.Tracks)
}

// Candidates runs track selection over the file.
func (f *File) Candidates() []TrackCandidate {
	return Select(f.Tracks)
}

// Song assembles the selected candidates with the file's tempo and time base.
func (f *File) Song(candidates []TrackCandidate) (*Song, error) {
	return Assemble(candidates, f.Tempo(), f.TimeBase)
}
