package song

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	c3 Pitch = 60
	e3 Pitch = 64
	g3 Pitch = 67
	c4 Pitch = 72
)

var tb100 = MusicalTimeBase(100)

func TestSecondsPerTick(t *testing.T) {
	assert := assert.New(t)

	spt, err := SecondsPerTick(tb100, 120)
	assert.NoError(err)
	assert.InDelta(0.005, spt, 1e-12)

	_, err = SecondsPerTick(TimeBase{Kind: Timecode, FramesPerSecond: 25, SubFrames: 40}, 120)
	assert.ErrorIs(err, ErrUnsupportedTimeBase)

	_, err = SecondsPerTick(tb100, 0)
	assert.ErrorIs(err, ErrInvalidTempo)

	_, err = SecondsPerTick(MusicalTimeBase(0), 120)
	assert.ErrorIs(err, ErrInvalidTempo)
}

func TestClockIsMonotonic(t *testing.T) {
	assert := assert.New(t)

	clock, err := NewClock(MusicalTimeBase(480), 97)
	assert.NoError(err)

	prev := clock.Seconds()
	for _, d := range []uint32{0, 1, 0, 480, 7, 0, 1920, 3} {
		now := clock.Advance(d)
		assert.GreaterOrEqual(now, prev)
		prev = now
	}
	assert.Equal(uint64(2411), clock.Tick())
	assert.InDelta(2411*clock.SecondsPerTick(), clock.Seconds(), 1e-9)
}

func TestExtractSingleNote(t *testing.T) {
	assert := assert.New(t)

	track := RawTrack{
		NoteOn(0, c4, 100),
		NoteOn(100, c4, 0),
	}
	notes, err := Extract(track, tb100, 120)
	assert.NoError(err)
	if assert.Len(notes, 1) {
		n := notes[0]
		assert.Equal(uint8(4*7+0+KeyOffset), n.KeyIndex)
		assert.False(n.Sharp)
		assert.InDelta(0.0, n.Start, 1e-6)
		assert.InDelta(0.5, n.End, 1e-6)
		assert.InDelta(0.5, n.Duration, 1e-6)
		assert.Equal(n.Start+n.Duration, n.End)
	}
}

func TestZeroVelocityMatchesNoteOff(t *testing.T) {
	withOff := RawTrack{NoteOn(10, e3, 90), NoteOff(55, e3)}
	withZero := RawTrack{NoteOn(10, e3, 90), NoteOn(55, e3, 0)}

	a, err := Extract(withOff, tb100, 140)
	assert.NoError(t, err)
	b, err := Extract(withZero, tb100, 140)
	assert.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 1)
}

func TestExtractPairsInterleavedNotes(t *testing.T) {
	assert := assert.New(t)

	track := RawTrack{
		TrackName(0, "Right Hand"),
		NoteOn(0, c3, 80),
		NoteOn(0, e3, 80),
		NoteOff(50, c3),
		NoteOn(0, g3, 80),
		NoteOff(50, e3),
		Tempo(0, 90), // ignored by the extractor
		NoteOff(25, g3),
	}
	notes, stats, err := ExtractStats(track, tb100, 120)
	assert.NoError(err)
	assert.Len(notes, 3)
	assert.Equal(3, stats.Paired)
	assert.Zero(stats.DanglingOn)
	assert.Zero(stats.DanglingOff)

	for _, n := range notes {
		assert.LessOrEqual(n.Start, n.End)
		assert.GreaterOrEqual(n.Duration, float32(0))
	}

	// note-off order
	assert.Equal(uint8(23), notes[0].KeyIndex) // C3
	assert.Equal(uint8(25), notes[1].KeyIndex) // E3
	assert.Equal(uint8(27), notes[2].KeyIndex) // G3
	assert.InDelta(0.5, notes[1].End, 1e-6)
	assert.InDelta(0.25, notes[2].Start, 1e-6)
}

func TestExtractIgnoresDanglingEvents(t *testing.T) {
	assert := assert.New(t)

	track := RawTrack{
		NoteOff(0, c3),    // track starts mid-note
		NoteOn(10, e3, 0), // zero velocity with nothing open
		NoteOn(10, g3, 64),
		NoteOff(10, g3),
		NoteOn(10, c4, 64), // never closed
	}
	notes, stats, err := ExtractStats(track, tb100, 120)
	assert.NoError(err)
	assert.Len(notes, 1)
	assert.Equal(2, stats.DanglingOff)
	assert.Equal(1, stats.DanglingOn)
}

func TestExtractRetriggerRestartsNote(t *testing.T) {
	assert := assert.New(t)

	track := RawTrack{
		NoteOn(0, c3, 64),
		NoteOn(100, c3, 64),
		NoteOff(100, c3),
		NoteOff(100, c3),
	}
	notes, stats, err := ExtractStats(track, tb100, 120)
	assert.NoError(err)
	assert.Equal(1, stats.Retriggered)
	assert.Equal(1, stats.DanglingOff)
	if assert.Len(notes, 1) {
		assert.InDelta(0.5, notes[0].Start, 1e-6)
		assert.InDelta(1.0, notes[0].End, 1e-6)
	}
}

func TestExtractDropsNotesOutsideKeyboard(t *testing.T) {
	track := RawTrack{
		NoteOn(0, 12, 64),
		NoteOff(10, 12),
		NoteOn(0, c3, 64),
		NoteOff(10, c3),
	}
	notes, stats, err := ExtractStats(track, tb100, 120)
	assert.NoError(t, err)
	assert.Len(t, notes, 1)
	assert.Equal(t, 2, stats.Paired)
	assert.Equal(t, 1, stats.OutOfRange)
}

func TestExtractRejectsTimecode(t *testing.T) {
	track := RawTrack{NoteOn(0, c3, 64), NoteOff(10, c3)}
	notes, err := Extract(track, TimeBase{Kind: Timecode, FramesPerSecond: 30, SubFrames: 80}, 120)
	assert.ErrorIs(t, err, ErrUnsupportedTimeBase)
	assert.Nil(t, notes)
}
