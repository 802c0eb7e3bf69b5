package song

import (
	"errors"
	"fmt"

	"gitlab.com/gomidi/midi/v2/smf"
)

// DefaultTempo is used when the tempo track carries no tempo event.
const DefaultTempo = 120.0

var (
	ErrUnsupportedTimeBase = errors.New("timecode time base is not supported")
	ErrInvalidTempo        = errors.New("invalid tempo")
)

// TimeBaseKind tells how delta ticks relate to time
type TimeBaseKind int

const (
	Musical  TimeBaseKind = iota // ticks per quarter note
	Timecode                     // SMPTE frames
)

func (k TimeBaseKind) String() string {
	switch k {
	case Musical:
		return "musical"
	case Timecode:
		return "timecode"
	default:
		return "unknown"
	}
}

// TimeBase is the file level time division.
type TimeBase struct {
	Kind            TimeBaseKind
	TicksPerQuarter uint32 // Musical only
	FramesPerSecond uint8  // Timecode only
	SubFrames       uint8  // Timecode only
}

// MusicalTimeBase returns a ticks-per-quarter-note time base.
func MusicalTimeBase(ticksPerQuarter uint32) TimeBase {
	return TimeBase{Kind: Musical, TicksPerQuarter: ticksPerQuarter}
}

// TimeBaseFromSMF converts the gomidi time format.
func TimeBaseFromSMF(tf smf.TimeFormat) TimeBase {
	switch v := tf.(type) {
	case smf.MetricTicks:
		return MusicalTimeBase(uint32(v.Ticks4th()))
	case smf.TimeCode:
		return TimeBase{Kind: Timecode, FramesPerSecond: v.FramesPerSecond, SubFrames: v.SubFrames}
	default:
		return TimeBase{Kind: Timecode}
	}
}

func (tb TimeBase) String() string {
	if tb.Kind == Musical {
		return fmt.Sprintf("%d ticks/quarter", tb.TicksPerQuarter)
	}
	return fmt.Sprintf("timecode %d fps/%d", tb.FramesPerSecond, tb.SubFrames)
}

// SecondsPerTick returns the length of one tick at the given tempo.
func SecondsPerTick(tb TimeBase, bpm float64) (float64, error) {
	if tb.Kind != Musical {
		return 0, ErrUnsupportedTimeBase
	}
	if tb.TicksPerQuarter == 0 {
		return 0, fmt.Errorf("%w: zero ticks per quarter note", ErrInvalidTempo)
	}
	if !(bpm > 0) {
		return 0, fmt.Errorf("%w: %v bpm", ErrInvalidTempo, bpm)
	}
	return 60.0 / bpm / float64(tb.TicksPerQuarter), nil
}

// Clock accumulates delta ticks and converts them to elapsed seconds.
type Clock struct {
	secondsPerTick float64
	tick           uint64
}

// NewClock creates a clock at tick 0.
func NewClock(tb TimeBase, bpm float64) (*Clock, error) {
	spt, err := SecondsPerTick(tb, bpm)
	if err != nil {
		return nil, err
	}
	return &Clock{secondsPerTick: spt}, nil
}

// Advance adds delta ticks and returns the elapsed seconds.
func (c *Clock) Advance(delta uint32) float64 {
	c.tick += uint64(delta)
	return c.Seconds()
}

// Seconds returns the elapsed seconds at the current tick.
func (c *Clock) Seconds() float64 {
	return float64(c.tick) * c.secondsPerTick
}

// Tick returns the absolute tick.
func (c *Clock) Tick() uint64 {
	return c.tick
}

func (c *Clock) SecondsPerTick() float64 {
	return c.secondsPerTick
}
