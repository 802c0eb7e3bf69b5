package player

import (
	"errors"
	"sort"

	"golang.org/x/exp/constraints"

	"go-notefall/debug"
	"go-notefall/song"
)

// Speed range
const (
	MinSpeed = 0.0
	MaxSpeed = 3.0
)

var ErrEmptySong = errors.New("song has no notes")

// Config holds the scheduler settings. It replaces any global UI state.
type Config struct {
	Headroom       float64 // pre-roll before 0s, seconds
	ReleaseEpsilon float64 // notes release this long before their end
	Speed          float64 // playback rate
}

// DefaultConfig returns the standard settings
func DefaultConfig() Config {
	return Config{
		Headroom:       5.0,
		ReleaseEpsilon: 0.05,
		Speed:          1.0,
	}
}

// ActiveNote is a sounding key, the track it belongs to (for colouring) and
// the note's index in that track.
type ActiveNote struct {
	Key   song.Key `json:"key"`
	Track int      `json:"track"`
	Note  int      `json:"note"`
}

// Frame is the result of one Tick.
type Frame struct {
	Progress float64 `json:"progress"`
	Played   float64 `json:"played"` // seconds into the song, negative during headroom
	Playing  bool    `json:"playing"`
	Dragging bool    `json:"dragging"`
	Looped   bool    `json:"looped"` // reached the end and reset this frame

	Active   []ActiveNote `json:"active"`
	Started  []ActiveNote `json:"started,omitempty"`  // became active this frame
	Released []ActiveNote `json:"released,omitempty"` // became inactive this frame
}

// Scheduler is the playback clock. It is driven by Tick once per rendered
// frame and is not safe for concurrent use.
type Scheduler struct {
	song *song.Song
	cfg  Config

	speed    float64
	progress float64
	played   float64
	playing  bool
	dragging bool

	// The virtual clock: while anchored, played = accumulated + (now-reference)*speed.
	// Paused, seeking and speed changes re-anchor instead of rewinding.
	anchored    bool
	reference   float64
	accumulated float64
	lastNow     float64

	// per track: first note not yet released, first note not yet started and
	// the started notes still sounding, in index order
	pointers []int
	next     []int
	held     [][]int

	active map[song.Key]ActiveNote
}

// New creates a paused scheduler positioned at the start of the headroom.
func New(s *song.Song, cfg Config) (*Scheduler, error) {
	if s == nil || !(s.Duration > 0) {
		return nil, ErrEmptySong
	}
	if cfg.Headroom < 0 {
		cfg.Headroom = 0
	}
	if cfg.ReleaseEpsilon < 0 {
		cfg.ReleaseEpsilon = 0
	}

	sc := &Scheduler{
		song:     s,
		cfg:      cfg,
		speed:    clamp(cfg.Speed, MinSpeed, MaxSpeed),
		pointers: make([]int, len(s.Tracks)),
		next:     make([]int, len(s.Tracks)),
		held:     make([][]int, len(s.Tracks)),
		active:   make(map[song.Key]ActiveNote),
	}
	sc.rewind()
	return sc, nil
}

func clamp[T constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *Scheduler) duration() float64 {
	return float64(s.song.Duration)
}

// ProgressMin is the progress at the start of the headroom (<= 0).
func (s *Scheduler) ProgressMin() float64 {
	return -s.cfg.Headroom / s.duration()
}

func (s *Scheduler) Song() *song.Song { return s.song }
func (s *Scheduler) Config() Config { return s.cfg }
func (s *Scheduler) Progress() float64 { return s.progress }
func (s *Scheduler) Played() float64 { return s.played }
func (s *Scheduler) Playing() bool { return s.playing }
func (s *Scheduler) Dragging() bool { return s.dragging }
func (s *Scheduler) Speed() float64 { return s.speed }
func (s *Scheduler) ActiveCount() int { return len(s.active) }
func (s *Scheduler) Pointers() []int { return append([]int(nil), s.pointers...) }
func (s *Scheduler) Remaining() float64 { return s.duration() - s.played }

// Play starts or resumes playback on the next Tick.
func (s *Scheduler) Play() {
	if !s.playing {
		debug.Log("player", "play at %.3fs", s.played)
	}
	s.playing = true
}

// Pause stops the clock. The position is captured on the next Tick.
func (s *Scheduler) Pause() {
	if s.playing {
		debug.Log("player", "pause at %.3fs", s.played)
	}
	s.playing = false
}

// Toggle flips between playing and paused.
func (s *Scheduler) Toggle() {
	if s.playing {
		s.Pause()
	} else {
		s.Play()
	}
}

// SetSpeed changes the playback rate, clamped to [MinSpeed, MaxSpeed].
// The position stays continuous: the clock is re-anchored at the last tick.
func (s *Scheduler) SetSpeed(speed float64) {
	speed = clamp(speed, MinSpeed, MaxSpeed)
	if s.anchored {
		s.accumulated = s.played
		s.reference = s.lastNow
	}
	s.speed = speed
	debug.Log("player", "speed=%.2f", speed)
}

// BeginSeek enters the seeking state. Ticks hold the position set by SeekTo.
func (s *Scheduler) BeginSeek() {
	if !s.dragging {
		debug.Log("player", "seek begin at progress=%.4f", s.progress)
	}
	s.dragging = true
}

// SeekTo sets the position while seeking. Outside a seek it does nothing.
func (s *Scheduler) SeekTo(progress float64) {
	if !s.dragging {
		return
	}
	s.progress = clamp(progress, s.ProgressMin(), 1)
	s.played = s.progress * s.duration()
}

// EndSeek leaves the seeking state. All track pointers restart at 0 since
// the new position may be before notes already passed.
func (s *Scheduler) EndSeek() {
	if !s.dragging {
		return
	}
	s.dragging = false
	s.played = s.progress * s.duration()
	s.accumulated = s.played
	s.anchored = false
	s.resetPointers()
	debug.Log("player", "seek end at progress=%.4f", s.progress)
}

// Seek jumps to progress in one step.
func (s *Scheduler) Seek(progress float64) {
	s.BeginSeek()
	s.SeekTo(progress)
	s.EndSeek()
}

// Tick advances the clock to now (seconds, monotonic) and resolves the
// active notes.
func (s *Scheduler) Tick(now float64) Frame {
	s.lastNow = now

	switch {
	case s.dragging:
		// the user owns the position, keep the clock in step with it
		s.played = s.progress * s.duration()
		s.accumulated = s.played
		s.anchored = false
		return s.frame(nil)

	case s.playing:
		if !s.anchored {
			s.reference = now
			s.anchored = true
		}
		s.played = s.accumulated + (now-s.reference)*s.speed
		s.progress = s.played / s.duration()

		if s.progress > 1 {
			debug.Log("player", "end of song, looping to start")
			s.playing = false
			s.rewind()
			f := s.frame(nil)
			f.Looped = true
			return f
		}

	default:
		// first paused tick after playing
		if s.anchored {
			s.accumulated = s.played
			s.anchored = false
		}
	}

	return s.frame(s.resolve())
}

// rewind moves to the start of the headroom and clears the clock.
func (s *Scheduler) rewind() {
	s.progress = s.ProgressMin()
	s.played = -s.cfg.Headroom
	s.accumulated = s.played
	s.reference = 0
	s.anchored = false
	s.resetPointers()
}

func (s *Scheduler) resetPointers() {
	for i := range s.pointers {
		s.pointers[i] = 0
		s.next[i] = 0
		s.held[i] = s.held[i][:0]
	}
}

func (s *Scheduler) released(n song.Note) bool {
	return s.played > float64(n.End)-s.cfg.ReleaseEpsilon
}

// resolve finds the notes sounding at the current position. Per track, next
// walks each note once as it starts and the held list only carries notes
// that started and are still sounding, so a frame costs the newly started
// notes plus the ones held. Chords and notes under a held note both stay in
// the list. The pointer is the first held note, or next when none is.
func (s *Scheduler) resolve() []ActiveNote {
	var active []ActiveNote
	seen := make(map[song.Key]bool)

	for t, notes := range s.song.Tracks {
		held := s.held[t][:0]
		for _, i := range s.held[t] {
			if !s.released(notes[i]) {
				held = append(held, i)
			}
		}
		n := s.next[t]
		for n < len(notes) && float64(notes[n].Start) <= s.played {
			if !s.released(notes[n]) {
				held = append(held, n)
			}
			n++
		}
		s.next[t] = n
		s.held[t] = held

		if len(held) > 0 {
			s.pointers[t] = held[0]
		} else {
			s.pointers[t] = n
		}

		for _, i := range held {
			k := notes[i].Key()
			if seen[k] {
				continue
			}
			seen[k] = true
			active = append(active, ActiveNote{Key: k, Track: t, Note: i})
		}
	}

	debug.LogEvery(600, "player", "played=%.3f active=%d pointers=%v", s.played, len(active), s.pointers)
	return active
}

// frame diffs the new active set against the previous one.
func (s *Scheduler) frame(active []ActiveNote) Frame {
	f := Frame{
		Progress: s.progress,
		Played:   s.played,
		Playing:  s.playing,
		Dragging: s.dragging,
		Active:   active,
	}

	next := make(map[song.Key]ActiveNote, len(active))
	for _, a := range active {
		next[a.Key] = a
		prev, ok := s.active[a.Key]
		switch {
		case !ok:
			f.Started = append(f.Started, a)
		case prev != a:
			// another note took over the key within one frame: strike it again
			f.Released = append(f.Released, prev)
			f.Started = append(f.Started, a)
		}
	}
	for k, prev := range s.active {
		if _, ok := next[k]; !ok {
			f.Released = append(f.Released, prev)
		}
	}
	sort.Slice(f.Released, func(i, j int) bool {
		return keyLess(f.Released[i].Key, f.Released[j].Key)
	})

	s.active = next
	return f
}

func keyLess(a, b song.Key) bool {
	if a.Index != b.Index {
		return a.Index < b.Index
	}
	return !a.Sharp && b.Sharp
}
