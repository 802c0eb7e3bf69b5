package song

import "fmt"

// Keyboard layout
const (
	WhiteKeyCount = 52 // white keys on a full piano
	KeyOffset     = 2  // white keys left of the first full octave (A, B)
)

// PitchClass is a position inside the white-key octave: C=0 ... B=6
type PitchClass uint8

const (
	ClassC PitchClass = iota
	ClassD
	ClassE
	ClassF
	ClassG
	ClassA
	ClassB
)

var classNames = [...]string{"C", "D", "E", "F", "G", "A", "B"}

func (c PitchClass) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "?"
}

// semitone -> white key class and sharp flag
var semitoneClass = [12]struct {
	class PitchClass
	sharp bool
}{
	{ClassC, false}, {ClassC, true},
	{ClassD, false}, {ClassD, true},
	{ClassE, false},
	{ClassF, false}, {ClassF, true},
	{ClassG, false}, {ClassG, true},
	{ClassA, false}, {ClassA, true},
	{ClassB, false},
}

// white key class -> semitone within the octave
var classSemitone = [7]uint8{0, 2, 4, 5, 7, 9, 11}

// Pitch is a MIDI key number. It is the stable key used to pair note on/off
// events. Octaves follow the convention where MIDI 60 is C3.
type Pitch uint8

// Octave returns the octave number (MIDI 60 -> 3, MIDI 21 -> -1).
func (p Pitch) Octave() int {
	return int(p)/12 - 2
}

// Class returns the white key the pitch sits on (sharps share their
// natural neighbour's class).
func (p Pitch) Class() PitchClass {
	return semitoneClass[p%12].class
}

// Sharp reports whether the pitch is a black key.
func (p Pitch) Sharp() bool {
	return semitoneClass[p%12].sharp
}

// KeyIndex returns the 0-based white key position on the 52-key span.
// ok is false when the pitch is outside the keyboard.
func (p Pitch) KeyIndex() (index uint8, ok bool) {
	i := p.Octave()*7 + int(p.Class()) + KeyOffset
	if i < 0 || i >= WhiteKeyCount {
		return 0, false
	}
	// the top key is C, its sharp is off the keyboard
	if i == WhiteKeyCount-1 && p.Sharp() {
		return 0, false
	}
	return uint8(i), true
}

// Key returns the keyboard identity of the pitch.
func (p Pitch) Key() (Key, bool) {
	idx, ok := p.KeyIndex()
	if !ok {
		return Key{}, false
	}
	return Key{Index: idx, Sharp: p.Sharp()}, true
}

func (p Pitch) String() string {
	s := p.Class().String()
	if p.Sharp() {
		s += "#"
	}
	return fmt.Sprintf("%s%d", s, p.Octave())
}

// Key identifies one physical key. A sharp shares the index of the white
// key to its left.
type Key struct {
	Index uint8 `json:"index"`
	Sharp bool  `json:"sharp"`
}

// Pitch converts the key back to a MIDI key number.
func (k Key) Pitch() Pitch {
	rel := int(k.Index) - KeyOffset
	octave := rel / 7
	class := rel % 7
	if class < 0 {
		class += 7
		octave--
	}
	n := (octave+2)*12 + int(classSemitone[class])
	if k.Sharp {
		n++
	}
	return Pitch(n)
}

// HasSharp reports whether a black key sits to the right of this white key.
func (k Key) HasSharp() bool {
	if int(k.Index) >= WhiteKeyCount-1 {
		return false
	}
	c := Key{Index: k.Index}.Pitch().Class()
	return c != ClassE && c != ClassB
}

func (k Key) String() string {
	return k.Pitch().String()
}

// Note is one completed note. Times are in seconds from the start of the track.
type Note struct {
	KeyIndex uint8   `json:"index"`
	Sharp    bool    `json:"sharp"`
	Start    float32 `json:"start"`
	End      float32 `json:"end"`
	Duration float32 `json:"duration"`
}

// Key returns the keyboard identity of the note.
func (n Note) Key() Key {
	return Key{Index: n.KeyIndex, Sharp: n.Sharp}
}

// Song is the playable result of extraction.
type Song struct {
	// latest note end over all tracks, in seconds
	Duration float32 `json:"duration"`

	// one note list per selected track, in file order, each sorted by start
	Tracks [][]Note `json:"notes"`

	// display name per track
	Names []string `json:"names,omitempty"`
}

// NoteCount returns the number of notes over all tracks.
func (s *Song) NoteCount() int {
	n := 0
	for _, t := range s.Tracks {
		n += len(t)
	}
	return n
}
