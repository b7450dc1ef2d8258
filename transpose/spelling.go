package transpose

import (
	"fmt"
	"strings"

	"github.com/jsphweid/scaletree/util"
	"github.com/pkg/errors"
)

type Letter int

const (
	C Letter = iota
	D
	E
	F
	G
	A
	B
)

const letterNames = "CDEFGAB"

var naturalPitchClasses = [7]int{0, 2, 4, 5, 7, 9, 11}

// position of each natural on the circle of fifths, C = 0
var letterFifths = [7]int{0, 2, 4, -1, 1, 3, 5}

// letters in circle-of-fifths order starting from F
var fifthsLetters = [7]Letter{F, C, G, D, A, E, B}

func (l Letter) String() string {
	return string(letterNames[l])
}

// Spelling is a pitch class written as a letter plus accidentals:
// -1 is a flat, +1 a sharp.
type Spelling struct {
	Letter     Letter
	Accidental int
}

func (s Spelling) PitchClass() int {
	return util.Mod(naturalPitchClasses[s.Letter]+s.Accidental, 12)
}

// Fifths is the spelling's position on the circle of fifths, C = 0.
func (s Spelling) Fifths() int {
	return letterFifths[s.Letter] + 7*s.Accidental
}

func (s Spelling) String() string {
	switch {
	case s.Accidental > 0:
		return s.Letter.String() + strings.Repeat("#", s.Accidental)
	case s.Accidental < 0:
		return s.Letter.String() + strings.Repeat("b", -s.Accidental)
	}
	return s.Letter.String()
}

// spellingOfFifths inverts Fifths.
func spellingOfFifths(n int) Spelling {
	q, r := util.FloorDiv(n+1, 7)
	return Spelling{Letter: fifthsLetters[r], Accidental: q}
}

func ParseSpelling(str string) (Spelling, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return Spelling{}, errors.New("empty note name")
	}
	idx := strings.IndexByte(letterNames, strings.ToUpper(str[:1])[0])
	if idx < 0 {
		return Spelling{}, errors.Errorf("bad note letter in %q", str)
	}
	s := Spelling{Letter: Letter(idx)}
	for _, r := range str[1:] {
		switch r {
		case '#', '♯':
			s.Accidental++
		case 'b', '♭':
			s.Accidental--
		default:
			return Spelling{}, errors.Errorf("bad accidental %q in %q", r, str)
		}
	}
	return s, nil
}

// Note is a spelled pitch with its octave; MIDI 60 is C4.
type Note struct {
	Spelling
	Octave int
}

func (n Note) MIDI() int {
	return (n.Octave+1)*12 + naturalPitchClasses[n.Letter] + n.Accidental
}

func (n Note) String() string {
	return fmt.Sprintf("%v%d", n.Spelling, n.Octave)
}

// noteAt spells pitch with s. s must be a spelling of pitch's class.
func noteAt(pitch int, s Spelling) Note {
	octave, _ := util.FloorDiv(pitch-naturalPitchClasses[s.Letter]-s.Accidental, 12)
	return Note{Spelling: s, Octave: octave - 1}
}
