package transpose

import (
	"fmt"
	"strings"

	"github.com/jsphweid/scaletree/scale"
	"github.com/jsphweid/scaletree/util"
	"github.com/pkg/errors"
)

type Mode string

const (
	Major Mode = "major"
	Minor Mode = "minor"
)

// MaxFifths bounds the signatures ParseKey accepts: seven sharps or flats.
const MaxFifths = 7

type Key struct {
	Tonic Spelling
	Mode  Mode
}

// Fifths is the key signature: sharps are positive, flats negative.
func (k Key) Fifths() int {
	f := k.Tonic.Fifths()
	if k.Mode == Minor {
		f -= 3
	}
	return f
}

func (k Key) String() string {
	return fmt.Sprintf("%v %v", k.Tonic, k.Mode)
}

// Diatonic lists the seven spellings of the key's signature in
// circle-of-fifths order.
func (k Key) Diatonic() []Spelling {
	f := k.Fifths()
	res := make([]Spelling, 7)
	for i := range res {
		res[i] = spellingOfFifths(f - 1 + i)
	}
	return res
}

func (k Key) diatonicOn(l Letter) Spelling {
	for _, s := range k.Diatonic() {
		if s.Letter == l {
			return s
		}
	}
	return Spelling{Letter: l}
}

// Table spells all twelve pitch classes in this key. Signature notes keep
// their spelling; the rest are natural when they can be, otherwise sharp
// in sharp keys and flat in flat keys.
func (k Key) Table() [12]Spelling {
	var res [12]Spelling
	var set [12]bool
	for _, s := range k.Diatonic() {
		res[s.PitchClass()] = s
		set[s.PitchClass()] = true
	}
	for l, pc := range naturalPitchClasses {
		if !set[pc] {
			res[pc] = Spelling{Letter: Letter(l)}
			set[pc] = true
		}
	}
	flats := k.Fifths() < 0
	for pc := range res {
		if set[pc] {
			continue
		}
		if flats {
			res[pc] = Spelling{Letter: letterAbove(pc), Accidental: -1}
		} else {
			res[pc] = Spelling{Letter: letterBelow(pc), Accidental: 1}
		}
	}
	return res
}

func letterBelow(pc int) Letter {
	res := C
	for l, n := range naturalPitchClasses {
		if n <= pc {
			res = Letter(l)
		}
	}
	return res
}

func letterAbove(pc int) Letter {
	for l, n := range naturalPitchClasses {
		if n >= pc {
			return Letter(l)
		}
	}
	return C
}

// canonical signature of each major key by tonic pitch class. Pitch class
// 6 is the F#/Gb tie and is settled by the caller's preference.
var canonicalFifths = [12]int{0, -5, 2, -3, 4, -1, 6, 1, -4, 3, -2, 5}

// KeyFor spells the key on pitch class pc from the circle of fifths,
// keeping accidentals to six or fewer. preferFlats only matters for the
// six-accidental tie.
func KeyFor(pc int, mode Mode, preferFlats bool) Key {
	major := util.Mod(pc, 12)
	if mode == Minor {
		major = util.Mod(pc+3, 12)
	}
	f := canonicalFifths[major]
	if major == 6 && preferFlats {
		f = -6
	}
	tonic := spellingOfFifths(f)
	if mode == Minor {
		tonic = spellingOfFifths(f + 3)
	}
	return Key{Tonic: tonic, Mode: mode}
}

func TransposeKey(k Key, halftones int) Key {
	return KeyFor(k.Tonic.PitchClass()+halftones, k.Mode, k.Fifths() < 0)
}

// Spell writes pitch the way key would.
func Spell(pitch int, k Key) Note {
	return noteAt(pitch, k.Table()[util.Mod(pitch, 12)])
}

func Name(pitch int, k Key) string {
	return Spell(pitch, k).String()
}

// TransposePitch moves pitch by halftones and spells the result in the
// transposed key. A note keeps its letter distance from the tonic and its
// alteration against the key, unless that would need a double accidental.
func TransposePitch(pitch int, k Key, halftones int) Note {
	dest := TransposeKey(k, halftones)
	target := pitch + halftones

	src := k.Table()[util.Mod(pitch, 12)]
	alteration := src.Accidental - k.diatonicOn(src.Letter).Accidental
	letter := Letter(util.Mod(int(dest.Tonic.Letter)+int(src.Letter)-int(k.Tonic.Letter), 7))
	s := Spelling{Letter: letter, Accidental: dest.diatonicOn(letter).Accidental + alteration}
	if s.Accidental < -1 || s.Accidental > 1 || s.PitchClass() != util.Mod(target, 12) {
		s = dest.Table()[util.Mod(target, 12)]
	}
	return noteAt(target, s)
}

// TransposeSteps moves pitch by scale steps of rs, keeping whatever
// chromatic alteration it had against the scale.
func TransposeSteps(pitch int, rs *scale.Resolved, steps int) int {
	degree, remainder := rs.Quantize(pitch)
	return rs.Pitch(degree+steps) + remainder
}

func ParseMode(str string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "", "major", "maj", "ionian":
		return Major, nil
	case "minor", "min", "m", "aeolian":
		return Minor, nil
	}
	return "", errors.Errorf("unknown mode %q", str)
}

// ParseKey reads keys like ("Bb", "minor"). Theoretical keys past seven
// accidentals are rejected.
func ParseKey(tonic string, mode string) (Key, error) {
	s, err := ParseSpelling(tonic)
	if err != nil {
		return Key{}, err
	}
	m, err := ParseMode(mode)
	if err != nil {
		return Key{}, err
	}
	k := Key{Tonic: s, Mode: m}
	if f := k.Fifths(); f > MaxFifths || f < -MaxFifths {
		return Key{}, errors.Errorf("key %v needs %d accidentals", k, util.Max(f, -f))
	}
	return k, nil
}
