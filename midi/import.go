package midi

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jsphweid/scaletree/chord"
	"github.com/jsphweid/scaletree/model"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ToPattern turns the notes of s into a pattern of absolute chord blocks,
// one block per change in the set of held notes, rescaled to
// ticksPerQuarter. Silence before the first note is dropped.
func ToPattern(s *smf.SMF, ticksPerQuarter int) (model.Pattern, error) {
	res := Resolution(s)
	if res <= 0 {
		return model.Pattern{}, errors.New("only files with metric timing can be imported")
	}
	scale := func(t int64) int {
		return int(t * int64(ticksPerQuarter) / int64(res))
	}

	var p model.Pattern
	for _, b := range chord.GetBlocks(s) {
		block := model.PatternBlock{
			Duration: scale(b.Tick+b.Duration) - scale(b.Tick),
			Velocity: b.Velocity,
		}
		for _, n := range b.Notes {
			block.Notes = append(block.Notes, model.AbsoluteNote{MIDI: int(n)})
		}
		p.Stream = append(p.Stream, block)
	}
	return p, nil
}

// ImportPattern reads a .mid file into a new pattern named after the file.
func ImportPattern(path string, ticksPerQuarter int) (model.Pattern, error) {
	s, err := ReadFile(path)
	if err != nil {
		return model.Pattern{}, err
	}
	p, err := ToPattern(s, ticksPerQuarter)
	if err != nil {
		return model.Pattern{}, errors.Wrapf(err, "in %v", path)
	}
	p.ID = uuid.New().String()
	p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return p, nil
}
