package midi

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Read parses a Standard MIDI File. smf can panic on malformed input
// (https://github.com/gomidi/midi/issues/20), which is turned into an error.
func Read(r io.Reader) (s *smf.SMF, e error) {
	defer func() {
		if rec := recover(); rec != nil {
			s = nil
			e = errors.Errorf("could not parse midi: %v", rec)
		}
	}()

	res, err := smf.ReadFrom(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse midi")
	}
	return res, nil
}

func ReadFile(path string) (*smf.SMF, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read midi file")
	}
	s, err := Read(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.Wrapf(err, "in %v", path)
	}
	return s, nil
}

// Resolution is the file's ticks per quarter note, 0 for SMPTE timing.
func Resolution(s *smf.SMF) int {
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		return int(mt)
	}
	return 0
}
