package scale

import (
	"math"

	"github.com/jsphweid/scaletree/constants"
	"github.com/jsphweid/scaletree/diag"
	"github.com/jsphweid/scaletree/logger"
	"github.com/jsphweid/scaletree/model"
	"github.com/jsphweid/scaletree/util"
	"github.com/sirupsen/logrus"
)

// Step maps one degree of a scale onto its parent: the parent degree it
// sits on plus whatever semitones are left over. Relative scales never
// have a remainder.
type Step struct {
	ParentDegree int
	Remainder    int
}

// Level is one scale track's mapping into its parent's degree space.
type Level struct {
	TrackID model.TrackID
	Steps   []Step
}

// Resolved is a scale flattened all the way down to the chromatic root.
// It keeps the per-level mappings so degree shifts can be applied in any
// ancestor's degree space.
type Resolved struct {
	TrackID   model.TrackID
	Tonic     int
	Intervals []int
	Pitches   []int

	// levels[0] is this scale, the last one sits on the chromatic root
	levels []Level
}

func (r *Resolved) Cardinality() int {
	return len(r.Pitches)
}

// Levels lists the track ids whose degree spaces this scale passes
// through, nearest first.
func (r *Resolved) Levels() []model.TrackID {
	res := make([]model.TrackID, 0, len(r.levels))
	for _, lv := range r.levels {
		res = append(res, lv.TrackID)
	}
	return res
}

// Pitch is the MIDI pitch of degree, wrapping with octave carry.
func (r *Resolved) Pitch(degree int) int {
	return r.PitchWithShifts(degree, nil)
}

// PitchWithShifts walks degree up the chain, adding shifts(level) in each
// level's own degree space before mapping it onto the parent.
func (r *Resolved) PitchWithShifts(degree int, shifts func(model.TrackID) int) int {
	d := degree
	rem := 0
	for i, lv := range r.levels {
		if shifts != nil {
			d += shifts(lv.TrackID)
		}
		q, idx := util.FloorDiv(d, len(lv.Steps))
		step := lv.Steps[idx]
		rem += step.Remainder
		d = step.ParentDegree + q*r.parentCardinality(i)
	}
	return constants.ChromaticTonic + d + rem
}

// Quantize finds the highest degree sounding at or below pitch and how
// many semitones pitch sits above it.
func (r *Resolved) Quantize(pitch int) (degree int, remainder int) {
	n := len(r.Pitches)
	best := math.MinInt
	for i, base := range r.Pitches {
		q, _ := util.FloorDiv(pitch-base, 12)
		cand := base + 12*q
		deg := i + q*n
		if cand > best || (cand == best && deg < degree) {
			best = cand
			degree = deg
		}
	}
	return degree, pitch - best
}

func (r *Resolved) parentCardinality(i int) int {
	if i+1 < len(r.levels) {
		return len(r.levels[i+1].Steps)
	}
	return constants.ChromaticSize
}

// push returns a new scale whose nearest level is lv, sitting on r.
func (r *Resolved) push(trackID model.TrackID, lv Level) *Resolved {
	res := &Resolved{
		TrackID: trackID,
		levels:  append([]Level{lv}, r.levels...),
	}
	res.flatten()
	return res
}

func (r *Resolved) flatten() {
	n := constants.ChromaticSize
	if len(r.levels) > 0 {
		n = len(r.levels[0].Steps)
	}
	r.Pitches = make([]int, n)
	r.Intervals = make([]int, n)
	for i := 0; i < n; i++ {
		r.Pitches[i] = r.Pitch(i)
	}
	r.Tonic = r.Pitches[0]
	for i, p := range r.Pitches {
		r.Intervals[i] = p - r.Tonic
	}
}

// Chromatic is the implicit root scale: the twelve notes from middle C.
func Chromatic() *Resolved {
	res := &Resolved{}
	res.flatten()
	return res
}

func chromaticNotes() []int {
	res := make([]int, constants.ChromaticSize)
	for i := range res {
		res[i] = constants.ChromaticTonic + i
	}
	return res
}

func levelFor(track model.Track, s model.Scale, parent *Resolved) Level {
	lv := Level{TrackID: track.ID}
	if s.Relative {
		for _, d := range s.Degrees {
			lv.Steps = append(lv.Steps, Step{ParentDegree: s.Tonic + d})
		}
		return lv
	}
	for _, note := range s.Notes {
		deg, rem := parent.Quantize(note)
		lv.Steps = append(lv.Steps, Step{ParentDegree: deg, Remainder: rem})
	}
	return lv
}

// scaleFor looks up the track's scale, falling back to chromatic when the
// reference is dangling or the scale is empty.
func scaleFor(h model.Hierarchy, track model.Track, log logrus.FieldLogger) (model.Scale, error) {
	s, ok := h.Scale(track.ScaleID)
	if ok && s.Cardinality() > 0 {
		return s, nil
	}
	log.WithFields(logrus.Fields{
		"track_id": track.ID,
		"scale_id": track.ScaleID,
	}).Warn("Scale missing or empty, using chromatic")
	return model.Scale{ID: track.ScaleID, Notes: chromaticNotes()}, diag.Missing(diag.ScaleRef, track.ScaleID, track.ID)
}

// Resolve flattens the scale of trackID. A pattern track resolves to its
// nearest scale-track ancestor; a hierarchy with no scale tracks above
// trackID resolves to the chromatic scale. Only a cycle is an error.
func Resolve(h model.Hierarchy, trackID model.TrackID, log logrus.FieldLogger) (*Resolved, diag.Warnings, error) {
	log = logger.OrDiscard(log)
	chain, warnings, err := Ancestors(h, trackID)
	if err != nil {
		return nil, nil, err
	}

	var scaleTracks []model.Track
	for _, id := range chain {
		if t := h.Tracks[id]; t.IsScaleTrack() {
			scaleTracks = append(scaleTracks, t)
		}
	}

	res := Chromatic()
	for i := len(scaleTracks) - 1; i >= 0; i-- {
		t := scaleTracks[i]
		s, err := scaleFor(h, t, log)
		warnings.Add(err)
		res = res.push(t.ID, levelFor(t, s, res))
	}
	return res, warnings, nil
}
