package note

import (
	"github.com/jsphweid/scaletree/chord"
	"github.com/jsphweid/scaletree/constants"
	"github.com/jsphweid/scaletree/diag"
	"github.com/jsphweid/scaletree/logger"
	"github.com/jsphweid/scaletree/model"
	"github.com/jsphweid/scaletree/pose"
	"github.com/jsphweid/scaletree/scale"
	"github.com/jsphweid/scaletree/util"
	"github.com/jsphweid/scaletree/vector"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Resolver turns pattern notes into MIDI pitches against one hierarchy
// snapshot and the pose timeline built for it. It never mutates either.
type Resolver struct {
	hierarchy model.Hierarchy
	scales    *scale.Cache
	timeline  *pose.Timeline
	log       logrus.FieldLogger
}

func NewResolver(h model.Hierarchy, scales *scale.Cache, timeline *pose.Timeline, log logrus.FieldLogger) *Resolver {
	log = logger.OrDiscard(log)
	if scales == nil {
		scales = scale.NewCache(log)
	}
	if timeline == nil {
		timeline = pose.Build(model.PoseState{}, log)
	}
	return &Resolver{
		hierarchy: h,
		scales:    scales,
		timeline:  timeline,
		log:       log,
	}
}

func clampPitch(p int) int {
	return util.Clamp(p, constants.MinPitch, constants.MaxPitch)
}

// ResolvePitch resolves a single note sounding on trackID at tick.
func (r *Resolver) ResolvePitch(n model.PatternNote, trackID model.TrackID, tick model.Tick) (int, diag.Warnings, error) {
	pitches, warnings, err := r.ResolveBlock([]model.PatternNote{n}, trackID, tick)
	if err != nil {
		return 0, nil, err
	}
	return pitches[0], warnings, nil
}

// ResolveBlock resolves the voices of one pattern block together so the
// chordal axis can re-stack them. Pitches come back in voice order.
func (r *Resolver) ResolveBlock(notes []model.PatternNote, trackID model.TrackID, tick model.Tick) ([]int, diag.Warnings, error) {
	active, warnings, err := r.timeline.ActiveVectorAt(r.hierarchy, trackID, tick)
	if err != nil {
		return nil, nil, err
	}
	pitches, more, err := r.ResolveBlockWith(notes, trackID, active)
	if err != nil {
		return nil, nil, err
	}
	warnings.Add(more...)
	return pitches, warnings, nil
}

// ResolveBlockWith is ResolveBlock with the pose vector already known.
// Axes apply in a fixed order: scale-track axes while walking up the
// scale chain, then chordal re-stacking, then chromatic, then octave.
func (r *Resolver) ResolveBlockWith(notes []model.PatternNote, trackID model.TrackID, active vector.Vector) ([]int, diag.Warnings, error) {
	var warnings diag.Warnings
	pitches := make([]int, len(notes))

	var stack, offsets, voices []int
	var totals []vector.Vector
	for i, n := range notes {
		switch n := n.(type) {
		case model.AbsoluteNote:
			pitches[i] = clampPitch(n.MIDI + active.Get(vector.Chromatic) + 12*active.Get(vector.Octave))
		case model.RelativeNote:
			total := vector.Add(n.Offset, active)
			rs, w, err := r.scaleOf(n, trackID)
			if err != nil {
				return nil, nil, err
			}
			warnings.Add(w...)
			base := rs.PitchWithShifts(n.Degree, func(id model.TrackID) int {
				return total.Get(vector.Axis(id))
			})
			stack = append(stack, base)
			offsets = append(offsets, total.Get(vector.Chordal))
			voices = append(voices, i)
			totals = append(totals, total)
		default:
			return nil, nil, errors.Errorf("unknown pattern note %T", n)
		}
	}

	for j, p := range chord.Rotate(stack, offsets) {
		total := totals[j]
		pitches[voices[j]] = clampPitch(p + total.Get(vector.Chromatic) + 12*total.Get(vector.Octave))
	}
	return pitches, warnings.Dedup(), nil
}

// scaleOf finds the scale a relative note is written in: a scale track on
// trackID's chain named by the note, or owning the scale the note names.
// An empty reference means the nearest scale track.
func (r *Resolver) scaleOf(n model.RelativeNote, trackID model.TrackID) (*scale.Resolved, diag.Warnings, error) {
	if n.ScaleID == "" {
		return r.scales.Resolve(r.hierarchy, trackID)
	}
	chain, warnings, err := scale.Ancestors(r.hierarchy, trackID)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range chain {
		t := r.hierarchy.Tracks[id]
		if t.IsScaleTrack() && (id == n.ScaleID || t.ScaleID == n.ScaleID) {
			rs, more, err := r.scales.Resolve(r.hierarchy, id)
			if err != nil {
				return nil, nil, err
			}
			warnings.Add(more...)
			return rs, warnings, nil
		}
	}

	r.log.WithFields(logrus.Fields{
		"track_id": trackID,
		"scale_id": n.ScaleID,
	}).Warn("Note scale not found on track chain, using chromatic")
	warnings.Add(diag.Missing(diag.ScaleRef, n.ScaleID, trackID))
	return scale.Chromatic(), warnings, nil
}
