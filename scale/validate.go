package scale

import (
	"github.com/jsphweid/scaletree/diag"
	"github.com/jsphweid/scaletree/model"
	"github.com/jsphweid/scaletree/util"
	"github.com/jsphweid/scaletree/vector"
	"github.com/pkg/errors"
)

// Ancestors returns trackID followed by its parents up to the root. A
// dangling id ends the walk early with a warning; a loop is a CycleError.
func Ancestors(h model.Hierarchy, trackID model.TrackID) ([]model.TrackID, diag.Warnings, error) {
	var warnings diag.Warnings
	var chain []model.TrackID
	seen := make(map[model.TrackID]bool)

	referrer := ""
	for id := trackID; id != ""; {
		if seen[id] {
			return nil, nil, &diag.CycleError{Path: append(chain, id)}
		}
		t, ok := h.Track(id)
		if !ok {
			warnings.Add(diag.Missing(diag.TrackRef, id, referrer))
			break
		}
		seen[id] = true
		chain = append(chain, id)
		referrer = id
		id = t.ParentID
	}
	return chain, warnings, nil
}

// Validate checks a hierarchy before anything is resolved against it.
// Cycles, tracks named like a fixed axis and children under pattern
// tracks are errors. Dangling references come back as warnings.
func Validate(h model.Hierarchy) (diag.Warnings, error) {
	var warnings diag.Warnings
	for _, id := range util.GetKeys(h.Tracks) {
		t := h.Tracks[id]
		if vector.IsReserved(id) {
			return nil, errors.Errorf("track id %q is reserved for an axis", id)
		}
		if t.ID != id {
			return nil, errors.Errorf("track %q is stored under id %q", t.ID, id)
		}
		if _, _, err := Ancestors(h, id); err != nil {
			return nil, err
		}
		if t.ParentID != "" {
			parent, ok := h.Track(t.ParentID)
			if !ok {
				warnings.Add(diag.Missing(diag.TrackRef, t.ParentID, id))
			} else if !parent.IsScaleTrack() {
				return nil, errors.Errorf("track %q has pattern track %q as parent", id, parent.ID)
			}
		}
		if t.IsScaleTrack() {
			if s, ok := h.Scale(t.ScaleID); !ok || s.Cardinality() == 0 {
				warnings.Add(diag.Missing(diag.ScaleRef, t.ScaleID, id))
			}
		}
	}
	return warnings, nil
}
