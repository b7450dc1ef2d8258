package model

type TrackID = string

type TrackKind string

const (
	ScaleTrackKind   TrackKind = "scale"
	PatternTrackKind TrackKind = "pattern"
)

// Track is one node of the hierarchy. An empty ParentID means the parent
// is the implicit chromatic root.
type Track struct {
	ID         TrackID
	ParentID   TrackID
	Kind       TrackKind
	Name       string
	ScaleID    ScaleID
	Instrument string
}

func (t Track) IsScaleTrack() bool {
	return t.Kind != PatternTrackKind
}

func (t Track) IsRoot() bool {
	return t.ParentID == ""
}

// Hierarchy is an immutable snapshot of the track tree and the scales it
// references. Tracks point at their parent by id, never by pointer.
type Hierarchy struct {
	Version uint64
	Tracks  map[TrackID]Track
	Scales  map[ScaleID]Scale
}

func (h Hierarchy) Track(id TrackID) (Track, bool) {
	t, ok := h.Tracks[id]
	return t, ok
}

func (h Hierarchy) Scale(id ScaleID) (Scale, bool) {
	s, ok := h.Scales[id]
	return s, ok
}

// Children returns the direct children of id. Pass "" for the root's.
func (h Hierarchy) Children(id TrackID) []TrackID {
	var res []TrackID
	for _, t := range h.Tracks {
		if t.ParentID == id {
			res = append(res, t.ID)
		}
	}
	return res
}
