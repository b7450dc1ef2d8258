package project

import (
	"sort"

	"github.com/google/uuid"
	"github.com/jsphweid/scaletree/model"
	"github.com/jsphweid/scaletree/util"
	"github.com/jsphweid/scaletree/vector"
)

// Document is the on-disk form of a project. Maps become id-keyed lists
// so files diff cleanly.
type Document struct {
	ID           string           `json:"id"`
	Name         string           `json:"name,omitempty"`
	Version      uint64           `json:"version,omitempty"`
	Tracks       []TrackDoc       `json:"tracks"`
	Scales       []ScaleDoc       `json:"scales"`
	Poses        []PoseDoc        `json:"poses,omitempty"`
	PoseClips    []PoseClipDoc    `json:"poseClips,omitempty"`
	Patterns     []PatternDoc     `json:"patterns,omitempty"`
	PatternClips []PatternClipDoc `json:"patternClips,omitempty"`
}

type TrackDoc struct {
	ID         string          `json:"id"`
	Parent     string          `json:"parent,omitempty"`
	Kind       model.TrackKind `json:"kind,omitempty"`
	Name       string          `json:"name,omitempty"`
	Scale      string          `json:"scale,omitempty"`
	Instrument string          `json:"instrument,omitempty"`
}

// ScaleDoc is relative when it lists degrees and literal when it lists
// notes.
type ScaleDoc struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Notes   []int  `json:"notes,omitempty"`
	Degrees []int  `json:"degrees,omitempty"`
	Tonic   int    `json:"tonic,omitempty"`
}

type PoseEntryDoc struct {
	Vector   vector.Vector `json:"vector"`
	Duration *int          `json:"duration,omitempty"`
}

type PoseDoc struct {
	ID     string         `json:"id"`
	Name   string         `json:"name,omitempty"`
	Stream []PoseEntryDoc `json:"stream"`
}

type PoseClipDoc struct {
	ID       string `json:"id,omitempty"`
	Pose     string `json:"pose"`
	Track    string `json:"track"`
	Start    int    `json:"start"`
	Duration *int   `json:"duration,omitempty"`
}

type BlockDoc struct {
	Notes    []model.NoteDoc `json:"notes"`
	Duration int             `json:"duration"`
	Velocity uint8           `json:"velocity,omitempty"`
}

type PatternDoc struct {
	ID     string     `json:"id"`
	Name   string     `json:"name,omitempty"`
	Stream []BlockDoc `json:"stream"`
}

type PatternClipDoc struct {
	ID       string `json:"id,omitempty"`
	Pattern  string `json:"pattern"`
	Track    string `json:"track"`
	Start    int    `json:"start"`
	Duration *int   `json:"duration,omitempty"`
}

func newID() string {
	return uuid.New().String()
}

// FromDocument builds the in-memory project. Clips without ids get fresh
// ones; pose clips end up grouped per track and sorted by start.
func FromDocument(doc Document) model.Project {
	p := model.Project{
		ID:   doc.ID,
		Name: doc.Name,
		Hierarchy: model.Hierarchy{
			Version: doc.Version,
			Tracks:  make(map[model.TrackID]model.Track),
			Scales:  make(map[model.ScaleID]model.Scale),
		},
		Poses: model.PoseState{
			Version:      doc.Version,
			Poses:        make(map[model.PoseID]model.Pose),
			ClipsByTrack: make(map[model.TrackID][]model.PoseClip),
		},
		Patterns: make(map[model.PatternID]model.Pattern),
	}
	if p.ID == "" {
		p.ID = newID()
	}

	for _, t := range doc.Tracks {
		kind := t.Kind
		if kind == "" {
			kind = model.ScaleTrackKind
		}
		p.Hierarchy.Tracks[t.ID] = model.Track{
			ID:         t.ID,
			ParentID:   t.Parent,
			Kind:       kind,
			Name:       t.Name,
			ScaleID:    t.Scale,
			Instrument: t.Instrument,
		}
	}
	for _, s := range doc.Scales {
		p.Hierarchy.Scales[s.ID] = model.Scale{
			ID:       s.ID,
			Name:     s.Name,
			Notes:    s.Notes,
			Degrees:  s.Degrees,
			Tonic:    s.Tonic,
			Relative: len(s.Notes) == 0,
		}
	}

	for _, d := range doc.Poses {
		pose := model.Pose{ID: d.ID, Name: d.Name}
		for _, e := range d.Stream {
			pose.Stream = append(pose.Stream, model.PoseEntry{Vector: vector.Normalize(e.Vector), Duration: e.Duration})
		}
		p.Poses.Poses[d.ID] = pose
	}
	for _, c := range doc.PoseClips {
		clip := model.PoseClip{ID: c.ID, PoseID: c.Pose, TrackID: c.Track, Start: c.Start, Duration: c.Duration}
		if clip.ID == "" {
			clip.ID = newID()
		}
		p.Poses.ClipsByTrack[c.Track] = append(p.Poses.ClipsByTrack[c.Track], clip)
	}
	for _, clips := range p.Poses.ClipsByTrack {
		sort.SliceStable(clips, func(i, j int) bool {
			return clips[i].Start < clips[j].Start
		})
	}

	for _, d := range doc.Patterns {
		pattern := model.Pattern{ID: d.ID, Name: d.Name}
		for _, b := range d.Stream {
			pattern.Stream = append(pattern.Stream, model.PatternBlock{
				Notes:    model.NotesFromDocs(b.Notes),
				Duration: b.Duration,
				Velocity: b.Velocity,
			})
		}
		p.Patterns[d.ID] = pattern
	}
	for _, c := range doc.PatternClips {
		clip := model.PatternClip{ID: c.ID, PatternID: c.Pattern, TrackID: c.Track, Start: c.Start, Duration: c.Duration}
		if clip.ID == "" {
			clip.ID = newID()
		}
		p.PatternClips = append(p.PatternClips, clip)
	}
	return p
}

// ToDocument is the inverse of FromDocument, with every list sorted by id
// (clips by track, then start).
func ToDocument(p model.Project) Document {
	doc := Document{
		ID:      p.ID,
		Name:    p.Name,
		Version: p.Hierarchy.Version,
	}

	for _, id := range util.GetKeys(p.Hierarchy.Tracks) {
		t := p.Hierarchy.Tracks[id]
		doc.Tracks = append(doc.Tracks, TrackDoc{
			ID:         t.ID,
			Parent:     t.ParentID,
			Kind:       t.Kind,
			Name:       t.Name,
			Scale:      t.ScaleID,
			Instrument: t.Instrument,
		})
	}
	for _, id := range util.GetKeys(p.Hierarchy.Scales) {
		s := p.Hierarchy.Scales[id]
		sd := ScaleDoc{ID: s.ID, Name: s.Name, Tonic: s.Tonic}
		if s.Relative {
			sd.Degrees = s.Degrees
		} else {
			sd.Notes = s.Notes
		}
		doc.Scales = append(doc.Scales, sd)
	}

	for _, id := range util.GetKeys(p.Poses.Poses) {
		pose := p.Poses.Poses[id]
		pd := PoseDoc{ID: pose.ID, Name: pose.Name}
		for _, e := range pose.Stream {
			pd.Stream = append(pd.Stream, PoseEntryDoc{Vector: vector.Normalize(e.Vector), Duration: e.Duration})
		}
		doc.Poses = append(doc.Poses, pd)
	}
	for _, track := range util.GetKeys(p.Poses.ClipsByTrack) {
		for _, c := range p.Poses.ClipsByTrack[track] {
			doc.PoseClips = append(doc.PoseClips, PoseClipDoc{
				ID:       c.ID,
				Pose:     c.PoseID,
				Track:    track,
				Start:    c.Start,
				Duration: c.Duration,
			})
		}
	}

	for _, id := range util.GetKeys(p.Patterns) {
		pattern := p.Patterns[id]
		pd := PatternDoc{ID: pattern.ID, Name: pattern.Name}
		for _, b := range pattern.Stream {
			bd := BlockDoc{Duration: b.Duration, Velocity: b.Velocity}
			for _, n := range b.Notes {
				bd.Notes = append(bd.Notes, model.DocFromNote(n))
			}
			pd.Stream = append(pd.Stream, bd)
		}
		doc.Patterns = append(doc.Patterns, pd)
	}
	clips := append([]model.PatternClip(nil), p.PatternClips...)
	sort.SliceStable(clips, func(i, j int) bool {
		if clips[i].TrackID != clips[j].TrackID {
			return clips[i].TrackID < clips[j].TrackID
		}
		return clips[i].Start < clips[j].Start
	})
	for _, c := range clips {
		doc.PatternClips = append(doc.PatternClips, PatternClipDoc{
			ID:       c.ID,
			Pattern:  c.PatternID,
			Track:    c.TrackID,
			Start:    c.Start,
			Duration: c.Duration,
		})
	}
	return doc
}
