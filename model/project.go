package model

// Project bundles every snapshot the core reads from.
type Project struct {
	ID           string
	Name         string
	Hierarchy    Hierarchy
	Poses        PoseState
	Patterns     map[PatternID]Pattern
	PatternClips []PatternClip
}

// WithVersion stamps both snapshots with v.
func (p Project) WithVersion(v uint64) Project {
	p.Hierarchy.Version = v
	p.Poses.Version = v
	return p
}
