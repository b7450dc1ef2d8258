package model

import "github.com/jsphweid/scaletree/vector"

type Tick = int

type PoseID = string

// PoseEntry is finite when Duration is set, infinite otherwise.
type PoseEntry struct {
	Vector   vector.Vector
	Duration *Tick
}

func (e PoseEntry) IsFinite() bool {
	return e.Duration != nil
}

type Pose struct {
	ID     PoseID
	Name   string
	Stream []PoseEntry
}

// PoseClip places a pose on a track. A non-nil Duration cuts the clip off.
type PoseClip struct {
	ID       string
	PoseID   PoseID
	TrackID  TrackID
	Start    Tick
	Duration *Tick
}

// PoseState is what the pose timeline is built from. Clips are kept per
// track, sorted by start tick.
type PoseState struct {
	Version      uint64
	Poses        map[PoseID]Pose
	ClipsByTrack map[TrackID][]PoseClip
}
