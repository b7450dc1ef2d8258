package model

import "github.com/jsphweid/scaletree/vector"

// PatternNote is either an AbsoluteNote or a RelativeNote.
type PatternNote interface {
	isPatternNote()
}

// AbsoluteNote is a fixed MIDI pitch. Poses only move it chromatically.
type AbsoluteNote struct {
	MIDI int
}

// RelativeNote is a degree of a scale on the track's ancestor chain, plus
// its own static offset.
type RelativeNote struct {
	ScaleID string
	Degree  int
	Offset  vector.Vector
}

func (AbsoluteNote) isPatternNote() {}
func (RelativeNote) isPatternNote() {}

// PatternBlock is one step of a pattern. More than one note makes it a chord.
type PatternBlock struct {
	Notes    []PatternNote
	Duration Tick
	Velocity uint8
}

type PatternID = string

type Pattern struct {
	ID     PatternID
	Name   string
	Stream []PatternBlock
}

func (p Pattern) Length() Tick {
	var res Tick
	for _, b := range p.Stream {
		res += b.Duration
	}
	return res
}

type PatternClip struct {
	ID        string
	PatternID PatternID
	TrackID   TrackID
	Start     Tick
	Duration  *Tick
}
