package engine

import (
	"sort"

	"github.com/jsphweid/scaletree/diag"
	"github.com/jsphweid/scaletree/logger"
	"github.com/jsphweid/scaletree/model"
	"github.com/jsphweid/scaletree/note"
	"github.com/jsphweid/scaletree/pose"
	"github.com/jsphweid/scaletree/scale"
	"github.com/jsphweid/scaletree/util"
	"github.com/jsphweid/scaletree/vector"
	"github.com/sirupsen/logrus"
)

// placedBlock is a pattern block laid out on its track: [Start, End).
type placedBlock struct {
	ClipID string
	Start  model.Tick
	End    model.Tick
	Block  model.PatternBlock
}

// Engine is one validated, precomputed snapshot of a project. Everything
// resolved through the same Engine sees the same version.
type Engine struct {
	project  model.Project
	scales   *scale.Cache
	timeline *pose.Timeline
	resolver *note.Resolver
	blocks   map[model.TrackID][]placedBlock
	warnings diag.Warnings
	log      logrus.FieldLogger
}

// New validates the hierarchy and precomputes scales, the pose timeline
// and pattern placement. A cycle in the hierarchy is the only error;
// dangling references are collected in Warnings.
func New(p model.Project, log logrus.FieldLogger) (*Engine, error) {
	log = logger.OrDiscard(log).WithField("version", p.Hierarchy.Version)

	warnings, err := scale.Validate(p.Hierarchy)
	if err != nil {
		log.WithError(err).Error("Rejecting project hierarchy")
		return nil, err
	}

	e := &Engine{
		project:  p,
		scales:   scale.NewCache(log),
		timeline: pose.Build(p.Poses, log),
		log:      log,
	}
	e.resolver = note.NewResolver(p.Hierarchy, e.scales, e.timeline, log)
	warnings.Add(e.timeline.Warnings()...)

	for _, id := range util.GetKeys(p.Hierarchy.Tracks) {
		if !p.Hierarchy.Tracks[id].IsScaleTrack() {
			continue
		}
		_, w, err := e.scales.Resolve(p.Hierarchy, id)
		if err != nil {
			return nil, err
		}
		warnings.Add(w...)
	}

	e.blocks = e.place(&warnings)
	e.warnings = warnings.Dedup()
	log.WithFields(logrus.Fields{
		"tracks":   len(p.Hierarchy.Tracks),
		"warnings": len(e.warnings),
	}).Debug("Built engine")
	return e, nil
}

func (e *Engine) place(warnings *diag.Warnings) map[model.TrackID][]placedBlock {
	res := make(map[model.TrackID][]placedBlock)
	for _, clip := range e.project.PatternClips {
		fields := logrus.Fields{"clip_id": clip.ID, "track_id": clip.TrackID}
		track, ok := e.project.Hierarchy.Track(clip.TrackID)
		if !ok {
			e.log.WithFields(fields).Warn("Pattern clip is on a missing track")
			warnings.Add(diag.Missing(diag.TrackRef, clip.TrackID, clip.ID))
			continue
		}
		if track.IsScaleTrack() {
			e.log.WithFields(fields).Warn("Pattern clip is on a scale track, skipping")
			continue
		}
		pattern, ok := e.project.Patterns[clip.PatternID]
		if !ok {
			e.log.WithFields(fields).WithField("pattern_id", clip.PatternID).Warn("Pattern clip references a missing pattern")
			warnings.Add(diag.Missing(diag.PatternRef, clip.PatternID, clip.ID))
			continue
		}

		end := pose.Infinite
		if clip.Duration != nil {
			end = clip.Start + util.Max(*clip.Duration, 0)
		}
		t := clip.Start
		for _, b := range pattern.Stream {
			if b.Duration < 1 {
				continue
			}
			pb := placedBlock{ClipID: clip.ID, Start: t, End: util.Min(t+b.Duration, end), Block: b}
			t += b.Duration
			if pb.Start >= pb.End {
				break
			}
			res[clip.TrackID] = append(res[clip.TrackID], pb)
		}
	}
	for id := range res {
		blocks := res[id]
		sort.SliceStable(blocks, func(i, j int) bool {
			return blocks[i].Start < blocks[j].Start
		})
	}
	return res
}

func (e *Engine) Version() uint64 {
	return e.project.Hierarchy.Version
}

func (e *Engine) Project() model.Project {
	return e.project
}

// Warnings are the problems found while building this snapshot.
func (e *Engine) Warnings() diag.Warnings {
	return append(diag.Warnings(nil), e.warnings...)
}

func (e *Engine) Scale(trackID model.TrackID) (*scale.Resolved, diag.Warnings, error) {
	if _, ok := e.project.Hierarchy.Track(trackID); !ok {
		return nil, nil, diag.Missing(diag.TrackRef, trackID, "")
	}
	return e.scales.Resolve(e.project.Hierarchy, trackID)
}

func (e *Engine) ActiveVectorAt(trackID model.TrackID, tick model.Tick) (vector.Vector, diag.Warnings, error) {
	return e.timeline.ActiveVectorAt(e.project.Hierarchy, trackID, tick)
}

func (e *Engine) Timeline() *pose.Timeline {
	return e.timeline
}

func (e *Engine) ResolvePitch(n model.PatternNote, trackID model.TrackID, tick model.Tick) (int, diag.Warnings, error) {
	return e.resolver.ResolvePitch(n, trackID, tick)
}

func (e *Engine) ResolveBlock(notes []model.PatternNote, trackID model.TrackID, tick model.Tick) ([]int, diag.Warnings, error) {
	return e.resolver.ResolveBlock(notes, trackID, tick)
}

// PatternTracks lists the tracks that have placed blocks, sorted by id.
func (e *Engine) PatternTracks() []model.TrackID {
	return util.GetKeys(e.blocks)
}

// End is the tick after the last placed block, 0 for an empty project.
func (e *Engine) End() model.Tick {
	var res model.Tick
	for _, blocks := range e.blocks {
		for _, b := range blocks {
			res = util.Max(res, b.End)
		}
	}
	return res
}
