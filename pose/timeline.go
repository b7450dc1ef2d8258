package pose

import (
	"math"
	"sort"

	"github.com/jsphweid/scaletree/diag"
	"github.com/jsphweid/scaletree/logger"
	"github.com/jsphweid/scaletree/model"
	"github.com/jsphweid/scaletree/scale"
	"github.com/jsphweid/scaletree/util"
	"github.com/jsphweid/scaletree/vector"
	"github.com/sirupsen/logrus"
)

// Infinite is the end tick of an interval that never expires.
const Infinite model.Tick = math.MaxInt

// Interval is one stream entry of one clip laid out on the timeline:
// active on [Start, End).
type Interval struct {
	Start  model.Tick
	End    model.Tick
	Vector vector.Vector
	ClipID string
	PoseID model.PoseID

	// merge order: clip start, clip position among its track's clips,
	// entry position within the stream
	clipStart model.Tick
	clipSeq   int
	entry     int
}

func (iv Interval) Contains(tick model.Tick) bool {
	return iv.Start <= tick && tick < iv.End
}

func (iv Interval) IsInfinite() bool {
	return iv.End == Infinite
}

func (iv Interval) before(other Interval) bool {
	if iv.clipStart != other.clipStart {
		return iv.clipStart < other.clipStart
	}
	if iv.clipSeq != other.clipSeq {
		return iv.clipSeq < other.clipSeq
	}
	return iv.entry < other.entry
}

// Unroll lays out a pose's stream from the clip's start. Finite entries
// take up their duration and push the next entry back. Infinite entries
// take up no room and last until the next infinite entry of the same
// stream; finite entries after them overlay them while they run.
func Unroll(p model.Pose, clip model.PoseClip) []Interval {
	var res []Interval
	t := clip.Start
	lastInfinite := -1
	for i, e := range p.Stream {
		iv := Interval{
			Start:     t,
			Vector:    vector.Normalize(e.Vector),
			ClipID:    clip.ID,
			PoseID:    p.ID,
			clipStart: clip.Start,
			entry:     i,
		}
		if e.IsFinite() {
			if *e.Duration <= 0 {
				continue
			}
			iv.End = t + *e.Duration
			t = iv.End
		} else {
			if lastInfinite >= 0 {
				res[lastInfinite].End = t
			}
			iv.End = Infinite
			lastInfinite = len(res)
		}
		res = append(res, iv)
	}

	end := Infinite
	if clip.Duration != nil {
		end = clip.Start + util.Max(*clip.Duration, 0)
	}
	kept := res[:0]
	for _, iv := range res {
		iv.End = util.Min(iv.End, end)
		if iv.Start < iv.End {
			kept = append(kept, iv)
		}
	}
	return kept
}

// Timeline is the pose state unrolled once per snapshot so lookups at
// playback time only search precomputed intervals.
type Timeline struct {
	version  uint64
	byTrack  map[model.TrackID][]Interval
	warnings map[model.TrackID]diag.Warnings
}

// Build unrolls every clip. Clips pointing at unknown poses are skipped
// and reported as warnings on their track.
func Build(state model.PoseState, log logrus.FieldLogger) *Timeline {
	log = logger.OrDiscard(log)
	tl := &Timeline{
		version:  state.Version,
		byTrack:  make(map[model.TrackID][]Interval),
		warnings: make(map[model.TrackID]diag.Warnings),
	}

	for _, trackID := range util.GetKeys(state.ClipsByTrack) {
		clips := append([]model.PoseClip(nil), state.ClipsByTrack[trackID]...)
		sort.SliceStable(clips, func(i, j int) bool {
			return clips[i].Start < clips[j].Start
		})

		var intervals []Interval
		for seq, clip := range clips {
			p, ok := state.Poses[clip.PoseID]
			if !ok {
				log.WithFields(logrus.Fields{
					"track_id": trackID,
					"clip_id":  clip.ID,
					"pose_id":  clip.PoseID,
				}).Warn("Pose clip references a missing pose")
				w := tl.warnings[trackID]
				w.Add(diag.Missing(diag.PoseRef, clip.PoseID, clip.ID))
				tl.warnings[trackID] = w
				continue
			}
			for _, iv := range Unroll(p, clip) {
				iv.clipSeq = seq
				intervals = append(intervals, iv)
			}
		}

		sort.SliceStable(intervals, func(i, j int) bool {
			return intervals[i].Start < intervals[j].Start
		})
		tl.byTrack[trackID] = intervals
	}
	return tl
}

func (tl *Timeline) Version() uint64 {
	return tl.version
}

// Intervals returns a copy of the unrolled intervals of one track, sorted
// by start tick.
func (tl *Timeline) Intervals(trackID model.TrackID) []Interval {
	return append([]Interval(nil), tl.byTrack[trackID]...)
}

// TrackVectorAt is the vector contributed by trackID's own clips. Within
// one track later clips (then later entries) replace earlier values axis
// by axis; they never add up.
func (tl *Timeline) TrackVectorAt(trackID model.TrackID, tick model.Tick) vector.Vector {
	intervals := tl.byTrack[trackID]
	cut := sort.Search(len(intervals), func(i int) bool {
		return intervals[i].Start > tick
	})

	var active []Interval
	for _, iv := range intervals[:cut] {
		if iv.Contains(tick) {
			active = append(active, iv)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].before(active[j])
	})

	res := vector.Vector{}
	for _, iv := range active {
		res = vector.Override(res, iv.Vector)
	}
	return res
}

// ActiveVectorAt sums the vectors of trackID and each of its ancestors:
// every level transposes independently.
func (tl *Timeline) ActiveVectorAt(h model.Hierarchy, trackID model.TrackID, tick model.Tick) (vector.Vector, diag.Warnings, error) {
	chain, warnings, err := scale.Ancestors(h, trackID)
	if err != nil {
		return nil, nil, err
	}
	res := vector.Vector{}
	for _, id := range chain {
		res = vector.Add(res, tl.TrackVectorAt(id, tick))
		warnings.Add(tl.warnings[id]...)
	}
	return res, warnings, nil
}

// Warnings lists every problem found while building, across all tracks.
func (tl *Timeline) Warnings() diag.Warnings {
	var res diag.Warnings
	for _, id := range util.GetKeys(tl.warnings) {
		res.Add(tl.warnings[id]...)
	}
	return res
}
