package note

import (
	"testing"

	"github.com/jsphweid/scaletree/diag"
	"github.com/jsphweid/scaletree/model"
	"github.com/jsphweid/scaletree/pose"
	"github.com/jsphweid/scaletree/vector"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var majorDegrees = []int{0, 2, 4, 5, 7, 9, 11}

// A (major) -> T (triad) -> B (pattern)
func triadHierarchy() model.Hierarchy {
	return model.Hierarchy{
		Version: 1,
		Tracks: map[model.TrackID]model.Track{
			"A": {ID: "A", Kind: model.ScaleTrackKind, ScaleID: "major"},
			"T": {ID: "T", ParentID: "A", Kind: model.ScaleTrackKind, ScaleID: "triad"},
			"B": {ID: "B", ParentID: "T", Kind: model.PatternTrackKind},
		},
		Scales: map[model.ScaleID]model.Scale{
			"major": {ID: "major", Degrees: majorDegrees, Relative: true},
			"triad": {ID: "triad", Degrees: []int{0, 2, 4}, Relative: true},
		},
	}
}

// held builds a pose state with one never-ending vector per track.
func held(vectors map[model.TrackID]vector.Vector) model.PoseState {
	state := model.PoseState{
		Poses:        map[model.PoseID]model.Pose{},
		ClipsByTrack: map[model.TrackID][]model.PoseClip{},
	}
	for id, v := range vectors {
		poseID := "hold-" + id
		state.Poses[poseID] = model.Pose{ID: poseID, Stream: []model.PoseEntry{{Vector: v}}}
		state.ClipsByTrack[id] = []model.PoseClip{{ID: "clip-" + id, PoseID: poseID, TrackID: id}}
	}
	return state
}

func newResolver(h model.Hierarchy, state model.PoseState) *Resolver {
	return NewResolver(h, nil, pose.Build(state, nil), nil)
}

func deg(d int) model.RelativeNote {
	return model.RelativeNote{Degree: d}
}

func TestSimpleChromaticPose(t *testing.T) {
	h := model.Hierarchy{
		Tracks: map[model.TrackID]model.Track{
			"A": {ID: "A", Kind: model.ScaleTrackKind, ScaleID: "major"},
			"B": {ID: "B", ParentID: "A", Kind: model.PatternTrackKind},
		},
		Scales: map[model.ScaleID]model.Scale{
			"major": {ID: "major", Degrees: majorDegrees, Relative: true},
		},
	}
	r := newResolver(h, held(map[model.TrackID]vector.Vector{"A": {vector.Chromatic: 2}}))

	pitch, warnings, err := r.ResolvePitch(deg(0), "B", 0)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Empty(warnings)
	assert.Equal(62, pitch)
}

func TestNearestScaleByDefault(t *testing.T) {
	r := newResolver(triadHierarchy(), model.PoseState{})

	pitches, warnings, err := r.ResolveBlock([]model.PatternNote{deg(0), deg(1), deg(2), deg(3)}, "B", 0)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Empty(warnings)
	assert.Equal([]int{60, 64, 67, 72}, pitches)
}

func TestScaleAxesShiftInTheirOwnDegreeSpace(t *testing.T) {
	h := triadHierarchy()
	cases := []struct {
		name string
		pose vector.Vector
		want int
	}{
		{"triad step", vector.Vector{"T": 1}, 64},
		{"major step under the triad", vector.Vector{"A": 1}, 62},
		{"both", vector.Vector{"T": 1, "A": 1}, 65},
		{"down a triad step", vector.Vector{"T": -1}, 55},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newResolver(h, held(map[model.TrackID]vector.Vector{"B": c.pose}))
			pitch, _, err := r.ResolvePitch(deg(0), "B", 0)
			require.NoError(t, err)
			assert.Equal(t, c.want, pitch)
		})
	}
}

func TestNoteOffsetAddsToPose(t *testing.T) {
	r := newResolver(triadHierarchy(), held(map[model.TrackID]vector.Vector{"A": {vector.Chromatic: 1}}))
	n := model.RelativeNote{Degree: 0, Offset: vector.Vector{vector.Octave: 1, vector.Chromatic: 1}}

	pitch, _, err := r.ResolvePitch(n, "B", 0)
	require.NoError(t, err)
	assert.Equal(t, 74, pitch)
}

func TestClamping(t *testing.T) {
	r := newResolver(triadHierarchy(), model.PoseState{})

	high := model.RelativeNote{Offset: vector.Vector{vector.Octave: 6, vector.Chromatic: 8}}
	low := model.RelativeNote{Offset: vector.Vector{vector.Octave: -6}}
	pitches, _, err := r.ResolveBlock([]model.PatternNote{high, low}, "B", 0)
	require.NoError(t, err)
	assert.Equal(t, []int{127, 0}, pitches)
}

func TestAbsoluteNoteOnlyTakesChromaticAndOctave(t *testing.T) {
	r := newResolver(triadHierarchy(), held(map[model.TrackID]vector.Vector{
		"B": {vector.Chromatic: 2, vector.Octave: 1, "A": 3, vector.Chordal: 1},
	}))

	pitch, _, err := r.ResolvePitch(model.AbsoluteNote{MIDI: 50}, "B", 0)
	require.NoError(t, err)
	assert.Equal(t, 64, pitch)
}

func TestChordalRestacksBlock(t *testing.T) {
	r := newResolver(triadHierarchy(), held(map[model.TrackID]vector.Vector{"B": {vector.Chordal: 1}}))

	pitches, _, err := r.ResolveBlock([]model.PatternNote{deg(0), deg(1), deg(2)}, "B", 0)
	require.NoError(t, err)
	assert.Equal(t, []int{64, 67, 72}, pitches)
}

func TestChordalSkipsAbsoluteVoices(t *testing.T) {
	r := newResolver(triadHierarchy(), held(map[model.TrackID]vector.Vector{"B": {vector.Chordal: 1}}))

	pitches, _, err := r.ResolveBlock([]model.PatternNote{model.AbsoluteNote{MIDI: 40}, deg(0), deg(1)}, "B", 0)
	require.NoError(t, err)
	assert.Equal(t, []int{40, 64, 72}, pitches)
}

func TestExplicitScaleReference(t *testing.T) {
	h := triadHierarchy()
	// axes of tracks below the referenced scale do not apply
	r := newResolver(h, held(map[model.TrackID]vector.Vector{"B": {"T": 1}}))

	assert := assert.New(t)
	for _, ref := range []string{"major", "A"} {
		pitch, warnings, err := r.ResolvePitch(model.RelativeNote{ScaleID: ref, Degree: 2}, "B", 0)
		require.NoError(t, err)
		assert.Empty(warnings)
		assert.Equal(64, pitch, ref)
	}
}

func TestMissingScaleReferenceFallsBackToChromatic(t *testing.T) {
	log, hook := test.NewNullLogger()
	h := triadHierarchy()
	r := NewResolver(h, nil, pose.Build(model.PoseState{}, log), log)

	pitch, warnings, err := r.ResolvePitch(model.RelativeNote{ScaleID: "lydian", Degree: 3}, "B", 0)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(63, pitch)
	require.Len(t, warnings, 1)
	var missing *diag.MissingReferenceError
	assert.ErrorAs(warnings[0], &missing)
	assert.Equal("lydian", missing.ID)
	assert.Len(hook.Entries, 1)
}

func TestPoseChangesOverTime(t *testing.T) {
	dur := 4
	state := model.PoseState{
		Poses: map[model.PoseID]model.Pose{
			"p": {ID: "p", Stream: []model.PoseEntry{
				{Vector: vector.Vector{vector.Chromatic: 2}, Duration: &dur},
				{Vector: vector.Vector{vector.Chromatic: -2}},
			}},
		},
		ClipsByTrack: map[model.TrackID][]model.PoseClip{
			"A": {{ID: "c", PoseID: "p", TrackID: "A"}},
		},
	}
	r := newResolver(triadHierarchy(), state)

	assert := assert.New(t)
	early, _, err := r.ResolvePitch(deg(0), "B", 3)
	require.NoError(t, err)
	assert.Equal(62, early)
	late, _, err := r.ResolvePitch(deg(0), "B", 4)
	require.NoError(t, err)
	assert.Equal(58, late)
}

func TestCycleIsAnError(t *testing.T) {
	h := triadHierarchy()
	a := h.Tracks["A"]
	a.ParentID = "T"
	h.Tracks["A"] = a
	r := newResolver(h, model.PoseState{})

	_, _, err := r.ResolvePitch(deg(0), "B", 0)
	var cycle *diag.CycleError
	assert.ErrorAs(t, err, &cycle)
}
