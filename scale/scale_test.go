package scale

import (
	"errors"
	"testing"

	"github.com/jsphweid/scaletree/diag"
	"github.com/jsphweid/scaletree/model"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var majorDegrees = []int{0, 2, 4, 5, 7, 9, 11}

func testHierarchy() model.Hierarchy {
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

func mustResolve(t *testing.T, h model.Hierarchy, id model.TrackID) *Resolved {
	res, warnings, err := Resolve(h, id, nil)
	require.NoError(t, err)
	require.Empty(t, warnings)
	return res
}

func TestRootScaleIdentity(t *testing.T) {
	res := mustResolve(t, testHierarchy(), "A")

	assert := assert.New(t)
	assert.Equal(majorDegrees, res.Intervals)
	assert.Equal(7, res.Cardinality())
	assert.Equal(60, res.Tonic)
	assert.Equal([]model.TrackID{"A"}, res.Levels())
}

func TestResolveIsDeterministic(t *testing.T) {
	h := testHierarchy()
	assert.Equal(t, mustResolve(t, h, "T"), mustResolve(t, h, "T"))
}

func TestOctaveWraparound(t *testing.T) {
	res := mustResolve(t, testHierarchy(), "A")

	assert := assert.New(t)
	assert.Equal(res.Pitch(0)+12, res.Pitch(7))
	assert.Equal(res.Pitch(2)+24, res.Pitch(16))
	assert.Equal(59, res.Pitch(-1))
	assert.Equal(48, res.Pitch(-7))
}

func TestNestedScale(t *testing.T) {
	res := mustResolve(t, testHierarchy(), "T")

	assert := assert.New(t)
	assert.Equal([]int{60, 64, 67}, res.Pitches)
	assert.Equal([]int{0, 4, 7}, res.Intervals)
	assert.Equal(72, res.Pitch(3))
	assert.Equal(55, res.Pitch(-1))
	assert.Equal([]model.TrackID{"T", "A"}, res.Levels())
}

func TestPatternTrackUsesNearestScale(t *testing.T) {
	h := testHierarchy()
	assert.Equal(t, mustResolve(t, h, "T").Pitches, mustResolve(t, h, "B").Pitches)
}

func TestTonicRotatesParent(t *testing.T) {
	h := testHierarchy()
	h.Scales["dorian"] = model.Scale{ID: "dorian", Degrees: []int{0, 1, 2, 3, 4, 5, 6}, Tonic: 1, Relative: true}
	h.Tracks["D"] = model.Track{ID: "D", ParentID: "A", Kind: model.ScaleTrackKind, ScaleID: "dorian"}

	res := mustResolve(t, h, "D")

	assert := assert.New(t)
	assert.Equal(62, res.Tonic)
	assert.Equal([]int{0, 2, 3, 5, 7, 9, 10}, res.Intervals)
	assert.Equal(74, res.Pitch(7))
}

func TestShiftsApplyPerLevel(t *testing.T) {
	res := mustResolve(t, testHierarchy(), "T")
	shifts := func(a, t int) func(model.TrackID) int {
		return func(id model.TrackID) int {
			switch id {
			case "A":
				return a
			case "T":
				return t
			}
			return 0
		}
	}

	assert := assert.New(t)
	// one step up in the major scale: C E G -> D F A
	assert.Equal(62, res.PitchWithShifts(0, shifts(1, 0)))
	assert.Equal(65, res.PitchWithShifts(1, shifts(1, 0)))
	assert.Equal(69, res.PitchWithShifts(2, shifts(1, 0)))
	// one step up in the triad: C -> E, G -> C'
	assert.Equal(64, res.PitchWithShifts(0, shifts(0, 1)))
	assert.Equal(72, res.PitchWithShifts(2, shifts(0, 1)))
	// both: C -> E (triad) -> F (major)
	assert.Equal(65, res.PitchWithShifts(0, shifts(1, 1)))
}

func TestLiteralScaleQuantizesIntoParent(t *testing.T) {
	h := testHierarchy()
	h.Scales["minor-triad"] = model.Scale{ID: "minor-triad", Notes: []int{60, 63, 67}}
	h.Tracks["L"] = model.Track{ID: "L", ParentID: "A", Kind: model.ScaleTrackKind, ScaleID: "minor-triad"}

	res := mustResolve(t, h, "L")
	up := func(id model.TrackID) int {
		if id == "A" {
			return 1
		}
		return 0
	}

	assert := assert.New(t)
	assert.Equal([]int{60, 63, 67}, res.Pitches)
	assert.Equal(75, res.Pitch(4))
	assert.Equal([]int{62, 65, 69}, []int{
		res.PitchWithShifts(0, up),
		res.PitchWithShifts(1, up),
		res.PitchWithShifts(2, up),
	})
}

func TestLiteralScaleNeedNotBeMonotonic(t *testing.T) {
	h := model.Hierarchy{
		Tracks: map[model.TrackID]model.Track{"R": {ID: "R", Kind: model.ScaleTrackKind, ScaleID: "odd"}},
		Scales: map[model.ScaleID]model.Scale{"odd": {ID: "odd", Notes: []int{67, 60, 64}}},
	}
	res := mustResolve(t, h, "R")

	assert := assert.New(t)
	assert.Equal([]int{0, -7, -3}, res.Intervals)
	assert.Equal(79, res.Pitch(3))
	assert.Equal(72, res.Pitch(4))
}

func TestQuantize(t *testing.T) {
	res := mustResolve(t, testHierarchy(), "A")
	cases := []struct {
		pitch, degree, remainder int
	}{
		{60, 0, 0},
		{61, 0, 1},
		{59, -1, 0},
		{72, 7, 0},
		{70, 5, 1},
	}
	assert := assert.New(t)
	for _, c := range cases {
		degree, remainder := res.Quantize(c.pitch)
		assert.Equal(c.degree, degree, "pitch %d", c.pitch)
		assert.Equal(c.remainder, remainder, "pitch %d", c.pitch)
	}
}

func TestMissingScaleFallsBackToChromatic(t *testing.T) {
	h := testHierarchy()
	h.Tracks["X"] = model.Track{ID: "X", Kind: model.ScaleTrackKind, ScaleID: "nope"}
	log, hook := test.NewNullLogger()

	res, warnings, err := Resolve(h, "X", log)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, res.Intervals)
	require.Len(t, warnings, 1)
	var missing *diag.MissingReferenceError
	assert.True(errors.As(warnings[0], &missing))
	assert.Equal(diag.ScaleRef, missing.Kind)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal("nope", hook.LastEntry().Data["scale_id"])
}

func TestMissingTrackIsChromatic(t *testing.T) {
	res, warnings, err := Resolve(testHierarchy(), "ghost", nil)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(12, res.Cardinality())
	assert.Len(warnings, 1)
}

func cyclicHierarchy() model.Hierarchy {
	return model.Hierarchy{
		Tracks: map[model.TrackID]model.Track{
			"a": {ID: "a", ParentID: "b", Kind: model.ScaleTrackKind},
			"b": {ID: "b", ParentID: "a", Kind: model.ScaleTrackKind},
		},
	}
}

func TestCycleIsRejected(t *testing.T) {
	var cycle *diag.CycleError

	_, _, err := Resolve(cyclicHierarchy(), "a", nil)
	assert.True(t, errors.As(err, &cycle))
	assert.Equal(t, []string{"a", "b", "a"}, cycle.Path)

	_, err = Validate(cyclicHierarchy())
	assert.True(t, errors.As(err, &cycle))
}

func TestValidate(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		warnings, err := Validate(testHierarchy())
		assert.NoError(t, err)
		assert.Empty(t, warnings)
	})

	t.Run("reserved id", func(t *testing.T) {
		h := testHierarchy()
		h.Tracks["octave"] = model.Track{ID: "octave", Kind: model.ScaleTrackKind, ScaleID: "major"}
		_, err := Validate(h)
		assert.Error(t, err)
	})

	t.Run("pattern track parent", func(t *testing.T) {
		h := testHierarchy()
		h.Tracks["C"] = model.Track{ID: "C", ParentID: "B", Kind: model.PatternTrackKind}
		_, err := Validate(h)
		assert.Error(t, err)
	})

	t.Run("dangling references warn", func(t *testing.T) {
		h := testHierarchy()
		h.Tracks["C"] = model.Track{ID: "C", ParentID: "gone", Kind: model.ScaleTrackKind, ScaleID: "gone"}
		warnings, err := Validate(h)
		assert.NoError(t, err)
		assert.Len(t, warnings, 2)
	})
}

func TestCacheByVersion(t *testing.T) {
	h := testHierarchy()
	cache := NewCache(nil)

	first, _, err := cache.Resolve(h, "T")
	require.NoError(t, err)
	second, _, err := cache.Resolve(h, "T")
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Same(first, second)
	assert.Equal(1, cache.Size())

	h.Version = 2
	h.Scales["triad"] = model.Scale{ID: "triad", Degrees: []int{0, 2, 4, 6}, Relative: true}
	third, _, err := cache.Resolve(h, "T")
	require.NoError(t, err)
	assert.Equal(4, third.Cardinality())
	assert.Equal(1, cache.Size())

	_, _, err = cache.Resolve(cyclicHierarchy(), "a")
	assert.Error(err)
}
