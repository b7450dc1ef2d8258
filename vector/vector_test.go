package vector

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var samples = []Vector{
	{},
	{Chromatic: 2},
	{Octave: -1, Chordal: 3},
	{"scale-a": 1, Chromatic: -2},
	{"scale-b": 4, "scale-a": -1, Octave: 2},
	{Chromatic: 0, Octave: 0},
}

func TestAddIsAssociative(t *testing.T) {
	assert := assert.New(t)
	for _, a := range samples {
		for _, b := range samples {
			for _, c := range samples {
				assert.True(Equal(Add(Add(a, b), c), Add(a, Add(b, c))), "%v %v %v", a, b, c)
			}
		}
	}
}

func TestZeroIsIdentity(t *testing.T) {
	for _, v := range samples {
		t.Run(fmt.Sprintf("%v", v), func(t *testing.T) {
			assert := assert.New(t)
			assert.True(Equal(Add(v, Vector{}), v))
			assert.True(Equal(Add(nil, v), v))
			assert.True(Equal(Sum(v), v))
		})
	}
}

func TestAddDropsCancelledAxes(t *testing.T) {
	assert := assert.New(t)
	res := Add(Vector{Chromatic: 2, Octave: 1}, Vector{Chromatic: -2})
	assert.Equal(Vector{Octave: 1}, res)
	assert.False(IsZero(res))
	assert.True(IsZero(Add(Vector{Chromatic: 3}, Vector{Chromatic: -3})))
}

func TestEqualTreatsZeroAsAbsent(t *testing.T) {
	assert := assert.New(t)
	assert.True(Equal(Vector{Chromatic: 0}, Vector{}))
	assert.True(Equal(nil, Vector{Octave: 0}))
	assert.False(Equal(Vector{Octave: 1}, Vector{}))
}

func TestScale(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(Vector{Chromatic: -4, "a": 2}, Scale(Vector{Chromatic: 2, "a": -1}, -2))
	assert.True(IsZero(Scale(Vector{Chromatic: 5}, 0)))
}

func TestOverrideKeepsAbsentAxes(t *testing.T) {
	assert := assert.New(t)
	res := Override(Vector{Chromatic: 1, Octave: 2}, Vector{Chromatic: 3, Octave: 0})
	assert.Equal(Vector{Chromatic: 3, Octave: 2}, res)
}

func TestNonzeroAxesOrder(t *testing.T) {
	assert := assert.New(t)
	v := Vector{"b": 1, Chordal: 1, "a": -1, Chromatic: 2, Octave: 0}
	assert.Equal([]Axis{Chromatic, Chordal, "a", "b"}, NonzeroAxes(v))
	assert.Equal("{chromatic:+2 chordal:+1 a:-1 b:+1}", v.String())
}

func TestIsReserved(t *testing.T) {
	assert := assert.New(t)
	assert.True(IsReserved("octave"))
	assert.False(IsReserved("lead"))
}
