package vector

import (
	"fmt"
	"sort"
	"strings"
)

// Axis names one dimension of a transposition. Besides the three fixed
// axes, every scale track id is an axis of its own.
type Axis string

const (
	Chromatic Axis = "chromatic"
	Octave    Axis = "octave"
	Chordal   Axis = "chordal"
)

// Vector is a sparse offset per axis. A missing axis reads as 0.
type Vector map[Axis]int

// IsReserved reports whether name collides with one of the fixed axes.
func IsReserved(name string) bool {
	switch Axis(name) {
	case Chromatic, Octave, Chordal:
		return true
	}
	return false
}

func (v Vector) Get(axis Axis) int {
	return v[axis]
}

// Add unions the axes of a and b, summing shared ones. Zero results are
// dropped so output stays stable.
func Add(a, b Vector) Vector {
	res := make(Vector, len(a)+len(b))
	for axis, n := range a {
		res[axis] += n
	}
	for axis, n := range b {
		res[axis] += n
	}
	return Normalize(res)
}

// Sum folds Add over vs. Sum() is the zero vector.
func Sum(vs ...Vector) Vector {
	res := Vector{}
	for _, v := range vs {
		res = Add(res, v)
	}
	return res
}

// Scale multiplies every axis by k.
func Scale(v Vector, k int) Vector {
	res := make(Vector, len(v))
	for axis, n := range v {
		res[axis] = n * k
	}
	return Normalize(res)
}

// Override returns base with every non-zero axis of top replacing the
// value in base. Zero or absent axes in top leave base alone.
func Override(base, top Vector) Vector {
	res := make(Vector, len(base)+len(top))
	for axis, n := range base {
		res[axis] = n
	}
	for axis, n := range top {
		if n != 0 {
			res[axis] = n
		}
	}
	return Normalize(res)
}

// Normalize drops zero entries. It never returns nil.
func Normalize(v Vector) Vector {
	res := make(Vector, len(v))
	for axis, n := range v {
		if n != 0 {
			res[axis] = n
		}
	}
	return res
}

func IsZero(v Vector) bool {
	for _, n := range v {
		if n != 0 {
			return false
		}
	}
	return true
}

// Equal treats absent and zero axes as the same thing.
func Equal(a, b Vector) bool {
	for axis, n := range a {
		if b[axis] != n {
			return false
		}
	}
	for axis, n := range b {
		if a[axis] != n {
			return false
		}
	}
	return true
}

func rank(axis Axis) int {
	switch axis {
	case Chromatic:
		return 0
	case Octave:
		return 1
	case Chordal:
		return 2
	}
	return 3
}

// NonzeroAxes lists the axes with a non-zero value: the fixed axes first,
// then track axes in lexical order.
func NonzeroAxes(v Vector) []Axis {
	var res []Axis
	for axis, n := range v {
		if n != 0 {
			res = append(res, axis)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		ri, rj := rank(res[i]), rank(res[j])
		if ri != rj {
			return ri < rj
		}
		return res[i] < res[j]
	})
	return res
}

func (v Vector) String() string {
	axes := NonzeroAxes(v)
	parts := make([]string, 0, len(axes))
	for _, axis := range axes {
		parts = append(parts, fmt.Sprintf("%v:%+d", axis, v[axis]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}
