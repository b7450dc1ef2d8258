package util

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
)

// GatherAllMidiPaths walks path collecting .mid/.midi files. maxNum 0
// means no limit.
func GatherAllMidiPaths(path string, maxNum int) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			lower := strings.ToLower(s)
			if strings.HasSuffix(lower, ".mid") || strings.HasSuffix(lower, ".midi") {
				if maxNum == 0 || len(res) < maxNum {
					res = append(res, s)
				}
			}
		}
		return nil
	}
	if err := filepath.WalkDir(path, walk); err != nil {
		return nil, err
	}
	return res, nil
}

// GetKeys returns the keys of m in ascending order.
func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := maps.Keys(m)
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func Min[A constraints.Integer](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Max[A constraints.Integer](num1 A, num2 A) A {
	if num1 < num2 {
		return num2
	}
	return num1
}

func Clamp[A constraints.Integer](num, lo, hi A) A {
	return Min(Max(num, lo), hi)
}

func Sum[A constraints.Integer](nums []A) int64 {
	var total int64
	for _, v := range nums {
		total += int64(v)
	}
	return total
}

// FloorDiv divides rounding toward negative infinity and returns the
// matching non-negative remainder. d must be positive.
func FloorDiv[A constraints.Integer](n, d A) (A, A) {
	q, r := n/d, n%d
	if r < 0 {
		q--
		r += d
	}
	return q, r
}

func Mod[A constraints.Integer](n, d A) A {
	_, r := FloorDiv(n, d)
	return r
}
