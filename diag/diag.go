package diag

import (
	"fmt"
	"strings"
)

// CycleError means the parent links of a hierarchy loop back on
// themselves. Resolution must never be attempted on such a hierarchy.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("track hierarchy has a cycle: %v", strings.Join(e.Path, " -> "))
}

type RefKind string

const (
	ScaleRef   RefKind = "scale"
	TrackRef   RefKind = "track"
	PoseRef    RefKind = "pose"
	PatternRef RefKind = "pattern"
)

// MissingReferenceError is recoverable: the resolver substitutes a safe
// default (chromatic scale, zero vector) and reports it as a warning.
type MissingReferenceError struct {
	Kind     RefKind
	ID       string
	Referrer string
}

func (e *MissingReferenceError) Error() string {
	if e.Referrer == "" {
		return fmt.Sprintf("missing %v %q", e.Kind, e.ID)
	}
	return fmt.Sprintf("missing %v %q referenced by %q", e.Kind, e.ID, e.Referrer)
}

func Missing(kind RefKind, id, referrer string) *MissingReferenceError {
	return &MissingReferenceError{Kind: kind, ID: id, Referrer: referrer}
}

// Warnings travel next to a resolved value instead of failing the call.
type Warnings []error

func (w *Warnings) Add(errs ...error) {
	for _, err := range errs {
		if err != nil {
			*w = append(*w, err)
		}
	}
}

// Dedup drops repeated messages, keeping first occurrences in order.
func (w Warnings) Dedup() Warnings {
	seen := make(map[string]bool)
	var res Warnings
	for _, err := range w {
		if seen[err.Error()] {
			continue
		}
		seen[err.Error()] = true
		res = append(res, err)
	}
	return res
}

func (w Warnings) Strings() []string {
	res := make([]string, 0, len(w))
	for _, err := range w {
		res = append(res, err.Error())
	}
	return res
}
