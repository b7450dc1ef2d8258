package model

type ScaleID = string

// Scale is either a literal list of MIDI notes or a list of degrees into
// the parent track's resolved scale. Relative scales may rotate the parent
// with Tonic, a degree offset.
type Scale struct {
	ID       ScaleID
	Name     string
	Notes    []int
	Degrees  []int
	Tonic    int
	Relative bool
}

func (s Scale) Cardinality() int {
	if s.Relative {
		return len(s.Degrees)
	}
	return len(s.Notes)
}
