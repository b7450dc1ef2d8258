package model

import "github.com/jsphweid/scaletree/vector"

// NoteDoc is the wire form of a PatternNote: {"midi": 60} for absolute
// notes, {"scale": "A", "degree": 2, "offset": {...}} for relative ones.
type NoteDoc struct {
	MIDI   *int          `json:"midi,omitempty"`
	Scale  string        `json:"scale,omitempty"`
	Degree int           `json:"degree,omitempty"`
	Offset vector.Vector `json:"offset,omitempty"`
}

func (d NoteDoc) ToNote() PatternNote {
	if d.MIDI != nil {
		return AbsoluteNote{MIDI: *d.MIDI}
	}
	return RelativeNote{ScaleID: d.Scale, Degree: d.Degree, Offset: vector.Normalize(d.Offset)}
}

func DocFromNote(n PatternNote) NoteDoc {
	switch n := n.(type) {
	case AbsoluteNote:
		midi := n.MIDI
		return NoteDoc{MIDI: &midi}
	case RelativeNote:
		var offset vector.Vector
		if !vector.IsZero(n.Offset) {
			offset = vector.Normalize(n.Offset)
		}
		return NoteDoc{Scale: n.ScaleID, Degree: n.Degree, Offset: offset}
	}
	return NoteDoc{}
}

func NotesFromDocs(docs []NoteDoc) []PatternNote {
	res := make([]PatternNote, 0, len(docs))
	for _, d := range docs {
		res = append(res, d.ToNote())
	}
	return res
}
