package model

type ResolveRequestBody struct {
	Track TrackID   `json:"track"`
	Tick  Tick      `json:"tick"`
	Notes []NoteDoc `json:"notes"`
}

type ResolveResponse struct {
	Pitches  []int    `json:"pitches"`
	Names    []string `json:"names"`
	Warnings []string `json:"warnings,omitempty"`
}

type ScaleResponse struct {
	Track     TrackID  `json:"track"`
	Tonic     int      `json:"tonic"`
	Intervals []int    `json:"intervals"`
	Pitches   []int    `json:"pitches"`
	Names     []string `json:"names"`
	Warnings  []string `json:"warnings,omitempty"`
}

type FrameNote struct {
	Track    TrackID `json:"track"`
	Clip     string  `json:"clip"`
	Pitch    int     `json:"pitch"`
	Velocity uint8   `json:"velocity"`
}

type FrameResponse struct {
	Version  uint64      `json:"version"`
	Tick     Tick        `json:"tick"`
	Notes    []FrameNote `json:"notes"`
	Warnings []string    `json:"warnings,omitempty"`
}

type TransposeKeyRequestBody struct {
	Key       string `json:"key"`
	Mode      string `json:"mode"`
	Halftones int    `json:"halftones"`
}

type TransposePitchRequestBody struct {
	Pitch     int    `json:"pitch"`
	Key       string `json:"key"`
	Mode      string `json:"mode"`
	Halftones int    `json:"halftones"`
}

type TransposeResponse struct {
	Key   string   `json:"key"`
	Pitch *int     `json:"pitch,omitempty"`
	Name  string   `json:"name,omitempty"`
	Table []string `json:"table,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
