package model

type RecordJSON struct {
	Tag       string    `json:"tag"`
	Frame     *uint32   `json:"frame,omitempty"`
	Version   uint16    `json:"version,omitempty"`
	Rate      uint32    `json:"rate,omitempty"`
	Channel   *uint8    `json:"channel,omitempty"`
	Note      *uint8    `json:"note,omitempty"`
	Velocity  *uint8    `json:"velocity,omitempty"`
	Program   *uint8    `json:"program,omitempty"`
	Pitch     *int32    `json:"pitch,omitempty"`
	Index     *uint8    `json:"index,omitempty"`
	Frames    uint32    `json:"frames,omitempty"`
	LoopStart *uint32   `json:"loop_start,omitempty"`
	LoopEnd   *uint32   `json:"loop_end,omitempty"`
	Scale     float32   `json:"scale,omitempty"`
	Gain      []float32 `json:"gain,omitempty"`
}

type InspectResponse struct {
	Version uint16       `json:"version"`
	Rate    uint32       `json:"rate"`
	End     uint32       `json:"end"`
	Records []RecordJSON `json:"records"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
