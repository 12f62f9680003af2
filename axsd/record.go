package axsd

import (
	"fmt"

	"github.com/jsphweid/axsd/model"
)

// Record is one decoded record. Only the fields relevant to Tag are set.
type Record struct {
	Tag      Tag
	Frame    uint32
	Version  Version
	Rate     uint32
	Channel  uint8
	Note     uint8
	Velocity uint8
	Program  uint8
	Pitch    int32
	// Sample is set for drum and patch records.
	Sample *model.Sample
}

func (r Record) String() string {
	switch r.Tag {
	case TagVersion:
		return fmt.Sprintf("version %d", r.Version)
	case TagRate:
		return fmt.Sprintf("rate %d", r.Rate)
	case TagDrum:
		s := r.Sample
		return fmt.Sprintf("drum %d frames=%d pitch=%g gain=%g,%g", s.Index, s.FrameCount(), s.Pitch, s.Gain[0], s.Gain[1])
	case TagPatch:
		s := r.Sample
		return fmt.Sprintf("patch %d frames=%d loop=%d..%d pitch=%g gain=%g,%g",
			s.Index, s.FrameCount(), s.LoopStart, s.LoopEnd, s.Pitch, s.Gain[0], s.Gain[1])
	case TagNoteOn:
		return fmt.Sprintf("%8d note_on ch=%d note=%d vel=%d", r.Frame, r.Channel, r.Note, r.Velocity)
	case TagNoteOff:
		return fmt.Sprintf("%8d note_off ch=%d", r.Frame, r.Channel)
	case TagPitchBend:
		return fmt.Sprintf("%8d pitchwheel ch=%d pitch=%d", r.Frame, r.Channel, r.Pitch)
	case TagProgramChange:
		return fmt.Sprintf("%8d program_change ch=%d program=%d", r.Frame, r.Channel, r.Program)
	case TagEnd:
		return fmt.Sprintf("%8d end_of_track", r.Frame)
	}
	return r.Tag.String()
}

// JSON converts the record into its HTTP/CLI JSON form.
func (r Record) JSON() model.RecordJSON {
	res := model.RecordJSON{Tag: r.Tag.String()}
	frame, channel := r.Frame, r.Channel
	switch r.Tag {
	case TagVersion:
		res.Version = uint16(r.Version)
	case TagRate:
		res.Rate = r.Rate
	case TagDrum, TagPatch:
		s := r.Sample
		index := s.Index
		res.Index = &index
		res.Frames = s.FrameCount()
		res.Scale = s.Pitch
		res.Gain = []float32{s.Gain[0], s.Gain[1]}
		if r.Tag == TagPatch {
			start, end := s.LoopStart, s.LoopEnd
			res.LoopStart, res.LoopEnd = &start, &end
		}
	case TagNoteOn:
		note, vel := r.Note, r.Velocity
		res.Frame, res.Channel, res.Note, res.Velocity = &frame, &channel, &note, &vel
	case TagNoteOff:
		res.Frame, res.Channel = &frame, &channel
	case TagPitchBend:
		pitch := r.Pitch
		res.Frame, res.Channel, res.Pitch = &frame, &channel, &pitch
	case TagProgramChange:
		program := r.Program
		res.Frame, res.Channel, res.Program = &frame, &channel, &program
	case TagEnd:
		res.Frame = &frame
	}
	return res
}
