package axsd

import (
	"encoding/binary"
	"io"

	"github.com/jsphweid/axsd/model"
	"github.com/pkg/errors"
)

type stage uint8

const (
	stageStart stage = iota
	stageHeader
	stageDrums
	stagePatches
	stageEvents
	stageDone
)

// Encoder writes one AXSD stream. Records are appended as they come and the
// encoder refuses any call that would break the record order:
// header, drums, patches, events, end.
type Encoder struct {
	w       io.Writer
	version Version
	stage   stage
	written int64
	counts  map[Tag]int
}

func NewEncoder(w io.Writer, v Version) (*Encoder, error) {
	if !v.Valid() {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "%d", v)
	}
	return &Encoder{w: w, version: v, counts: make(map[Tag]int)}, nil
}

func (e *Encoder) Version() Version {
	return e.version
}

// Written returns the number of bytes written so far.
func (e *Encoder) Written() int64 {
	return e.written
}

// Count returns how many records with the tag have been written.
func (e *Encoder) Count(t Tag) int {
	return e.counts[t]
}

func (e *Encoder) write(data any) error {
	if err := binary.Write(e.w, binary.LittleEndian, data); err != nil {
		return errors.Wrap(err, "writing axsd record")
	}
	e.written += int64(binary.Size(data))
	return nil
}

func (e *Encoder) record(t Tag, body any) error {
	if !e.version.Supports(t) {
		return errors.Wrapf(ErrVersionFeature, "%s in version %d", t, e.version)
	}
	if err := e.write(t); err != nil {
		return err
	}
	if err := e.write(body); err != nil {
		return err
	}
	e.counts[t]++
	return nil
}

// WriteHeader writes the magic, the version record and the rate record.
func (e *Encoder) WriteHeader(rate uint32) error {
	if e.stage != stageStart {
		return errors.Wrap(ErrRecordOrder, "header already written")
	}
	if err := e.write(Magic); err != nil {
		return err
	}
	if err := e.record(TagVersion, versionBody{Version: uint16(e.version)}); err != nil {
		return err
	}
	if err := e.record(TagRate, rateBody{Rate: rate}); err != nil {
		return err
	}
	e.stage = stageHeader
	return nil
}

// WriteSample writes a drum or patch record followed by its PCM bytes.
// All drums must come before all patches, and both before any event.
func (e *Encoder) WriteSample(s model.Sample) error {
	want := stageDrums
	if s.Kind == model.Patch {
		want = stagePatches
	}
	if e.stage < stageHeader || e.stage > want {
		return errors.Wrapf(ErrRecordOrder, "%s %d", s.Kind, s.Index)
	}

	var err error
	if s.Kind == model.Patch {
		err = e.record(TagPatch, patchBody{
			Index:     s.Index,
			Frames:    s.FrameCount(),
			LoopStart: s.LoopStart,
			LoopEnd:   s.LoopEnd,
			Pitch:     s.Pitch,
			GainL:     s.Gain[0],
			GainR:     s.Gain[1],
		})
	} else {
		err = e.record(TagDrum, drumBody{
			Index:  s.Index,
			Frames: s.FrameCount(),
			Pitch:  s.Pitch,
			GainL:  s.Gain[0],
			GainR:  s.Gain[1],
		})
	}
	if err != nil {
		return err
	}

	n, err := e.w.Write(s.PCM)
	e.written += int64(n)
	if err != nil {
		return errors.Wrap(err, "writing sample data")
	}
	e.stage = want
	return nil
}

// WriteEvent writes one resolved note, pitch-bend or program-change event.
func (e *Encoder) WriteEvent(ev model.TimedEvent) error {
	if e.stage < stageHeader || e.stage == stageDone {
		return errors.Wrapf(ErrRecordOrder, "%s event", ev.Message.Kind)
	}

	msg := ev.Message
	var err error
	switch msg.Kind {
	case model.KindNoteOn:
		err = e.record(TagNoteOn, noteOnBody{Frame: ev.Frame, Channel: msg.Channel, Note: msg.Note, Velocity: msg.Velocity})
	case model.KindNoteOff:
		err = e.record(TagNoteOff, noteOffBody{Frame: ev.Frame, Channel: msg.Channel})
	case model.KindPitchBend:
		err = e.record(TagPitchBend, pitchBendBody{Frame: ev.Frame, Channel: msg.Channel, Pitch: msg.Bend})
	case model.KindProgramChange:
		err = e.record(TagProgramChange, programBody{Frame: ev.Frame, Channel: msg.Channel, Program: msg.Program})
	default:
		return errors.Wrapf(ErrUnknownTag, "no record for %s", msg.Kind)
	}
	if err != nil {
		return err
	}
	e.stage = stageEvents
	return nil
}

// WriteEnd terminates the stream. Nothing can be written afterwards.
func (e *Encoder) WriteEnd(frame uint32) error {
	if e.stage < stageHeader || e.stage == stageDone {
		return errors.Wrap(ErrRecordOrder, "end marker")
	}
	if err := e.record(TagEnd, endBody{Frame: frame}); err != nil {
		return err
	}
	e.stage = stageDone
	return nil
}
