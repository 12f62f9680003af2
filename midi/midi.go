package midi

import (
	"bytes"
	"io"
	"os"

	"github.com/jsphweid/axsd/model"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrUnsupportedTimeFormat = errors.New("unsupported MIDI time format")

const (
	metaPrefix     = 0xFF
	metaTempo      = 0x51
	metaEndOfTrack = 0x2F
)

func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "reading midi file")
	}
	return Read(bytes.NewReader(dat))
}

func Read(r io.Reader) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if p := recover(); p != nil {
			s = nil
			e = errors.Errorf("parsing midi file: %v", p)
		}
	}()

	res, err := smf.ReadFrom(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing midi file")
	}
	return res, nil
}

// TicksPerBeat returns the metric resolution of the file. SMPTE based
// files have no ticks per quarter note and are rejected.
func TicksPerBeat(mf *smf.SMF) (int, error) {
	ticks, ok := mf.TimeFormat.(smf.MetricTicks)
	if !ok {
		return 0, errors.Wrapf(ErrUnsupportedTimeFormat, "%v", mf.TimeFormat)
	}
	if ticks == 0 {
		return 0, errors.Wrap(ErrUnsupportedTimeFormat, "zero ticks per quarter note")
	}
	return int(ticks), nil
}

// track classifies gomidi events as they are read.
type track smf.Track

func (t track) Len() int {
	return len(t)
}

func (t track) Event(i int) model.Event {
	evt := t[i]
	return model.Event{Delta: int64(evt.Delta), Message: Classify(evt.Message)}
}

// Tracks exposes every track of mf in file order without copying it.
func Tracks(mf *smf.SMF) []model.TrackSource {
	res := make([]model.TrackSource, len(mf.Tracks))
	for i, t := range mf.Tracks {
		res[i] = track(t)
	}
	return res
}

// Classify maps a message to the kinds the exporter knows. Anything else
// comes back as model.KindOther.
func Classify(msg smf.Message) model.Message {
	var ch, key, vel, prog uint8
	var rel int16
	var abs uint16

	switch {
	case isMeta(msg, metaTempo):
		raw := []byte(msg)
		if len(raw) < 6 || raw[2] != 3 {
			return model.Message{Kind: model.KindOther}
		}
		tempo := uint32(raw[3])<<16 | uint32(raw[4])<<8 | uint32(raw[5])
		return model.Message{Kind: model.KindTempo, Tempo: tempo}
	case isMeta(msg, metaEndOfTrack):
		return model.Message{Kind: model.KindEndOfTrack}
	case msg.GetNoteOn(&ch, &key, &vel):
		return model.Message{Kind: model.KindNoteOn, Channel: ch, Note: key, Velocity: vel}
	case msg.GetNoteOff(&ch, &key, &vel):
		return model.Message{Kind: model.KindNoteOff, Channel: ch, Note: key, Velocity: vel}
	case msg.GetPitchBend(&ch, &rel, &abs):
		return model.Message{Kind: model.KindPitchBend, Channel: ch, Bend: int32(rel)}
	case msg.GetProgramChange(&ch, &prog):
		return model.Message{Kind: model.KindProgramChange, Channel: ch, Program: prog}
	}
	return model.Message{Kind: model.KindOther}
}

func isMeta(msg smf.Message, typ byte) bool {
	raw := []byte(msg)
	return len(raw) >= 2 && raw[0] == metaPrefix && raw[1] == typ
}
