package axsd

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/jsphweid/axsd/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func on(frame uint32, ch, note, vel uint8) model.TimedEvent {
	return model.TimedEvent{Frame: frame, Message: model.Message{Kind: model.KindNoteOn, Channel: ch, Note: note, Velocity: vel}}
}

func off(frame uint32, ch uint8) model.TimedEvent {
	return model.TimedEvent{Frame: frame, Message: model.Message{Kind: model.KindNoteOff, Channel: ch}}
}

func bend(frame uint32, ch uint8, pitch int32) model.TimedEvent {
	return model.TimedEvent{Frame: frame, Message: model.Message{Kind: model.KindPitchBend, Channel: ch, Bend: pitch}}
}

func program(frame uint32, ch, prog uint8) model.TimedEvent {
	return model.TimedEvent{Frame: frame, Message: model.Message{Kind: model.KindProgramChange, Channel: ch, Program: prog}}
}

func newEncoder(t *testing.T, buf *bytes.Buffer, v Version) *Encoder {
	t.Helper()
	enc, err := NewEncoder(buf, v)
	require.NoError(t, err)
	require.NoError(t, enc.WriteHeader(60))
	return enc
}

func TestEncodeExactBytes(t *testing.T) {
	buf := new(bytes.Buffer)
	enc := newEncoder(t, buf, V1)
	require.NoError(t, enc.WriteEvent(on(30, 0, 60, 100)))
	require.NoError(t, enc.WriteEnd(60))

	want := []byte{
		'A', 'X', 'S', 'D',
		0xFC, 0x01, 0x00,
		0xFD, 0x3C, 0x00, 0x00, 0x00,
		0x01, 0x1E, 0x00, 0x00, 0x00, 0x00, 0x3C, 0x64,
		0xFE, 0x3C, 0x00, 0x00, 0x00,
	}
	assert.Equal(t, want, buf.Bytes())
	assert.Equal(t, int64(len(want)), enc.Written())
	assert.Equal(t, V1, enc.Version())
	assert.Equal(t, 1, enc.Count(TagNoteOn))
	assert.Equal(t, 1, enc.Count(TagEnd))
}

func TestEncodeRecordSizes(t *testing.T) {
	cases := []struct {
		name  string
		write func(*Encoder) error
		size  int
	}{
		{"note on", func(e *Encoder) error { return e.WriteEvent(on(1, 0, 60, 1)) }, 8},
		{"note off", func(e *Encoder) error { return e.WriteEvent(off(1, 0)) }, 6},
		{"pitch bend", func(e *Encoder) error { return e.WriteEvent(bend(1, 0, -1)) }, 10},
		{"program change", func(e *Encoder) error { return e.WriteEvent(program(1, 0, 3)) }, 7},
		{"drum", func(e *Encoder) error {
			return e.WriteSample(model.Sample{Kind: model.Drum, PCM: []byte{1, 2, 3}})
		}, 18 + 3},
		{"patch", func(e *Encoder) error {
			return e.WriteSample(model.Sample{Kind: model.Patch, PCM: []byte{1, 2}})
		}, 26 + 2},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			enc := newEncoder(t, buf, V3)
			before := buf.Len()
			require.NoError(t, c.write(enc))
			assert.Equal(t, c.size, buf.Len()-before)
		})
	}
}

func TestPitchBendIsSignedLittleEndian(t *testing.T) {
	buf := new(bytes.Buffer)
	enc := newEncoder(t, buf, V1)
	before := buf.Len()
	require.NoError(t, enc.WriteEvent(bend(2, 1, -2)))
	assert.Equal(t, []byte{0x03, 0x02, 0, 0, 0, 0x01, 0xFE, 0xFF, 0xFF, 0xFF}, buf.Bytes()[before:])
}

func TestRoundTrip(t *testing.T) {
	drum := model.Sample{Kind: model.Drum, Index: 36, Pitch: 1.5, Gain: [2]float32{0.25, 0.75}, PCM: []byte{0, 128, 255}}
	patch := model.Sample{Kind: model.Patch, Index: 2, Pitch: 0.5, Gain: [2]float32{1, 1}, LoopStart: 1, LoopEnd: 4, PCM: []byte{10, 20, 30, 40}}

	buf := new(bytes.Buffer)
	enc := newEncoder(t, buf, V3)
	require.NoError(t, enc.WriteSample(drum))
	require.NoError(t, enc.WriteSample(patch))
	require.NoError(t, enc.WriteEvent(program(0, 9, 5)))
	require.NoError(t, enc.WriteEvent(on(10, 9, 36, 127)))
	require.NoError(t, enc.WriteEvent(bend(12, 9, 8191)))
	require.NoError(t, enc.WriteEvent(off(5, 9)))
	require.NoError(t, enc.WriteEnd(99))

	records, err := DecodeAll(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	want := []Record{
		{Tag: TagVersion, Version: V3},
		{Tag: TagRate, Rate: 60},
		{Tag: TagDrum, Sample: &drum},
		{Tag: TagPatch, Sample: &patch},
		{Tag: TagProgramChange, Frame: 0, Channel: 9, Program: 5},
		{Tag: TagNoteOn, Frame: 10, Channel: 9, Note: 36, Velocity: 127},
		{Tag: TagPitchBend, Frame: 12, Channel: 9, Pitch: 8191},
		{Tag: TagNoteOff, Frame: 5, Channel: 9},
		{Tag: TagEnd, Frame: 99},
	}
	assert.Equal(t, want, records)
}

func TestNewEncoderRejectsUnknownVersion(t *testing.T) {
	_, err := NewEncoder(io.Discard, Version(2))
	assert.True(t, errors.Is(err, ErrUnsupportedVersion))
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion(3)
	require.NoError(t, err)
	assert.Equal(t, V3, v)

	for _, n := range []int{0, 2, 4, -1, 0x10001} {
		_, err := ParseVersion(n)
		assert.True(t, errors.Is(err, ErrUnsupportedVersion), "version %d", n)
	}
}

func TestV1RejectsV3Records(t *testing.T) {
	enc := newEncoder(t, new(bytes.Buffer), V1)
	assert.True(t, errors.Is(enc.WriteEvent(program(0, 0, 1)), ErrVersionFeature))
	assert.True(t, errors.Is(enc.WriteSample(model.Sample{Kind: model.Drum}), ErrVersionFeature))
}

func TestEncoderOrder(t *testing.T) {
	t.Run("event before header", func(t *testing.T) {
		enc, err := NewEncoder(new(bytes.Buffer), V3)
		require.NoError(t, err)
		assert.True(t, errors.Is(enc.WriteEvent(on(0, 0, 1, 1)), ErrRecordOrder))
		assert.True(t, errors.Is(enc.WriteEnd(0), ErrRecordOrder))
	})

	t.Run("header twice", func(t *testing.T) {
		enc := newEncoder(t, new(bytes.Buffer), V3)
		assert.True(t, errors.Is(enc.WriteHeader(60), ErrRecordOrder))
	})

	t.Run("drum after patch", func(t *testing.T) {
		enc := newEncoder(t, new(bytes.Buffer), V3)
		require.NoError(t, enc.WriteSample(model.Sample{Kind: model.Patch}))
		assert.True(t, errors.Is(enc.WriteSample(model.Sample{Kind: model.Drum}), ErrRecordOrder))
	})

	t.Run("sample after event", func(t *testing.T) {
		enc := newEncoder(t, new(bytes.Buffer), V3)
		require.NoError(t, enc.WriteEvent(on(0, 0, 1, 1)))
		assert.True(t, errors.Is(enc.WriteSample(model.Sample{Kind: model.Patch}), ErrRecordOrder))
	})

	t.Run("anything after end", func(t *testing.T) {
		enc := newEncoder(t, new(bytes.Buffer), V3)
		require.NoError(t, enc.WriteEnd(0))
		assert.True(t, errors.Is(enc.WriteEvent(on(0, 0, 1, 1)), ErrRecordOrder))
		assert.True(t, errors.Is(enc.WriteEnd(0), ErrRecordOrder))
	})

	t.Run("unknown kind", func(t *testing.T) {
		enc := newEncoder(t, new(bytes.Buffer), V3)
		err := enc.WriteEvent(model.TimedEvent{Message: model.Message{Kind: model.KindTempo}})
		assert.True(t, errors.Is(err, ErrUnknownTag))
	})
}

func header(v uint16) []byte {
	return []byte{'A', 'X', 'S', 'D', 0xFC, byte(v), byte(v >> 8), 0xFD, 60, 0, 0, 0}
}

func TestDecodeErrors(t *testing.T) {
	end := []byte{0xFE, 0, 0, 0, 0}
	cases := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrBadMagic},
		{"bad magic", []byte("AXSE\xFC\x01\x00"), ErrBadMagic},
		{"version 2", append(header(2), end...), ErrUnsupportedVersion},
		{"rate first", []byte("AXSD\xFD\x3C\x00\x00\x00"), ErrRecordOrder},
		{"event before rate", []byte("AXSD\xFC\x01\x00\x02\x00\x00\x00\x00\x00"), ErrRecordOrder},
		{"unknown tag", append(header(3), 0x42), ErrUnknownTag},
		{"unknown tag before version", []byte("AXSD\x42"), ErrUnknownTag},
		{"unknown tag before rate", []byte("AXSD\xFC\x03\x00\x07"), ErrUnknownTag},
		{"program in v1", append(header(1), 0x04, 0, 0, 0, 0, 0, 0), ErrVersionFeature},
		{"drum in v1", append(header(1), 0x81), ErrVersionFeature},
		{"missing end", header(3), ErrMissingEnd},
		{"truncated record", append(header(3), 0x01, 0, 0), io.ErrUnexpectedEOF},
		{"truncated pcm", append(header(3), 0x81, 1, 5, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 2), io.ErrUnexpectedEOF},
		{"trailing data", append(append(header(3), end...), 0x00), ErrTrailingData},
		{"second rate", append(header(3), 0xFD, 60, 0, 0, 0), ErrRecordOrder},
		{"second version", append(header(3), 0xFC, 3, 0), ErrRecordOrder},
		{"patch after event", append(header(3), 0x02, 0, 0, 0, 0, 0, 0x80), ErrRecordOrder},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := DecodeAll(bytes.NewReader(c.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, c.want), "got %v", err)
		})
	}
}

func TestDecoderNextAfterEnd(t *testing.T) {
	data := append(header(1), 0xFE, 7, 0, 0, 0)
	d := NewDecoder(bytes.NewReader(data))
	var last Record
	for i := 0; i < 3; i++ {
		rec, err := d.Next()
		require.NoError(t, err)
		last = rec
	}
	assert.Equal(t, Record{Tag: TagEnd, Frame: 7}, last)
	assert.Equal(t, V1, d.Version())
	assert.Equal(t, uint32(60), d.Rate())

	_, err := d.Next()
	assert.Equal(t, io.EOF, err)
}

func TestRecordJSON(t *testing.T) {
	j := Record{Tag: TagNoteOn, Frame: 3, Channel: 1, Note: 60, Velocity: 99}.JSON()
	assert.Equal(t, "note_on", j.Tag)
	require.NotNil(t, j.Frame)
	assert.Equal(t, uint32(3), *j.Frame)
	assert.Equal(t, uint8(60), *j.Note)
	assert.Nil(t, j.Program)

	s := model.Sample{Kind: model.Patch, Index: 4, Pitch: 2, Gain: [2]float32{0.5, 1}, LoopStart: 1, LoopEnd: 2, PCM: []byte{1, 2, 3}}
	j = Record{Tag: TagPatch, Sample: &s}.JSON()
	assert.Equal(t, uint32(3), j.Frames)
	assert.Equal(t, []float32{0.5, 1}, j.Gain)
	assert.Equal(t, uint32(2), *j.LoopEnd)
}

func TestRecordString(t *testing.T) {
	assert.Equal(t, "version 3", Record{Tag: TagVersion, Version: V3}.String())
	assert.Equal(t, "      12 note_off ch=4", Record{Tag: TagNoteOff, Frame: 12, Channel: 4}.String())
	assert.Equal(t, "tag(0x42)", Tag(0x42).String())
}

func TestFloatFieldsAreIEEE(t *testing.T) {
	buf := new(bytes.Buffer)
	enc := newEncoder(t, buf, V3)
	before := buf.Len()
	require.NoError(t, enc.WriteSample(model.Sample{Kind: model.Drum, Index: 1, Pitch: 1, Gain: [2]float32{0.5, -2}}))
	rec := buf.Bytes()[before:]
	pitch := math.Float32frombits(uint32(rec[6]) | uint32(rec[7])<<8 | uint32(rec[8])<<16 | uint32(rec[9])<<24)
	assert.Equal(t, float32(1), pitch)
	gainR := math.Float32frombits(uint32(rec[14]) | uint32(rec[15])<<8 | uint32(rec[16])<<16 | uint32(rec[17])<<24)
	assert.Equal(t, float32(-2), gainR)
}
