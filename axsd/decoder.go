package axsd

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"github.com/jsphweid/axsd/model"
	"github.com/pkg/errors"
)

// Decoder reads records one at a time. The version record decides which
// tags are accepted for the rest of the stream.
type Decoder struct {
	r       *bufio.Reader
	version Version
	rate    uint32
	stage   stage
	started bool
	sawRate bool
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Version is zero until the version record has been read.
func (d *Decoder) Version() Version {
	return d.version
}

func (d *Decoder) Rate() uint32 {
	return d.rate
}

func (d *Decoder) read(data any) error {
	err := binary.Read(d.r, binary.LittleEndian, data)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return errors.Wrap(err, "reading axsd record")
}

// Next returns the next record. After the end marker it returns io.EOF, or
// ErrTrailingData if anything follows the marker.
func (d *Decoder) Next() (Record, error) {
	if d.stage == stageDone {
		_, err := d.r.ReadByte()
		switch err {
		case nil:
			return Record{}, ErrTrailingData
		case io.EOF:
			return Record{}, io.EOF
		}
		return Record{}, errors.Wrap(err, "reading past end marker")
	}

	if !d.started {
		var magic [4]byte
		if _, err := io.ReadFull(d.r, magic[:]); err != nil || magic != Magic {
			return Record{}, ErrBadMagic
		}
		d.started = true
	}

	b, err := d.r.ReadByte()
	if err == io.EOF {
		return Record{}, ErrMissingEnd
	}
	if err != nil {
		return Record{}, errors.Wrap(err, "reading axsd tag")
	}
	tag := Tag(b)
	if !V3.Supports(tag) {
		return Record{}, errors.Wrapf(ErrUnknownTag, "0x%02X", b)
	}

	if d.version == 0 && tag != TagVersion {
		return Record{}, errors.Wrapf(ErrRecordOrder, "%s before version", tag)
	}
	if d.version != 0 && !d.sawRate && tag != TagRate {
		return Record{}, errors.Wrapf(ErrRecordOrder, "%s before rate", tag)
	}
	if d.version != 0 && !d.version.Supports(tag) {
		return Record{}, errors.Wrapf(ErrVersionFeature, "%s in version %d", tag, d.version)
	}

	rec := Record{Tag: tag}
	switch tag {
	case TagVersion:
		if d.version != 0 {
			return Record{}, errors.Wrap(ErrRecordOrder, "second version record")
		}
		var body versionBody
		if err := d.read(&body); err != nil {
			return Record{}, err
		}
		v := Version(body.Version)
		if !v.Valid() {
			return Record{}, errors.Wrapf(ErrUnsupportedVersion, "%d", body.Version)
		}
		d.version = v
		rec.Version = v
	case TagRate:
		if d.sawRate {
			return Record{}, errors.Wrap(ErrRecordOrder, "second rate record")
		}
		var body rateBody
		if err := d.read(&body); err != nil {
			return Record{}, err
		}
		d.sawRate = true
		d.stage = stageHeader
		d.rate = body.Rate
		rec.Rate = body.Rate
	case TagDrum:
		if d.stage > stageDrums {
			return Record{}, errors.Wrap(ErrRecordOrder, "drum after patches or events")
		}
		var body drumBody
		if err := d.read(&body); err != nil {
			return Record{}, err
		}
		pcm, err := d.pcm(body.Frames)
		if err != nil {
			return Record{}, err
		}
		rec.Sample = &model.Sample{
			Kind:  model.Drum,
			Index: body.Index,
			Pitch: body.Pitch,
			Gain:  [2]float32{body.GainL, body.GainR},
			PCM:   pcm,
		}
		d.stage = stageDrums
	case TagPatch:
		if d.stage > stagePatches {
			return Record{}, errors.Wrap(ErrRecordOrder, "patch after events")
		}
		var body patchBody
		if err := d.read(&body); err != nil {
			return Record{}, err
		}
		pcm, err := d.pcm(body.Frames)
		if err != nil {
			return Record{}, err
		}
		rec.Sample = &model.Sample{
			Kind:      model.Patch,
			Index:     body.Index,
			Pitch:     body.Pitch,
			Gain:      [2]float32{body.GainL, body.GainR},
			LoopStart: body.LoopStart,
			LoopEnd:   body.LoopEnd,
			PCM:       pcm,
		}
		d.stage = stagePatches
	case TagNoteOn:
		var body noteOnBody
		if err := d.read(&body); err != nil {
			return Record{}, err
		}
		rec.Frame, rec.Channel, rec.Note, rec.Velocity = body.Frame, body.Channel, body.Note, body.Velocity
		d.stage = stageEvents
	case TagNoteOff:
		var body noteOffBody
		if err := d.read(&body); err != nil {
			return Record{}, err
		}
		rec.Frame, rec.Channel = body.Frame, body.Channel
		d.stage = stageEvents
	case TagPitchBend:
		var body pitchBendBody
		if err := d.read(&body); err != nil {
			return Record{}, err
		}
		rec.Frame, rec.Channel, rec.Pitch = body.Frame, body.Channel, body.Pitch
		d.stage = stageEvents
	case TagProgramChange:
		var body programBody
		if err := d.read(&body); err != nil {
			return Record{}, err
		}
		rec.Frame, rec.Channel, rec.Program = body.Frame, body.Channel, body.Program
		d.stage = stageEvents
	case TagEnd:
		var body endBody
		if err := d.read(&body); err != nil {
			return Record{}, err
		}
		rec.Frame = body.Frame
		d.stage = stageDone
	}
	return rec, nil
}

// pcm reads frame bytes without trusting the declared size for the
// allocation.
func (d *Decoder) pcm(frames uint32) ([]byte, error) {
	buf := new(bytes.Buffer)
	if _, err := io.CopyN(buf, d.r, int64(frames)); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, errors.Wrap(err, "reading sample data")
	}
	return buf.Bytes(), nil
}

// DecodeAll reads a complete stream, end marker included.
func DecodeAll(r io.Reader) ([]Record, error) {
	d := NewDecoder(r)
	var res []Record
	for {
		rec, err := d.Next()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return res, err
		}
		res = append(res, rec)
	}
}
