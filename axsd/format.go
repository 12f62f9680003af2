// Package axsd reads and writes AXSD streams.
//
// A stream is the 4 byte magic "AXSD" followed by tagged little-endian
// records: a version record, a rate record, sample-bank records (version 3
// only), note events, and exactly one end marker. There is no index; a
// stream can only be read front to back.
package axsd

import (
	"fmt"

	"github.com/pkg/errors"
)

type Tag uint8

const (
	TagNoteOn        Tag = 0x01
	TagNoteOff       Tag = 0x02
	TagPitchBend     Tag = 0x03
	TagProgramChange Tag = 0x04
	TagPatch         Tag = 0x80
	TagDrum          Tag = 0x81
	TagVersion       Tag = 0xFC
	TagRate          Tag = 0xFD
	TagEnd           Tag = 0xFE
)

func (t Tag) String() string {
	switch t {
	case TagNoteOn:
		return "note_on"
	case TagNoteOff:
		return "note_off"
	case TagPitchBend:
		return "pitchwheel"
	case TagProgramChange:
		return "program_change"
	case TagPatch:
		return "patch"
	case TagDrum:
		return "drum"
	case TagVersion:
		return "version"
	case TagRate:
		return "rate"
	case TagEnd:
		return "end_of_track"
	}
	return fmt.Sprintf("tag(0x%02X)", uint8(t))
}

var Magic = [4]byte{'A', 'X', 'S', 'D'}

type Version uint16

const (
	// V1 carries notes and pitch bends only.
	V1 Version = 0x0001
	// V3 adds program changes and sample banks.
	V3 Version = 0x0003
)

var (
	ErrBadMagic           = errors.New("stream does not start with AXSD")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrUnknownTag         = errors.New("unknown record tag")
	ErrRecordOrder        = errors.New("record out of order")
	ErrVersionFeature     = errors.New("record not allowed in this format version")
	ErrMissingEnd         = errors.New("stream ended without end marker")
	ErrTrailingData       = errors.New("data after end marker")
)

func ParseVersion(n int) (Version, error) {
	v := Version(n)
	if n < 0 || n > 0xFFFF || !v.Valid() {
		return 0, errors.Wrapf(ErrUnsupportedVersion, "%d", n)
	}
	return v, nil
}

func (v Version) Valid() bool {
	return v == V1 || v == V3
}

// Supports reports whether records with the tag may appear in a stream of
// this version.
func (v Version) Supports(t Tag) bool {
	switch t {
	case TagVersion, TagRate, TagEnd, TagNoteOn, TagNoteOff, TagPitchBend:
		return v.Valid()
	case TagProgramChange, TagPatch, TagDrum:
		return v == V3
	}
	return false
}

// Record bodies as laid out on the wire, after the tag byte.

type versionBody struct {
	Version uint16
}

type rateBody struct {
	Rate uint32
}

type drumBody struct {
	Index  uint8
	Frames uint32
	Pitch  float32
	GainL  float32
	GainR  float32
}

type patchBody struct {
	Index     uint8
	Frames    uint32
	LoopStart uint32
	LoopEnd   uint32
	Pitch     float32
	GainL     float32
	GainR     float32
}

type noteOnBody struct {
	Frame    uint32
	Channel  uint8
	Note     uint8
	Velocity uint8
}

type noteOffBody struct {
	Frame   uint32
	Channel uint8
}

type pitchBendBody struct {
	Frame   uint32
	Channel uint8
	Pitch   int32
}

type programBody struct {
	Frame   uint32
	Channel uint8
	Program uint8
}

type endBody struct {
	Frame uint32
}
