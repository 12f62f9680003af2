package bank

import (
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/jsphweid/axsd/model"
	"github.com/pkg/errors"
)

var (
	ErrBadIndex    = errors.New("bank index must be an integer in 0..255")
	ErrBadGain     = errors.New("gain must have exactly two elements")
	ErrLoopBounds  = errors.New("loop points out of bounds")
	ErrBadManifest = errors.New("malformed bank manifest")
)

type params struct {
	Pitch float64   `json:"pitch"`
	Gain  []float64 `json:"gain"`
	Start *int64    `json:"start"`
	End   *int64    `json:"end"`
}

// Entry is one manifest line. Key is the WAV filename stem.
type Entry struct {
	Kind      model.BankKind
	Key       string
	Index     uint8
	Pitch     float32
	Gain      [2]float32
	LoopStart uint32
	LoopEnd   uint32
}

// Manifest keeps drums and patches in the order they appear in bank.json.
type Manifest struct {
	Drums   []Entry
	Patches []Entry
}

// Entries returns all drums followed by all patches.
func (m Manifest) Entries() []Entry {
	res := make([]Entry, 0, len(m.Drums)+len(m.Patches))
	res = append(res, m.Drums...)
	return append(res, m.Patches...)
}

// ReadManifest parses bank.json. The drums and patches objects are walked
// token by token so that entries keep their document order.
func ReadManifest(r io.Reader) (Manifest, error) {
	var m Manifest
	dec := json.NewDecoder(r)

	if err := expectDelim(dec, '{'); err != nil {
		return m, err
	}
	for dec.More() {
		key, err := objectKey(dec)
		if err != nil {
			return m, err
		}
		switch key {
		case "drums":
			m.Drums, err = readEntries(dec, model.Drum)
		case "patches":
			m.Patches, err = readEntries(dec, model.Patch)
		default:
			var skip json.RawMessage
			err = dec.Decode(&skip)
		}
		if err != nil {
			return m, err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return m, err
	}
	return m, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(ErrBadManifest, err.Error())
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return errors.Wrapf(ErrBadManifest, "expected %q, got %v", want, tok)
	}
	return nil
}

func objectKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", errors.Wrap(ErrBadManifest, err.Error())
	}
	key, ok := tok.(string)
	if !ok {
		return "", errors.Wrapf(ErrBadManifest, "expected object key, got %v", tok)
	}
	return key, nil
}

func readEntries(dec *json.Decoder, kind model.BankKind) ([]Entry, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, errors.Wrap(err, kind.String()+"s")
	}
	var res []Entry
	seen := make(map[uint8]string)
	for dec.More() {
		key, err := objectKey(dec)
		if err != nil {
			return nil, err
		}
		var p params
		if err := dec.Decode(&p); err != nil {
			return nil, errors.Wrapf(ErrBadManifest, "%s %q: %v", kind, key, err)
		}
		entry, err := newEntry(kind, key, p)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[entry.Index]; dup {
			return nil, errors.Wrapf(ErrBadIndex, "%s %q duplicates %q", kind, key, prev)
		}
		seen[entry.Index] = key
		res = append(res, entry)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return res, nil
}

func newEntry(kind model.BankKind, key string, p params) (Entry, error) {
	index, err := strconv.Atoi(key)
	if err != nil || index < 0 || index > math.MaxUint8 {
		return Entry{}, errors.Wrapf(ErrBadIndex, "%s %q", kind, key)
	}
	if len(p.Gain) != 2 {
		return Entry{}, errors.Wrapf(ErrBadGain, "%s %q has %d", kind, key, len(p.Gain))
	}

	e := Entry{
		Kind:  kind,
		Key:   key,
		Index: uint8(index),
		Pitch: float32(p.Pitch),
		Gain:  [2]float32{float32(p.Gain[0]), float32(p.Gain[1])},
	}
	if kind == model.Patch {
		if p.Start == nil || p.End == nil {
			return Entry{}, errors.Wrapf(ErrLoopBounds, "patch %q needs start and end", key)
		}
		start, end := *p.Start, *p.End
		if start < 0 || start > end || end > math.MaxUint32 {
			return Entry{}, errors.Wrapf(ErrLoopBounds, "patch %q: %d..%d", key, start, end)
		}
		e.LoopStart, e.LoopEnd = uint32(start), uint32(end)
	}
	return e, nil
}
