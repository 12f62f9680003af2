package bank

import (
	"io"
	"os"
	"path/filepath"

	"github.com/go-audio/wav"
	"github.com/jsphweid/axsd/constants"
	"github.com/jsphweid/axsd/model"
	"github.com/pkg/errors"
)

var (
	ErrInvalidWAV = errors.New("not a valid WAV file")
	ErrNotMono    = errors.New("bank sample must be mono")
	ErrNot8Bit    = errors.New("bank sample must be 8-bit PCM")
	ErrNotPCM     = errors.New("bank sample must be uncompressed PCM")
)

// wavFormatPCM is the fmt chunk audio format of linear PCM.
const wavFormatPCM = 1

// Bank is a sample-bank directory: bank.json plus drums/*.wav and
// patches/*.wav. Sample data is only read by Load, one entry at a time.
type Bank struct {
	Dir      string
	Manifest Manifest
}

func Open(dir string) (*Bank, error) {
	f, err := os.Open(filepath.Join(dir, constants.ManifestName))
	if err != nil {
		return nil, errors.Wrap(err, "opening bank manifest")
	}
	defer f.Close()

	m, err := ReadManifest(f)
	if err != nil {
		return nil, errors.Wrap(err, f.Name())
	}
	return &Bank{Dir: dir, Manifest: m}, nil
}

func (b *Bank) Entries() []Entry {
	return b.Manifest.Entries()
}

func (b *Bank) Path(e Entry) string {
	sub := constants.DrumsDir
	if e.Kind == model.Patch {
		sub = constants.PatchesDir
	}
	return filepath.Join(b.Dir, sub, e.Key+".wav")
}

// Load reads and validates the WAV behind an entry.
func (b *Bank) Load(e Entry) (model.Sample, error) {
	path := b.Path(e)
	f, err := os.Open(path)
	if err != nil {
		return model.Sample{}, errors.Wrapf(err, "opening %s %d", e.Kind, e.Index)
	}
	defer f.Close()

	pcm, err := ReadWAV(f)
	if err != nil {
		return model.Sample{}, errors.Wrap(err, path)
	}

	s := model.Sample{
		Kind:      e.Kind,
		Index:     e.Index,
		Pitch:     e.Pitch,
		Gain:      e.Gain,
		LoopStart: e.LoopStart,
		LoopEnd:   e.LoopEnd,
		PCM:       pcm,
	}
	if e.Kind == model.Patch && e.LoopEnd > s.FrameCount() {
		return model.Sample{}, errors.Wrapf(ErrLoopBounds, "%s: loop end %d past %d frames", path, e.LoopEnd, s.FrameCount())
	}
	return s, nil
}

// ReadWAV returns the raw unsigned 8-bit frames of a mono 8-bit WAV.
func ReadWAV(r io.ReadSeeker) ([]byte, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	if decoder.WavAudioFormat != wavFormatPCM {
		return nil, errors.Wrapf(ErrNotPCM, "audio format %d", decoder.WavAudioFormat)
	}

	numChannels := decoder.NumChans
	bitDepth := decoder.BitDepth
	if numChannels != 1 {
		return nil, errors.Wrapf(ErrNotMono, "%d channels", numChannels)
	}
	if bitDepth != 8 {
		return nil, errors.Wrapf(ErrNot8Bit, "%d bits", bitDepth)
	}

	if err := decoder.Rewind(); err != nil {
		return nil, errors.Wrap(err, "rewinding wav")
	}
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "reading wav data")
	}

	pcm := make([]byte, len(buf.Data))
	for i, v := range buf.Data {
		pcm[i] = byte(v)
	}
	return pcm, nil
}
