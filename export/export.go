package export

import (
	"io"

	"github.com/jsphweid/axsd/axsd"
	"github.com/jsphweid/axsd/bank"
	"github.com/jsphweid/axsd/constants"
	"github.com/jsphweid/axsd/logger"
	"github.com/jsphweid/axsd/midi"
	"github.com/jsphweid/axsd/model"
	"github.com/jsphweid/axsd/timeline"
	"github.com/jsphweid/axsd/util"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrBankNotSupported = errors.New("sample banks need format version 3")

type Options struct {
	Version axsd.Version
	// BankDir is optional. When set it must hold bank.json and the
	// drums/ and patches/ WAV directories.
	BankDir string
}

// Summary describes what a conversion wrote.
type Summary struct {
	Version    axsd.Version
	Drums      int
	Patches    int
	Events     int
	Dropped    int
	EndFrame   uint32
	EndSeconds float64
	Bytes      int64
}

func (o Options) version() axsd.Version {
	if o.Version == 0 {
		return axsd.V3
	}
	return o.Version
}

// Convert streams one AXSD file for mf into w. Bank samples are loaded and
// written one at a time, and each event is encoded as soon as the merger
// resolves its frame.
func Convert(w io.Writer, mf *smf.SMF, opts Options) (Summary, error) {
	log := logger.GetLogger()
	v := opts.version()
	summary := Summary{Version: v}

	if opts.BankDir != "" && !v.Supports(axsd.TagDrum) {
		return summary, errors.Wrapf(ErrBankNotSupported, "version %d", v)
	}

	tpb, err := midi.TicksPerBeat(mf)
	if err != nil {
		return summary, err
	}

	enc, err := axsd.NewEncoder(w, v)
	if err != nil {
		return summary, err
	}
	if err := enc.WriteHeader(constants.Rate); err != nil {
		return summary, err
	}

	if opts.BankDir != "" {
		if err := writeBank(enc, opts.BankDir); err != nil {
			return summary, err
		}
		summary.Drums = enc.Count(axsd.TagDrum)
		summary.Patches = enc.Count(axsd.TagPatch)
		log.Info("Wrote sample bank", "drums", summary.Drums, "patches", summary.Patches)
	}

	merger := timeline.New(tpb)
	merger.OnTempo = func(track int, tick int64, tempo uint32) {
		log.Debug("Tempo change", "track", track, "tick", tick, "tempo", tempo)
	}
	end, err := merger.Merge(midi.Tracks(mf), func(ev model.TimedEvent) error {
		if !enc.Version().Supports(axsd.TagProgramChange) && ev.Message.Kind == model.KindProgramChange {
			summary.Dropped++
			return nil
		}
		if err := enc.WriteEvent(ev); err != nil {
			return err
		}
		summary.Events++
		return nil
	})
	if err != nil {
		return summary, err
	}

	if err := enc.WriteEnd(end.Frame); err != nil {
		return summary, err
	}
	summary.EndFrame = end.Frame
	summary.EndSeconds = end.Seconds
	summary.Bytes = enc.Written()
	log.Info("End of track", "seconds", end.Seconds, "frame", end.Frame, "explicit", end.Explicit)
	return summary, nil
}

func writeBank(enc *axsd.Encoder, dir string) error {
	b, err := bank.Open(dir)
	if err != nil {
		return err
	}
	for _, entry := range b.Entries() {
		sample, err := b.Load(entry)
		if err != nil {
			return err
		}
		if err := enc.WriteSample(sample); err != nil {
			return errors.Wrapf(err, "%s %d", entry.Kind, entry.Index)
		}
	}
	return nil
}

// ConvertFile reads the MIDI file at in and writes out atomically: a failed
// conversion leaves no file at out.
func ConvertFile(in, out string, opts Options) (Summary, error) {
	mf, err := midi.ReadMidiFile(in)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	err = util.WriteAtomically(out, func(w io.Writer) error {
		var err error
		summary, err = Convert(w, mf, opts)
		return err
	})
	if err != nil {
		return summary, errors.Wrapf(err, "converting %s", in)
	}
	logger.GetLogger().Info("Wrote output", "path", out, "bytes", summary.Bytes)
	return summary, nil
}
