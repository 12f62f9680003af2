// Package timeline resolves per-track delta ticks into absolute output
// frames.
//
// Tracks are walked one after another in file order. The running tempo is
// global: a tempo change in one track stays in effect for the following
// tracks. Each message's time is its track-local tick position converted
// under whatever tempo is active when the message is reached, so resolved
// events come out ordered by (track, position in track), never by time.
package timeline

import (
	"math"

	"github.com/jsphweid/axsd/constants"
	"github.com/jsphweid/axsd/model"
	"github.com/pkg/errors"
)

var (
	ErrNegativeDelta   = errors.New("negative delta ticks")
	ErrFrameOverflow   = errors.New("frame time out of range")
	ErrBadTicksPerBeat = errors.New("ticks per beat must be positive")
)

// Seconds converts a tick position to seconds under a single tempo.
func Seconds(ticks int64, ticksPerBeat int, tempo uint32) float64 {
	return float64(ticks) * (float64(tempo) / 1e6) / float64(ticksPerBeat)
}

// FrameAt truncates seconds to a whole frame at the given rate.
func FrameAt(seconds float64, rate uint32) (uint32, error) {
	frame := math.Floor(seconds * float64(rate))
	if math.IsNaN(frame) || frame < 0 || frame > math.MaxUint32 {
		return 0, errors.Wrapf(ErrFrameOverflow, "%v seconds at %d Hz", seconds, rate)
	}
	return uint32(frame), nil
}

// End is the resolved end-of-track time of the whole sequence.
type End struct {
	Seconds float64
	Frame   uint32
	// Explicit is false when no track carried an end-of-track event and
	// the time fell back to the last track's final position.
	Explicit bool
}

type Merger struct {
	TicksPerBeat int
	Rate         uint32

	// OnTempo is called for every tempo change, if set.
	OnTempo func(track int, tick int64, tempo uint32)

	tempo uint32
	bend  [16]int32
}

func New(ticksPerBeat int) *Merger {
	return &Merger{
		TicksPerBeat: ticksPerBeat,
		Rate:         constants.Rate,
		tempo:        constants.DefaultTempo,
	}
}

// Tempo returns the running tempo, i.e. the last one seen after Merge.
func (m *Merger) Tempo() uint32 {
	return m.tempo
}

// Bend returns the last pitch-bend value seen on a channel. It is kept for
// bookkeeping and does not influence any resolved event.
func (m *Merger) Bend(channel uint8) int32 {
	return m.bend[channel&0x0F]
}

// Merge walks all tracks and hands every note-on, note-off, pitch-bend and
// program-change message to emit as soon as its frame is known. Tempo and
// end-of-track events only update state; everything else is dropped.
// An error from emit stops the merge and is returned as is.
func (m *Merger) Merge(tracks []model.TrackSource, emit func(model.TimedEvent) error) (End, error) {
	if m.TicksPerBeat <= 0 {
		return End{}, errors.Wrapf(ErrBadTicksPerBeat, "got %d", m.TicksPerBeat)
	}
	m.tempo = constants.DefaultTempo
	m.bend = [16]int32{}

	var end End
	var tick int64
	for i, track := range tracks {
		tick = 0
		for j := 0; j < track.Len(); j++ {
			evt := track.Event(j)
			if evt.Delta < 0 {
				return End{}, errors.Wrapf(ErrNegativeDelta, "track %d event %d: %d", i, j, evt.Delta)
			}
			tick += evt.Delta

			msg := evt.Message
			switch msg.Kind {
			case model.KindTempo:
				m.tempo = msg.Tempo
				if m.OnTempo != nil {
					m.OnTempo(i, tick, m.tempo)
				}
			case model.KindEndOfTrack:
				candidate := Seconds(tick, m.TicksPerBeat, m.tempo)
				if !end.Explicit || candidate > end.Seconds {
					end.Seconds = candidate
					end.Explicit = true
				}
			case model.KindNoteOn, model.KindNoteOff, model.KindPitchBend, model.KindProgramChange:
				if msg.Kind == model.KindPitchBend {
					m.bend[msg.Channel&0x0F] = msg.Bend
				}
				frame, err := FrameAt(Seconds(tick, m.TicksPerBeat, m.tempo), m.Rate)
				if err != nil {
					return End{}, errors.Wrapf(err, "track %d event %d", i, j)
				}
				if err := emit(model.TimedEvent{Frame: frame, Track: i, Message: msg}); err != nil {
					return End{}, err
				}
			}
		}
	}

	if !end.Explicit {
		end.Seconds = Seconds(tick, m.TicksPerBeat, m.tempo)
	}
	frame, err := FrameAt(end.Seconds, m.Rate)
	if err != nil {
		return End{}, errors.Wrap(err, "end of track")
	}
	end.Frame = frame
	return end, nil
}
