package model

// Kind is the classification of a MIDI message as far as the exporter cares.
type Kind uint8

const (
	KindOther Kind = iota
	KindTempo
	KindEndOfTrack
	KindNoteOn
	KindNoteOff
	KindPitchBend
	KindProgramChange
)

func (k Kind) String() string {
	switch k {
	case KindTempo:
		return "tempo"
	case KindEndOfTrack:
		return "end_of_track"
	case KindNoteOn:
		return "note_on"
	case KindNoteOff:
		return "note_off"
	case KindPitchBend:
		return "pitchwheel"
	case KindProgramChange:
		return "program_change"
	}
	return "other"
}

// Message carries only the fields relevant to its Kind.
type Message struct {
	Kind     Kind
	Channel  uint8
	Note     uint8
	Velocity uint8
	Program  uint8
	// Bend is centered on 0, -8192..8191.
	Bend int32
	// Tempo in microseconds per quarter note.
	Tempo uint32
}

// Event is one (delta ticks, message) pair of a track.
type Event struct {
	Delta   int64
	Message Message
}

// TrackSource yields the events of one track in file order.
type TrackSource interface {
	Len() int
	Event(i int) Event
}

// Track is an already classified track.
type Track []Event

func (t Track) Len() int {
	return len(t)
}

func (t Track) Event(i int) Event {
	return t[i]
}

func Sources(tracks ...Track) []TrackSource {
	res := make([]TrackSource, len(tracks))
	for i, t := range tracks {
		res[i] = t
	}
	return res
}

// TimedEvent is a message resolved to an absolute output frame.
type TimedEvent struct {
	Frame   uint32
	Track   int
	Message Message
}
