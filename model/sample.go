package model

type BankKind uint8

const (
	Drum BankKind = iota
	Patch
)

func (k BankKind) String() string {
	if k == Patch {
		return "patch"
	}
	return "drum"
}

// Sample is one sample-bank entry with its mono 8-bit PCM data.
// LoopStart and LoopEnd are only meaningful for patches.
type Sample struct {
	Kind      BankKind
	Index     uint8
	Pitch     float32
	Gain      [2]float32
	LoopStart uint32
	LoopEnd   uint32
	PCM       []byte
}

func (s Sample) FrameCount() uint32 {
	return uint32(len(s.PCM))
}
