package model

const (
	BeatFxVibrato            = 0x01
	BeatFxWideVibrato        = 0x02
	BeatFxNaturalHarmonic    = 0x04
	BeatFxArtificialHarmonic = 0x08
	BeatFxFadeIn             = 0x10
	BeatFxTremoloOrTap       = 0x20
	BeatFxStrum              = 0x40
)

type BeatEffects struct {
	Flags        uint8         `json:"flags"`
	TremoloOrTap *TremoloOrTap `json:"tremolo_or_tap,omitempty"`
	Strum        *Strum        `json:"strum,omitempty"`
}

func (e BeatEffects) Vibrato() bool            { return e.Flags&BeatFxVibrato != 0 }
func (e BeatEffects) WideVibrato() bool        { return e.Flags&BeatFxWideVibrato != 0 }
func (e BeatEffects) NaturalHarmonic() bool    { return e.Flags&BeatFxNaturalHarmonic != 0 }
func (e BeatEffects) ArtificialHarmonic() bool { return e.Flags&BeatFxArtificialHarmonic != 0 }
func (e BeatEffects) FadeIn() bool             { return e.Flags&BeatFxFadeIn != 0 }

type SlapKind uint8

const (
	TremoloBar SlapKind = 0
	Tap        SlapKind = 1
	Slap       SlapKind = 2
	Pop        SlapKind = 3
)

// TremoloOrTap carries Value only for the tremolo bar, in units where 50
// is one semitone.
type TremoloOrTap struct {
	Kind  SlapKind `json:"kind"`
	Value *int32   `json:"value,omitempty"`
}

type StrumSpeed int8

const (
	StrumNone StrumSpeed = iota
	StrumHundredTwentyEighth
	StrumSixtyFourth
	StrumThirtySecond
	StrumSixteenth
	StrumEighth
	StrumQuarter
)

type Strum struct {
	Down StrumSpeed `json:"down"`
	Up   StrumSpeed `json:"up"`
}

type BendType int8

const (
	BendNone BendType = iota
	BendBend
	BendRelease
	BendReleaseBend
	BendPrebend
	BendPrebendRelease
	// the rest only occur on the tremolo bar
	BendDip
	BendDive
	BendReleaseUp
	BendInvertedDip
	BendReturn
	BendReleaseDown
)

var bendTypeNames = [...]string{
	"none", "bend", "bend-release", "bend-release-bend", "prebend", "prebend-release",
	"dip", "dive", "release-up", "inverted-dip", "return", "release-down",
}

func (t BendType) String() string {
	if t < 0 || int(t) >= len(bendTypeNames) {
		return "unknown"
	}
	return bendTypeNames[t]
}

type Bend struct {
	Type   BendType    `json:"type"`
	Value  int32       `json:"value"`
	Points []BendPoint `json:"points"`
}

type BendPoint struct {
	Position int32 `json:"position"`
	Value    int32 `json:"value"`
	Vibrato  bool  `json:"vibrato"`
}

// MixValue is one changed mix table parameter and the number of beats the
// change takes.
type MixValue struct {
	Value    int32 `json:"value"`
	Duration int8  `json:"duration"`
}

// MixChange fields are nil when the parameter was left unchanged.
type MixChange struct {
	Instrument *MixValue `json:"instrument,omitempty"`
	Volume     *MixValue `json:"volume,omitempty"`
	Balance    *MixValue `json:"balance,omitempty"`
	Chorus     *MixValue `json:"chorus,omitempty"`
	Reverb     *MixValue `json:"reverb,omitempty"`
	Phaser     *MixValue `json:"phaser,omitempty"`
	Tremolo    *MixValue `json:"tremolo,omitempty"`
	Tempo      *MixValue `json:"tempo,omitempty"`
}

// Params lists the parameters in the order they are stored.
func (m MixChange) Params() [8]*MixValue {
	return [8]*MixValue{m.Instrument, m.Volume, m.Balance, m.Chorus, m.Reverb, m.Phaser, m.Tremolo, m.Tempo}
}
