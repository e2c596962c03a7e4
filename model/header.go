package model

const (
	MeasureKeysigNumerator   = 0x01
	MeasureKeysigDenominator = 0x02
	MeasureRepeatBegin       = 0x04
	MeasureRepeatEnd         = 0x08
	MeasureAltendNumber      = 0x10
	MeasureMarker            = 0x20
	MeasureTonality          = 0x40
	MeasureDoubleBar         = 0x80
)

const (
	TrackDrums        = 0x01
	TrackTwelveString = 0x02
	TrackBanjo        = 0x04
)

// Color is stored red, green, blue, then an unused byte that is always 0.
type Color [4]uint8

func (c Color) R() uint8 { return c[0] }
func (c Color) G() uint8 { return c[1] }
func (c Color) B() uint8 { return c[2] }

type Marker struct {
	Name  string `json:"name"`
	Color Color  `json:"color"`
}

// Tonality is a key change.
type Tonality struct {
	Root uint8 `json:"root"`
	Type uint8 `json:"type"`
}

type MeasureHeader struct {
	Flags           uint8     `json:"flags"`
	Numerator       *uint8    `json:"numerator,omitempty"`
	Denominator     *uint8    `json:"denominator,omitempty"`
	RepeatEnd       *uint8    `json:"repeat_end,omitempty"`
	AlternateEnding *uint8    `json:"alternate_ending,omitempty"`
	Marker          *Marker   `json:"marker,omitempty"`
	Tonality        *Tonality `json:"tonality,omitempty"`
}

func (h MeasureHeader) RepeatBegin() bool { return h.Flags&MeasureRepeatBegin != 0 }
func (h MeasureHeader) DoubleBar() bool   { return h.Flags&MeasureDoubleBar != 0 }

type TrackHeader struct {
	Flags          uint8    `json:"flags"`
	Name           string   `json:"name"`
	StringCount    int32    `json:"string_count"`
	Tuning         [7]int32 `json:"tuning"`
	MidiPort       int32    `json:"midi_port"`
	MidiChannel    int32    `json:"midi_channel"`
	EffectsChannel int32    `json:"effects_channel"`
	FretCount      int32    `json:"fret_count"`
	Capo           int32    `json:"capo"`
	Color          Color    `json:"color"`
}

// The instrument kind flags are informational only.
func (t TrackHeader) Drums() bool        { return t.Flags&TrackDrums != 0 }
func (t TrackHeader) TwelveString() bool { return t.Flags&TrackTwelveString != 0 }
func (t TrackHeader) Banjo() bool        { return t.Flags&TrackBanjo != 0 }

// Strings returns the meaningful tuning slots, thinnest string first.
func (t TrackHeader) Strings() []int32 {
	n := t.StringCount
	if n < 0 {
		n = 0
	}
	if n > int32(len(t.Tuning)) {
		n = int32(len(t.Tuning))
	}
	return t.Tuning[:n]
}
