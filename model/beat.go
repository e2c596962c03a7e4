package model

const (
	BeatDotted      = 0x01
	BeatChord       = 0x02
	BeatText        = 0x04
	BeatEffectsFlag = 0x08
	BeatMixChange   = 0x10
	BeatTuplet      = 0x20
	BeatEmptyOrRest = 0x40
)

// Beat is one rhythmic event. Every pointer field is nil unless its flag
// bit was set.
type Beat struct {
	Flags     uint8        `json:"flags"`
	IsRest    bool         `json:"is_rest"`
	Duration  Duration     `json:"duration"`
	Tuplet    *int32       `json:"tuplet,omitempty"`
	Chord     *Chord       `json:"chord,omitempty"`
	Text      *string      `json:"text,omitempty"`
	Effects   *BeatEffects `json:"effects,omitempty"`
	MixChange *MixChange   `json:"mix_change,omitempty"`
	Notes     NoteSet      `json:"notes"`
}

func (b Beat) Dotted() bool { return b.Flags&BeatDotted != 0 }

// NoteSet holds at most one note per string, thinnest string at index 0.
type NoteSet struct {
	StringsPlayed uint8    `json:"strings_played"`
	Strings       [7]*Note `json:"strings"`
}

// StringBit is the bit in StringsPlayed that selects string i.
func StringBit(i int) uint8 {
	return 0x40 >> uint(i)
}

func (n NoteSet) Played(i int) bool {
	if i < 0 || i >= len(n.Strings) {
		return false
	}
	return n.StringsPlayed&StringBit(i) != 0
}

func (n NoteSet) Count() int {
	var count int
	for _, note := range n.Strings {
		if note != nil {
			count++
		}
	}
	return count
}
