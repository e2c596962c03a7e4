package model

// Duration is the signed note value code shared by beats and notes.
type Duration int8

const (
	Whole        Duration = -2
	Half         Duration = -1
	Quarter      Duration = 0
	Eighth       Duration = 1
	Sixteenth    Duration = 2
	ThirtySecond Duration = 3
	SixtyFourth  Duration = 4
)

func (d Duration) Valid() bool {
	return d >= Whole && d <= SixtyFourth
}

// String uses the single letters the tab view prints above each beat.
func (d Duration) String() string {
	switch d {
	case Whole:
		return "w"
	case Half:
		return "h"
	case Quarter:
		return "q"
	case Eighth:
		return "e"
	case Sixteenth:
		return "s"
	case ThirtySecond:
		return "t"
	case SixtyFourth:
		return "S"
	}
	return "?"
}

// Denominator is the note value as a fraction of a whole note: 1 for a
// whole note, 4 for a quarter, 64 for a sixty-fourth.
func (d Duration) Denominator() int {
	if !d.Valid() {
		return 0
	}
	return 1 << uint(d+2)
}
