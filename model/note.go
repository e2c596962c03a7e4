package model

const (
	NoteIndependentDuration = 0x01
	NoteHeavyAccent         = 0x02
	NoteGhost               = 0x04
	NoteHasEffects          = 0x08
	NoteDynamics            = 0x10
	NoteHasFret             = 0x20
	NoteAccent              = 0x40
	NoteFingering           = 0x80
)

const (
	NoteFxBend       = 0x01
	NoteFxHammerPull = 0x02
	NoteFxSlide      = 0x04
	NoteFxLetRing    = 0x08
	NoteFxGraceNote  = 0x10
)

type NoteType uint8

const (
	NoteTypeNormal NoteType = 1
	NoteTypeTied   NoteType = 2
	NoteTypeDead   NoteType = 3
)

func (t NoteType) String() string {
	switch t {
	case NoteTypeNormal:
		return "normal"
	case NoteTypeTied:
		return "tied"
	case NoteTypeDead:
		return "dead"
	}
	return "unknown"
}

type Note struct {
	Flags     uint8         `json:"flags"`
	Type      *NoteType     `json:"type,omitempty"`
	Duration  *NoteDuration `json:"duration,omitempty"`
	Dynamic   *int8         `json:"dynamic,omitempty"`
	Fret      *int8         `json:"fret,omitempty"`
	Fingering *Fingering    `json:"fingering,omitempty"`
	Effects   *NoteEffects  `json:"effects,omitempty"`
}

func (n Note) Ghost() bool       { return n.Flags&NoteGhost != 0 }
func (n Note) Accent() bool      { return n.Flags&NoteAccent != 0 }
func (n Note) HeavyAccent() bool { return n.Flags&NoteHeavyAccent != 0 }

// Is reports whether the note carries a type equal to t.
func (n Note) Is(t NoteType) bool {
	return n.Type != nil && *n.Type == t
}

// NoteDuration overrides the beat's duration for a single note.
type NoteDuration struct {
	Duration Duration `json:"duration"`
	Tuplet   int8     `json:"tuplet"`
}

type Fingering struct {
	Left  int8 `json:"left"`
	Right int8 `json:"right"`
}

type NoteEffects struct {
	Flags uint8      `json:"flags"`
	Bend  *Bend      `json:"bend,omitempty"`
	Grace *GraceNote `json:"grace,omitempty"`
}

func (e NoteEffects) HammerPull() bool { return e.Flags&NoteFxHammerPull != 0 }
func (e NoteEffects) Slide() bool      { return e.Flags&NoteFxSlide != 0 }
func (e NoteEffects) LetRing() bool    { return e.Flags&NoteFxLetRing != 0 }

// GraceNote is stored fret, dynamic, duration, transition.
type GraceNote struct {
	Fret       int8  `json:"fret"`
	Dynamic    uint8 `json:"dynamic"`
	Duration   uint8 `json:"duration"`
	Transition uint8 `json:"transition"`
}
