package model

// Chord is a chord diagram in the legacy format. Frets is only present
// when FirstFret is nonzero; -1 marks a string that is not played.
type Chord struct {
	NewFormat bool      `json:"new_format"`
	Name      string    `json:"name"`
	FirstFret int32     `json:"first_fret"`
	Frets     *[6]int32 `json:"frets,omitempty"`
}

// Played reports the diagram fret for string i, thinnest first.
func (c Chord) Played(i int) (int32, bool) {
	if c.Frets == nil || i < 0 || i >= len(c.Frets) || c.Frets[i] < 0 {
		return 0, false
	}
	return c.Frets[i], true
}

// Pitches is a set of MIDI note numbers sounding together.
type Pitches = []uint8
