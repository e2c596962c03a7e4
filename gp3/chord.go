package gp3

import (
	"github.com/jsphweid/tabdex/model"
	"github.com/pkg/errors"
)

// readChord only understands the legacy diagram layout. The newer layout is
// never guessed at, in either mode, since its size is unknown here.
func (d *decoder) readChord() (*model.Chord, error) {
	var c model.Chord
	var err error

	start := d.r.Pos()
	if c.NewFormat, err = d.r.ReadBool(); err != nil {
		return nil, err
	}
	if c.NewFormat {
		return nil, errors.Wrapf(ErrUnsupportedChordFormat, "new format diagram at offset %d", start)
	}
	if c.Name, err = d.readText("chord name"); err != nil {
		return nil, errors.WithMessage(err, "name")
	}
	if c.FirstFret, err = d.r.ReadI32(); err != nil {
		return nil, errors.WithMessage(err, "first fret")
	}
	if c.FirstFret != 0 {
		var frets [6]int32
		for i := range frets {
			if frets[i], err = d.r.ReadI32(); err != nil {
				return nil, errors.WithMessagef(err, "fret %d", i)
			}
		}
		c.Frets = &frets
	}
	return &c, nil
}
