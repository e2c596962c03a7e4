package gp3

import (
	"github.com/jsphweid/tabdex/model"
	"github.com/pkg/errors"
)

func (d *decoder) readNoteSet() (model.NoteSet, error) {
	var n model.NoteSet
	var err error

	if n.StringsPlayed, err = d.r.ReadU8(); err != nil {
		return n, errors.WithMessage(err, "strings played")
	}
	for i := range n.Strings {
		if !n.Played(i) {
			continue
		}
		if n.Strings[i], err = d.readNote(); err != nil {
			return n, errors.WithMessagef(err, "note on string %d", i)
		}
	}
	return n, nil
}

// readNote follows the stored order. The has-fret bit gates two separate
// fields: the note type right after the flags and the fret number after
// the dynamic.
func (d *decoder) readNote() (*model.Note, error) {
	var n model.Note
	var err error

	if n.Flags, err = d.r.ReadU8(); err != nil {
		return nil, err
	}
	if n.Flags&model.NoteHasFret != 0 {
		t, err := d.r.ReadU8()
		if err != nil {
			return nil, errors.WithMessage(err, "type")
		}
		noteType := model.NoteType(t)
		n.Type = &noteType
	}
	if n.Flags&model.NoteIndependentDuration != 0 {
		duration, err := d.r.ReadI8()
		if err != nil {
			return nil, errors.WithMessage(err, "duration")
		}
		tuplet, err := d.r.ReadI8()
		if err != nil {
			return nil, errors.WithMessage(err, "tuplet")
		}
		n.Duration = &model.NoteDuration{Duration: model.Duration(duration), Tuplet: tuplet}
	}
	if n.Flags&model.NoteDynamics != 0 {
		dynamic, err := d.r.ReadI8()
		if err != nil {
			return nil, errors.WithMessage(err, "dynamic")
		}
		n.Dynamic = &dynamic
	}
	if n.Flags&model.NoteHasFret != 0 {
		fret, err := d.r.ReadI8()
		if err != nil {
			return nil, errors.WithMessage(err, "fret")
		}
		n.Fret = &fret
	}
	if n.Flags&model.NoteFingering != 0 {
		left, err := d.r.ReadI8()
		if err != nil {
			return nil, errors.WithMessage(err, "left hand finger")
		}
		right, err := d.r.ReadI8()
		if err != nil {
			return nil, errors.WithMessage(err, "right hand finger")
		}
		n.Fingering = &model.Fingering{Left: left, Right: right}
	}
	if n.Flags&model.NoteHasEffects != 0 {
		if n.Effects, err = d.readNoteEffects(); err != nil {
			return nil, errors.WithMessage(err, "effects")
		}
	}
	return &n, nil
}

func (d *decoder) readNoteEffects() (*model.NoteEffects, error) {
	var e model.NoteEffects
	var err error

	if e.Flags, err = d.r.ReadU8(); err != nil {
		return nil, err
	}
	if e.Flags&model.NoteFxBend != 0 {
		if e.Bend, err = d.readBend(); err != nil {
			return nil, errors.WithMessage(err, "bend")
		}
	}
	if e.Flags&model.NoteFxGraceNote != 0 {
		if e.Grace, err = d.readGraceNote(); err != nil {
			return nil, errors.WithMessage(err, "grace note")
		}
	}
	return &e, nil
}
