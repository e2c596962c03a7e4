package gp3

import (
	"github.com/jsphweid/tabdex/model"
	"github.com/pkg/errors"
)

func (d *decoder) readBeatEffects() (*model.BeatEffects, error) {
	var e model.BeatEffects
	var err error

	if e.Flags, err = d.r.ReadU8(); err != nil {
		return nil, err
	}
	if e.Flags&model.BeatFxTremoloOrTap != 0 {
		kind, err := d.r.ReadU8()
		if err != nil {
			return nil, errors.WithMessage(err, "tremolo or tap")
		}
		t := model.TremoloOrTap{Kind: model.SlapKind(kind)}
		if t.Kind == model.TremoloBar {
			value, err := d.r.ReadI32()
			if err != nil {
				return nil, errors.WithMessage(err, "tremolo value")
			}
			t.Value = &value
		}
		e.TremoloOrTap = &t
	}
	if e.Flags&model.BeatFxStrum != 0 {
		down, err := d.r.ReadI8()
		if err != nil {
			return nil, errors.WithMessage(err, "strum down")
		}
		up, err := d.r.ReadI8()
		if err != nil {
			return nil, errors.WithMessage(err, "strum up")
		}
		e.Strum = &model.Strum{Down: model.StrumSpeed(down), Up: model.StrumSpeed(up)}
	}
	return &e, nil
}

func (d *decoder) readBend() (*model.Bend, error) {
	var b model.Bend

	kind, err := d.r.ReadI8()
	if err != nil {
		return nil, err
	}
	b.Type = model.BendType(kind)
	if b.Value, err = d.r.ReadI32(); err != nil {
		return nil, errors.WithMessage(err, "value")
	}
	count, err := d.readCount("bend point", bendPointSize)
	if err != nil {
		return nil, err
	}
	b.Points = make([]model.BendPoint, 0, count)
	for i := 0; i < count; i++ {
		var p model.BendPoint
		if p.Position, err = d.r.ReadI32(); err != nil {
			return nil, errors.WithMessagef(err, "point %d", i)
		}
		if p.Value, err = d.r.ReadI32(); err != nil {
			return nil, errors.WithMessagef(err, "point %d", i)
		}
		if p.Vibrato, err = d.r.ReadBool(); err != nil {
			return nil, errors.WithMessagef(err, "point %d", i)
		}
		b.Points = append(b.Points, p)
	}
	return &b, nil
}

func (d *decoder) readGraceNote() (*model.GraceNote, error) {
	var g model.GraceNote
	var err error

	if g.Fret, err = d.r.ReadI8(); err != nil {
		return nil, err
	}
	if g.Dynamic, err = d.r.ReadU8(); err != nil {
		return nil, err
	}
	if g.Duration, err = d.r.ReadU8(); err != nil {
		return nil, err
	}
	if g.Transition, err = d.r.ReadU8(); err != nil {
		return nil, err
	}
	return &g, nil
}
