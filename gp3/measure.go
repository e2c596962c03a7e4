package gp3

import (
	"github.com/jsphweid/tabdex/model"
	"github.com/pkg/errors"
)

func (d *decoder) readMeasure() (model.Measure, error) {
	var m model.Measure
	count, err := d.readCount("beat", minBeatSize)
	if err != nil {
		return m, err
	}
	m.BeatCount = int32(count)
	m.Beats = make([]model.Beat, 0, count)
	for i := 0; i < count; i++ {
		b, err := d.readBeat()
		if err != nil {
			return m, errors.WithMessagef(err, "beat %d", i)
		}
		m.Beats = append(m.Beats, b)
	}
	return m, nil
}

// readBeat reads the flag-gated parts in their stored order. The duration
// and the note set are always there.
func (d *decoder) readBeat() (model.Beat, error) {
	var b model.Beat
	var err error

	if b.Flags, err = d.r.ReadU8(); err != nil {
		return b, err
	}
	if b.Flags&model.BeatEmptyOrRest != 0 {
		if b.IsRest, err = d.r.ReadBool(); err != nil {
			return b, errors.WithMessage(err, "rest")
		}
	}
	duration, err := d.r.ReadI8()
	if err != nil {
		return b, errors.WithMessage(err, "duration")
	}
	b.Duration = model.Duration(duration)
	if b.Flags&model.BeatTuplet != 0 {
		tuplet, err := d.r.ReadI32()
		if err != nil {
			return b, errors.WithMessage(err, "tuplet")
		}
		b.Tuplet = &tuplet
	}
	if b.Flags&model.BeatChord != 0 {
		if b.Chord, err = d.readChord(); err != nil {
			return b, errors.WithMessage(err, "chord")
		}
	}
	if b.Flags&model.BeatText != 0 {
		text, err := d.readText("beat text")
		if err != nil {
			return b, errors.WithMessage(err, "text")
		}
		b.Text = &text
	}
	if b.Flags&model.BeatEffectsFlag != 0 {
		if b.Effects, err = d.readBeatEffects(); err != nil {
			return b, errors.WithMessage(err, "effects")
		}
	}
	if b.Flags&model.BeatMixChange != 0 {
		if b.MixChange, err = d.readMixChange(); err != nil {
			return b, errors.WithMessage(err, "mix change")
		}
	}
	if b.Notes, err = d.readNoteSet(); err != nil {
		return b, err
	}
	return b, nil
}
