package gp3

import (
	"github.com/jsphweid/tabdex/model"
	"github.com/pkg/errors"
)

func (d *decoder) readOptionalU8(flags, bit uint8) (*uint8, error) {
	if flags&bit == 0 {
		return nil, nil
	}
	v, err := d.r.ReadU8()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (d *decoder) readColor() (model.Color, error) {
	var c model.Color
	for i := range c {
		b, err := d.r.ReadU8()
		if err != nil {
			return c, err
		}
		c[i] = b
	}
	return c, nil
}

// readMeasureHeader tests each flag bit on its own; any combination may be
// present. Repeat begin and double bar have no payload.
func (d *decoder) readMeasureHeader() (model.MeasureHeader, error) {
	var h model.MeasureHeader
	var err error

	if h.Flags, err = d.r.ReadU8(); err != nil {
		return h, err
	}
	if h.Numerator, err = d.readOptionalU8(h.Flags, model.MeasureKeysigNumerator); err != nil {
		return h, errors.WithMessage(err, "numerator")
	}
	if h.Denominator, err = d.readOptionalU8(h.Flags, model.MeasureKeysigDenominator); err != nil {
		return h, errors.WithMessage(err, "denominator")
	}
	if h.RepeatEnd, err = d.readOptionalU8(h.Flags, model.MeasureRepeatEnd); err != nil {
		return h, errors.WithMessage(err, "repeat end")
	}
	if h.AlternateEnding, err = d.readOptionalU8(h.Flags, model.MeasureAltendNumber); err != nil {
		return h, errors.WithMessage(err, "alternate ending")
	}
	if h.Flags&model.MeasureMarker != 0 {
		var m model.Marker
		if m.Name, err = d.readText("marker"); err != nil {
			return h, errors.WithMessage(err, "marker")
		}
		if m.Color, err = d.readColor(); err != nil {
			return h, errors.WithMessage(err, "marker color")
		}
		h.Marker = &m
	}
	if h.Flags&model.MeasureTonality != 0 {
		var t model.Tonality
		if t.Root, err = d.r.ReadU8(); err != nil {
			return h, errors.WithMessage(err, "tonality")
		}
		if t.Type, err = d.r.ReadU8(); err != nil {
			return h, errors.WithMessage(err, "tonality")
		}
		h.Tonality = &t
	}
	return h, nil
}

// readTrackHeader always reads all seven tuning slots whatever the string
// count says.
func (d *decoder) readTrackHeader() (model.TrackHeader, error) {
	var t model.TrackHeader
	var err error

	if t.Flags, err = d.r.ReadU8(); err != nil {
		return t, err
	}
	if t.Name, err = d.r.ReadPaddedByteString(trackNameSlot); err != nil {
		return t, errors.WithMessage(err, "name")
	}
	if t.StringCount, err = d.r.ReadI32(); err != nil {
		return t, errors.WithMessage(err, "string count")
	}
	for i := range t.Tuning {
		if t.Tuning[i], err = d.r.ReadI32(); err != nil {
			return t, errors.WithMessagef(err, "tuning %d", i)
		}
	}
	for _, f := range []struct {
		name string
		dst  *int32
	}{
		{"midi port", &t.MidiPort},
		{"midi channel", &t.MidiChannel},
		{"effects channel", &t.EffectsChannel},
		{"fret count", &t.FretCount},
		{"capo", &t.Capo},
	} {
		if *f.dst, err = d.r.ReadI32(); err != nil {
			return t, errors.WithMessage(err, f.name)
		}
	}
	if t.Color, err = d.readColor(); err != nil {
		return t, errors.WithMessage(err, "color")
	}
	return t, nil
}
