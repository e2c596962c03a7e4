package gp3

import (
	"github.com/jsphweid/tabdex/model"
	"github.com/pkg/errors"
)

const mixParams = 8

var mixParamNames = [mixParams]string{"instrument", "volume", "balance", "chorus", "reverb", "phaser", "tremolo", "tempo"}

// mixChanged reports whether a stored mix value means "changed". -1 is the
// unchanged sentinel; any negative value is treated the same way.
func mixChanged(v int32) bool {
	return v >= 0
}

// mixDurationCount is the number of duration bytes that follow the values.
func mixDurationCount(values [mixParams]int32) int {
	var n int
	for _, v := range values {
		if mixChanged(v) {
			n++
		}
	}
	return n
}

// readMixChange reads all eight values first, then one duration byte for
// each value that changed, in the same order.
func (d *decoder) readMixChange() (*model.MixChange, error) {
	var values [mixParams]int32
	for i := 0; i < mixParams-1; i++ {
		v, err := d.r.ReadI8()
		if err != nil {
			return nil, errors.WithMessage(err, mixParamNames[i])
		}
		values[i] = int32(v)
	}
	tempo, err := d.r.ReadI32()
	if err != nil {
		return nil, errors.WithMessage(err, "tempo")
	}
	values[mixParams-1] = tempo

	if n := mixDurationCount(values); int64(n) > d.r.Remaining() {
		return nil, errors.Wrapf(ErrUnexpectedEndOfInput, "%d mix durations with %d bytes left", n, d.r.Remaining())
	}

	var params [mixParams]*model.MixValue
	for i, v := range values {
		if !mixChanged(v) {
			continue
		}
		duration, err := d.r.ReadI8()
		if err != nil {
			return nil, errors.WithMessagef(err, "%s duration", mixParamNames[i])
		}
		params[i] = &model.MixValue{Value: v, Duration: duration}
	}

	return &model.MixChange{
		Instrument: params[0],
		Volume:     params[1],
		Balance:    params[2],
		Chorus:     params[3],
		Reverb:     params[4],
		Phaser:     params[5],
		Tremolo:    params[6],
		Tempo:      params[7],
	}, nil
}
