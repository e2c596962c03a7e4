package midi

import (
	"math"
	"sort"

	"github.com/jsphweid/tabdex/chord"
	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/util"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	TicksPerQuarter = 960
	wholeTicks      = 4 * TicksPerQuarter

	drumChannel     = 9
	defaultVelocity = 95
	volumeCC        = 7
)

var ErrNoSuchTrack = errors.New("no such track")

// BeatTicks is the length of a beat in ticks. Unknown duration codes count
// as quarters.
func BeatTicks(d model.Duration, dotted bool, tuplet int32) uint32 {
	if !d.Valid() {
		d = model.Quarter
	}
	ticks := uint32(wholeTicks) >> uint(d+2)
	if dotted {
		ticks += ticks / 2
	}
	if times := tupletTimes(tuplet); times != tuplet {
		ticks = ticks * uint32(times) / uint32(tuplet)
	}
	return ticks
}

// tupletTimes is how many regular notes a tuplet of n fills.
func tupletTimes(n int32) int32 {
	switch {
	case n == 3:
		return 2
	case n >= 5 && n <= 7:
		return 4
	case n >= 9 && n <= 13:
		return 8
	}
	return n
}

// Velocity maps a stored dynamic (1 is ppp, 8 is fff) to a note-on velocity.
func Velocity(dynamic *int8) uint8 {
	if dynamic == nil {
		return defaultVelocity
	}
	v := 15 + 16*(int(*dynamic)-1)
	if v < 1 {
		return 1
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}

// channelShort scales a stored mixer value (0..16) to a controller value.
func channelShort(v int32) uint8 {
	v = v*8 - 1
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}

// event ordering at equal ticks
const (
	prioMeta = iota
	prioOff
	prioControl
	prioOn
)

type event struct {
	tick uint32
	prio int
	msg  []byte
}

type sounding struct {
	key uint8
	end uint32
}

type exporter struct {
	channel uint8
	events  []event
	strings [7]*sounding
}

func (x *exporter) add(tick uint32, prio int, msg []byte) {
	x.events = append(x.events, event{tick: tick, prio: prio, msg: msg})
}

// release ends the note on string i at its own end, or at tick if that
// comes first.
func (x *exporter) release(i int, tick uint32) {
	if s := x.strings[i]; s != nil {
		x.add(util.Min(s.end, tick), prioOff, gomidi.NoteOff(x.channel, s.key))
		x.strings[i] = nil
	}
}

func (x *exporter) releaseAll(tick uint32) {
	for i := range x.strings {
		x.release(i, tick)
	}
}

func trackChannel(t model.TrackHeader) uint8 {
	if t.Drums() {
		return drumChannel
	}
	c := t.MidiChannel - 1
	if c < 0 || c > 15 {
		return 0
	}
	return uint8(c)
}

// FromTrack renders one track of a song as a single-track SMF. Tied notes
// extend the note already sounding on their string; rests and dead notes
// sound nothing.
func FromTrack(song *model.Song, trackIndex int) (*smf.SMF, error) {
	if trackIndex < 0 || trackIndex >= len(song.TrackHeaders) {
		return nil, errors.Wrapf(ErrNoSuchTrack, "track %d of %d", trackIndex+1, len(song.TrackHeaders))
	}
	header := song.TrackHeaders[trackIndex]
	x := &exporter{channel: trackChannel(header)}

	x.add(0, prioMeta, smf.MetaTrackSequenceName(header.Name))
	if song.Tempo > 0 {
		x.add(0, prioMeta, smf.MetaTempo(float64(song.Tempo)))
	}
	if ch, ok := song.ChannelFor(header); ok {
		if !header.Drums() && ch.Instrument >= 0 && ch.Instrument < 128 {
			x.add(0, prioControl, gomidi.ProgramChange(x.channel, uint8(ch.Instrument)))
		}
		x.add(0, prioControl, gomidi.ControlChange(x.channel, volumeCC, channelShort(int32(ch.Volume))))
	}

	var tick uint32
	num, den := uint8(4), uint8(4)
	for m, measure := range song.Track(trackIndex) {
		if m < len(song.MeasureHeaders) {
			h := song.MeasureHeaders[m]
			if h.Numerator != nil || h.Denominator != nil {
				if h.Numerator != nil {
					num = *h.Numerator
				}
				if h.Denominator != nil {
					den = *h.Denominator
				}
				x.add(tick, prioMeta, smf.MetaMeter(num, den))
			}
		}
		if len(measure.Beats) == 0 && den > 0 {
			tick += uint32(num) * (wholeTicks / uint32(den))
			continue
		}
		for _, b := range measure.Beats {
			tick += x.beat(header, b, tick)
		}
	}
	x.releaseAll(math.MaxUint32)

	sort.SliceStable(x.events, func(i, j int) bool {
		if x.events[i].tick != x.events[j].tick {
			return x.events[i].tick < x.events[j].tick
		}
		return x.events[i].prio < x.events[j].prio
	})

	var tr smf.Track
	var last uint32
	for _, e := range x.events {
		tr.Add(e.tick-last, e.msg)
		last = e.tick
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)
	if err := s.Add(tr); err != nil {
		return nil, errors.Wrap(err, "could not add track")
	}
	return s, nil
}

// beat emits the events of one beat starting at tick and returns its length.
func (x *exporter) beat(header model.TrackHeader, b model.Beat, tick uint32) uint32 {
	var tuplet int32
	if b.Tuplet != nil {
		tuplet = *b.Tuplet
	}
	length := BeatTicks(b.Duration, b.Dotted(), tuplet)

	if mc := b.MixChange; mc != nil {
		if mc.Tempo != nil && mc.Tempo.Value > 0 {
			x.add(tick, prioMeta, smf.MetaTempo(float64(mc.Tempo.Value)))
		}
		if mc.Instrument != nil && mc.Instrument.Value < 128 && !header.Drums() {
			x.add(tick, prioControl, gomidi.ProgramChange(x.channel, uint8(mc.Instrument.Value)))
		}
		if mc.Volume != nil {
			x.add(tick, prioControl, gomidi.ControlChange(x.channel, volumeCC, channelShort(mc.Volume.Value)))
		}
	}

	if b.IsRest {
		x.releaseAll(tick)
		return length
	}

	// strings not played in this beat ring on until their own end
	for i, n := range b.Notes.Strings {
		if n == nil {
			continue
		}
		end := tick + length
		if n.Duration != nil {
			end = tick + BeatTicks(n.Duration.Duration, false, int32(n.Duration.Tuplet))
		}
		if n.Is(model.NoteTypeTied) && x.strings[i] != nil {
			x.strings[i].end = end
			continue
		}
		x.release(i, tick)
		key, ok := chord.NotePitch(header, i, n)
		if !ok {
			continue
		}
		x.add(tick, prioOn, gomidi.NoteOn(x.channel, key, Velocity(n.Dynamic)))
		x.strings[i] = &sounding{key: key, end: end}
	}
	return length
}
