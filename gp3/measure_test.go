package gp3

import (
	"fmt"
	"testing"

	"github.com/jsphweid/tabdex/gp3/gp3test"
	"github.com/jsphweid/tabdex/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// beatBytes writes a beat with the given flags and a valid payload for each
// set bit and an empty note set.
func beatBytes(flags uint8) []byte {
	var w gp3test.Writer
	w.U8(flags)
	if flags&model.BeatEmptyOrRest != 0 {
		w.Bool(true)
	}
	w.I8(int8(model.Eighth))
	if flags&model.BeatTuplet != 0 {
		w.I32(3)
	}
	if flags&model.BeatChord != 0 {
		w.Bool(false).IntByteString("Am").I32(0)
	}
	if flags&model.BeatText != 0 {
		w.IntByteString("hi")
	}
	if flags&model.BeatEffectsFlag != 0 {
		w.U8(0)
	}
	if flags&model.BeatMixChange != 0 {
		w.Raw(mixChangeBytes(0)...)
	}
	w.U8(0)
	return w.Bytes()
}

func TestBeatByteAccounting(t *testing.T) {
	payload := map[uint8]int{
		model.BeatDotted:      0,
		model.BeatChord:       1 + 7 + 4,
		model.BeatText:        7,
		model.BeatEffectsFlag: 1,
		model.BeatMixChange:   11,
		model.BeatTuplet:      4,
		model.BeatEmptyOrRest: 1,
	}

	for flags := 0; flags < 0x80; flags++ {
		f := uint8(flags)
		want := 2 + 1
		for bit, n := range payload {
			if f&bit != 0 {
				want += n
			}
		}

		b := beatBytes(f)
		require.Len(t, b, want, "flags %#02x", f)

		d := testDecoder(t, append(b, 0xAA), Strict)
		beat, err := d.readBeat()
		require.NoError(t, err, "flags %#02x", f)

		assert := assert.New(t)
		assert.Equal(int64(want), d.r.Pos(), "flags %#02x", f)
		assert.Equal(model.Eighth, beat.Duration)
		assert.Equal(f&model.BeatDotted != 0, beat.Dotted())
		assert.Equal(f&model.BeatEmptyOrRest != 0, beat.IsRest)
		assert.Equal(f&model.BeatTuplet != 0, beat.Tuplet != nil)
		assert.Equal(f&model.BeatChord != 0, beat.Chord != nil)
		assert.Equal(f&model.BeatText != 0, beat.Text != nil)
		assert.Equal(f&model.BeatEffectsFlag != 0, beat.Effects != nil)
		assert.Equal(f&model.BeatMixChange != 0, beat.MixChange != nil)
		assert.Equal(0, beat.Notes.Count())
	}
}

func TestBeatFields(t *testing.T) {
	b := beatBytes(model.BeatTuplet | model.BeatText | model.BeatChord)
	d := testDecoder(t, b, Strict)
	beat, err := d.readBeat()
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(int32(3), *beat.Tuplet)
	assert.Equal("hi", *beat.Text)
	assert.Equal("Am", beat.Chord.Name)
	assert.Nil(beat.Chord.Frets)
}

func TestEmptyMeasure(t *testing.T) {
	var w gp3test.Writer
	w.I32(0)
	d := testDecoder(t, w.Bytes(), Strict)

	m, err := d.readMeasure()
	require.NoError(t, err)
	assert.Equal(t, int32(0), m.BeatCount)
	assert.Empty(t, m.Beats)
}

func TestNoteSetAllStrings(t *testing.T) {
	frets := map[int]int8{}
	for i := 0; i < 7; i++ {
		frets[i] = int8(i)
	}
	var w gp3test.Writer
	w.Notes(frets)
	require.Equal(t, uint8(0x7F), w.Bytes()[0])

	d := testDecoder(t, w.Bytes(), Strict)
	n, err := d.readNoteSet()
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(7, n.Count())
	for i := 0; i < 7; i++ {
		assert.True(n.Played(i))
		require.NotNil(t, n.Strings[i])
		assert.Equal(int8(i), *n.Strings[i].Fret)
	}
	assert.Equal(int64(0), d.r.Remaining())
}

func TestNoteSetEmpty(t *testing.T) {
	d := testDecoder(t, []byte{0x00, 0x20}, Strict)
	n, err := d.readNoteSet()
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(0, n.Count())
	assert.Equal(int64(1), d.r.Pos())
	for _, s := range n.Strings {
		assert.Nil(s)
	}
}

func TestNoteSetHighBitIgnored(t *testing.T) {
	// bit 0x80 does not map to any string
	d := testDecoder(t, []byte{0x80}, Strict)
	n, err := d.readNoteSet()
	require.NoError(t, err)
	assert.Equal(t, 0, n.Count())
}

func TestNoteEveryField(t *testing.T) {
	var w gp3test.Writer
	w.U8(0xFF)
	w.U8(uint8(model.NoteTypeTied))
	w.I8(int8(model.Sixteenth)).I8(3)
	w.I8(7)
	w.I8(12)
	w.I8(1).I8(-1)
	w.U8(model.NoteFxSlide | model.NoteFxGraceNote)
	w.I8(10).U8(6).U8(2).U8(1)

	d := testDecoder(t, w.Bytes(), Strict)
	n, err := d.readNote()
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(int64(w.Len()), d.r.Pos())
	assert.True(n.Is(model.NoteTypeTied))
	assert.True(n.Ghost())
	assert.True(n.Accent())
	assert.True(n.HeavyAccent())
	assert.Equal(model.NoteDuration{Duration: model.Sixteenth, Tuplet: 3}, *n.Duration)
	assert.Equal(int8(7), *n.Dynamic)
	assert.Equal(int8(12), *n.Fret)
	assert.Equal(model.Fingering{Left: 1, Right: -1}, *n.Fingering)
	assert.True(n.Effects.Slide())
	assert.False(n.Effects.HammerPull())
	assert.Nil(n.Effects.Bend)
	assert.Equal(model.GraceNote{Fret: 10, Dynamic: 6, Duration: 2, Transition: 1}, *n.Effects.Grace)
}

func TestNoteWithoutFretHasNoType(t *testing.T) {
	d := testDecoder(t, []byte{model.NoteDynamics, 5}, Strict)
	n, err := d.readNote()
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Nil(n.Type)
	assert.Nil(n.Fret)
	assert.Equal(int8(5), *n.Dynamic)
	assert.Equal(int64(2), d.r.Pos())
}

func TestBendSizes(t *testing.T) {
	for _, points := range []int{0, 1, 3} {
		t.Run(fmt.Sprintf("%d points", points), func(t *testing.T) {
			var w gp3test.Writer
			w.I8(int8(model.BendRelease)).I32(100).I32(int32(points))
			for i := 0; i < points; i++ {
				w.I32(int32(i * 30)).I32(int32(i * 25)).Bool(i == 1)
			}
			require.Equal(t, 9+9*points, w.Len())

			d := testDecoder(t, w.Bytes(), Strict)
			b, err := d.readBend()
			require.NoError(t, err)

			assert := assert.New(t)
			assert.Equal(int64(w.Len()), d.r.Pos())
			assert.Equal(model.BendRelease, b.Type)
			assert.Equal(int32(100), b.Value)
			assert.Len(b.Points, points)
			if points == 3 {
				assert.Equal(model.BendPoint{Position: 30, Value: 25, Vibrato: true}, b.Points[1])
			}
		})
	}
}

func TestBendRejectsHugePointCount(t *testing.T) {
	var w gp3test.Writer
	w.I8(1).I32(0).I32(1000).Raw(make([]byte, 18)...)
	d := testDecoder(t, w.Bytes(), BestEffort)

	_, err := d.readBend()
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestBeatEffects(t *testing.T) {
	cases := []struct {
		name  string
		input []byte
		size  int64
		check func(*testing.T, *model.BeatEffects)
	}{
		{
			name:  "none",
			input: []byte{0x00},
			size:  1,
			check: func(t *testing.T, e *model.BeatEffects) {
				assert.Nil(t, e.TremoloOrTap)
				assert.Nil(t, e.Strum)
			},
		},
		{
			name:  "tremolo bar carries a value",
			input: []byte{model.BeatFxTremoloOrTap, 0, 0xF4, 0xFF, 0xFF, 0xFF},
			size:  6,
			check: func(t *testing.T, e *model.BeatEffects) {
				require.NotNil(t, e.TremoloOrTap)
				assert.Equal(t, model.TremoloBar, e.TremoloOrTap.Kind)
				assert.Equal(t, int32(-12), *e.TremoloOrTap.Value)
			},
		},
		{
			name:  "slap has no value",
			input: []byte{model.BeatFxTremoloOrTap, byte(model.Slap)},
			size:  2,
			check: func(t *testing.T, e *model.BeatEffects) {
				assert.Equal(t, model.Slap, e.TremoloOrTap.Kind)
				assert.Nil(t, e.TremoloOrTap.Value)
			},
		},
		{
			name:  "strum then vibrato",
			input: []byte{model.BeatFxStrum | model.BeatFxVibrato, 3, 0},
			size:  3,
			check: func(t *testing.T, e *model.BeatEffects) {
				assert.True(t, e.Vibrato())
				assert.Equal(t, model.Strum{Down: 3, Up: 0}, *e.Strum)
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := testDecoder(t, c.input, Strict)
			e, err := d.readBeatEffects()
			require.NoError(t, err)
			assert.Equal(t, c.size, d.r.Pos())
			c.check(t, e)
		})
	}
}

func TestChordDiagram(t *testing.T) {
	t.Run("no frets when first fret is zero", func(t *testing.T) {
		var w gp3test.Writer
		w.Bool(false).IntByteString("C").I32(0)
		d := testDecoder(t, w.Bytes(), Strict)

		c, err := d.readChord()
		require.NoError(t, err)
		assert.Nil(t, c.Frets)
		assert.Equal(t, int64(w.Len()), d.r.Pos())
	})

	t.Run("six frets otherwise", func(t *testing.T) {
		var w gp3test.Writer
		w.Bool(false).IntByteString("G").I32(1)
		for _, f := range []int32{3, 2, 0, 0, 0, 3} {
			w.I32(f)
		}
		d := testDecoder(t, w.Bytes(), Strict)

		c, err := d.readChord()
		require.NoError(t, err)
		assert.Equal(t, &[6]int32{3, 2, 0, 0, 0, 3}, c.Frets)
		assert.Equal(t, int64(1+4+1+1+4+24), d.r.Pos())
	})

	t.Run("new format fails in every mode", func(t *testing.T) {
		for _, mode := range []Mode{Strict, BestEffort} {
			d := testDecoder(t, []byte{1, 0, 0, 0, 0}, mode)
			_, err := d.readChord()
			assert.ErrorIs(t, err, ErrUnsupportedChordFormat, mode.String())
		}
	})
}

func TestMeasureHeaderEveryFlag(t *testing.T) {
	var w gp3test.Writer
	w.U8(0xFF).U8(6).U8(8).U8(2).U8(3)
	w.IntByteString("Verse").Raw(10, 20, 30, 0)
	w.U8(4).U8(1)

	d := testDecoder(t, w.Bytes(), Strict)
	h, err := d.readMeasureHeader()
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(int64(w.Len()), d.r.Pos())
	assert.Equal(uint8(6), *h.Numerator)
	assert.Equal(uint8(8), *h.Denominator)
	assert.Equal(uint8(2), *h.RepeatEnd)
	assert.Equal(uint8(3), *h.AlternateEnding)
	assert.Equal("Verse", h.Marker.Name)
	assert.Equal(uint8(20), h.Marker.Color.G())
	assert.Equal(model.Tonality{Root: 4, Type: 1}, *h.Tonality)
	assert.True(h.RepeatBegin())
	assert.True(h.DoubleBar())
}

func TestMeasureHeaderOnlyMarker(t *testing.T) {
	var w gp3test.Writer
	w.U8(model.MeasureMarker).IntByteString("A").Raw(1, 2, 3, 0)

	d := testDecoder(t, w.Bytes(), Strict)
	h, err := d.readMeasureHeader()
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Nil(h.Numerator)
	assert.Nil(h.Tonality)
	assert.Equal("A", h.Marker.Name)
	assert.False(h.RepeatBegin())
}

func TestTrackHeaderReadsAllTuningSlots(t *testing.T) {
	var w gp3test.Writer
	w.TrackHeader("Bass", 43, 38, 33, 28)
	require.Equal(t, minTrackHeaderSize, w.Len())

	d := testDecoder(t, w.Bytes(), Strict)
	h, err := d.readTrackHeader()
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(int64(minTrackHeaderSize), d.r.Pos())
	assert.Equal("Bass", h.Name)
	assert.Equal([]int32{43, 38, 33, 28}, h.Strings())
	assert.Equal(int32(24), h.FretCount)
	assert.Equal(uint8(255), h.Color.R())
	assert.False(h.Drums())
}
