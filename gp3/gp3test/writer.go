// Package gp3test builds synthetic GP3 byte streams for tests.
package gp3test

import (
	"bytes"
	"encoding/binary"
	"sort"
)

const Version = "FICHIER GUITAR PRO v3.00"

// Writer appends raw GP3 fields. Methods chain.
type Writer struct {
	buf bytes.Buffer
}

func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

func (w *Writer) Len() int {
	return w.buf.Len()
}

func (w *Writer) Raw(b ...byte) *Writer {
	w.buf.Write(b)
	return w
}

func (w *Writer) U8(v uint8) *Writer {
	w.buf.WriteByte(v)
	return w
}

func (w *Writer) I8(v int8) *Writer {
	return w.U8(uint8(v))
}

func (w *Writer) Bool(v bool) *Writer {
	if v {
		return w.U8(1)
	}
	return w.U8(0)
}

func (w *Writer) I32(v int32) *Writer {
	binary.Write(&w.buf, binary.LittleEndian, v)
	return w
}

func (w *Writer) ByteString(s string) *Writer {
	w.U8(uint8(len(s)))
	w.buf.WriteString(s)
	return w
}

func (w *Writer) PaddedByteString(s string, width int) *Writer {
	w.ByteString(s)
	w.buf.Write(make([]byte, width-len(s)))
	return w
}

// IntByteString writes the dual-length form with consistent lengths.
func (w *Writer) IntByteString(s string) *Writer {
	w.I32(int32(len(s) + 1))
	return w.ByteString(s)
}

// Header writes everything up to the measure and track counts: version,
// metadata with no notice lines, triplet feel off, tempo, key 0 and a MIDI
// grid where every channel is a steel guitar at volume 13.
func (w *Writer) Header(title, artist string, tempo int32) *Writer {
	w.PaddedByteString(Version, 30)
	for _, s := range []string{title, "", artist, "", "", "", "", ""} {
		w.IntByteString(s)
	}
	w.I32(0)
	w.Bool(false)
	w.I32(tempo)
	w.I32(0)
	for i := 0; i < 4*16; i++ {
		w.I32(25)
		w.Raw(13, 8, 0, 0, 0, 0, 0, 0)
	}
	return w
}

func (w *Writer) Counts(measures, tracks int32) *Writer {
	return w.I32(measures).I32(tracks)
}

// TrackHeader writes a plain track on port 1, channel 1 with 24 frets and
// no capo.
func (w *Writer) TrackHeader(name string, tuning ...int32) *Writer {
	w.U8(0)
	w.PaddedByteString(name, 40)
	w.I32(int32(len(tuning)))
	for i := 0; i < 7; i++ {
		if i < len(tuning) {
			w.I32(tuning[i])
		} else {
			w.I32(0)
		}
	}
	w.I32(1).I32(1).I32(2).I32(24).I32(0)
	return w.Raw(255, 0, 0, 0)
}

// Beat writes a beat with no flags and one normal note per entry of frets,
// keyed by string index.
func (w *Writer) Beat(duration int8, frets map[int]int8) *Writer {
	w.U8(0)
	w.I8(duration)
	return w.Notes(frets)
}

func (w *Writer) Notes(frets map[int]int8) *Writer {
	strings := make([]int, 0, len(frets))
	var played uint8
	for s := range frets {
		strings = append(strings, s)
		played |= 0x40 >> uint(s)
	}
	sort.Ints(strings)
	w.U8(played)
	for _, s := range strings {
		w.U8(0x20).U8(1).I8(frets[s])
	}
	return w
}

// MinimalSong is one measure of one single-string track holding a quarter
// note on fret 5.
func MinimalSong() []byte {
	var w Writer
	w.Header("Minimal", "Nobody", 120)
	w.Counts(1, 1)
	w.U8(0)
	w.TrackHeader("Guitar", 64)
	w.I32(1)
	w.Beat(0, map[int]int8{0: 5})
	return w.Bytes()
}

// Riff is two measures on a six-string guitar in standard tuning.
func Riff() []byte {
	var w Writer
	w.Header("Riff", "The Band", 90)
	w.Counts(2, 1)
	w.U8(0x03).U8(4).U8(4)
	w.U8(0)
	w.TrackHeader("Lead", 64, 59, 55, 50, 45, 40)
	w.I32(2)
	w.Beat(-1, map[int]int8{5: 0, 4: 2})
	w.Beat(-1, map[int]int8{3: 2})
	w.I32(4)
	for _, fret := range []int8{3, 5, 7, 5} {
		w.Beat(0, map[int]int8{2: fret})
	}
	return w.Bytes()
}
