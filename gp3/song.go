// Package gp3 decodes Guitar Pro 3 tab files into a model.Song.
//
// Decoding is one forward pass over a seekable source. Every optional field
// is gated by a flag bit read just before it, so a single misread byte
// corrupts everything after it; the decoder therefore stops at the first
// structural problem instead of guessing.
package gp3

import (
	"bytes"
	"io"
	"os"

	"github.com/jsphweid/tabdex/gpread"
	"github.com/jsphweid/tabdex/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	SupportedVersion = "FICHIER GUITAR PRO v3.00"

	versionSlot   = 30
	trackNameSlot = 40
	tuningSlots   = 7
	midiPorts     = 4
	midiChannels  = 16

	minTrackHeaderSize = 1 + 1 + trackNameSlot + 4*(1+tuningSlots+5) + 4
	minMeasureSize     = 4
	minBeatSize        = 3
	minTextSize        = 5
	bendPointSize      = 9
)

type decoder struct {
	r        *gpread.Reader
	mode     Mode
	log      logrus.FieldLogger
	warnings []string
}

func newDecoder(rs io.ReadSeeker, opts Options) (*decoder, error) {
	r, err := gpread.NewReader(rs)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &decoder{r: r, mode: opts.Mode, log: log}, nil
}

// tolerate swallows err when best-effort decoding allows it.
func (d *decoder) tolerate(err error, record string) error {
	if d.mode != BestEffort || !recoverable(err) {
		return err
	}
	d.log.WithFields(logrus.Fields{"offset": d.r.Pos(), "record": record}).Warn(err.Error())
	d.warnings = append(d.warnings, record+": "+err.Error())
	return nil
}

// readText reads a dual-length string.
func (d *decoder) readText(record string) (string, error) {
	s, err := d.r.ReadIntByteString()
	if err != nil {
		if err := d.tolerate(err, record); err != nil {
			return "", err
		}
	}
	return s, nil
}

// readCount reads a record count and rejects values the rest of the input
// could not possibly hold.
func (d *decoder) readCount(what string, minSize int64) (int, error) {
	n, err := d.r.ReadI32()
	if err != nil {
		return 0, errors.WithMessagef(err, "%s count", what)
	}
	if n < 0 || int64(n)*minSize > d.r.Remaining() {
		return 0, errors.Wrapf(ErrInvalidCount, "%s count %d with %d bytes left", what, n, d.r.Remaining())
	}
	return int(n), nil
}

func Decode(rs io.ReadSeeker, opts Options) (*Result, error) {
	d, err := newDecoder(rs, opts)
	if err != nil {
		return nil, err
	}
	song, err := d.readSong()
	if err != nil {
		return nil, err
	}
	return &Result{Song: song, Warnings: d.warnings}, nil
}

func DecodeBytes(b []byte, opts Options) (*Result, error) {
	return Decode(bytes.NewReader(b), opts)
}

// DecodeFile reads the whole file up front; the decoder does many small
// reads and two seeks.
func DecodeFile(path string, opts Options) (*Result, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read tab file")
	}
	res, err := DecodeBytes(dat, opts)
	if err != nil {
		return nil, errors.WithMessagef(err, "could not decode %s", path)
	}
	return res, nil
}

func (d *decoder) readSong() (*model.Song, error) {
	var s model.Song
	var err error

	if s.Version, err = d.readVersion(); err != nil {
		return nil, err
	}
	if s.Metadata, err = d.readMetadata(); err != nil {
		return nil, errors.WithMessage(err, "metadata")
	}
	if s.TripletFeel, err = d.r.ReadBool(); err != nil {
		return nil, errors.WithMessage(err, "triplet feel")
	}
	if s.Tempo, err = d.r.ReadI32(); err != nil {
		return nil, errors.WithMessage(err, "tempo")
	}
	if s.Key, err = d.r.ReadI32(); err != nil {
		return nil, errors.WithMessage(err, "key")
	}
	if err := d.readMidiChannels(&s.MidiChannels); err != nil {
		return nil, err
	}

	measureCount, err := d.readCount("measure", 1)
	if err != nil {
		return nil, err
	}
	trackCount, err := d.readCount("track", minTrackHeaderSize)
	if err != nil {
		return nil, err
	}
	s.MeasureCount, s.TrackCount = int32(measureCount), int32(trackCount)

	s.MeasureHeaders = make([]model.MeasureHeader, 0, measureCount)
	for i := 0; i < measureCount; i++ {
		h, err := d.readMeasureHeader()
		if err != nil {
			return nil, errors.WithMessagef(err, "measure header %d", i)
		}
		s.MeasureHeaders = append(s.MeasureHeaders, h)
	}
	s.TrackHeaders = make([]model.TrackHeader, 0, trackCount)
	for i := 0; i < trackCount; i++ {
		h, err := d.readTrackHeader()
		if err != nil {
			return nil, errors.WithMessagef(err, "track header %d", i)
		}
		s.TrackHeaders = append(s.TrackHeaders, h)
	}

	if int64(measureCount)*int64(trackCount)*minMeasureSize > d.r.Remaining() {
		return nil, errors.Wrapf(ErrInvalidCount, "%d measures x %d tracks with %d bytes left", measureCount, trackCount, d.r.Remaining())
	}
	s.Measures = make([][]model.Measure, measureCount)
	for i := range s.Measures {
		row := make([]model.Measure, trackCount)
		for j := range row {
			if row[j], err = d.readMeasure(); err != nil {
				return nil, errors.WithMessagef(err, "measure %d, track %d", i, j)
			}
		}
		s.Measures[i] = row
		d.log.WithField("measure", i).Debug("decoded measure")
	}

	return &s, nil
}

func (d *decoder) readVersion() (string, error) {
	version, err := d.r.ReadPaddedByteString(versionSlot)
	if err != nil {
		return "", errors.WithMessage(err, "version")
	}
	if version != SupportedVersion {
		err := errors.Wrapf(ErrUnsupportedVersion, "%q", version)
		if err := d.tolerate(err, "version"); err != nil {
			return "", err
		}
	}
	return version, nil
}

func (d *decoder) readMetadata() (model.Metadata, error) {
	var m model.Metadata
	fields := []struct {
		name string
		dst  *string
	}{
		{"title", &m.Title},
		{"subtitle", &m.Subtitle},
		{"artist", &m.Artist},
		{"album", &m.Album},
		{"words", &m.Words},
		{"copyright", &m.Copyright},
		{"tabbed by", &m.TabbedBy},
		{"instructions", &m.Instructions},
	}
	for _, f := range fields {
		s, err := d.readText(f.name)
		if err != nil {
			return m, errors.WithMessage(err, f.name)
		}
		*f.dst = s
	}

	count, err := d.readCount("notice", minTextSize)
	if err != nil {
		return m, err
	}
	m.Notice = make([]string, 0, count)
	for i := 0; i < count; i++ {
		s, err := d.readText("notice")
		if err != nil {
			return m, errors.WithMessagef(err, "notice line %d", i)
		}
		m.Notice = append(m.Notice, s)
	}
	return m, nil
}

func (d *decoder) readMidiChannels(grid *[midiPorts][midiChannels]model.MidiChannel) error {
	for i := 0; i < midiPorts; i++ {
		for j := 0; j < midiChannels; j++ {
			c, err := d.readMidiChannel()
			if err != nil {
				return errors.WithMessagef(err, "midi port %d, channel %d", i+1, j+1)
			}
			grid[i][j] = c
		}
	}
	return nil
}

func (d *decoder) readMidiChannel() (model.MidiChannel, error) {
	var c model.MidiChannel
	var err error
	if c.Instrument, err = d.r.ReadI32(); err != nil {
		return c, err
	}
	for _, dst := range []*uint8{&c.Volume, &c.Balance, &c.Chorus, &c.Reverb, &c.Phaser, &c.Tremolo, &c.Blank1, &c.Blank2} {
		if *dst, err = d.r.ReadU8(); err != nil {
			return c, err
		}
	}
	return c, nil
}
