package midi

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s, e = nil, errors.Errorf("could not parse midi file %s: %v", filepath, r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "could not read midi file")
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse midi file %s", filepath)
	}
	return res, nil
}

// Write serializes s, returning the number of bytes written.
func Write(w io.Writer, s *smf.SMF) (int64, error) {
	n, err := s.WriteTo(w)
	if err != nil {
		return n, errors.Wrap(err, "could not write midi")
	}
	return n, nil
}

func WriteFile(path string, s *smf.SMF) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "could not create midi file")
	}
	defer f.Close()

	if _, err := Write(f, s); err != nil {
		return err
	}
	return f.Close()
}

// FileName is the default export name for one track of a tab.
func FileName(base string, trackIndex int) string {
	return fmt.Sprintf("%s.track%d.mid", base, trackIndex+1)
}
