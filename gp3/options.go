package gp3

import (
	"fmt"

	"github.com/jsphweid/tabdex/model"
	"github.com/sirupsen/logrus"
)

type Mode int

const (
	// Strict fails the decode on the first malformed field.
	Strict Mode = iota
	// BestEffort logs version and string length mismatches and keeps going.
	BestEffort
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case BestEffort:
		return "best-effort"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "strict":
		return Strict, nil
	case "best-effort", "besteffort", "lenient":
		return BestEffort, nil
	}
	return Strict, fmt.Errorf("unknown decode mode %q", s)
}

type Options struct {
	Mode Mode
	// Logger defaults to the logrus standard logger.
	Logger logrus.FieldLogger
}

type Result struct {
	Song *model.Song
	// Warnings holds what best-effort decoding recovered from, in order.
	Warnings []string
}
