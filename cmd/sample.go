package cmd

import (
	"path/filepath"
	"strings"

	"github.com/jsphweid/tabdex/midi"
	"github.com/jsphweid/tabdex/sample"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	sampleNotes  int
	sampleOffset uint64
	sampleOut    string
)

func init() {
	sampleCmd.Flags().IntVar(&sampleNotes, "notes", 8, "number of notes to keep")
	sampleCmd.Flags().Uint64Var(&sampleOffset, "offset", 0, "tick to start at")
	sampleCmd.Flags().StringVar(&sampleOut, "out", "", "output path (default FILE.sample.mid)")
	rootCmd.AddCommand(sampleCmd)
}

var sampleCmd = &cobra.Command{
	Use:   "sample FILE.mid",
	Short: "Cuts a preview out of a MIDI file",
	Long: `Cuts a short preview out of an existing MIDI file, such as one written by
export, keeping the tempo and program in effect at the offset.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return samplePreview(args[0], sampleOut, sampleOffset, sampleNotes)
	},
}

func samplePreview(path, out string, offset uint64, notes int) error {
	if notes <= 0 {
		return errors.Errorf("bad --notes %d", notes)
	}
	mf, err := midi.ReadMidiFile(path)
	if err != nil {
		return err
	}
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".sample.mid"
	}
	if err := midi.WriteFile(out, sample.Create(mf, offset, notes)); err != nil {
		return errors.WithMessagef(err, "could not sample %s", path)
	}
	logrus.WithFields(logrus.Fields{"notes": notes, "offset": offset, "out": out}).Info("sampled")
	return nil
}
