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
	exportTrack   int
	exportOut     string
	exportPreview int
)

func init() {
	exportCmd.Flags().IntVar(&exportTrack, "track", 1, "track number, starting at 1")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default FILE.trackN.mid)")
	exportCmd.Flags().IntVar(&exportPreview, "preview", 0, "only keep the first N notes")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Exports one track of a tab to MIDI",
	Long:  `Exports one track of a tab to a Standard MIDI File.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return export(args[0], exportTrack-1, exportOut, exportPreview)
	},
}

func export(path string, trackIndex int, out string, preview int) error {
	res, err := decodeTab(path)
	if err != nil {
		return err
	}
	s, err := midi.FromTrack(res.Song, trackIndex)
	if err != nil {
		return err
	}
	if preview > 0 {
		s = sample.Create(s, 0, preview)
	}
	if out == "" {
		out = midi.FileName(strings.TrimSuffix(path, filepath.Ext(path)), trackIndex)
	}
	if err := midi.WriteFile(out, s); err != nil {
		return errors.WithMessagef(err, "could not export %s", path)
	}
	logrus.WithFields(logrus.Fields{"track": trackIndex + 1, "out": out}).Info("exported")
	return nil
}
