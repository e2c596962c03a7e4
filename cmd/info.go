package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jsphweid/tabdex/chord"
	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "Prints a summary of a tab",
	Long:  `Prints the metadata, tempo and tracks of a tab.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := decodeTab(args[0])
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), summarize(res.Song), res.Warnings)
		return nil
	},
}

// summarize adds the distinct chords of each track to the song summary.
func summarize(song *model.Song) model.SongSummary {
	sum := model.Summarize(song, chord.StringName)
	for i := range sum.Tracks {
		sum.Tracks[i].Chords = util.Unique(chord.Track(song, i))
	}
	return sum
}

func printSummary(w io.Writer, s model.SongSummary, warnings []string) {
	fmt.Fprintf(w, "Title:    %s\n", s.Title)
	fmt.Fprintf(w, "Artist:   %s\n", s.Artist)
	if s.Album != "" {
		fmt.Fprintf(w, "Album:    %s\n", s.Album)
	}
	fmt.Fprintf(w, "Tempo:    %d\n", s.Tempo)
	fmt.Fprintf(w, "Measures: %d\n", s.MeasureCount)

	noteCounts := make([]int, 0, len(s.Tracks))
	for _, t := range s.Tracks {
		noteCounts = append(noteCounts, t.NoteCount)
	}
	fmt.Fprintf(w, "Tracks:   %d (%d notes)\n", s.TrackCount, util.Sum(noteCounts))
	for i, t := range s.Tracks {
		tuning := strings.Join(t.Tuning, " ")
		if t.Drums {
			tuning = "drums"
		}
		fmt.Fprintf(w, "  %d. %-20s %d strings [%s] %d notes\n", i+1, t.Name, t.StringCount, tuning, t.NoteCount)
		if len(t.Chords) > 0 {
			fmt.Fprintf(w, "     chords: %s\n", strings.Join(t.Chords, " "))
		}
	}
	for _, warning := range warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}
