package cmd

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jsphweid/tabdex/constants"
	"github.com/jsphweid/tabdex/db"
	"github.com/jsphweid/tabdex/file"
	"github.com/jsphweid/tabdex/gp3"
	"github.com/jsphweid/tabdex/util"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index [maxNum]",
	Short: "Indexes the tab library",
	Long:  `Decodes every tab under MEDIA_PATH and writes its metadata to DynamoDB.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var maxNum int
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return errors.Errorf("maxNum must be a non-negative number, got %q", args[0])
			}
			maxNum = n
		}
		return Index(cmd.Context(), maxNum)
	},
}

type metadataWriter interface {
	PutSongMetadatas(ctx context.Context, rows []db.SongMetadata) error
}

func Index(ctx context.Context, maxNum int) error {
	root, ok := constants.GetMediaDir()
	if !ok {
		return errors.New("MEDIA_PATH environment variable is not set")
	}
	client, err := db.NewClient()
	if err != nil {
		return err
	}
	_, err = indexLibrary(ctx, root, maxNum, client, decodeOptions())
	return err
}

// indexLibrary decodes every tab under root and stores one row per tab
// that decoded. Tabs that fail are logged and skipped.
func indexLibrary(ctx context.Context, root string, maxNum int, store metadataWriter, opts gp3.Options) ([]db.SongMetadata, error) {
	paths, err := util.GatherAllTabPaths(root, maxNum)
	if err != nil {
		return nil, err
	}
	runID := uuid.New().String()
	log := logrus.WithField("run", runID)
	log.WithField("tabs", len(paths)).Info("indexing")

	var rows []db.SongMetadata
	fileNumMap := file.CreateFileNumMap(paths)
	for _, num := range util.GetKeys(fileNumMap) {
		path := fileNumMap[num]
		name, err := file.RelativeName(root, path)
		if err != nil {
			return nil, err
		}
		res, err := gp3.DecodeFile(path, opts)
		if err != nil {
			log.WithFields(logrus.Fields{"file": num, "path": name}).Warn(err.Error())
			continue
		}
		row := db.FromSong(name, res.Song, len(res.Warnings))
		row.RunID = runID
		rows = append(rows, row)
	}

	if err := store.PutSongMetadatas(ctx, rows); err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"indexed": len(rows), "skipped": len(paths) - len(rows)}).Info("done")
	return rows, nil
}
