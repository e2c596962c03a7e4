package cmd

import (
	"context"
	"os"

	"github.com/jsphweid/tabdex/constants"
	"github.com/jsphweid/tabdex/gp3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	bestEffort bool
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "tabdex",
	Short: "Guitar Pro 3 tab decoder and library",
	Long: `tabdex decodes Guitar Pro 3 (.gp3) tabs. It can print or dump a tab,
export a track to MIDI, index a tab library into DynamoDB and serve it all
over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return errors.Wrap(err, "bad --log-level")
		}
		logrus.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&bestEffort, "best-effort", false, "log and skip version and string length mismatches instead of failing")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", constants.GetLogLevel(), "logrus level")
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func decodeOptions() gp3.Options {
	mode := gp3.Strict
	if bestEffort {
		mode = gp3.BestEffort
	}
	return gp3.Options{Mode: mode, Logger: logrus.StandardLogger()}
}

func decodeTab(path string) (*gp3.Result, error) {
	res, err := gp3.DecodeFile(path, decodeOptions())
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		logrus.WithField("path", path).Debug("recovered: " + w)
	}
	return res, nil
}
