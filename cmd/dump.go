package cmd

import (
	"encoding/json"

	"github.com/jsphweid/tabdex/model"
	"github.com/spf13/cobra"
)

var dumpIndent bool

func init() {
	dumpCmd.Flags().BoolVar(&dumpIndent, "indent", true, "indent the JSON output")
	rootCmd.AddCommand(dumpCmd)
}

var dumpCmd = &cobra.Command{
	Use:   "dump FILE",
	Short: "Dumps a decoded tab as JSON",
	Long:  `Dumps the full decoded song, every measure of every track, as JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := decodeTab(args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		if dumpIndent {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(model.DecodeResponse{Song: res.Song, Warnings: res.Warnings})
	},
}
