package cmd

import (
	"github.com/jsphweid/axsd/axsd"
	"github.com/jsphweid/axsd/export"
	"github.com/spf13/cobra"
)

var formatVersion int

func init() {
	convertCmd.Flags().IntVar(&formatVersion, "format-version", int(axsd.V3), "AXSD format version to write (1 or 3)")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <in.mid> <out.axsd> [bankdir]",
	Short: "Converts a MIDI file",
	Long: `Converts a MIDI file into an AXSD stream. When a bank directory is given,
its bank.json, drums/*.wav and patches/*.wav are embedded before the events.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := axsd.ParseVersion(formatVersion)
		if err != nil {
			return err
		}
		opts := export.Options{Version: v}
		if len(args) == 3 {
			opts.BankDir = args[2]
		}
		_, err = export.ConvertFile(args[0], args[1], opts)
		return err
	},
}
