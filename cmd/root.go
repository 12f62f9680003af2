package cmd

import (
	"github.com/jsphweid/axsd/constants"
	"github.com/jsphweid/axsd/logger"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "axsd",
	Short: "MIDI to AXSD exporter",
	Long: `Converts standard MIDI files, plus an optional bank of 8-bit mono samples,
into AXSD event streams played back at a fixed 60 Hz frame rate.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.InitLogger(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", constants.GetLogLevel(), "debug, info, warn or error")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
