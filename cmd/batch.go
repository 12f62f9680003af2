package cmd

import (
	"os"
	"path/filepath"

	"github.com/jsphweid/axsd/axsd"
	"github.com/jsphweid/axsd/export"
	"github.com/jsphweid/axsd/file"
	"github.com/jsphweid/axsd/logger"
	"github.com/jsphweid/axsd/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	batchMax     int
	batchVersion int
	batchBank    string
)

func init() {
	batchCmd.Flags().IntVar(&batchMax, "max", 0, "stop after this many files (0 for all)")
	batchCmd.Flags().IntVar(&batchVersion, "format-version", int(axsd.V3), "AXSD format version to write (1 or 3)")
	batchCmd.Flags().StringVar(&batchBank, "bank", "", "sample bank directory embedded in every output")
	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch <indir> <outdir>",
	Short: "Converts a directory of MIDI files",
	Long: `Converts every .mid/.midi file under indir, mirroring the directory
layout into outdir. Stops at the first failure.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := axsd.ParseVersion(batchVersion)
		if err != nil {
			return err
		}
		return batch(args[0], args[1], batchMax, export.Options{Version: v, BankDir: batchBank})
	},
}

func batch(inDir, outDir string, maxNum int, opts export.Options) error {
	paths, err := util.GatherAllMidiPaths(inDir, maxNum)
	if err != nil {
		return err
	}
	outputs, err := file.CreateOutputMap(inDir, outDir, paths)
	if err != nil {
		return err
	}

	log := logger.GetLogger()
	for i, in := range paths {
		out := outputs[in]
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return errors.Wrap(err, "creating output dir")
		}
		if _, err := export.ConvertFile(in, out, opts); err != nil {
			return err
		}
		log.Info("Converted", "n", i+1, "of", len(paths), "path", in)
	}
	return nil
}
