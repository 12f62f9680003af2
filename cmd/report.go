package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/axsd/axsd"
	"github.com/jsphweid/axsd/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <file.axsd>",
	Short: "Creates a report",
	Long:  `Summarizes an AXSD file: records per tag, sample bank sizes and duration.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return errors.Wrap(err, "opening axsd file")
		}
		defer f.Close()

		rep, err := analyze(f)
		if err != nil {
			return err
		}
		rep.print(cmd.OutOrStdout())
		return nil
	},
}

type streamReport struct {
	version   axsd.Version
	rate      uint32
	counts    map[string]int
	pcmBytes  []uint32
	endFrame  uint32
	durationS float64
}

func analyze(r io.Reader) (streamReport, error) {
	rep := streamReport{counts: make(map[string]int)}
	dec := axsd.NewDecoder(r)
	for {
		rec, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rep, err
		}
		rep.counts[rec.Tag.String()]++
		if rec.Sample != nil {
			rep.pcmBytes = append(rep.pcmBytes, rec.Sample.FrameCount())
		}
		if rec.Tag == axsd.TagEnd {
			rep.endFrame = rec.Frame
		}
	}
	rep.version = dec.Version()
	rep.rate = dec.Rate()
	if rep.rate > 0 {
		rep.durationS = float64(rep.endFrame) / float64(rep.rate)
	}
	return rep, nil
}

func (rep streamReport) print(w io.Writer) {
	fmt.Fprintf(w, "version: %v\n", rep.version)
	fmt.Fprintf(w, "rate: %v\n", rep.rate)
	for _, tag := range util.GetKeys(rep.counts) {
		fmt.Fprintf(w, "%s: %v\n", tag, rep.counts[tag])
	}
	fmt.Fprintf(w, "samples: %v\n", len(rep.pcmBytes))
	fmt.Fprintf(w, "sample bytes: %v\n", util.Sum(rep.pcmBytes))
	fmt.Fprintf(w, "end frame: %v\n", rep.endFrame)
	fmt.Fprintf(w, "duration: %.3fs\n", rep.durationS)
}
