package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/axsd/axsd"
	"github.com/jsphweid/axsd/model"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var inspectJSON bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print records as JSON")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.axsd>",
	Short: "Inspects an AXSD file",
	Long:  `Decodes an AXSD file and prints one line per record.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return errors.Wrap(err, "opening axsd file")
		}
		defer f.Close()
		return inspect(cmd.OutOrStdout(), f, inspectJSON)
	},
}

func inspect(w io.Writer, r io.Reader, asJSON bool) error {
	records, err := axsd.DecodeAll(r)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(inspectResponse(records))
	}
	for _, rec := range records {
		fmt.Fprintln(w, rec.String())
	}
	return nil
}

func inspectResponse(records []axsd.Record) model.InspectResponse {
	res := model.InspectResponse{Records: make([]model.RecordJSON, 0, len(records))}
	for _, rec := range records {
		switch rec.Tag {
		case axsd.TagVersion:
			res.Version = uint16(rec.Version)
		case axsd.TagRate:
			res.Rate = rec.Rate
		case axsd.TagEnd:
			res.End = rec.Frame
		}
		res.Records = append(res.Records, rec.JSON())
	}
	return res
}
