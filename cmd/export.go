package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jsphweid/scaletree/constants"
	"github.com/jsphweid/scaletree/midi"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	exportStart int
	exportEnd   int
	exportBPM   float64
)

func init() {
	exportCmd.Flags().IntVar(&exportStart, "start", 0, "first tick to render")
	exportCmd.Flags().IntVar(&exportEnd, "end", 0, "tick to stop rendering at (default: end of the last clip)")
	exportCmd.Flags().Float64Var(&exportBPM, "bpm", 120, "tempo written to the file")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <out.mid>",
	Short: "Renders the project's pattern clips to a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEngine()
		if err != nil {
			return err
		}
		end := exportEnd
		if end <= 0 {
			end = e.End()
		}
		events, warnings, err := e.Render(context.Background(), exportStart, end)
		if err != nil {
			return err
		}

		f, err := os.Create(args[0])
		if err != nil {
			return errors.Wrap(err, "could not create midi file")
		}
		defer f.Close()

		err = midi.Export(f, events, midi.ExportOptions{
			Name:            e.Project().Name,
			TicksPerQuarter: constants.GetTicksPerQuarter(),
			BPM:             exportBPM,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %v notes on %v tracks to %v\n", len(events), len(e.PatternTracks()), args[0])
		printWarnings(warnings)
		return nil
	},
}
