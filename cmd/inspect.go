package cmd

import (
	"fmt"
	"os"

	"github.com/jsphweid/scaletree/chord"
	"github.com/jsphweid/scaletree/midi"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/smf"
)

var (
	inspectFrom uint64
	inspectMax  int
	inspectOut  string
)

func init() {
	inspectCmd.Flags().Uint64Var(&inspectFrom, "from", 0, "only look at notes starting at or after this tick")
	inspectCmd.Flags().IntVar(&inspectMax, "max", 0, "only look at the first n notes of each track (0 for all)")
	inspectCmd.Flags().StringVar(&inspectOut, "out", "", "write the excerpt to this file")
	rootCmd.AddCommand(inspectCmd)
}

func chordKey(notes []uint8) string {
	res := make([]int, 0, len(notes))
	for _, n := range notes {
		res = append(res, int(n))
	}
	return chord.CreateChordKey(res)
}

func writeExcerpt(path string, s *smf.SMF) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "could not create excerpt file")
	}
	defer f.Close()
	_, err = s.WriteTo(f)
	return errors.Wrap(err, "could not write excerpt")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Prints the chord blocks of a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := midi.ReadFile(args[0])
		if err != nil {
			return err
		}
		if inspectFrom > 0 || inspectMax > 0 {
			s = midi.Excerpt(s, inspectFrom, inspectMax)
		}
		if inspectOut != "" {
			if err := writeExcerpt(inspectOut, s); err != nil {
				return err
			}
		}

		fmt.Printf("%v tracks, %v ticks per quarter\n", len(s.Tracks), midi.Resolution(s))
		counts := make(map[string]int)
		for _, b := range chord.GetBlocks(s) {
			if len(b.Notes) == 0 {
				fmt.Printf("%8d %6d rest\n", b.Tick, b.Duration)
				continue
			}
			key := chordKey(b.Notes)
			counts[key]++
			fmt.Printf("%8d %6d %v (vel %v)\n", b.Tick, b.Duration, key, b.Velocity)
		}
		fmt.Printf("%v distinct chords\n", len(counts))
		return nil
	},
}
