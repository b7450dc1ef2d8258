package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsphweid/scaletree/model"
	"github.com/jsphweid/scaletree/transpose"
	"github.com/jsphweid/scaletree/vector"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var noteOffset map[string]int

func init() {
	resolveCmd.Flags().StringToIntVar(&noteOffset, "offset", nil, "static offset added to every relative note, e.g. chordal=1,A=-2")
	resolveCmd.Flags().StringVar(&keyTonic, "key", "", "spell pitches in this key (default: major key on the track's tonic)")
	resolveCmd.Flags().StringVar(&keyMode, "mode", "major", "mode of --key")
	rootCmd.AddCommand(resolveCmd)
}

// parseNote reads "@64" as MIDI 64, "2" as degree 2 of the nearest scale
// and "A:2" as degree 2 of the scale on track (or scale id) A.
func parseNote(arg string, offset vector.Vector) (model.PatternNote, error) {
	if strings.HasPrefix(arg, "@") {
		midi, err := strconv.Atoi(arg[1:])
		if err != nil {
			return nil, errors.Wrapf(err, "bad midi note %q", arg)
		}
		return model.AbsoluteNote{MIDI: midi}, nil
	}

	var scaleID string
	degree := arg
	if i := strings.LastIndex(arg, ":"); i >= 0 {
		scaleID, degree = arg[:i], arg[i+1:]
	}
	d, err := strconv.Atoi(degree)
	if err != nil {
		return nil, errors.Wrapf(err, "bad degree %q", arg)
	}
	return model.RelativeNote{ScaleID: scaleID, Degree: d, Offset: vector.Normalize(offset)}, nil
}

func offsetVector(m map[string]int) vector.Vector {
	res := make(vector.Vector)
	for axis, n := range m {
		res[vector.Axis(axis)] = n
	}
	return vector.Normalize(res)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <trackId> <tick> <note>...",
	Short: "Resolves notes on a pattern track at a tick",
	Long: `Resolves a block of notes as if it were played on a pattern track at a
tick. Notes are "@64" for MIDI 64, "2" for degree 2 of the nearest scale,
or "A:2" for degree 2 of scale A.`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		trackID := args[0]
		tick, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Wrapf(err, "bad tick %q", args[1])
		}
		offset := offsetVector(noteOffset)
		var notes []model.PatternNote
		for _, arg := range args[2:] {
			n, err := parseNote(arg, offset)
			if err != nil {
				return err
			}
			notes = append(notes, n)
		}

		e, err := loadEngine()
		if err != nil {
			return err
		}
		active, warnings, err := e.ActiveVectorAt(trackID, tick)
		if err != nil {
			return err
		}
		pitches, w, err := e.ResolveBlock(notes, trackID, tick)
		if err != nil {
			return err
		}
		warnings.Add(w...)
		rs, w, err := e.Scale(trackID)
		if err != nil {
			return err
		}
		warnings.Add(w...)
		k, err := keyFor(keyTonic, keyMode, rs.Tonic)
		if err != nil {
			return err
		}

		fmt.Printf("Track %v at tick %v, pose %v\n", trackID, tick, active)
		for i, p := range pitches {
			fmt.Printf("%-8v %3d %v\n", args[2+i], p, transpose.Name(p, k))
		}
		printWarnings(warnings)
		return nil
	},
}
