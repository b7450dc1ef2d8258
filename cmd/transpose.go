package cmd

import (
	"fmt"
	"strconv"

	"github.com/jsphweid/scaletree/transpose"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	transposeCmd.PersistentFlags().StringVar(&keyMode, "mode", "major", "mode of the key")
	transposeCmd.AddCommand(transposeKeyCmd, transposePitchCmd, transposeStepsCmd)
	rootCmd.AddCommand(transposeCmd)
}

func atoi(name string, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	return n, errors.Wrapf(err, "bad %v %q", name, arg)
}

var transposeCmd = &cobra.Command{
	Use:   "transpose",
	Short: "Transposes keys and pitches",
}

var transposeKeyCmd = &cobra.Command{
	Use:   "key <tonic> <halftones>",
	Short: "Transposes a key signature by halftones",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := transpose.ParseKey(args[0], keyMode)
		if err != nil {
			return err
		}
		halftones, err := atoi("halftones", args[1])
		if err != nil {
			return err
		}

		dest := transpose.TransposeKey(k, halftones)
		fmt.Printf("%v -> %v (%+d fifths)\n", k, dest, dest.Fifths())
		for _, s := range dest.Diatonic() {
			fmt.Printf("%v ", s)
		}
		fmt.Println()
		return nil
	},
}

var transposePitchCmd = &cobra.Command{
	Use:   "pitch <pitch> <tonic> <halftones>",
	Short: "Transposes a MIDI pitch and spells it in the transposed key",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		pitch, err := atoi("pitch", args[0])
		if err != nil {
			return err
		}
		k, err := transpose.ParseKey(args[1], keyMode)
		if err != nil {
			return err
		}
		halftones, err := atoi("halftones", args[2])
		if err != nil {
			return err
		}

		n := transpose.TransposePitch(pitch, k, halftones)
		fmt.Printf("%v in %v -> %v in %v (%d)\n", transpose.Name(pitch, k), k, n, transpose.TransposeKey(k, halftones), n.MIDI())
		return nil
	},
}

var transposeStepsCmd = &cobra.Command{
	Use:   "steps <trackId> <pitch> <steps>",
	Short: "Transposes a MIDI pitch by steps of a track's scale",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		pitch, err := atoi("pitch", args[1])
		if err != nil {
			return err
		}
		steps, err := atoi("steps", args[2])
		if err != nil {
			return err
		}
		e, err := loadEngine()
		if err != nil {
			return err
		}
		rs, warnings, err := e.Scale(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%d -> %d\n", pitch, transpose.TransposeSteps(pitch, rs, steps))
		printWarnings(warnings)
		return nil
	},
}
