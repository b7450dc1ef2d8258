package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	keyTonic string
	keyMode  string
)

func init() {
	scaleCmd.Flags().StringVar(&keyTonic, "key", "", "spell pitches in this key (default: major key on the scale's tonic)")
	scaleCmd.Flags().StringVar(&keyMode, "mode", "major", "mode of --key")
	rootCmd.AddCommand(scaleCmd)
}

var scaleCmd = &cobra.Command{
	Use:   "scale <trackId>",
	Short: "Prints a track's scale resolved down to MIDI pitches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEngine()
		if err != nil {
			return err
		}
		rs, warnings, err := e.Scale(args[0])
		if err != nil {
			return err
		}
		k, err := keyFor(keyTonic, keyMode, rs.Tonic)
		if err != nil {
			return err
		}

		fmt.Printf("Track %v (%v), tonic %v\n", rs.TrackID, k, rs.Tonic)
		fmt.Printf("levels:    %v\n", strings.Join(rs.Levels(), " -> "))
		fmt.Printf("intervals: %v\n", rs.Intervals)
		fmt.Printf("pitches:   %v\n", rs.Pitches)
		fmt.Printf("names:     %v\n", strings.Join(names(rs.Pitches, k), " "))
		printWarnings(warnings)
		return nil
	},
}
