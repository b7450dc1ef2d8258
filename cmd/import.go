package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jsphweid/scaletree/constants"
	"github.com/jsphweid/scaletree/midi"
	"github.com/jsphweid/scaletree/model"
	"github.com/jsphweid/scaletree/util"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	importStart int
	importMax   int
)

func init() {
	importCmd.Flags().IntVar(&importStart, "start", 0, "tick the first imported clip starts at")
	importCmd.Flags().IntVar(&importMax, "max", 0, "max number of files to import from a directory (0 for all)")
	rootCmd.AddCommand(importCmd)
}

func midiPaths(path string, maxNum int) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not stat import path")
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	return util.GatherAllMidiPaths(path, maxNum)
}

// addPatterns adds patterns to p and lays a clip for each one on trackID,
// end to end from start.
func addPatterns(p model.Project, patterns []model.Pattern, trackID model.TrackID, start model.Tick) model.Project {
	all := make(map[model.PatternID]model.Pattern, len(p.Patterns)+len(patterns))
	for id, pattern := range p.Patterns {
		all[id] = pattern
	}
	clips := append([]model.PatternClip(nil), p.PatternClips...)

	t := start
	for _, pattern := range patterns {
		all[pattern.ID] = pattern
		clips = append(clips, model.PatternClip{
			ID:        uuid.New().String(),
			PatternID: pattern.ID,
			TrackID:   trackID,
			Start:     t,
		})
		t += pattern.Length()
	}
	p.Patterns = all
	p.PatternClips = clips
	return p
}

var importCmd = &cobra.Command{
	Use:   "import <file.mid|dir> <trackId>",
	Short: "Imports MIDI files as patterns placed on a pattern track",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject()
		if err != nil {
			return err
		}
		trackID := args[1]
		track, ok := p.Hierarchy.Track(trackID)
		if !ok {
			return errors.Errorf("no track %q", trackID)
		}
		if track.IsScaleTrack() {
			return errors.Errorf("track %q is a scale track", trackID)
		}

		paths, err := midiPaths(args[0], importMax)
		if err != nil {
			return err
		}
		var patterns []model.Pattern
		for _, path := range paths {
			pattern, err := midi.ImportPattern(path, constants.GetTicksPerQuarter())
			if err != nil {
				log.WithError(err).WithField("path", path).Warn("Skipping unreadable midi file")
				continue
			}
			log.WithFields(logrus.Fields{
				"path":       path,
				"pattern_id": pattern.ID,
				"blocks":     len(pattern.Stream),
			}).Debug("Imported pattern")
			patterns = append(patterns, pattern)
		}

		if err := saveProject(addPatterns(p, patterns, trackID, importStart)); err != nil {
			return err
		}
		fmt.Printf("Imported %v of %v files onto track %v\n", len(patterns), len(paths), trackID)
		return nil
	},
}
