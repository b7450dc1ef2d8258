package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jsphweid/scaletree/engine"
	"github.com/jsphweid/scaletree/model"
	"github.com/jsphweid/scaletree/pose"
	"github.com/jsphweid/scaletree/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Reports on the project's tracks, poses and patterns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEngine()
		if err != nil {
			return err
		}
		report(e)
		return nil
	},
}

type projectReport struct {
	numScaleTracks   int
	numPatternTracks int
	numPoseIntervals int
	blocksPerPattern []int
	notesPerPattern  []int
	end              model.Tick
}

func analyzeProject(e *engine.Engine) projectReport {
	var report projectReport
	p := e.Project()
	for _, t := range p.Hierarchy.Tracks {
		if t.IsScaleTrack() {
			report.numScaleTracks += 1
		} else {
			report.numPatternTracks += 1
		}
		report.numPoseIntervals += len(e.Timeline().Intervals(t.ID))
	}
	for _, id := range util.GetKeys(p.Patterns) {
		pattern := p.Patterns[id]
		var notes int
		for _, b := range pattern.Stream {
			notes += len(b.Notes)
		}
		report.blocksPerPattern = append(report.blocksPerPattern, len(pattern.Stream))
		report.notesPerPattern = append(report.notesPerPattern, notes)
	}
	report.end = e.End()
	return report
}

func printTree(h model.Hierarchy, parent model.TrackID, depth int) {
	children := h.Children(parent)
	sort.Strings(children)
	for _, id := range children {
		t := h.Tracks[id]
		label := string(t.Kind)
		if t.IsScaleTrack() {
			label = "scale " + t.ScaleID
		}
		fmt.Printf("%v%v (%v)\n", strings.Repeat("  ", depth), id, label)
		printTree(h, id, depth+1)
	}
}

func printPoses(tl *pose.Timeline, h model.Hierarchy) {
	for _, id := range util.GetKeys(h.Tracks) {
		for _, iv := range tl.Intervals(id) {
			end := "inf"
			if !iv.IsInfinite() {
				end = fmt.Sprint(iv.End)
			}
			fmt.Printf("  %v [%v, %v) %v %v\n", id, iv.Start, end, iv.PoseID, iv.Vector)
		}
	}
}

func report(e *engine.Engine) {
	r := analyzeProject(e)
	p := e.Project()
	fmt.Printf("project: %v (version %v)\n", p.Name, e.Version())
	printTree(p.Hierarchy, "", 0)

	fmt.Printf("scale tracks: %v, pattern tracks: %v\n", r.numScaleTracks, r.numPatternTracks)
	fmt.Printf("pose intervals: %v\n", r.numPoseIntervals)
	printPoses(e.Timeline(), p.Hierarchy)
	fmt.Printf("patterns: %v, clips: %v\n", len(p.Patterns), len(p.PatternClips))
	fmt.Printf("blocks: %v, notes: %v\n", util.Sum(r.blocksPerPattern), util.Sum(r.notesPerPattern))
	fmt.Printf("ends at tick: %v\n", r.end)
	printWarnings(e.Warnings())
}
