package engine

import (
	"context"
	"sort"

	"github.com/jsphweid/scaletree/constants"
	"github.com/jsphweid/scaletree/diag"
	"github.com/jsphweid/scaletree/model"
	"golang.org/x/sync/errgroup"
)

// Event is one resolved note: Pitch sounding on TrackID from Tick for
// Duration ticks.
type Event struct {
	TrackID  model.TrackID
	ClipID   string
	Tick     model.Tick
	Duration model.Tick
	Pitch    int
	Velocity uint8
}

// Frame is every note sounding at one tick, resolved against one
// snapshot version.
type Frame struct {
	Version  uint64
	Tick     model.Tick
	Events   []Event
	Warnings diag.Warnings
}

func velocity(b model.PatternBlock) uint8 {
	if b.Velocity == 0 {
		return constants.DefaultVelocity
	}
	return b.Velocity
}

func (e *Engine) resolvePlaced(trackID model.TrackID, pb placedBlock, at model.Tick, warnings *diag.Warnings) ([]Event, error) {
	pitches, w, err := e.resolver.ResolveBlock(pb.Block.Notes, trackID, at)
	if err != nil {
		return nil, err
	}
	warnings.Add(w...)
	res := make([]Event, 0, len(pitches))
	for _, p := range pitches {
		res = append(res, Event{
			TrackID:  trackID,
			ClipID:   pb.ClipID,
			Tick:     pb.Start,
			Duration: pb.End - pb.Start,
			Pitch:    p,
			Velocity: velocity(pb.Block),
		})
	}
	return res, nil
}

// eachTrack runs fn for every pattern track at once and joins the results
// in track order.
func (e *Engine) eachTrack(ctx context.Context, fn func(ctx context.Context, trackID model.TrackID, warnings *diag.Warnings) ([]Event, error)) ([]Event, diag.Warnings, error) {
	tracks := e.PatternTracks()
	events := make([][]Event, len(tracks))
	warnings := make([]diag.Warnings, len(tracks))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range tracks {
		i, id := i, id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := fn(ctx, id, &warnings[i])
			if err != nil {
				return err
			}
			events[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var allEvents []Event
	var allWarnings diag.Warnings
	for i := range tracks {
		allEvents = append(allEvents, events[i]...)
		allWarnings.Add(warnings[i]...)
	}
	return allEvents, allWarnings.Dedup(), nil
}

// Frame resolves every block sounding at tick. Pose changes inside a block
// take effect at the queried tick, not at the block's start.
func (e *Engine) Frame(ctx context.Context, tick model.Tick) (Frame, error) {
	events, warnings, err := e.eachTrack(ctx, func(ctx context.Context, trackID model.TrackID, warnings *diag.Warnings) ([]Event, error) {
		var res []Event
		for _, pb := range e.blocks[trackID] {
			if pb.Start > tick {
				break
			}
			if tick >= pb.End || len(pb.Block.Notes) == 0 {
				continue
			}
			evts, err := e.resolvePlaced(trackID, pb, tick, warnings)
			if err != nil {
				return nil, err
			}
			res = append(res, evts...)
		}
		return res, nil
	})
	if err != nil {
		return Frame{}, err
	}
	return Frame{Version: e.Version(), Tick: tick, Events: events, Warnings: warnings}, nil
}

// Render resolves every block starting in [start, end) at its start tick,
// for offline export. Durations running past end are cut at end.
func (e *Engine) Render(ctx context.Context, start, end model.Tick) ([]Event, diag.Warnings, error) {
	events, warnings, err := e.eachTrack(ctx, func(ctx context.Context, trackID model.TrackID, warnings *diag.Warnings) ([]Event, error) {
		var res []Event
		for _, pb := range e.blocks[trackID] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if pb.Start >= end {
				break
			}
			if pb.Start < start || len(pb.Block.Notes) == 0 {
				continue
			}
			if pb.End > end {
				pb.End = end
			}
			evts, err := e.resolvePlaced(trackID, pb, pb.Start, warnings)
			if err != nil {
				return nil, err
			}
			res = append(res, evts...)
		}
		return res, nil
	})
	if err != nil {
		return nil, nil, err
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].TrackID != events[j].TrackID {
			return events[i].TrackID < events[j].TrackID
		}
		return events[i].Tick < events[j].Tick
	})
	return events, warnings, nil
}
