package midi

import (
	"io"
	"sort"

	"github.com/jsphweid/scaletree/engine"
	"github.com/jsphweid/scaletree/model"
	"github.com/jsphweid/scaletree/util"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type ExportOptions struct {
	Name            string
	TicksPerQuarter int
	BPM             float64
}

type timedMessage struct {
	tick  uint32
	isOff bool
	msg   gomidi.Message
}

func trackOf(events []engine.Event, channel uint8) (smf.Track, uint32) {
	var msgs []timedMessage
	for _, evt := range events {
		start := uint32(util.Max(evt.Tick, 0))
		end := uint32(util.Max(evt.Tick+evt.Duration, 0))
		key := uint8(util.Clamp(evt.Pitch, 0, 127))
		msgs = append(msgs,
			timedMessage{tick: start, msg: gomidi.NoteOn(channel, key, evt.Velocity)},
			timedMessage{tick: end, isOff: true, msg: gomidi.NoteOff(channel, key)},
		)
	}
	// same ordering GetBlocks reads back: offs before ons on a tick
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].tick != msgs[j].tick {
			return msgs[i].tick < msgs[j].tick
		}
		return msgs[i].isOff && !msgs[j].isOff
	})

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(events[0].TrackID))
	var last uint32
	for _, m := range msgs {
		track.Add(m.tick-last, m.msg)
		last = m.tick
	}
	return track, last
}

// Export writes rendered events as a format 1 file: a tempo track, then
// one track per pattern track on its own channel.
func Export(w io.Writer, events []engine.Event, opts ExportOptions) error {
	if opts.TicksPerQuarter <= 0 {
		return errors.Errorf("bad ticks per quarter %d", opts.TicksPerQuarter)
	}
	bpm := opts.BPM
	if bpm <= 0 {
		bpm = 120
	}

	byTrack := make(map[model.TrackID][]engine.Event)
	for _, evt := range events {
		byTrack[evt.TrackID] = append(byTrack[evt.TrackID], evt)
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(opts.TicksPerQuarter)

	var tracks []smf.Track
	var end uint32
	for i, id := range util.GetKeys(byTrack) {
		track, last := trackOf(byTrack[id], uint8(i%16))
		tracks = append(tracks, track)
		end = util.Max(end, last)
	}

	var tempo smf.Track
	if opts.Name != "" {
		tempo.Add(0, smf.MetaTrackSequenceName(opts.Name))
	}
	tempo.Add(0, smf.MetaTempo(bpm))
	tempo.Add(0, smf.MetaTimeSig(4, 2, 24, 8))
	tempo.Close(end)
	if err := s.Add(tempo); err != nil {
		return errors.Wrap(err, "could not add tempo track")
	}
	for _, track := range tracks {
		track.Close(0)
		if err := s.Add(track); err != nil {
			return errors.Wrap(err, "could not add track")
		}
	}

	_, err := s.WriteTo(w)
	return errors.Wrap(err, "could not write midi")
}
