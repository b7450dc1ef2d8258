package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Excerpt cuts every track of s from tick from onwards, keeping at most
// maxNotes note starts per track (no limit when maxNotes <= 0). Only note
// messages are kept, and a kept note always keeps its own note off.
func Excerpt(s *smf.SMF, from uint64, maxNotes int) *smf.SMF {
	res := smf.New()
	res.TimeFormat = s.TimeFormat

	for _, track := range s.Tracks {
		var out smf.Track
		var absTicks, last uint64
		held := make(map[uint8]uint8)
		var numNotes int
		for _, evt := range track {
			absTicks += uint64(evt.Delta)
			var channel, key, velocity uint8
			isOn := evt.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0
			isOff := !isOn && (evt.Message.GetNoteOff(&channel, &key, &velocity) || evt.Message.GetNoteOn(&channel, &key, &velocity))
			switch {
			case isOn:
				if absTicks < from || (maxNotes > 0 && numNotes >= maxNotes) {
					continue
				}
				held[key] = channel
				numNotes++
			case isOff:
				if _, ok := held[key]; !ok {
					continue
				}
				delete(held, key)
			default:
				continue
			}
			pos := absTicks - from
			out.Add(uint32(pos-last), evt.Message)
			last = pos
		}
		// notes the source never released
		for key, channel := range held {
			out.Add(0, gomidi.NoteOff(channel, key))
		}
		out.Close(0)
		res.Add(out)
	}
	return res
}
