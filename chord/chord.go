package chord

import (
	"fmt"
	"sort"

	"github.com/jsphweid/scaletree/util"
	"gitlab.com/gomidi/midi/v2/smf"
)

type OnNotes = map[uint8]uint8

// Block is what was held down from Tick for Duration ticks. No notes
// means a rest.
type Block struct {
	Tick     int64
	Duration int64
	Notes    []uint8
	Velocity uint8
}

func CreateChordKey(notes []int) string {
	sorted := append([]int(nil), notes...)
	sort.Ints(sorted)
	var res string
	for i, note := range sorted {
		res += fmt.Sprintf("%v", note)
		if i < len(sorted)-1 {
			res += "-"
		}
	}
	return res
}

// Rotate re-stacks a chord. Voices are ranked by pitch; the voice at
// position p with offset c takes the pitch at position p+c, moving an
// octave for every time it wraps past the top or bottom of the stack.
// The result keeps the input's voice order.
func Rotate(stack []int, offsets []int) []int {
	n := len(stack)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return stack[order[i]] < stack[order[j]]
	})

	res := make([]int, n)
	for pos, voice := range order {
		q, r := util.FloorDiv(pos+offsets[voice], n)
		res[voice] = stack[order[r]] + 12*q
	}
	return res
}

func getBlock(pressed OnNotes, tick int64) Block {
	b := Block{Tick: tick}
	for note, velocity := range pressed {
		b.Notes = append(b.Notes, note)
		b.Velocity = util.Max(b.Velocity, velocity)
	}
	sort.Slice(b.Notes, func(i, j int) bool {
		return b.Notes[i] < b.Notes[j]
	})
	return b
}

type reducedEvent struct {
	tick      int64
	isNoteOff bool
	note      uint8
	velocity  uint8
}

// GetBlocks flattens all tracks of s into consecutive blocks, one per
// change in the set of held notes. Leading silence is dropped.
func GetBlocks(s *smf.SMF) []Block {
	var reducedEvents []reducedEvent

	for _, events := range s.Tracks {
		var absTicks int64
		for _, event := range events {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				reducedEvents = append(reducedEvents, reducedEvent{
					tick:      absTicks,
					isNoteOff: velocity == 0,
					note:      key,
					velocity:  velocity,
				})
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				reducedEvents = append(reducedEvents, reducedEvent{
					tick:      absTicks,
					isNoteOff: true,
					note:      key,
				})
			}
		}
	}

	// earlier ticks first, and note offs before note ons on the same tick
	sort.SliceStable(reducedEvents, func(i, j int) bool {
		if reducedEvents[i].tick != reducedEvents[j].tick {
			return reducedEvents[i].tick < reducedEvents[j].tick
		}
		return reducedEvents[i].isNoteOff && !reducedEvents[j].isNoteOff
	})

	var blocks []Block
	pressed := make(OnNotes)
	for i, evt := range reducedEvents {
		if evt.isNoteOff {
			delete(pressed, evt.note)
		} else {
			pressed[evt.note] = evt.velocity
		}
		if i+1 < len(reducedEvents) && reducedEvents[i+1].tick == evt.tick {
			continue
		}
		if len(blocks) > 0 {
			last := &blocks[len(blocks)-1]
			last.Duration = evt.tick - last.Tick
		}
		if len(blocks) == 0 && len(pressed) == 0 {
			continue
		}
		blocks = append(blocks, getBlock(pressed, evt.tick))
	}

	// the final block is what is left after the last note off
	if len(blocks) > 0 && len(blocks[len(blocks)-1].Notes) == 0 {
		blocks = blocks[:len(blocks)-1]
	}
	return blocks
}
