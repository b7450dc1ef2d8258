package chord

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestCreateChordKey(t *testing.T) {
	notes := []int{67, 60, 64}
	assert := assert.New(t)
	assert.Equal("60-64-67", CreateChordKey(notes))
	// input is left alone
	assert.Equal([]int{67, 60, 64}, notes)
	assert.Equal("", CreateChordKey(nil))
}

func TestRotate(t *testing.T) {
	cases := []struct {
		stack   []int
		offsets []int
		want    []int
	}{
		{[]int{60, 64, 67}, []int{0, 0, 0}, []int{60, 64, 67}},
		{[]int{60, 64, 67}, []int{1, 1, 1}, []int{64, 67, 72}},
		{[]int{60, 64, 67}, []int{2, 2, 2}, []int{67, 72, 76}},
		{[]int{60, 64, 67}, []int{3, 3, 3}, []int{72, 76, 79}},
		{[]int{60, 64, 67}, []int{-1, -1, -1}, []int{55, 60, 64}},
		// voice order is kept even when the input is not sorted
		{[]int{67, 60, 64}, []int{1, 1, 1}, []int{72, 64, 67}},
		// a single voice steps by octaves
		{[]int{62}, []int{2}, []int{86}},
		// only the top voice moves
		{[]int{60, 64, 67}, []int{0, 0, 1}, []int{60, 64, 72}},
	}
	for _, c := range cases {
		name := fmt.Sprintf("%v by %v", c.stack, c.offsets)
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, c.want, Rotate(c.stack, c.offsets))
		})
	}
}

func TestGetBlocks(t *testing.T) {
	s := smf.New()
	var tr smf.Track
	tr.Add(10, midi.NoteOn(0, 60, 90))
	tr.Add(0, midi.NoteOn(0, 64, 100))
	tr.Add(96, midi.NoteOff(0, 64))
	tr.Add(0, midi.NoteOn(0, 67, 80))
	tr.Add(96, midi.NoteOff(0, 60))
	tr.Add(0, midi.NoteOff(0, 67))
	tr.Add(48, midi.NoteOn(0, 62, 70))
	tr.Add(48, midi.NoteOff(0, 62))
	tr.Close(0)
	require.NoError(t, s.Add(tr))

	blocks := GetBlocks(s)

	assert := assert.New(t)
	require.Len(t, blocks, 4)
	assert.Equal(Block{Tick: 10, Duration: 96, Notes: []uint8{60, 64}, Velocity: 100}, blocks[0])
	assert.Equal(Block{Tick: 106, Duration: 96, Notes: []uint8{60, 67}, Velocity: 90}, blocks[1])
	assert.Equal(int64(48), blocks[2].Duration)
	assert.Empty(blocks[2].Notes)
	assert.Equal(Block{Tick: 250, Duration: 48, Notes: []uint8{62}, Velocity: 70}, blocks[3])
}
