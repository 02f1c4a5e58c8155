package colorcube

import "strings"

// Data is the working record of a single LED: a 6-bit global intensity
// plus raw RGB channel bytes. One record exists per cube half, restored
// from and persisted to non-volatile storage.
type Data struct {
	Intensity byte
	Red       byte
	Green     byte
	Blue      byte
}

// Position selects which half of the strip an operation targets. The
// alternating flags address the same halves but are only honored during
// the second phase of a blink cycle, which is how Blink produces an
// out-of-phase flash between the two halves.
type Position byte

const (
	PositionNone             Position = 0x00
	PositionLeft             Position = 0x01
	PositionRight            Position = 0x02
	PositionLeftAlternating  Position = 0x04
	PositionRightAlternating Position = 0x08
)

var positionNames = []struct {
	flag Position
	name string
}{
	{PositionLeft, "Left"},
	{PositionRight, "Right"},
	{PositionLeftAlternating, "LeftAlternating"},
	{PositionRightAlternating, "RightAlternating"},
}

func (p Position) String() string {
	if p == PositionNone {
		return "None"
	}
	var parts []string
	for _, v := range positionNames {
		if p&v.flag != 0 {
			parts = append(parts, v.name)
		}
	}
	return strings.Join(parts, "|")
}

//go:generate stringer -type=MachineState
type MachineState int

const (
	Idle            MachineState = MachineState(iota)
	Counting        MachineState = MachineState(iota)
	AwaitingCommand MachineState = MachineState(iota)
	SelectingTarget MachineState = MachineState(iota)
	Adjusting       MachineState = MachineState(iota)
	ShuttingDown    MachineState = MachineState(iota)
)

// Attribute commands, latched from the short-press count. Anything
// outside this range is rejected with an error blink.
const (
	CommandRed uint = iota + 1
	CommandGreen
	CommandBlue
	CommandIntensity
)
