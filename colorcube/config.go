package colorcube

import (
	"time"

	"github.com/rkjdid/util"
)

type Config struct {
	NumLeds   int // physical LED count, halved into left/right
	FrameSize int // delimiter frame size in bytes

	ShutdownHold   util.Duration // hold time that powers the cube down
	CommandWindow  util.Duration // silence after the last press that latches the count
	FadeDelay      util.Duration // per-step delay while adjusting a color channel
	IntensityDelay util.Duration // per-step delay while adjusting intensity
	DebounceSettle util.Duration // settle time after a press/release transition
	PollInterval   util.Duration // button sample spacing in wait loops

	ShortBlink util.Duration // press feedback and confirmation flash
	BootBlink  util.Duration // boot battery status flash
	LongBlink  util.Duration // focus, warning and error flashes

	MinIntensity byte
	MaxIntensity byte

	EmptyBattery  uint16 // raw sample below which the battery is empty
	PersistWrites bool   // write records back after each completed adjustment
}

var DefaultConfig = Config{
	NumLeds:        2,
	FrameSize:      FrameSize,
	ShutdownHold:   util.Duration(3000 * time.Millisecond),
	CommandWindow:  util.Duration(3000 * time.Millisecond),
	FadeDelay:      util.Duration(10 * time.Millisecond),
	IntensityDelay: util.Duration(350 * time.Millisecond),
	DebounceSettle: util.Duration(10 * time.Millisecond),
	PollInterval:   util.Duration(2 * time.Millisecond),
	ShortBlink:     util.Duration(100 * time.Millisecond),
	BootBlink:      util.Duration(200 * time.Millisecond),
	LongBlink:      util.Duration(500 * time.Millisecond),
	MinIntensity:   MinIntensity,
	MaxIntensity:   MaxIntensity,
	EmptyBattery:   DefaultEmptyBattery,
	PersistWrites:  false,
}

// sanitize fills unset fields with defaults and keeps degenerate values
// out of the loop logic. Two LEDs is the floor: below that there is no
// left and right half to edit.
func (c *Config) sanitize() {
	if c.NumLeds < 2 {
		c.NumLeds = DefaultConfig.NumLeds
	}
	if c.FrameSize <= 0 {
		c.FrameSize = DefaultConfig.FrameSize
	}
	if c.ShutdownHold <= 0 {
		c.ShutdownHold = DefaultConfig.ShutdownHold
	}
	if c.CommandWindow <= 0 {
		c.CommandWindow = DefaultConfig.CommandWindow
	}
	if c.FadeDelay <= 0 {
		c.FadeDelay = DefaultConfig.FadeDelay
	}
	if c.IntensityDelay <= 0 {
		c.IntensityDelay = DefaultConfig.IntensityDelay
	}
	if c.ShortBlink <= 0 {
		c.ShortBlink = DefaultConfig.ShortBlink
	}
	if c.BootBlink <= 0 {
		c.BootBlink = DefaultConfig.BootBlink
	}
	if c.LongBlink <= 0 {
		c.LongBlink = DefaultConfig.LongBlink
	}
	if c.MinIntensity == 0 {
		c.MinIntensity = DefaultConfig.MinIntensity
	}
	if c.MaxIntensity == 0 || c.MaxIntensity < c.MinIntensity {
		c.MaxIntensity = DefaultConfig.MaxIntensity
	}
	if c.EmptyBattery == 0 {
		c.EmptyBattery = DefaultConfig.EmptyBattery
	}
}
