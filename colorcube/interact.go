package colorcube

import (
	"time"

	"github.com/rkjdid/util"
	"github.com/rs/zerolog/log"
)

func millis(d util.Duration) uint64 {
	return uint64(time.Duration(d) / time.Millisecond)
}

func (c *Cube) sinceLastPress() uint64 {
	return c.clock.Millis() - c.lastPress
}

// step runs one iteration of the interaction loop: refresh the working
// records on the strip, then fold button activity into press counting,
// command latching and the command sub-loops.
func (c *Cube) step() error {
	if err := c.strip.Refresh(c.leds[SlotLeft], c.leds[SlotRight]); err != nil {
		return err
	}

	if c.button.Pressed() {
		err := c.strip.Blink(PositionLeft|PositionRightAlternating,
			StatusColor(StatusReady, c.cfg.MinIntensity), time.Duration(c.cfg.ShortBlink), 0)
		if err != nil {
			return err
		}
		c.state = Counting
		c.pressCount++
		c.lastPress = c.clock.Millis()

		for c.button.Pressed() {
			if c.sinceLastPress() > millis(c.cfg.ShutdownHold) {
				return c.shutdown()
			}
			time.Sleep(time.Duration(c.cfg.PollInterval))
		}
	}

	if c.pressCount > 0 && c.sinceLastPress() > millis(c.cfg.CommandWindow) {
		c.state = AwaitingCommand
		c.command = c.pressCount
		c.pressCount = 0
		log.Debug().Uint("command", c.command).Interface("state", c.state).Msg("command latched")
	}

	if c.command != 0 {
		if err := c.execute(); err != nil {
			return err
		}
	}

	time.Sleep(time.Duration(c.cfg.PollInterval))
	return nil
}

// shutdown escalates through the three warning colors and hands off to
// the power controller. The nil return case does not exist: the caller
// sees ErrShutdown (or a dead transport) and the process starts over.
func (c *Cube) shutdown() error {
	c.state = ShuttingDown
	log.Info().Msg("long press, powering down")
	pos := PositionLeft | PositionRightAlternating
	for _, st := range []Status{StatusReady, StatusWarning, StatusError} {
		err := c.strip.Blink(pos, StatusColor(st, c.cfg.MinIntensity), time.Duration(c.cfg.LongBlink), 0)
		if err != nil {
			return err
		}
	}
	return c.power.Shutdown()
}

// execute runs the target-selection and adjustment sub-loops for the
// latched command, then returns the machine to idle with its counters
// cleared and the focus back on the left half. Every command starts
// over from the left.
func (c *Cube) execute() error {
	defer func() {
		c.command = 0
		c.pressCount = 0
		c.position = PositionLeft
		c.state = Idle
	}()

	if err := c.selectTarget(); err != nil {
		return err
	}

	c.state = Adjusting
	if c.command < CommandRed || c.command > CommandIntensity {
		log.Warn().Uint("command", c.command).Msg("invalid command")
		return c.strip.Blink(PositionLeft|PositionRight,
			StatusColor(StatusError, c.cfg.MinIntensity), time.Duration(c.cfg.LongBlink), 4)
	}

	edited, err := c.adjust()
	if err != nil {
		return err
	}
	if !edited {
		return nil
	}

	slot := SlotLeft
	if c.position == PositionRight {
		slot = SlotRight
	}
	if c.store != nil && c.cfg.PersistWrites {
		if err := c.store.Save(slot, c.leds[slot]); err != nil {
			log.Error().Err(err).Int("slot", slot).Msg("persist failed")
		} else {
			log.Debug().Int("slot", slot).Msg("record persisted")
		}
	}
	return c.strip.Blink(c.position,
		StatusColor(StatusReady, c.cfg.MinIntensity), time.Duration(c.cfg.ShortBlink), 1)
}

// selectTarget flashes the focused half and toggles the focus on each
// press, until the command window elapses without one. Each press gets
// the fixed settle delay and a wait for full release before edge
// detection is re-armed.
func (c *Cube) selectTarget() error {
	c.state = SelectingTarget
	for {
		err := c.strip.Blink(c.position,
			StatusColor(StatusReady, c.cfg.MinIntensity), time.Duration(c.cfg.LongBlink), 1)
		if err != nil {
			return err
		}

		if c.button.Pressed() {
			time.Sleep(time.Duration(c.cfg.DebounceSettle))
			if c.position == PositionLeft {
				c.position = PositionRight
			} else {
				c.position = PositionLeft
			}
			c.lastPress = c.clock.Millis()
			log.Debug().Interface("position", c.position).Msg("focus moved")

			for c.button.Pressed() {
				time.Sleep(time.Duration(c.cfg.PollInterval))
			}
		}
		time.Sleep(time.Duration(c.cfg.DebounceSettle))

		if c.sinceLastPress() >= millis(c.cfg.CommandWindow) {
			return nil
		}
	}
}

// adjust waits for the button and steps the selected attribute for as
// long as it stays held, re-rendering after every step. Color channels
// wrap naturally on byte overflow; intensity wraps back to the
// configured minimum. Reports whether any edit took place.
func (c *Cube) adjust() (bool, error) {
	slot := SlotLeft
	if c.position == PositionRight {
		slot = SlotRight
	}
	led := &c.leds[slot]

	delay := time.Duration(c.cfg.FadeDelay)
	if c.command == CommandIntensity {
		delay = time.Duration(c.cfg.IntensityDelay)
	}

	// The window only elapses in silence, so the edit starts with the
	// button up. Give the user one more command window to press; a
	// silent window ends the edit untouched.
	start := c.clock.Millis()
	for !c.button.Pressed() {
		if c.clock.Millis()-start > millis(c.cfg.CommandWindow) {
			return false, nil
		}
		time.Sleep(time.Duration(c.cfg.PollInterval))
	}

	for c.button.Pressed() {
		switch c.command {
		case CommandRed:
			led.Red++
		case CommandGreen:
			led.Green++
		case CommandBlue:
			led.Blue++
		case CommandIntensity:
			led.Intensity++
			if led.Intensity > c.cfg.MaxIntensity {
				led.Intensity = c.cfg.MinIntensity
			}
		}
		if err := c.strip.Render(c.position, *led); err != nil {
			return true, err
		}
		time.Sleep(delay)
	}
	time.Sleep(time.Duration(c.cfg.DebounceSettle))
	return true, nil
}
