package colorcube

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Button reports the momentary switch level. The level is sampled raw,
// there is no hardware debounce; the machine's fixed settle-and-wait-
// for-release policy is the only filter.
type Button interface {
	Pressed() bool
}

// Hardware bundles the capabilities the cube drives. Bus, Button,
// Battery and Sleep are required; a nil Store disables persistence and
// a nil Clock falls back to an internally owned systick.
type Hardware struct {
	Bus     Transport
	Button  Button
	Battery AnalogSource
	Sleep   SleepController
	Store   Store
	Clock   Clock
}

// Cube is the interaction core: it owns the strip, the working LED
// records and the button-driven state machine that edits them.
type Cube struct {
	strip   *Strip
	button  Button
	battery *Battery
	power   *Power
	store   Store
	clock   Clock
	tick    *Systick // non-nil when the clock is owned here
	cfg     Config

	state    MachineState
	leds     [2]Data
	position Position

	pressCount uint
	lastPress  uint64
	command    uint

	stopCh   chan struct{}
	stopOnce sync.Once
}

func New(hw Hardware, cfg *Config) (*Cube, error) {
	if hw.Bus == nil || hw.Button == nil || hw.Battery == nil || hw.Sleep == nil {
		return nil, errors.New("colorcube: bus, button, battery and sleep controller are required")
	}
	c := &Cube{
		button:   hw.Button,
		store:    hw.Store,
		position: PositionLeft,
		leds:     [2]Data{DefaultLeft, DefaultRight},
		stopCh:   make(chan struct{}),
	}
	if cfg == nil {
		c.cfg = DefaultConfig
	} else {
		c.cfg = *cfg
	}
	c.cfg.sanitize()

	c.strip = NewStrip(hw.Bus, c.cfg.NumLeds, c.cfg.FrameSize)
	c.battery = NewBattery(hw.Battery, c.cfg.EmptyBattery)
	if hw.Clock != nil {
		c.clock = hw.Clock
	} else {
		c.tick = NewSystick()
		c.clock = c.tick
	}
	c.power = NewPower(c.tick, c.battery, c.strip, hw.Sleep)
	return c, nil
}

// Battery exposes the gate for background polling.
func (c *Cube) Battery() *Battery { return c.battery }

// State reports the machine state the loop was last in.
func (c *Cube) State() MachineState { return c.state }

// Boot brings up the strip and the analog front-end, flashes the boot
// battery status and restores the persisted records. Must be called
// once before Run.
func (c *Cube) Boot() error {
	if err := c.strip.Init(); err != nil {
		return err
	}
	if err := c.battery.Init(); err != nil {
		return err
	}

	st, err := c.battery.Status()
	if err != nil {
		return err
	}
	blink := StatusReady
	if st != BatteryOk {
		blink = StatusError
	}
	log.Info().Interface("battery", st).Msg("boot battery gate")
	err = c.strip.Blink(PositionLeft|PositionRightAlternating,
		StatusColor(blink, c.cfg.MinIntensity), time.Duration(c.cfg.BootBlink), 2)
	if err != nil {
		return err
	}

	if c.tick != nil {
		c.tick.Start()
	}
	c.restore()
	return nil
}

func (c *Cube) restore() {
	if c.store == nil {
		return
	}
	for slot := range c.leds {
		d, err := c.store.Load(slot)
		switch {
		case err == nil:
			c.leds[slot] = d
		case errors.Is(err, ErrNoRecord):
			// keep the factory default
		default:
			log.Warn().Err(err).Int("slot", slot).Msg("restore failed, using default")
		}
	}
}

// Run executes the interaction loop until Stop is called or the machine
// powers down. A power-down surfaces as ErrShutdown: the process is
// expected to restart from scratch, ShuttingDown never goes back to
// Idle. Any other error is a dead transport.
func (c *Cube) Run() error {
	defer func() {
		if c.tick != nil {
			c.tick.Stop()
		}
	}()
	for {
		select {
		case <-c.stopCh:
			return nil
		default:
		}
		if err := c.step(); err != nil {
			return err
		}
	}
}

// Stop notifies Run to return after the current loop iteration.
func (c *Cube) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}
