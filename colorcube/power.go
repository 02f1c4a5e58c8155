package colorcube

import (
	"errors"

	"github.com/rs/zerolog/log"
)

// SleepController owns the platform's wake source and sleep mode.
// Sleep blocks until a wake event occurs.
type SleepController interface {
	ArmWake() error
	Sleep() error
}

// ErrShutdown reports that the machine completed its power-down
// sequence and woke up again. There is no resuming mid-execution: the
// caller is expected to restart the whole process from its entry point.
var ErrShutdown = errors.New("colorcube: powered down, restart required")

// Power drives the shutdown sequence: tick source off, analog
// front-end off, strip to sleep (which also releases the bus), wake
// source armed, deepest sleep.
type Power struct {
	tick    *Systick
	battery *Battery
	strip   *Strip
	ctrl    SleepController
}

func NewPower(tick *Systick, battery *Battery, strip *Strip, ctrl SleepController) *Power {
	return &Power{tick: tick, battery: battery, strip: strip, ctrl: ctrl}
}

// Shutdown never yields control back to the interaction loop: on
// success it returns ErrShutdown after the wake event.
func (p *Power) Shutdown() error {
	if p.tick != nil {
		p.tick.Stop()
	}
	if err := p.battery.Disable(); err != nil {
		log.Warn().Err(err).Msg("analog disable failed")
	}
	if err := p.strip.Sleep(); err != nil {
		return err
	}
	if err := p.ctrl.ArmWake(); err != nil {
		return err
	}
	log.Info().Msg("entering power-down sleep")
	if err := p.ctrl.Sleep(); err != nil {
		return err
	}
	return ErrShutdown
}
