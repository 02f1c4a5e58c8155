package colorcube

import "time"

// sleepCycles is how many full strip updates the sleep command is
// repeated for, so that every chip in the chain is guaranteed to latch
// it before the bus goes away.
const sleepCycles = 4

// Strip sequences the frame codec over all configured LEDs. The strip
// is conceptually split into a left half (indices below count/2) and a
// right half; with an odd count the single middle LED is always forced
// off, whatever the selector says.
type Strip struct {
	f     *Framer
	count int
}

func NewStrip(bus Transport, count, frameSize int) *Strip {
	return &Strip{f: NewFramer(bus, frameSize), count: count}
}

// Init configures the bus the way the LED chips expect it (MSB first,
// setup and sample on rising edges) and runs one all-off cycle so the
// chain starts from a known state.
func (s *Strip) Init() error {
	if err := s.f.bus.Init(MSBFirst, RisingEdge, RisingEdge); err != nil {
		return err
	}
	return s.AllOff()
}

// AllOff sends an enabled, all-zero frame to every position.
func (s *Strip) AllOff() error {
	if err := s.f.StartFrame(); err != nil {
		return err
	}
	for i := 0; i < s.count; i++ {
		if err := s.f.EncodeOff(); err != nil {
			return err
		}
	}
	return s.f.EndFrame()
}

func (s *Strip) lit(index int, pos Position) bool {
	if index < s.count>>1 {
		return pos&(PositionLeft|PositionLeftAlternating) != 0
	}
	return pos&(PositionRight|PositionRightAlternating) != 0
}

func (s *Strip) middle(index int) bool {
	return s.count%2 != 0 && index == s.count>>1
}

// Render lights the halves selected by pos with d and turns the rest
// off, in a single bracketed update.
func (s *Strip) Render(pos Position, d Data) error {
	if err := s.f.StartFrame(); err != nil {
		return err
	}
	for j := 0; j < s.count; j++ {
		var err error
		if !s.middle(j) && s.lit(j, pos) {
			err = s.f.EncodeData(d)
		} else {
			err = s.f.EncodeOff()
		}
		if err != nil {
			return err
		}
	}
	return s.f.EndFrame()
}

// Refresh renders the two working records in one pass, left record on
// the left half, right record on the right half.
func (s *Strip) Refresh(left, right Data) error {
	if err := s.f.StartFrame(); err != nil {
		return err
	}
	for j := 0; j < s.count; j++ {
		var err error
		switch {
		case s.middle(j):
			err = s.f.EncodeOff()
		case j < s.count>>1:
			err = s.f.EncodeData(left)
		default:
			err = s.f.EncodeData(right)
		}
		if err != nil {
			return err
		}
	}
	return s.f.EndFrame()
}

// Blink flashes the plain-flag halves and the alternating-flag halves
// out of phase, repeat+1 times, then turns everything off.
func (s *Strip) Blink(pos Position, d Data, delay time.Duration, repeat int) error {
	for i := 0; i <= repeat; i++ {
		if err := s.Render(pos&(PositionLeft|PositionRight), d); err != nil {
			return err
		}
		time.Sleep(delay)
		if err := s.Render(pos&(PositionLeftAlternating|PositionRightAlternating), d); err != nil {
			return err
		}
		time.Sleep(delay)
	}
	return s.AllOff()
}

// Sleep commands the chips into low-power mode and releases the bus.
func (s *Strip) Sleep() error {
	for j := 0; j < sleepCycles; j++ {
		if err := s.f.StartFrame(); err != nil {
			return err
		}
		for i := 0; i < s.count; i++ {
			if err := s.f.EncodeSleep(); err != nil {
				return err
			}
		}
		if err := s.f.EndFrame(); err != nil {
			return err
		}
	}
	return s.f.bus.Disable()
}
