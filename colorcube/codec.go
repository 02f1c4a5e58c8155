package colorcube

import "time"

// Wire protocol of the APA102-style LED chips: one 4-byte frame per LED
// (mode, blue, green, red), a whole update bracketed by repeated
// start/stop delimiter bytes.
const (
	EnableFlag byte = 0xE0
	SleepFlag  byte = 0xA0
	StartValue byte = 0x00
	StopValue  byte = 0xFF

	IntensityMask byte = 0x3F

	MinIntensity byte = 0x01
	MaxIntensity byte = 0x0F

	FrameSize = 4
)

// settleDelay is the pause the LED chips require after a delimiter
// sequence before the next byte may be clocked out. This is a hardware
// requirement of the chips, not a tunable.
const settleDelay = 10 * time.Microsecond

type BitOrder byte

const (
	MSBFirst BitOrder = BitOrder(iota)
	LSBFirst BitOrder = BitOrder(iota)
)

type ClockEdge byte

const (
	RisingEdge  ClockEdge = ClockEdge(iota)
	FallingEdge ClockEdge = ClockEdge(iota)
)

// Transport is the clocked serial bus the codec writes frames to. It is
// a reliable, blocking, full-duplex byte channel; bus electrical
// configuration beyond Init is not this package's business. A stalled
// transport blocks indefinitely, there are no retries at this layer.
type Transport interface {
	Init(order BitOrder, polarity, phase ClockEdge) error
	Transfer(b byte) (byte, error)
	Disable() error
}

// Framer encodes LED records into wire frames on a transport.
type Framer struct {
	bus       Transport
	frameSize int
}

func NewFramer(bus Transport, frameSize int) *Framer {
	if frameSize <= 0 {
		frameSize = FrameSize
	}
	return &Framer{bus: bus, frameSize: frameSize}
}

func (f *Framer) frame(mode, red, green, blue byte) error {
	for _, v := range [FrameSize]byte{mode, blue, green, red} {
		if _, err := f.bus.Transfer(v); err != nil {
			return err
		}
	}
	return nil
}

// EncodeData emits one LED data frame. Intensity above the 6-bit range
// is silently masked, never rejected, to stay bit-exact with the LED
// chips' expectations.
func (f *Framer) EncodeData(d Data) error {
	return f.frame(EnableFlag|(d.Intensity&IntensityMask), d.Red, d.Green, d.Blue)
}

// EncodeOff emits an enabled all-zero frame.
func (f *Framer) EncodeOff() error {
	return f.frame(EnableFlag, 0x00, 0x00, 0x00)
}

// EncodeSleep emits the low-power command frame.
func (f *Framer) EncodeSleep() error {
	return f.frame(SleepFlag, 0x00, 0x00, 0x00)
}

// Delimiter emits value frameSize times, then waits out the settling
// delay the chips need before further traffic.
func (f *Framer) Delimiter(value byte) error {
	for i := 0; i < f.frameSize; i++ {
		if _, err := f.bus.Transfer(value); err != nil {
			return err
		}
	}
	time.Sleep(settleDelay)
	return nil
}

func (f *Framer) StartFrame() error { return f.Delimiter(StartValue) }
func (f *Framer) EndFrame() error   { return f.Delimiter(StopValue) }
