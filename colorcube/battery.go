package colorcube

// AnalogSource is the analog front-end the battery gate samples.
type AnalogSource interface {
	Init() error
	Read() (uint16, error)
	Disable() error
}

//go:generate stringer -type=BatteryStatus
type BatteryStatus int

const (
	BatteryOk    BatteryStatus = BatteryStatus(iota)
	BatteryFault BatteryStatus = BatteryStatus(iota)
)

// DefaultEmptyBattery is the raw sample below which the battery is
// reported empty.
const DefaultEmptyBattery uint16 = 990

// Battery turns raw analog samples into a binary ok/fault gate.
type Battery struct {
	src   AnalogSource
	empty uint16
}

func NewBattery(src AnalogSource, empty uint16) *Battery {
	if empty == 0 {
		empty = DefaultEmptyBattery
	}
	return &Battery{src: src, empty: empty}
}

func (b *Battery) Init() error    { return b.src.Init() }
func (b *Battery) Disable() error { return b.src.Disable() }

// Status reads one sample and gates it against the empty threshold.
// A fault is a report, not an error: operation continues on a low
// battery, only the boot blink color changes.
func (b *Battery) Status() (BatteryStatus, error) {
	v, err := b.src.Read()
	if err != nil {
		return BatteryFault, err
	}
	if v < b.empty {
		return BatteryFault, nil
	}
	return BatteryOk, nil
}
