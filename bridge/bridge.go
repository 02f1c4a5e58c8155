package bridge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/0x007E/rcc/colorcube"
)

var ErrShortReply = errors.New("bridge: short reply")

// ErrMasterAbort reports that the bridge lost SPI bus mastership during
// bring-up. Fatal to the transport; the caller retries or restarts.
var ErrMasterAbort = errors.New("bridge: spi master abort")

//go:generate stringer -type=State
type State int

const (
	Disconnected    State = State(iota)
	Connected       State = State(iota)
	WriteError      State = State(iota)
	ReadError       State = State(iota)
	UnexpectedError State = State(iota)
	NilBridge       State = State(iota)
)

// Bridge is the command/response client for the cube's bridge MCU. One
// command goes down the wire at a time; the mutex keeps the background
// battery watcher and the interaction loop from interleaving.
type Bridge struct {
	sync.Mutex
	Conn  *SerialConnection
	state State
}

// New wraps conn into a bridge and verifies it answers pings. A nil
// conn triggers port discovery.
func New(conn *SerialConnection) (*Bridge, error) {
	if conn == nil {
		var err error
		conn, err = FindSerial(nil)
		if err != nil {
			return nil, err
		}
	}
	b := &Bridge{
		Conn:  conn,
		state: Connected,
	}
	_, err := b.TestConnection()
	return b, err
}

const (
	pingRetries  = 16
	testConnPoll = time.Millisecond * 250
)

// TestConnection sends a ping every testConnPoll,
// and returns on success or after pingRetries tries.
func (b *Bridge) TestConnection() (_ time.Duration, err error) {
	t0 := time.Now()
	for i := 0; i < pingRetries; i++ {
		time.Sleep(testConnPoll)
		err = b.ping()
		if err == nil {
			break
		}
	}
	return time.Since(t0), err
}

func (b *Bridge) State() State {
	if b == nil {
		return NilBridge
	}
	return b.state
}

// talk sends one command with its argument bytes and reads back exactly
// want reply bytes. All higher level calls go through talk.
func (b *Bridge) talk(want int, cmd byte, args ...byte) ([]byte, error) {
	b.Lock()
	defer b.Unlock()
	return b.exchange(want, cmd, args...)
}

// exchange is talk without the lock, for callers that already hold it.
func (b *Bridge) exchange(want int, cmd byte, args ...byte) ([]byte, error) {
	msg := append([]byte{cmd}, args...)
	if err := b.Conn.Write(msg); err != nil {
		b.state = WriteError
		return nil, err
	}
	buf, err := b.Conn.Read(want)
	if err != nil {
		b.state = ReadError
		return buf, err
	}
	if len(buf) != want {
		b.state = UnexpectedError
		return buf, ErrShortReply
	}
	b.state = Connected
	return buf, nil
}

// ping sends a ping to the bridge, returning error if something's wrong
func (b *Bridge) ping() error {
	res, err := b.talk(1, Ping)
	if err != nil {
		return err
	}
	if res[0] != Ping {
		return fmt.Errorf("bridge: unexpected ping reply %#x", res[0])
	}
	return nil
}

func statusErr(op string, status byte) error {
	switch status {
	case StatusOk:
		return nil
	case StatusMasterAbort:
		return ErrMasterAbort
	default:
		return fmt.Errorf("bridge: %s status %#x", op, status)
	}
}

// Hardware bundles the bridge's capability views for colorcube.New.
func (b *Bridge) Hardware(store colorcube.Store) colorcube.Hardware {
	return colorcube.Hardware{
		Bus:     b.SPI(),
		Button:  b.Switch(),
		Battery: b.ADC(),
		Sleep:   b.Power(),
		Store:   store,
	}
}

// ---- SPI: the colorcube.Transport view

type SPI struct{ b *Bridge }

func (b *Bridge) SPI() *SPI { return &SPI{b} }

func (s *SPI) Init(order colorcube.BitOrder, polarity, phase colorcube.ClockEdge) error {
	var mode byte
	if order == colorcube.LSBFirst {
		mode |= ModeLSBFirst
	}
	if polarity == colorcube.FallingEdge {
		mode |= ModeFallingPolarity
	}
	if phase == colorcube.FallingEdge {
		mode |= ModeFallingPhase
	}
	res, err := s.b.talk(1, SpiInit, mode)
	if err != nil {
		return err
	}
	return statusErr("spi init", res[0])
}

func (s *SPI) Transfer(v byte) (byte, error) {
	res, err := s.b.talk(1, SpiTransfer, v)
	if err != nil {
		return 0, err
	}
	return res[0], nil
}

func (s *SPI) Disable() error {
	res, err := s.b.talk(1, SpiDisable)
	if err != nil {
		return err
	}
	return statusErr("spi disable", res[0])
}

// ---- ADC: the colorcube.AnalogSource view

type ADC struct{ b *Bridge }

func (b *Bridge) ADC() *ADC { return &ADC{b} }

func (a *ADC) Init() error {
	res, err := a.b.talk(1, AdcInit)
	if err != nil {
		return err
	}
	return statusErr("adc init", res[0])
}

func (a *ADC) Read() (uint16, error) {
	res, err := a.b.talk(2, AdcRead)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(res), nil
}

func (a *ADC) Disable() error {
	res, err := a.b.talk(1, AdcDisable)
	if err != nil {
		return err
	}
	return statusErr("adc disable", res[0])
}

// ---- Switch: the colorcube.Button view

type Switch struct{ b *Bridge }

func (b *Bridge) Switch() *Switch { return &Switch{b} }

// Pressed samples the raw switch level. A transport failure is logged
// and reported as released; the interaction loop sees the same dead
// transport on its next strip write anyway.
func (sw *Switch) Pressed() bool {
	res, err := sw.b.talk(1, SwitchRead)
	if err != nil {
		log.Warn().Err(err).Msg("switch read")
		return false
	}
	return res[0] != 0
}

// ---- Power: the colorcube.SleepController view

type Power struct{ b *Bridge }

func (b *Bridge) Power() *Power { return &Power{b} }

func (p *Power) ArmWake() error {
	res, err := p.b.talk(1, PowerArmWake)
	if err != nil {
		return err
	}
	return statusErr("arm wake", res[0])
}

// Sleep puts the bridge into power-down. The reply byte only arrives on
// a wake event, so the read deadline is lifted for the duration.
func (p *Power) Sleep() error {
	p.b.Lock()
	defer p.b.Unlock()
	old := p.b.Conn.ReadTimeout
	p.b.Conn.ReadTimeout = 0
	defer func() { p.b.Conn.ReadTimeout = old }()

	res, err := p.b.exchange(1, PowerSleep)
	if err != nil {
		return err
	}
	return statusErr("sleep", res[0])
}
