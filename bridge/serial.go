package bridge

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial.v1"
)

var ErrNoSerialPortFound = errors.New("didn't find any available serial port")
var ErrClosedPort = errors.New("serial port is closed")

var DefaultSerialConfig = &serial.Mode{
	BaudRate: 57600,
	Parity:   serial.NoParity,
	DataBits: 8,
	StopBits: serial.OneStopBit,
}

var DefaultTimeout = time.Second

// SerialConnection adapts a serial port to the bridge's fixed-length
// command/reply framing. Reader and writer routines own the port; the
// exported calls exchange with them over channels so each call can
// honor timeouts and closing. Replies are binary and length-implied by
// the command, so bytes are handed over one at a time.
type SerialConnection struct {
	ReadTimeout  time.Duration // per reply byte; zero waits until close
	WriteTimeout time.Duration

	serial.Port
	path   string
	config *serial.Mode

	rdChan    chan byte
	wrChan    chan []byte
	errChan   chan error
	closeChan chan struct{}
	wg        sync.WaitGroup
}

func NewSerial(port serial.Port, config *serial.Mode, name string) *SerialConnection {
	return &SerialConnection{
		Port:      port,
		path:      name,
		config:    config,
		rdChan:    make(chan byte, 64),
		wrChan:    make(chan []byte),
		errChan:   make(chan error),
		closeChan: make(chan struct{}),

		ReadTimeout:  DefaultTimeout,
		WriteTimeout: DefaultTimeout,
	}
}

// Start begins the two routines responsible
// for reading and writing on serial port.
func (sc *SerialConnection) Start() {
	sc.wg.Add(2)
	go func() {
		sc.readRoutine()
		sc.wg.Done()
	}()
	go func() {
		sc.writeRoutine()
		sc.wg.Done()
	}()
}

// Read collects exactly n reply bytes, waiting up to sc.ReadTimeout for
// each of them, and checks if connection is closed along the way.
func (sc *SerialConnection) Read(n int) ([]byte, error) {
	buf := make([]byte, 0, n)
	for len(buf) < n {
		var timeout <-chan time.Time
		if sc.ReadTimeout > 0 {
			timeout = time.After(sc.ReadTimeout)
		}
		select {
		case b := <-sc.rdChan:
			buf = append(buf, b)
		case err := <-sc.errChan:
			return buf, err
		case <-sc.closeChan:
			return buf, ErrClosedPort
		case <-timeout:
			return buf, fmt.Errorf("read timeout (%s)", sc.ReadTimeout)
		}
	}
	return buf, nil
}

// Write pushes b to sc.wrChan, or returns an error
// after sc.WriteTimeout, or if connection is closed.
func (sc *SerialConnection) Write(b []byte) (err error) {
	select {
	case sc.wrChan <- b:
	case <-sc.closeChan:
		err = ErrClosedPort
	case <-time.After(sc.WriteTimeout):
		err = fmt.Errorf("write timeout (%s)", sc.WriteTimeout)
	}
	return err
}

// Close releases the port first so a blocked hardware read returns,
// then notifies the routines and waits for them.
func (sc *SerialConnection) Close() error {
	err := sc.Port.Close()
	close(sc.closeChan)
	sc.wg.Wait()
	return err
}

// Path returns device name / path of serial port.
func (sc *SerialConnection) Path() string {
	return sc.path
}

func (sc *SerialConnection) readRoutine() {
	for {
		select {
		case <-sc.closeChan:
			return
		default:
		}
		b := make([]byte, 32)
		i, err := sc.Port.Read(b)
		if err != nil {
			select {
			case sc.errChan <- err:
			case <-sc.closeChan:
				return
			}
			continue
		}
		for _, v := range b[:i] {
			select {
			case sc.rdChan <- v:
			case <-sc.closeChan:
				return
			}
		}
	}
}

func (sc *SerialConnection) writeRoutine() {
	var b []byte
	for {
		select {
		case b = <-sc.wrChan:
		case <-sc.closeChan:
			return
		}
		_, err := sc.Port.Write(b)
		if err != nil {
			log.Error().Err(err).Str("port", sc.path).Msg("serial write")
		}
	}
}

// FindSerial tries to connect to first available serial port (platform
// independant hopefully). If config is nil, DefaultSerialConfig is used.
func FindSerial(config *serial.Mode) (*SerialConnection, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, err
	}
	if config == nil {
		config = DefaultSerialConfig
	}
	var port serial.Port
	for _, v := range ports {
		port, err = serial.Open(v, config)
		if err == nil {
			log.Debug().Str("port", v).Msg("trying port")
			conn := NewSerial(port, config, v)
			conn.ReadTimeout = time.Millisecond * 250
			conn.WriteTimeout = time.Millisecond * 250
			conn.Start()
			// temporary bridge to test the connection
			b := &Bridge{Conn: conn, state: Connected}
			t, err := b.TestConnection()
			if err == nil {
				log.Info().Str("port", v).Dur("after", t).Msg("bridge answered")
				conn.ReadTimeout = DefaultTimeout
				conn.WriteTimeout = DefaultTimeout
				return conn, nil
			}
			conn.Close()
		}
	}
	if err == nil {
		return nil, ErrNoSerialPortFound
	}
	return nil, err
}

func OpenPortName(name string, config *serial.Mode) (serial.Port, *serial.Mode, error) {
	if config == nil {
		config = DefaultSerialConfig
	}
	port, err := serial.Open(name, config)
	return port, config, err
}
