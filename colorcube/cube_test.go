package colorcube

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/rkjdid/util"
)

// scriptButton replays a fixed sequence of levels, then holds the last
// one forever.
type scriptButton struct {
	seq   []bool
	calls int
}

func (b *scriptButton) Pressed() bool {
	i := b.calls
	b.calls++
	if i >= len(b.seq) {
		i = len(b.seq) - 1
	}
	return b.seq[i]
}

// scriptClock replays a fixed sequence of timestamps, then holds the
// last one forever.
type scriptClock struct {
	seq   []uint64
	calls int
}

func (c *scriptClock) Millis() uint64 {
	i := c.calls
	c.calls++
	if i >= len(c.seq) {
		i = len(c.seq) - 1
	}
	return c.seq[i]
}

type stubSleeper struct {
	armed bool
	slept bool
}

func (s *stubSleeper) ArmWake() error {
	s.armed = true
	return nil
}

func (s *stubSleeper) Sleep() error {
	s.slept = true
	return nil
}

type memStore struct {
	m     map[int]Data
	saves int
}

func newMemStore() *memStore {
	return &memStore{m: make(map[int]Data)}
}

func (s *memStore) Load(slot int) (Data, error) {
	d, ok := s.m[slot]
	if !ok {
		return Data{}, ErrNoRecord
	}
	return d, nil
}

func (s *memStore) Save(slot int, d Data) error {
	s.m[slot] = d
	s.saves++
	return nil
}

// testConfig keeps the default timing thresholds (the clock is scripted
// anyway) but shrinks every real sleep to a microsecond.
func testConfig() *Config {
	cfg := DefaultConfig
	fast := util.Duration(time.Microsecond)
	cfg.FadeDelay, cfg.IntensityDelay = fast, fast
	cfg.DebounceSettle, cfg.PollInterval = fast, fast
	cfg.ShortBlink, cfg.BootBlink, cfg.LongBlink = fast, fast, fast
	cfg.PersistWrites = true
	return &cfg
}

func newTestCube(t *testing.T, btn Button, clk Clock, store Store) (*Cube, *busRecorder, *fakeAnalog, *stubSleeper) {
	t.Helper()
	rec := &busRecorder{}
	adc := &fakeAnalog{sample: 1000}
	slp := &stubSleeper{}
	c, err := New(Hardware{
		Bus:     rec,
		Button:  btn,
		Battery: adc,
		Sleep:   slp,
		Store:   store,
		Clock:   clk,
	}, testConfig())
	if err != nil {
		t.Fatal(err)
	}
	return c, rec, adc, slp
}

func containsFrame(raw, frame []byte) bool {
	for i := 0; i+FrameSize <= len(raw); i += FrameSize {
		if bytes.Equal(raw[i:i+FrameSize], frame) {
			return true
		}
	}
	return false
}

func TestNewRequiresHardware(t *testing.T) {
	if _, err := New(Hardware{}, nil); err == nil {
		t.Error("New accepted empty hardware")
	}
	if _, err := New(Hardware{
		Bus:     &busRecorder{},
		Button:  &scriptButton{seq: []bool{false}},
		Battery: &fakeAnalog{},
	}, nil); err == nil {
		t.Error("New accepted hardware without a sleep controller")
	}
}

func TestBootRestoresRecords(t *testing.T) {
	store := newMemStore()
	stored := Data{Intensity: 0x05, Red: 0x01, Green: 0x02, Blue: 0x03}
	store.m[SlotLeft] = stored

	c, rec, adc, _ := newTestCube(t,
		&scriptButton{seq: []bool{false}}, &scriptClock{seq: []uint64{0}}, store)
	if err := c.Boot(); err != nil {
		t.Fatal(err)
	}
	if !rec.inited || !adc.inited {
		t.Error("boot did not initialize the hardware")
	}
	if c.leds[SlotLeft] != stored {
		t.Errorf("left record = %+v, want %+v", c.leds[SlotLeft], stored)
	}
	if c.leds[SlotRight] != DefaultRight {
		t.Errorf("right record = %+v, want factory default %+v", c.leds[SlotRight], DefaultRight)
	}
}

func TestBootBlinksBatteryStatus(t *testing.T) {
	readyFrame := []byte{EnableFlag | MinIntensity, 0x00, 0xFF, 0x00}
	errorFrame := []byte{EnableFlag | MinIntensity, 0x00, 0x00, 0xFF}

	tests := []struct {
		sample     uint16
		want, none []byte
	}{
		{1000, readyFrame, errorFrame},
		{500, errorFrame, readyFrame},
	}
	for _, tt := range tests {
		c, rec, adc, _ := newTestCube(t,
			&scriptButton{seq: []bool{false}}, &scriptClock{seq: []uint64{0}}, nil)
		adc.sample = tt.sample
		if err := c.Boot(); err != nil {
			t.Fatal(err)
		}
		if !containsFrame(rec.bytes, tt.want) {
			t.Errorf("sample %d: boot blink frame %#v not emitted", tt.sample, tt.want)
		}
		if containsFrame(rec.bytes, tt.none) {
			t.Errorf("sample %d: unexpected frame %#v emitted", tt.sample, tt.none)
		}
	}
}

func TestStepCountsPress(t *testing.T) {
	btn := &scriptButton{seq: []bool{true, false}}
	clk := &scriptClock{seq: []uint64{100}}
	c, _, _, _ := newTestCube(t, btn, clk, nil)

	if err := c.step(); err != nil {
		t.Fatal(err)
	}
	if c.state != Counting {
		t.Errorf("state = %s, want %s", c.state, Counting)
	}
	if c.pressCount != 1 {
		t.Errorf("pressCount = %d, want 1", c.pressCount)
	}
	if c.command != 0 {
		t.Errorf("command latched early: %d", c.command)
	}
}

func TestShutdownHoldBoundary(t *testing.T) {
	// The second sample lands exactly on the hold threshold and must not
	// power down; the third sample, one past it, must.
	btn := &scriptButton{seq: []bool{true}}
	clk := &scriptClock{seq: []uint64{1000, 4000, 4001}}
	c, rec, adc, slp := newTestCube(t, btn, clk, nil)

	err := c.step()
	if !errors.Is(err, ErrShutdown) {
		t.Fatalf("step err = %v, want %v", err, ErrShutdown)
	}
	if clk.calls != 3 {
		t.Errorf("clock read %d times, want 3 (threshold-equal sample must not trip)", clk.calls)
	}
	if c.state != ShuttingDown {
		t.Errorf("state = %s, want %s", c.state, ShuttingDown)
	}
	if !adc.disabled {
		t.Error("analog front-end not disabled")
	}
	if !rec.disabled {
		t.Error("bus not disabled")
	}
	if !slp.armed || !slp.slept {
		t.Errorf("sleep controller armed=%v slept=%v, want both", slp.armed, slp.slept)
	}
}

func TestPressLatchesAndAdjustsRed(t *testing.T) {
	// Step one: a single press is counted; the window has not elapsed.
	// Step two: the silent window latches the count as the red command,
	// selection times out on the left half, one held period of two
	// samples bumps red by one and persists the record.
	btn := &scriptButton{seq: []bool{true, false, false, false, true, true, false}}
	clk := &scriptClock{seq: []uint64{100, 100, 3101, 3101, 3101}}
	store := newMemStore()
	c, _, _, _ := newTestCube(t, btn, clk, store)

	if err := c.step(); err != nil {
		t.Fatal(err)
	}
	if c.pressCount != 1 || c.command != 0 {
		t.Fatalf("after press: pressCount=%d command=%d", c.pressCount, c.command)
	}
	if err := c.step(); err != nil {
		t.Fatal(err)
	}

	want := DefaultLeft
	want.Red++
	if c.leds[SlotLeft] != want {
		t.Errorf("left record = %+v, want %+v", c.leds[SlotLeft], want)
	}
	if c.leds[SlotRight] != DefaultRight {
		t.Errorf("right record touched: %+v", c.leds[SlotRight])
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
	if store.m[SlotLeft] != want {
		t.Errorf("persisted record = %+v, want %+v", store.m[SlotLeft], want)
	}
	if c.state != Idle || c.command != 0 || c.pressCount != 0 {
		t.Errorf("machine not back to idle: state=%s command=%d pressCount=%d",
			c.state, c.command, c.pressCount)
	}
}

func TestExecuteGreenOnLeft(t *testing.T) {
	// Latched green command, three held samples: green climbs by three
	// on the left record only.
	btn := &scriptButton{seq: []bool{false, false, true, true, true, true, false}}
	clk := &scriptClock{seq: []uint64{3001}}
	store := newMemStore()
	c, _, _, _ := newTestCube(t, btn, clk, store)
	c.pressCount = uint(CommandGreen)

	if err := c.step(); err != nil {
		t.Fatal(err)
	}
	want := DefaultLeft
	want.Green += 3
	if c.leds[SlotLeft] != want {
		t.Errorf("left record = %+v, want %+v", c.leds[SlotLeft], want)
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
}

func TestInvalidCommandLeavesRecordsAlone(t *testing.T) {
	btn := &scriptButton{seq: []bool{false}}
	clk := &scriptClock{seq: []uint64{3001}}
	store := newMemStore()
	c, rec, _, _ := newTestCube(t, btn, clk, store)
	c.pressCount = CommandIntensity + 1

	if err := c.step(); err != nil {
		t.Fatal(err)
	}
	if c.leds[SlotLeft] != DefaultLeft || c.leds[SlotRight] != DefaultRight {
		t.Errorf("records mutated: %+v / %+v", c.leds[SlotLeft], c.leds[SlotRight])
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0", store.saves)
	}
	errorFrame := []byte{EnableFlag | MinIntensity, 0x00, 0x00, 0xFF}
	if !containsFrame(rec.bytes, errorFrame) {
		t.Error("error blink not emitted")
	}
	if c.state != Idle || c.command != 0 {
		t.Errorf("machine not back to idle: state=%s command=%d", c.state, c.command)
	}
}

func TestCompletedCommandResetsFocus(t *testing.T) {
	// A selection press moves the focus to the right half, the edit
	// lands there, and the completed command hands the next one a
	// machine focused back on the left.
	btn := &scriptButton{seq: []bool{false, true, false, true, true, false}}
	clk := &scriptClock{seq: []uint64{3001, 4000, 7001}}
	store := newMemStore()
	c, _, _, _ := newTestCube(t, btn, clk, store)
	c.pressCount = uint(CommandRed)

	if err := c.step(); err != nil {
		t.Fatal(err)
	}
	want := DefaultRight
	want.Red++
	if c.leds[SlotRight] != want {
		t.Errorf("right record = %+v, want %+v", c.leds[SlotRight], want)
	}
	if c.leds[SlotLeft] != DefaultLeft {
		t.Errorf("left record touched: %+v", c.leds[SlotLeft])
	}
	if store.m[SlotRight] != want {
		t.Errorf("persisted record = %+v, want %+v", store.m[SlotRight], want)
	}
	if c.position != PositionLeft {
		t.Errorf("position after completed command = %s, want %s", c.position, PositionLeft)
	}
}

func TestSelectTargetTogglesFocus(t *testing.T) {
	btn := &scriptButton{seq: []bool{true, false}}
	clk := &scriptClock{seq: []uint64{0, 3000}}
	c, _, _, _ := newTestCube(t, btn, clk, nil)

	if err := c.selectTarget(); err != nil {
		t.Fatal(err)
	}
	if c.position != PositionRight {
		t.Errorf("position = %s, want %s", c.position, PositionRight)
	}
}

func TestAdjustIntensityWraps(t *testing.T) {
	btn := &scriptButton{seq: []bool{true, true, false}}
	clk := &scriptClock{seq: []uint64{0}}
	c, _, _, _ := newTestCube(t, btn, clk, nil)
	c.command = CommandIntensity
	c.leds[SlotLeft].Intensity = MaxIntensity

	edited, err := c.adjust()
	if err != nil {
		t.Fatal(err)
	}
	if !edited {
		t.Fatal("adjust reported no edit")
	}
	if got := c.leds[SlotLeft].Intensity; got != MinIntensity {
		t.Errorf("intensity = %#x, want wrap to %#x", got, MinIntensity)
	}
}

func TestAdjustTimesOutUntouched(t *testing.T) {
	btn := &scriptButton{seq: []bool{false}}
	clk := &scriptClock{seq: []uint64{1000, 1000, 4001}}
	c, _, _, _ := newTestCube(t, btn, clk, nil)
	c.command = CommandRed

	edited, err := c.adjust()
	if err != nil {
		t.Fatal(err)
	}
	if edited {
		t.Error("adjust reported an edit after a silent window")
	}
	if c.leds[SlotLeft] != DefaultLeft {
		t.Errorf("left record = %+v, want untouched %+v", c.leds[SlotLeft], DefaultLeft)
	}
}

func TestRunStops(t *testing.T) {
	btn := &scriptButton{seq: []bool{false}}
	clk := &scriptClock{seq: []uint64{0}}
	c, _, _, _ := newTestCube(t, btn, clk, nil)

	done := make(chan error, 1)
	go func() { done <- c.Run() }()
	c.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil after Stop", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
	c.Stop() // second Stop must be a no-op
}
