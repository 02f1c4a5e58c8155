package bridge

// Command bytes understood by the bridge MCU, one byte per command,
// optional argument bytes behind it. Every command answers with at
// least one byte; PowerSleep answers only once a wake event occurs.
// see firmware/bridge/bridge.ino

const (
	Ping byte = 0xA0
)

// analog front-end
const (
	AdcInit byte = 0x00 | iota
	AdcRead // replies 2 bytes, big endian raw sample
	AdcDisable
)

// spi master
const (
	SpiInit byte = 0x10 | iota // + 1 mode byte, replies status
	SpiTransfer                // + 1 data byte, replies the shifted-in byte
	SpiDisable
)

// switch input
const (
	SwitchRead byte = 0x20 | iota // replies 0x00 released / 0x01 pressed
)

// power control
const (
	PowerArmWake byte = 0x30 | iota // arm switch-edge wake interrupt
	PowerSleep                      // enter power-down, reply arrives on wake
)

// status replies
const (
	StatusOk byte = 0x00 | iota
	StatusMasterAbort
)

// SpiInit mode byte bits; all clear selects MSB first, rising/rising.
const (
	ModeLSBFirst byte = 1 << iota
	ModeFallingPolarity
	ModeFallingPhase
)
