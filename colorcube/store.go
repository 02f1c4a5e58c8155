package colorcube

import "errors"

// ErrNoRecord is returned by Store.Load for a slot that was never
// written; the cube keeps its factory default in that case.
var ErrNoRecord = errors.New("no record for slot")

// Store persists LED records across power cycles. Wear-leveling and
// write timing are the implementation's business.
type Store interface {
	Load(slot int) (Data, error)
	Save(slot int, d Data) error
}

// Storage slots, one per cube half.
const (
	SlotLeft  = 0
	SlotRight = 1
)

// Factory-default records, used whenever a slot has no stored data.
var (
	DefaultLeft  = Data{Intensity: 0x01, Red: 0x0F, Green: 0x00, Blue: 0x0A}
	DefaultRight = Data{Intensity: 0x01, Red: 0x00, Green: 0x0F, Blue: 0x0A}
)
