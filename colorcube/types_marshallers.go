package colorcube

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// This file contains (un)marshallers for the enum types used in
// colorcube, allowing to encode / decode string values instead of
// numeric values in config files and logs.
//
// this file should be go-generated, too

// ---- type Status int

func (s Status) MarshalJSON() ([]byte, error) {
	b, err := s.MarshalText()
	if err == nil {
		b = []byte(fmt.Sprintf("\"%s\"", string(b)))
	}
	return b, err
}

func (s *Status) UnmarshalJSON(data []byte) error {
	dataLength := len(data)
	if data[0] != '"' || data[dataLength-1] != '"' {
		return errors.New("Status.UnmarshalJSON: Invalid JSON provided")
	}
	return s.UnmarshalText(data[1 : dataLength-1])
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	str := string(b)
	idx := strings.Index(_Status_name, str)
	if idx < 0 {
		i, err := strconv.Atoi(str)
		if err == nil {
			*s = Status(i)
			return nil
		}
		return fmt.Errorf("Cannot unmarshall \"%s\" to Status. Is it mispelled?", str)
	}

	for i, v := range _Status_index {
		if int(v) == idx {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unexpected error in UnmarshalText for '%s' (go generate?)", s)
}

// ---- type BatteryStatus int

func (bs BatteryStatus) MarshalJSON() ([]byte, error) {
	b, err := bs.MarshalText()
	if err == nil {
		b = []byte(fmt.Sprintf("\"%s\"", string(b)))
	}
	return b, err
}

func (bs *BatteryStatus) UnmarshalJSON(data []byte) error {
	dataLength := len(data)
	if data[0] != '"' || data[dataLength-1] != '"' {
		return errors.New("BatteryStatus.UnmarshalJSON: Invalid JSON provided")
	}
	return bs.UnmarshalText(data[1 : dataLength-1])
}

func (bs BatteryStatus) MarshalText() ([]byte, error) {
	return []byte(bs.String()), nil
}

func (bs *BatteryStatus) UnmarshalText(b []byte) error {
	str := string(b)
	idx := strings.Index(_BatteryStatus_name, str)
	if idx < 0 {
		i, err := strconv.Atoi(str)
		if err == nil {
			*bs = BatteryStatus(i)
			return nil
		}
		return fmt.Errorf("Cannot unmarshall \"%s\" to BatteryStatus. Is it mispelled?", str)
	}

	for i, v := range _BatteryStatus_index {
		if int(v) == idx {
			*bs = BatteryStatus(i)
			return nil
		}
	}
	return fmt.Errorf("unexpected error in UnmarshalText for '%s' (go generate?)", bs)
}

// ---- type MachineState int

func (m MachineState) MarshalJSON() ([]byte, error) {
	b, err := m.MarshalText()
	if err == nil {
		b = []byte(fmt.Sprintf("\"%s\"", string(b)))
	}
	return b, err
}

func (m *MachineState) UnmarshalJSON(data []byte) error {
	dataLength := len(data)
	if data[0] != '"' || data[dataLength-1] != '"' {
		return errors.New("MachineState.UnmarshalJSON: Invalid JSON provided")
	}
	return m.UnmarshalText(data[1 : dataLength-1])
}

func (m MachineState) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *MachineState) UnmarshalText(b []byte) error {
	str := string(b)
	idx := strings.Index(_MachineState_name, str)
	if idx < 0 {
		i, err := strconv.Atoi(str)
		if err == nil {
			*m = MachineState(i)
			return nil
		}
		return fmt.Errorf("Cannot unmarshall \"%s\" to MachineState. Is it mispelled?", str)
	}

	for i, v := range _MachineState_index {
		if int(v) == idx {
			*m = MachineState(i)
			return nil
		}
	}
	return fmt.Errorf("unexpected error in UnmarshalText for '%s' (go generate?)", m)
}

// ---- type Position byte (bit flags, not stringer material)

func (p Position) MarshalJSON() ([]byte, error) {
	b, err := p.MarshalText()
	if err == nil {
		b = []byte(fmt.Sprintf("\"%s\"", string(b)))
	}
	return b, err
}

func (p *Position) UnmarshalJSON(data []byte) error {
	dataLength := len(data)
	if data[0] != '"' || data[dataLength-1] != '"' {
		return errors.New("Position.UnmarshalJSON: Invalid JSON provided")
	}
	return p.UnmarshalText(data[1 : dataLength-1])
}

func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Position) UnmarshalText(b []byte) error {
	str := string(b)
	if str == "None" {
		*p = PositionNone
		return nil
	}
	var out Position
	for _, part := range strings.Split(str, "|") {
		found := false
		for _, v := range positionNames {
			if v.name == part {
				out |= v.flag
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("Cannot unmarshall \"%s\" to Position. Is it mispelled?", str)
		}
	}
	*p = out
	return nil
}
