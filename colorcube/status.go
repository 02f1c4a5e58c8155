package colorcube

//go:generate stringer -type=Status
type Status int

const (
	StatusNone    Status = Status(iota)
	StatusReady   Status = Status(iota)
	StatusWarning Status = Status(iota)
	StatusError   Status = Status(iota)
)

// StatusColor maps a system status to its conventional indicator color:
// green for ready, yellow for warning, red for error, dark otherwise.
// The intensity argument only sets the record's brightness field; the
// lit channels stay at full scale regardless.
func StatusColor(status Status, intensity byte) Data {
	d := Data{Intensity: intensity}
	switch status {
	case StatusReady:
		d.Green = 0xFF
	case StatusWarning:
		d.Red = 0xFF
		d.Green = 0xFF
	case StatusError:
		d.Red = 0xFF
	}
	return d
}
