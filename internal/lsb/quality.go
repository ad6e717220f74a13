package lsb

import "fmt"

// QualityMode selects how many low bits of each carrier byte carry
// payload. Higher quality (fewer bits touched per byte) means lower
// capacity but a smaller perturbation of the carrier.
type QualityMode int

const (
	// QualityHigh uses 1 bit per carrier byte (ratio 8).
	QualityHigh QualityMode = iota
	// QualityNormal uses 2 bits per carrier byte (ratio 4).
	QualityNormal
	// QualityLow uses 4 bits per carrier byte (ratio 2).
	QualityLow
)

// Bits returns k, the number of low bits of each carrier byte used to
// carry payload under this mode.
func (m QualityMode) Bits() int {
	switch m {
	case QualityHigh:
		return 1
	case QualityNormal:
		return 2
	case QualityLow:
		return 4
	default:
		return 0
	}
}

// Ratio returns r such that 1 payload bit is embedded per r sample bits.
func (m QualityMode) Ratio() int {
	switch m {
	case QualityHigh:
		return 8
	case QualityNormal:
		return 4
	case QualityLow:
		return 2
	default:
		return 0
	}
}

func (m QualityMode) String() string {
	switch m {
	case QualityHigh:
		return "high"
	case QualityNormal:
		return "normal"
	case QualityLow:
		return "low"
	default:
		return fmt.Sprintf("QualityMode(%d)", int(m))
	}
}

// ParseQualityMode maps the CLI/HTTP-facing names ("low", "normal",
// "high") onto a QualityMode. Unknown names return ok=false.
func ParseQualityMode(name string) (mode QualityMode, ok bool) {
	switch name {
	case "high":
		return QualityHigh, true
	case "normal":
		return QualityNormal, true
	case "low":
		return QualityLow, true
	default:
		return 0, false
	}
}
