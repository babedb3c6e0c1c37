package ines

// NTMirroring describes how the 4 logical nametables are mapped onto the
// physical nametable memory.
type NTMirroring uint8

const (
	HorzMirroring NTMirroring = iota // $2000=$2400, $2800=$2C00
	VertMirroring                    // $2000=$2800, $2400=$2C00
	OnlyAScreen                      // all nametables map to the first 1KB
	OnlyBScreen                      // all nametables map to the second 1KB
	FourScreen                       // 4 independent nametables
)

func (m NTMirroring) String() string {
	switch m {
	case HorzMirroring:
		return "horizontal"
	case VertMirroring:
		return "vertical"
	case OnlyAScreen:
		return "single-screen A"
	case OnlyBScreen:
		return "single-screen B"
	case FourScreen:
		return "four-screen"
	}
	return "unknown"
}
