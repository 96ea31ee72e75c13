// Package zigbee implements the Hue Zigbee per-light update wire codec: a
// flag-gated, bit-packed binary encoding carried over Zigbee cluster 0xFC00
// attribute writes.
package zigbee

// flags is the u16 bitset selecting which fields are present on the wire.
type flags uint16

const (
	flagOnOff flags = 1 << iota
	flagBrightness
	flagColorMirek
	flagColorXY
	flagUnknown0
	flagEffectType
	flagGradientParams
	flagEffectSpeed
	flagGradientColors
)

// knownFlags is the union of every bit this codec understands; any bit
// outside this set is a reserved flag (bits 9..15) and must be zero.
const knownFlags = flagOnOff | flagBrightness | flagColorMirek | flagColorXY |
	flagUnknown0 | flagEffectType | flagGradientParams | flagEffectSpeed | flagGradientColors

func (f flags) has(bit flags) bool { return f&bit != 0 }
