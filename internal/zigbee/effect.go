package zigbee

// EffectType enumerates the dynamic lighting effects a Hue light can run,
// assigned the exact byte values the real firmware expects on the wire.
type EffectType uint8

const (
	EffectNoEffect   EffectType = 0x00
	EffectCandle     EffectType = 0x01
	EffectFireplace  EffectType = 0x02
	EffectPrism      EffectType = 0x03
	EffectSunrise    EffectType = 0x09
	EffectSparkle    EffectType = 0x0a
	EffectOpal       EffectType = 0x0b
	EffectGlisten    EffectType = 0x0c
	EffectUnderwater EffectType = 0x0e
	EffectCosmos     EffectType = 0x0f
	EffectSunbeam    EffectType = 0x10
	EffectEnchant    EffectType = 0x11
)

// validEffectType reports whether b is one of the assigned EffectType values.
func validEffectType(b uint8) bool {
	switch EffectType(b) {
	case EffectNoEffect, EffectCandle, EffectFireplace, EffectPrism, EffectSunrise,
		EffectSparkle, EffectOpal, EffectGlisten, EffectUnderwater, EffectCosmos,
		EffectSunbeam, EffectEnchant:
		return true
	default:
		return false
	}
}

// GradientStyle enumerates how a gradient's color stops are distributed
// across a light's length.
type GradientStyle uint8

const (
	GradientLinear    GradientStyle = 0x00
	GradientScattered GradientStyle = 0x02
	GradientMirrored  GradientStyle = 0x04
)
