package zigbee

import "github.com/z2hue/bridge/internal/model"

// WideGamutMaxX and WideGamutMaxY scale a decoded xy12 pair into the wide
// gamut color space used to render entertainment-frame light records for
// humans; the update codec's own COLOR_XY field does not use this scaling
// (see the COLOR_XY branch of Decode).
const (
	WideGamutMaxX = 0.7347
	WideGamutMaxY = 0.8264
)

// packXY12 packs two 12-bit unsigned fields little-endian into 3 bytes:
// byte0 = x.low8, byte1 low nibble = x.high4 / high nibble = y.low4,
// byte2 = y.high8.
func packXY12(x, y uint16) [3]byte {
	return [3]byte{
		byte(x & 0xFF),
		byte((x>>8)&0x0F) | byte((y&0x0F)<<4),
		byte((y >> 4) & 0xFF),
	}
}

func unpackXY12(b [3]byte) (x, y uint16) {
	x = uint16(b[0]) | uint16(b[1]&0x0F)<<8
	y = uint16(b[2])<<4 | uint16(b[1]>>4)
	return x, y
}

// EncodeGradientPoint packs an xy point (each coordinate in [0,1]) into the
// 3-byte xy12 wire representation used by GRADIENT_COLORS, unscaled (divided
// directly by 0xFFF, matching the update codec's own gradient path).
func EncodeGradientPoint(p model.XY) [3]byte {
	x := uint16(p.X * 0xFFF)
	y := uint16(p.Y * 0xFFF)
	return packXY12(x, y)
}

// DecodeGradientPoint is the inverse of EncodeGradientPoint.
func DecodeGradientPoint(b [3]byte) model.XY {
	x, y := unpackXY12(b)
	return model.XY{X: float64(x) / 0xFFF, Y: float64(y) / 0xFFF}
}

// ScaledXY applies the wide-gamut scale factors to a raw xy12-decoded point,
// used only by the entertainment-frame light record's human-readable view
// (§4.5); the wire value itself stays unscaled.
func ScaledXY(b [3]byte) model.XY {
	x, y := unpackXY12(b)
	return model.XY{
		X: float64(x) * WideGamutMaxX / 0xFFF,
		Y: float64(y) * WideGamutMaxY / 0xFFF,
	}
}
