package zigbee

import "github.com/z2hue/bridge/internal/model"

// GradientUpdateHeader is the 4-byte header preceding a GRADIENT_COLORS
// point list: first byte packs nlights (low nibble) and an unknown field
// (high nibble); the remaining 3 bytes are unknown/reserved but must
// round-trip unchanged.
type GradientUpdateHeader struct {
	NLights uint8
	Resv0   uint8
	Resv1   uint8
	Resv2   uint16
}

func (h GradientUpdateHeader) pack() [4]byte {
	return [4]byte{
		(h.NLights & 0x0F) | (h.Resv0&0x0F)<<4,
		h.Resv1,
		byte(h.Resv2),
		byte(h.Resv2 >> 8),
	}
}

func unpackGradientHeader(b [4]byte) GradientUpdateHeader {
	return GradientUpdateHeader{
		NLights: b[0] & 0x0F,
		Resv0:   (b[0] >> 4) & 0x0F,
		Resv1:   b[1],
		Resv2:   uint16(b[2]) | uint16(b[3])<<8,
	}
}

// GradientColors is the GRADIENT_COLORS field: a header plus one xy point
// per gradient stop.
type GradientColors struct {
	Header GradientUpdateHeader
	Points []model.XY
}

// GradientParams is the GRADIENT_PARAMS field: a scale/offset pair
// controlling how the gradient maps onto a light's physical length.
type GradientParams struct {
	Scale  uint8
	Offset uint8
}
