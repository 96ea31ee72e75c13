package zigbee

import (
	"encoding/binary"
	"fmt"

	"github.com/z2hue/bridge/internal/model"
)

// HueZigbeeUpdate is a per-light Zigbee attribute-write payload: every field
// is optional, present or absent per the leading u16 flag word. Field order
// on the wire (both encode and decode) is: ON_OFF, BRIGHTNESS, COLOR_MIREK,
// COLOR_XY, UNKNOWN_0, EFFECT_TYPE, GRADIENT_COLORS, EFFECT_SPEED,
// GRADIENT_PARAMS — read and write agree on this order, which is the only
// way decode(encode(x)) == x can hold.
type HueZigbeeUpdate struct {
	OnOff          *uint8
	Brightness     *uint8
	ColorMirek     *uint16
	ColorXY        *model.XY
	Unknown0       *uint16
	EffectType     *EffectType
	GradientColors *GradientColors
	EffectSpeed    *uint8
	GradientParams *GradientParams
}

func u8(v uint8) *uint8   { return &v }
func u16p(v uint16) *uint16 { return &v }

// WithOnOff sets the ON_OFF field.
func (u HueZigbeeUpdate) WithOnOff(on bool) HueZigbeeUpdate {
	if on {
		u.OnOff = u8(1)
	} else {
		u.OnOff = u8(0)
	}
	return u
}

// WithBrightness sets the BRIGHTNESS field.
func (u HueZigbeeUpdate) WithBrightness(b uint8) HueZigbeeUpdate {
	u.Brightness = u8(b)
	return u
}

// WithColorMirek sets the COLOR_MIREK field.
func (u HueZigbeeUpdate) WithColorMirek(mirek uint16) HueZigbeeUpdate {
	u.ColorMirek = u16p(mirek)
	return u
}

// WithColorXY sets the COLOR_XY field.
func (u HueZigbeeUpdate) WithColorXY(xy model.XY) HueZigbeeUpdate {
	u.ColorXY = &xy
	return u
}

// WithUnknown0 sets the opaque UNKNOWN_0 field.
func (u HueZigbeeUpdate) WithUnknown0(v uint16) HueZigbeeUpdate {
	u.Unknown0 = u16p(v)
	return u
}

// WithEffectType sets the EFFECT_TYPE field.
func (u HueZigbeeUpdate) WithEffectType(e EffectType) HueZigbeeUpdate {
	u.EffectType = &e
	return u
}

// WithEffectSpeed sets the EFFECT_SPEED field.
func (u HueZigbeeUpdate) WithEffectSpeed(speed uint8) HueZigbeeUpdate {
	u.EffectSpeed = u8(speed)
	return u
}

// WithGradientColors sets the GRADIENT_COLORS field.
func (u HueZigbeeUpdate) WithGradientColors(g GradientColors) HueZigbeeUpdate {
	u.GradientColors = &g
	return u
}

// WithGradientParams sets the GRADIENT_PARAMS field.
func (u HueZigbeeUpdate) WithGradientParams(p GradientParams) HueZigbeeUpdate {
	u.GradientParams = &p
	return u
}

func (u HueZigbeeUpdate) flagWord() flags {
	var f flags
	if u.OnOff != nil {
		f |= flagOnOff
	}
	if u.Brightness != nil {
		f |= flagBrightness
	}
	if u.ColorMirek != nil {
		f |= flagColorMirek
	}
	if u.ColorXY != nil {
		f |= flagColorXY
	}
	if u.Unknown0 != nil {
		f |= flagUnknown0
	}
	if u.EffectType != nil {
		f |= flagEffectType
	}
	if u.GradientColors != nil {
		f |= flagGradientColors
	}
	if u.EffectSpeed != nil {
		f |= flagEffectSpeed
	}
	if u.GradientParams != nil {
		f |= flagGradientParams
	}
	return f
}

// Encode serializes u to its wire representation.
func (u HueZigbeeUpdate) Encode() []byte {
	var buf []byte
	var hdr [2]byte
	binary.LittleEndian.PutUint16(hdr[:], uint16(u.flagWord()))
	buf = append(buf, hdr[:]...)

	if u.OnOff != nil {
		buf = append(buf, *u.OnOff)
	}
	if u.Brightness != nil {
		buf = append(buf, *u.Brightness)
	}
	if u.ColorMirek != nil {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], *u.ColorMirek)
		buf = append(buf, b[:]...)
	}
	if u.ColorXY != nil {
		var bx, by [2]byte
		binary.LittleEndian.PutUint16(bx[:], uint16(u.ColorXY.X*0xFFFF))
		binary.LittleEndian.PutUint16(by[:], uint16(u.ColorXY.Y*0xFFFF))
		buf = append(buf, bx[:]...)
		buf = append(buf, by[:]...)
	}
	if u.Unknown0 != nil {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], *u.Unknown0)
		buf = append(buf, b[:]...)
	}
	if u.EffectType != nil {
		buf = append(buf, uint8(*u.EffectType))
	}
	if u.GradientColors != nil {
		g := u.GradientColors
		length := 4 + 3*len(g.Points)
		buf = append(buf, uint8(length))
		hdr := g.Header.pack()
		buf = append(buf, hdr[:]...)
		for _, p := range g.Points {
			packed := EncodeGradientPoint(p)
			buf = append(buf, packed[:]...)
		}
	}
	if u.EffectSpeed != nil {
		buf = append(buf, *u.EffectSpeed)
	}
	if u.GradientParams != nil {
		buf = append(buf, u.GradientParams.Scale, u.GradientParams.Offset)
	}

	return buf
}

// Decode parses the wire representation produced by Encode. It returns
// model.ErrHueZigbeeUnknownFlags if a reserved bit (9..15) is set, and
// model.ErrHueZigbeeDecode if an EFFECT_TYPE byte is unrecognized.
func Decode(data []byte) (HueZigbeeUpdate, error) {
	if len(data) < 2 {
		return HueZigbeeUpdate{}, model.HueZigbeeDecodeError("truncated flag word")
	}
	f := flags(binary.LittleEndian.Uint16(data[:2]))
	rest := data[2:]

	var u HueZigbeeUpdate

	readU8 := func() (uint8, error) {
		if len(rest) < 1 {
			return 0, model.HueZigbeeDecodeError("truncated u8")
		}
		v := rest[0]
		rest = rest[1:]
		return v, nil
	}
	readU16 := func() (uint16, error) {
		if len(rest) < 2 {
			return 0, model.HueZigbeeDecodeError("truncated u16")
		}
		v := binary.LittleEndian.Uint16(rest[:2])
		rest = rest[2:]
		return v, nil
	}

	if f.has(flagOnOff) {
		v, err := readU8()
		if err != nil {
			return u, err
		}
		u.OnOff = u8(v)
	}
	if f.has(flagBrightness) {
		v, err := readU8()
		if err != nil {
			return u, err
		}
		u.Brightness = u8(v)
	}
	if f.has(flagColorMirek) {
		v, err := readU16()
		if err != nil {
			return u, err
		}
		u.ColorMirek = u16p(v)
	}
	if f.has(flagColorXY) {
		xRaw, err := readU16()
		if err != nil {
			return u, err
		}
		yRaw, err := readU16()
		if err != nil {
			return u, err
		}
		u.ColorXY = &model.XY{X: float64(xRaw) / 0xFFFF, Y: float64(yRaw) / 0xFFFF}
	}
	if f.has(flagUnknown0) {
		v, err := readU16()
		if err != nil {
			return u, err
		}
		u.Unknown0 = u16p(v)
	}
	if f.has(flagEffectType) {
		v, err := readU8()
		if err != nil {
			return u, err
		}
		if !validEffectType(v) {
			return u, model.HueZigbeeDecodeError(fmt.Sprintf("unknown effect type 0x%02x", v))
		}
		e := EffectType(v)
		u.EffectType = &e
	}
	if f.has(flagGradientColors) {
		length, err := readU8()
		if err != nil {
			return u, err
		}
		if len(rest) < 4 {
			return u, model.HueZigbeeDecodeError("truncated gradient header")
		}
		var hdrBytes [4]byte
		copy(hdrBytes[:], rest[:4])
		rest = rest[4:]
		header := unpackGradientHeader(hdrBytes)
		if int(length) != 4+3*int(header.NLights) {
			return u, model.HueZigbeeDecodeError("gradient length mismatch")
		}

		points := make([]model.XY, 0, header.NLights)
		for i := uint8(0); i < header.NLights; i++ {
			if len(rest) < 3 {
				return u, model.HueZigbeeDecodeError("truncated gradient point")
			}
			var pb [3]byte
			copy(pb[:], rest[:3])
			rest = rest[3:]
			points = append(points, DecodeGradientPoint(pb))
		}
		u.GradientColors = &GradientColors{Header: header, Points: points}
	}
	if f.has(flagEffectSpeed) {
		v, err := readU8()
		if err != nil {
			return u, err
		}
		u.EffectSpeed = u8(v)
	}
	if f.has(flagGradientParams) {
		scale, err := readU8()
		if err != nil {
			return u, err
		}
		offset, err := readU8()
		if err != nil {
			return u, err
		}
		u.GradientParams = &GradientParams{Scale: scale, Offset: offset}
	}

	if f&^knownFlags != 0 {
		return u, model.HueZigbeeUnknownFlags(uint16(f))
	}
	return u, nil
}
