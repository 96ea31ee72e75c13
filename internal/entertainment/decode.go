package entertainment

import (
	"encoding/binary"

	"github.com/z2hue/bridge/internal/model"
	"github.com/z2hue/bridge/internal/zigbee"
)

// HueEntStart is the decoded entertainment-start payload: a member count
// followed by that many Zigbee short addresses.
type HueEntStart struct {
	Count   uint16
	Members []uint16
}

// ParseHueEntStart decodes a 2-byte big-endian count header followed by
// count little-endian u16 member IDs. A length mismatch is a decode error.
func ParseHueEntStart(data []byte) (HueEntStart, error) {
	if len(data) < 2 {
		return HueEntStart{}, model.HueZigbeeDecodeError("entertainment start: truncated header")
	}
	count := binary.BigEndian.Uint16(data[:2])
	rest := data[2:]
	if int(count)*2 != len(rest) {
		return HueEntStart{}, model.HueZigbeeDecodeError("entertainment start: length mismatch")
	}

	members := make([]uint16, count)
	for i := range members {
		members[i] = binary.LittleEndian.Uint16(rest[2*i : 2*i+2])
	}
	return HueEntStart{Count: count, Members: members}, nil
}

// HueEntFrameLight is one decoded light record from a frame payload.
type HueEntFrameLight struct {
	Addr       uint16
	Brightness uint16
	Raw        [3]byte
}

// XY returns the raw, unscaled xy12 point carried by the wire record.
func (l HueEntFrameLight) XY() model.XY {
	return zigbee.DecodeGradientPoint(l.Raw)
}

// ScaledXY returns the wide-gamut-scaled xy point, matching the
// human-readable rendering the original firmware's debug view uses.
func (l HueEntFrameLight) ScaledXY() model.XY {
	return zigbee.ScaledXY(l.Raw)
}

// HueEntFrame is the decoded frame payload: a 6-byte header (counter + an
// opaque u16) followed by a variable number of 7-byte light records.
type HueEntFrame struct {
	Counter uint32
	X0      uint16
	Lights  []HueEntFrameLight
}

// ParseHueEntFrame decodes the header then repeatedly consumes 7-byte light
// records until the input is exhausted.
func ParseHueEntFrame(data []byte) (HueEntFrame, error) {
	if len(data) < 6 {
		return HueEntFrame{}, model.HueZigbeeDecodeError("entertainment frame: truncated header")
	}
	counter := binary.LittleEndian.Uint32(data[0:4])
	x0 := binary.LittleEndian.Uint16(data[4:6])
	rest := data[6:]

	if len(rest)%7 != 0 {
		return HueEntFrame{}, model.HueZigbeeDecodeError("entertainment frame: trailing bytes")
	}

	lights := make([]HueEntFrameLight, 0, len(rest)/7)
	for len(rest) > 0 {
		var raw [3]byte
		copy(raw[:], rest[4:7])
		lights = append(lights, HueEntFrameLight{
			Addr:       binary.LittleEndian.Uint16(rest[0:2]),
			Brightness: binary.LittleEndian.Uint16(rest[2:4]),
			Raw:        raw,
		})
		rest = rest[7:]
	}

	return HueEntFrame{Counter: counter, X0: x0, Lights: lights}, nil
}
