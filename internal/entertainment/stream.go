package entertainment

import (
	"encoding/binary"

	"github.com/z2hue/bridge/internal/model"
	"github.com/z2hue/bridge/internal/zigbee"
)

const (
	// DefaultSmoothing is the initial interpolation window a fresh stream
	// advertises until the caller overrides it with SetSmoothing.
	DefaultSmoothing uint16 = 0x0400
	// Cluster is the Zigbee cluster entertainment messages are sent on.
	Cluster uint16 = 0xFC01

	CmdSegmentMap uint8 = 7
	CmdReset      uint8 = 3
	CmdFrame      uint8 = 1
)

// LightRecord is one light's entry in a Frame command: a 16-bit Zigbee
// short address, a 16-bit brightness, and a packed xy12 color point.
type LightRecord struct {
	Addr       uint16
	Brightness uint16
	XY         model.XY
}

func (r LightRecord) pack() [7]byte {
	var b [7]byte
	binary.LittleEndian.PutUint16(b[0:2], r.Addr)
	binary.LittleEndian.PutUint16(b[2:4], r.Brightness)
	packed := zigbee.EncodeGradientPoint(r.XY)
	copy(b[4:7], packed[:])
	return b
}

// EntertainmentZigbeeStream is the stateful encoder for one entertainment
// session: a monotonically increasing frame counter and a smoothing window,
// both threaded into every Frame/Reset message.
type EntertainmentZigbeeStream struct {
	smoothing uint16
	counter   uint32
}

// New creates a stream starting at the given counter value (0 for a fresh
// session; a caller resuming after a restart passes the last known value).
func New(counter uint32) *EntertainmentZigbeeStream {
	return &EntertainmentZigbeeStream{smoothing: DefaultSmoothing, counter: counter}
}

// Counter returns the current frame counter.
func (s *EntertainmentZigbeeStream) Counter() uint32 { return s.counter }

// Smoothing returns the current smoothing window.
func (s *EntertainmentZigbeeStream) Smoothing() uint16 { return s.smoothing }

// SetSmoothing overrides the smoothing window used by subsequent frames.
func (s *EntertainmentZigbeeStream) SetSmoothing(v uint16) { s.smoothing = v }

// SegmentMapping encodes the light-address-to-channel segment map. Stateless
// with respect to the frame counter.
func (s *EntertainmentZigbeeStream) SegmentMapping(segments []uint16) ZigbeeMessage {
	data := make([]byte, 2+2*len(segments))
	binary.BigEndian.PutUint16(data[:2], uint16(len(segments)))
	for i, seg := range segments {
		binary.LittleEndian.PutUint16(data[2+2*i:4+2*i], seg)
	}
	return newMessage(Cluster, CmdSegmentMap, data)
}

// Reset encodes a stream-reset command using the current counter. Does not
// advance the counter.
func (s *EntertainmentZigbeeStream) Reset() ZigbeeMessage {
	data := make([]byte, 6)
	data[0] = 0
	data[1] = 1
	binary.LittleEndian.PutUint32(data[2:6], s.counter)
	return newMessage(Cluster, CmdReset, data)
}

// Frame encodes one entertainment frame carrying the given light records,
// then advances the counter by exactly one.
func (s *EntertainmentZigbeeStream) Frame(lights []LightRecord) ZigbeeMessage {
	data := make([]byte, 6+7*len(lights))
	binary.LittleEndian.PutUint32(data[0:4], s.counter)
	binary.LittleEndian.PutUint16(data[4:6], s.smoothing)
	for i, l := range lights {
		packed := l.pack()
		copy(data[6+7*i:13+7*i], packed[:])
	}
	s.counter++
	return newMessage(Cluster, CmdFrame, data)
}
