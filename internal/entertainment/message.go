// Package entertainment implements the Hue Entertainment streaming protocol:
// a stateful, counter-driven frame/reset/segment-map encoding carried over
// Zigbee cluster 0xFC01, plus the inverse decoders for the start/frame
// payloads a renderer would receive.
package entertainment

// ZigbeeMessage is an outbound Zigbee cluster command ready for transport.
type ZigbeeMessage struct {
	Cluster uint16
	Command uint8
	Data    []byte
	// DDR disables the default Zigbee response, matching real bridge traffic.
	DDR bool
}

func newMessage(cluster uint16, command uint8, data []byte) ZigbeeMessage {
	return ZigbeeMessage{Cluster: cluster, Command: command, Data: data, DDR: true}
}
