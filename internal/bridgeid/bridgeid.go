// Package bridgeid derives the bridge's stable identifier from its network
// MAC address, matching the scheme real Hue Bridge v2 hardware uses so z2m
// and CLIP clients recognize this bridge the same way.
package bridgeid

import (
	"encoding/hex"
	"fmt"
	"net"
)

// Raw splits mac into its bridge-id byte form: the first three octets, the
// fixed 0xFF 0xFE separator, then the last three octets.
func Raw(mac net.HardwareAddr) ([8]byte, error) {
	var out [8]byte
	if len(mac) != 6 {
		return out, fmt.Errorf("bridgeid: expected a 6-byte MAC, got %d bytes", len(mac))
	}
	out[0], out[1], out[2] = mac[0], mac[1], mac[2]
	out[3], out[4] = 0xFF, 0xFE
	out[5], out[6], out[7] = mac[3], mac[4], mac[5]
	return out, nil
}

// ID returns the lowercase hex bridge id for mac, e.g.
// "00:17:88:aa:bb:cc" -> "001788fffeaabbcc".
func ID(mac net.HardwareAddr) (string, error) {
	raw, err := Raw(mac)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(raw[:]), nil
}

// Parse derives the bridge id from a MAC address string in any format
// net.ParseMAC accepts.
func Parse(s string) (string, error) {
	mac, err := net.ParseMAC(s)
	if err != nil {
		return "", fmt.Errorf("bridgeid: %w", err)
	}
	return ID(mac)
}
