// Package mdnsadv advertises this bridge on the local network as a
// "_hue._tcp" mDNS service, the mechanism real Hue Bridge v2 hardware and
// the official apps use to discover a bridge without a known IP.
package mdnsadv

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/mdns"
	"github.com/rs/zerolog/log"

	"github.com/z2hue/bridge/internal/model"
)

// Advertiser owns the running mDNS responder for this bridge.
type Advertiser struct {
	bridgeID string
	port     int
	server   *mdns.Server
}

// New builds an Advertiser for the given bridge id and CLIP HTTP port.
// Call Run to start and block.
func New(bridgeID string, port int) *Advertiser {
	return &Advertiser{bridgeID: bridgeID, port: port}
}

// Run starts the mDNS responder and blocks until ctx is canceled, then shuts
// it down. It satisfies svc.RunFunc so it can run as a managed service
// alongside the HTTP and z2m collaborators.
func (a *Advertiser) Run(ctx context.Context) error {
	host, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("mdnsadv: hostname: %w", err)
	}

	txt := []string{
		"bridgeid=" + a.bridgeID,
		"modelid=" + model.HueBridgeV2ModelID,
	}

	service, err := mdns.NewMDNSService(
		"Hue Bridge - "+lastSix(a.bridgeID),
		"_hue._tcp",
		"",
		"",
		a.port,
		nil,
		txt,
	)
	if err != nil {
		return fmt.Errorf("mdnsadv: new service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("mdnsadv: new server: %w", err)
	}
	a.server = server
	log.Info().Str("bridge_id", a.bridgeID).Str("host", host).Int("port", a.port).
		Msg("advertising _hue._tcp on mDNS")

	<-ctx.Done()
	return a.server.Shutdown()
}

func lastSix(bridgeID string) string {
	if len(bridgeID) <= 6 {
		return bridgeID
	}
	return bridgeID[len(bridgeID)-6:]
}
