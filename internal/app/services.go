package app

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/z2hue/bridge/internal/bridgeid"
	"github.com/z2hue/bridge/internal/config"
	"github.com/z2hue/bridge/internal/db"
	"github.com/z2hue/bridge/internal/httpapi"
	"github.com/z2hue/bridge/internal/ledger"
	"github.com/z2hue/bridge/internal/mdnsadv"
	"github.com/z2hue/bridge/internal/store"
	"github.com/z2hue/bridge/internal/svc"
	"github.com/z2hue/bridge/internal/z2mclient"
)

// Services is a container for every collaborator the bridge wires together:
// the resource store, the operational ledger, and the three managed
// services (CLIP HTTP, z2m southbound, mDNS advertisement) running under a
// single svc.Manager.
type Services struct {
	cfg *config.Config

	DB     *db.DB
	Ledger *ledger.Ledger
	Store  *store.Store

	Manager *svc.Manager

	HTTP *httpapi.Server
	Z2M  *z2mclient.Client
	MDNS *mdnsadv.Advertiser

	httpHandle svc.Handle
	z2mHandle  svc.Handle
	mdnsHandle svc.Handle
}

// restartDelay is the backoff a managed service waits before being restarted
// after an error, per svc's retry policy.
const restartDelay = 5 * time.Second

// NewServices wires every collaborator with proper dependency order but
// starts nothing; call Start to bring the managed services up.
func NewServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	s := &Services{cfg: cfg}

	bridgeID, err := resolveBridgeID(cfg.Bridge.MAC)
	if err != nil {
		return nil, fmt.Errorf("app: resolving bridge id: %w", err)
	}

	if cfg.Ledger.IsEnabled() {
		database, err := db.Open(cfg.Ledger.GetPath())
		if err != nil {
			return nil, fmt.Errorf("app: opening ledger database: %w", err)
		}
		s.DB = database
		s.Ledger = ledger.New(database.DB)
	}

	persister := store.NewFilePersister(cfg.State.GetPath())
	s.Store = store.New(persister)
	if err := s.Store.Load(); err != nil {
		log.Warn().Err(err).Msg("no prior state snapshot to load, starting fresh")
	}
	if len(s.Store.GetResources()) == 0 {
		if err := s.Store.Init(bridgeID); err != nil {
			s.Close()
			return nil, fmt.Errorf("app: bootstrapping store: %w", err)
		}
	}

	s.Z2M, err = z2mclient.New(cfg.Z2M, s.Store)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("app: building z2m client: %w", err)
	}

	s.HTTP = httpapi.New(cfg.HTTP.GetHost(), cfg.HTTP.GetPort(), s.Store, s.Z2M, bridgeID)

	if cfg.MDNS.IsEnabled() {
		s.MDNS = mdnsadv.New(bridgeID, cfg.HTTP.GetPort())
	}

	s.Manager = svc.New(ctx)
	if s.Ledger != nil {
		s.Manager.SetRecorder(s.Ledger)
	}

	return s, nil
}

// resolveBridgeID derives the bridge id from the configured MAC, falling
// back to the first non-loopback interface with a hardware address when
// none is configured.
func resolveBridgeID(mac string) (string, error) {
	if mac != "" {
		return bridgeid.Parse(mac)
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return "", fmt.Errorf("listing network interfaces: %w", err)
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || len(iface.HardwareAddr) != 6 {
			continue
		}
		return bridgeid.ID(iface.HardwareAddr)
	}
	return "", fmt.Errorf("no non-loopback network interface with a MAC address found")
}

// Start registers and starts every managed service under the Manager, then
// blocks only long enough to confirm each reached Running.
func (s *Services) Start(ctx context.Context) error {
	go func() {
		if err := s.Manager.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("service manager exited unexpectedly")
		}
	}()

	client := s.Manager.Client()

	httpFn := svc.StandardService("http", func(runCtx context.Context) error {
		return s.HTTP.Run(runCtx, s.cfg.GetShutdownTimeout())
	}, svc.ForeverRetry(restartDelay))
	httpID, err := client.Register(ctx, "http", httpFn)
	if err != nil {
		return fmt.Errorf("app: registering http service: %w", err)
	}
	s.httpHandle = svc.ByID(httpID)

	z2mFn := svc.StandardService("z2m", s.Z2M.Run, svc.ForeverRetry(restartDelay))
	z2mID, err := client.Register(ctx, "z2m", z2mFn)
	if err != nil {
		return fmt.Errorf("app: registering z2m service: %w", err)
	}
	s.z2mHandle = svc.ByID(z2mID)

	handles := []svc.Handle{s.httpHandle, s.z2mHandle}

	if s.MDNS != nil {
		mdnsFn := svc.StandardService("mdns", s.MDNS.Run, svc.LimitRetry(3, restartDelay))
		mdnsID, err := client.Register(ctx, "mdns", mdnsFn)
		if err != nil {
			return fmt.Errorf("app: registering mdns service: %w", err)
		}
		s.mdnsHandle = svc.ByID(mdnsID)
		handles = append(handles, s.mdnsHandle)
	}

	for _, h := range handles {
		if err := client.Start(ctx, h); err != nil {
			return fmt.Errorf("app: starting service: %w", err)
		}
	}

	if err := svc.WaitForMultiple(ctx, client, handles, svc.Running); err != nil {
		return fmt.Errorf("app: waiting for services to start: %w", err)
	}

	log.Info().Msg("z2hue bridge started")
	return nil
}

// Stop requests an orderly shutdown of every managed service and snapshots
// the store one last time.
func (s *Services) Stop(ctx context.Context) error {
	if s.Manager != nil {
		client := s.Manager.Client()
		if err := client.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("service manager shutdown did not complete cleanly")
		}
	}
	if s.Store != nil {
		if err := s.Store.Save(); err != nil {
			log.Warn().Err(err).Msg("final state snapshot failed")
		}
	}
	s.Close()
	return nil
}

// Close releases every held resource.
func (s *Services) Close() {
	if s.Z2M != nil {
		s.Z2M.Close()
	}
	if s.DB != nil {
		s.DB.Close()
	}
}
