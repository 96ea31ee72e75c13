// Package httpapi serves the northbound Hue CLIP HTTP/JSON surface: the
// CLIP v2 resource API, the legacy CLIP v1 prefix-keyed API, the
// server-sent event stream, and the minimal UPnP description document real
// bridges serve for discovery.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/z2hue/bridge/internal/model"
	"github.com/z2hue/bridge/internal/store"
)

// Z2MPublisher is the southbound collaborator the store's design calls its
// z2m request channel: a hook the HTTP adapter uses to forward a CLIP PUT
// as an outbound device command, keyed by the z2m MQTT topic recorded in
// the target device's AuxData.
type Z2MPublisher interface {
	PublishDeviceUpdate(topic string, update model.DeviceUpdate) error
}

// Server serves the CLIP HTTP surface atop a Store.
type Server struct {
	addr      string
	store     *store.Store
	publisher Z2MPublisher
	bridgeID  string

	router     *mux.Router
	httpServer *http.Server
}

// New builds a Server listening on host:port. publisher may be nil (PUTs
// still mutate the store; they just have nowhere to forward the resulting
// device command).
func New(host string, port int, s *store.Store, publisher Z2MPublisher, bridgeID string) *Server {
	srv := &Server{
		addr:      fmt.Sprintf("%s:%d", host, port),
		store:     s,
		publisher: publisher,
		bridgeID:  bridgeID,
	}
	srv.router = srv.buildRouter()
	return srv
}

func (s *Server) buildRouter() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/clip/v2/resource", s.handleListAll).Methods(http.MethodGet)
	r.HandleFunc("/clip/v2/resource/{type}", s.handleListByType).Methods(http.MethodGet)
	r.HandleFunc("/clip/v2/resource/{type}/{id}", s.handleGetOne).Methods(http.MethodGet)
	r.HandleFunc("/clip/v2/resource/{type}/{id}", s.handlePutOne).Methods(http.MethodPut)

	r.HandleFunc("/eventstream/clip/v2", s.handleEventStream).Methods(http.MethodGet)

	r.HandleFunc("/api/{appkey}/lights", s.handleV1Lights).Methods(http.MethodGet)
	r.HandleFunc("/api/{appkey}/lights/{id}", s.handleV1Light).Methods(http.MethodGet)
	r.HandleFunc("/api/{appkey}/lights/{id}/state", s.handleV1LightState).Methods(http.MethodPut)
	r.HandleFunc("/api/{appkey}/groups", s.handleV1Groups).Methods(http.MethodGet)
	r.HandleFunc("/api/{appkey}/groups/{id}/action", s.handleV1GroupAction).Methods(http.MethodPut)
	r.HandleFunc("/api/{appkey}/config", s.handleV1Config).Methods(http.MethodGet)

	r.HandleFunc("/description.xml", s.handleDescription).Methods(http.MethodGet)

	return r
}

// Run starts the server and blocks until ctx is canceled, then shuts down
// within shutdownTimeout.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	s.httpServer = &http.Server{Addr: s.addr, Handler: s.router}

	log.Info().Str("addr", s.addr).Msg("starting CLIP HTTP server")

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("CLIP HTTP server shutdown error")
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
