// Package gateway exposes the action registry over a WebSocket endpoint,
// with health and metrics endpoints alongside it.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/deepgate/deepgate/internal/config"
	"github.com/deepgate/deepgate/internal/metrics"
	"github.com/deepgate/deepgate/internal/registry"
)

// Server is the HTTP listener hosting the /ws endpoint.
type Server struct {
	cfg      config.ServerConfig
	registry *registry.Registry
	manager  *Manager
	log      *slog.Logger
	upgrader websocket.Upgrader

	httpServer *http.Server
	listenAddr string

	version string

	ready     chan struct{}
	readyOnce sync.Once
}

// New builds a server around a frozen registry.
func New(cfg config.ServerConfig, reg *registry.Registry, version string, log *slog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		registry: reg,
		manager:  NewManager(),
		log:      log,
		version:  version,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // local tool gateway, clients are trusted
			},
		},
	}
	s.ready = make(chan struct{})
	return s
}

// Start binds the listener and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/", s.handleRoot)

	listener, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Listen, err)
	}
	s.listenAddr = listener.Addr().String()

	s.httpServer = &http.Server{
		Handler: mux,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	s.log.Info("gateway listening", "addr", s.listenAddr)
	s.readyOnce.Do(func() { close(s.ready) })

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		return s.shutdown()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// shutdown drains the HTTP server, then force-closes any sessions whose
// read loops outlive the grace period.
func (s *Server) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.manager.CloseAll()
	err := s.httpServer.Shutdown(shutdownCtx)
	s.log.Info("gateway stopped")
	return err
}

// Addr returns the bound address, valid once Ready is closed.
func (s *Server) Addr() string {
	return s.listenAddr
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	if s.cfg.MaxFrameSize > 0 {
		conn.SetReadLimit(s.cfg.MaxFrameSize)
	}

	var limiter *rate.Limiter
	if s.cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.RatePerSecond), s.cfg.RateBurst)
	}

	session := NewSession(conn, s.registry, limiter, s.log)
	s.manager.Add(session)
	defer s.manager.Remove(session.ID)

	session.Run(r.Context())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"status": "healthy",
		"agent":  "ready",
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]any{
		"name":    "deepgate",
		"version": s.version,
		"actions": s.registry.Actions(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
