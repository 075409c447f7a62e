package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/deepgate/deepgate/internal/metrics"
	"github.com/deepgate/deepgate/internal/protocol"
	"github.com/deepgate/deepgate/internal/registry"
)

// Session owns a single WebSocket connection: it reads request envelopes,
// dispatches each on its own goroutine, and serializes response writes.
type Session struct {
	ID      string
	Created time.Time

	conn     *websocket.Conn
	registry *registry.Registry
	limiter  *rate.Limiter
	log      *slog.Logger

	writeMu  sync.Mutex
	closed   bool
	inflight sync.WaitGroup
	pending  atomic.Int64

	// cancel aborts in-flight handlers when the connection drops.
	cancel context.CancelFunc
}

// NewSession wraps an upgraded connection. The session does not start
// reading until Run is called.
func NewSession(conn *websocket.Conn, reg *registry.Registry, limiter *rate.Limiter, log *slog.Logger) *Session {
	id := uuid.New().String()
	return &Session{
		ID:       id,
		Created:  time.Now(),
		conn:     conn,
		registry: reg,
		limiter:  limiter,
		log:      log.With("session", id),
	}
}

// Pending returns the number of requests currently being handled.
func (s *Session) Pending() int64 {
	return s.pending.Load()
}

// Run reads frames until the connection closes or ctx is cancelled. It
// blocks, and returns only after all in-flight handlers have finished.
func (s *Session) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.writeMu.Lock()
	s.cancel = cancel
	s.writeMu.Unlock()
	defer cancel()

	metrics.ActiveConnections.Inc()
	defer metrics.ActiveConnections.Dec()

	s.log.Info("session opened", "remote", s.conn.RemoteAddr().String())

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("connection closed unexpectedly", "error", err)
			}
			break
		}

		var req protocol.Request
		if err := json.Unmarshal(payload, &req); err != nil {
			metrics.FramesTotal.WithLabelValues("malformed").Inc()
			s.send(protocol.Fail("", "invalid request envelope",
				protocol.E(protocol.KindValidation, "malformed JSON: %v", err)))
			continue
		}

		// Throttled requests still echo their request_id: a pipelining
		// client must be able to tell which call was rejected.
		if s.limiter != nil && !s.limiter.Allow() {
			metrics.FramesTotal.WithLabelValues("throttled").Inc()
			s.send(protocol.Fail(req.RequestID, "rate limit exceeded",
				protocol.E(protocol.KindValidation, "too many requests")))
			continue
		}

		metrics.FramesTotal.WithLabelValues("dispatched").Inc()
		s.inflight.Add(1)
		s.pending.Add(1)
		go func(req protocol.Request) {
			defer s.inflight.Done()
			defer s.pending.Add(-1)
			s.handle(ctx, req)
		}(req)
	}

	s.Close()
	s.inflight.Wait()
	s.log.Info("session closed", "uptime", time.Since(s.Created))
}

// handle dispatches one request and writes its response. Panics in a
// handler are confined to the request that caused them.
func (s *Session) handle(ctx context.Context, req protocol.Request) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("handler panic", "action", req.Action, "panic", r)
			s.send(protocol.Fail(req.RequestID, "internal error",
				protocol.E(protocol.KindInternal, "handler panic: %v", r)))
		}
	}()

	start := time.Now()
	res, err := s.registry.Dispatch(ctx, req.Action, req.Data)
	elapsed := time.Since(start)
	metrics.ObserveDispatch(req.Action, err == nil, elapsed)

	if err != nil {
		s.log.Warn("action failed",
			"action", req.Action,
			"request_id", req.RequestID,
			"kind", string(protocol.KindOf(err)),
			"duration", elapsed,
			"error", err)
		s.send(protocol.Fail(req.RequestID, failureMessage(err), err))
		return
	}

	s.log.Info("action completed",
		"action", req.Action,
		"request_id", req.RequestID,
		"duration", elapsed)
	s.send(protocol.OK(req.RequestID, res))
}

// failureMessage picks the human-facing message for a failed request.
func failureMessage(err error) string {
	var perr *protocol.Error
	if errors.As(err, &perr) {
		return perr.Msg
	}
	return err.Error()
}

// send writes one response frame. Writes after Close are dropped
// silently; responses for a gone client have nowhere to go.
func (s *Session) send(resp *protocol.Response) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.closed {
		return
	}
	if err := s.conn.WriteJSON(resp); err != nil {
		s.log.Warn("write failed", "request_id", resp.RequestID, "error", err)
	}
}

// Close marks the session closed and closes the underlying connection.
// Safe to call more than once.
func (s *Session) Close() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.conn.Close()
}
