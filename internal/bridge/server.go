package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"tfsettings/internal/domain"
)

const (
	maxMessageBytes = 32 << 20 // Upper bound on one invocation, including file contents
	shutdownTimeout = 5 * time.Second
	errRateLimited  = "rate limit exceeded"
)

// Server carries bridge invocations over HTTP and WebSocket for the embedded web view.
type Server struct {
	invoker domain.Invoker
	addr    string
	limiter *rate.Limiter
	logger  *slog.Logger

	mu        sync.Mutex
	httpSrv   *http.Server
	boundAddr string
	ready     chan struct{}
}

// NewServer creates a bridge server. limit and burst bound the invocation rate
// across all connections.
func NewServer(invoker domain.Invoker, addr string, limit float64, burst int, logger *slog.Logger) *Server {
	return &Server{
		invoker: invoker,
		addr:    addr,
		limiter: rate.NewLimiter(rate.Limit(limit), burst),
		logger:  logger,
		ready:   make(chan struct{}),
	}
}

// Handler returns the HTTP routes served by the bridge.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/invoke", s.handleInvoke)
	mux.HandleFunc("/ws", s.handleUpgrade)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// Start begins accepting connections. Blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("bridge listen: %w", err)
	}

	s.mu.Lock()
	s.boundAddr = listener.Addr().String()
	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	httpSrv := s.httpSrv
	s.mu.Unlock()
	close(s.ready)

	s.logger.Info("Bridge started", "addr", s.BoundAddr())

	go func() {
		<-ctx.Done()
		if stopErr := s.Stop(context.Background()); stopErr != nil {
			s.logger.Warn("Bridge shutdown failed", "error", stopErr)
		}
	}()

	if err := httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("bridge serve: %w", err)
	}
	return nil
}

// Ready is closed once the server is listening.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	httpSrv := s.httpSrv
	s.mu.Unlock()

	if httpSrv == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// BoundAddr returns the address the server is listening on. Only valid after Ready.
func (s *Server) BoundAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boundAddr
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var inv domain.Invocation
	body := http.MaxBytesReader(w, r.Body, maxMessageBytes)
	if err := json.NewDecoder(body).Decode(&inv); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.Result{Error: fmt.Sprintf("malformed invocation: %v", err)})
		return
	}

	if !s.limiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, domain.Result{ID: inv.ID, Error: errRateLimited})
		return
	}

	writeJSON(w, http.StatusOK, s.invoker.Invoke(r.Context(), inv))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{
			"localhost",
			"localhost:*",
			"127.0.0.1",
			"127.0.0.1:*",
			"[::1]",
			"[::1]:*",
		},
	})
	if err != nil {
		s.logger.Warn("WebSocket accept failed", "error", err)
		return
	}
	ws.SetReadLimit(maxMessageBytes)

	s.logger.Debug("Bridge client connected", "remote", r.RemoteAddr)
	s.readLoop(r.Context(), ws)
	ws.Close(websocket.StatusNormalClosure, "")
	s.logger.Debug("Bridge client disconnected", "remote", r.RemoteAddr)
}

// readLoop dispatches every frame on its own goroutine and waits for all of
// them before returning, so no write races the close.
func (s *Server) readLoop(ctx context.Context, ws *websocket.Conn) {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		var inv domain.Invocation
		if err := wsjson.Read(ctx, ws, &inv); err != nil {
			return
		}

		if !s.limiter.Allow() {
			s.send(ctx, ws, domain.Result{ID: inv.ID, Error: errRateLimited})
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.send(ctx, ws, s.invoker.Invoke(ctx, inv))
		}()
	}
}

func (s *Server) send(ctx context.Context, ws *websocket.Conn, result domain.Result) {
	writeCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := wsjson.Write(writeCtx, ws, result); err != nil {
		s.logger.Debug("Failed to send bridge result", "id", result.ID, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
