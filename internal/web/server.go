package web

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/vadiminshakov/obwatch/internal/domain"
)

const (
	heartbeatInterval = 30 * time.Second

	writeWait      = 2 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

type signalSource interface {
	Last() (domain.Signal, bool)
	Subscribe() chan domain.Signal
	Unsubscribe(ch chan domain.Signal)
}

// Server exposes the dashboard, signal streams over SSE and websocket, and
// the metrics endpoint.
type Server struct {
	Addr    string
	signals signalSource
	metrics http.Handler
	logger  *zap.Logger

	upgrader websocket.Upgrader
}

// NewServer creates a new web server instance. metrics may be nil.
func NewServer(addr string, signals signalSource, metrics http.Handler, logger *zap.Logger) *Server {
	return &Server{
		Addr:    addr,
		signals: signals,
		metrics: metrics,
		logger:  logger.Named("web"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/signals/latest", s.handleLatest)
	mux.HandleFunc("/signals/stream", s.handleSignalStream)
	mux.HandleFunc("/signals/ws", s.handleSignalSocket)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}
	return mux
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("web server listening", zap.String("addr", s.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartWithAutoTLS serves HTTPS on Addr with certificates obtained via ACME
// for domains, plus the HTTP-01 challenge handler on :80.
func (s *Server) StartWithAutoTLS(ctx context.Context, domains []string, cacheDir string) error {
	manager, err := newCertManager(domains, cacheDir)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              ":80",
		Handler:           manager.HTTPHandler(nil),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	tlsConfig := manager.TLSConfig()
	tlsConfig.MinVersion = tls.VersionTLS12
	httpsSrv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		TLSConfig:         tlsConfig,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("acme server shutdown", zap.Error(err))
		}
		if err := httpsSrv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("https server shutdown", zap.Error(err))
		}
	}()

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("acme server", zap.Error(err))
		}
	}()

	s.logger.Info("web server listening with auto TLS", zap.String("addr", s.Addr), zap.Strings("domains", domains))
	if err := httpsSrv.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newCertManager(domains []string, cacheDir string) (*autocert.Manager, error) {
	if len(domains) == 0 {
		return nil, fmt.Errorf("no domains provided for automatic TLS")
	}
	if cacheDir == "" {
		cacheDir = "cert-cache"
	}
	return &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(domains...),
		Cache:      autocert.DirCache(cacheDir),
	}, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) handleLatest(w http.ResponseWriter, _ *http.Request) {
	sig, ok := s.signals.Last()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sig); err != nil {
		s.logger.Warn("encode latest signal", zap.Error(err))
	}
}

func (s *Server) handleSignalStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch := s.signals.Subscribe()
	defer s.signals.Unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// send a comment heartbeat so proxies keep connection
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	send := func(sig domain.Signal) error {
		payload, err := json.Marshal(sig)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: signal\ndata: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	if last, ok := s.signals.Last(); ok {
		if err := send(last); err != nil {
			return
		}
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case sig, ok := <-ch:
			if !ok {
				return
			}
			if err := send(sig); err != nil {
				s.logger.Debug("signal stream write", zap.Error(err))
				return
			}
		}
	}
}

func (s *Server) handleSignalSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}

	c := &socketClient{conn: conn, signals: s.signals, logger: s.logger}
	done := make(chan struct{})
	go c.readPump(done)
	c.writePump(done)
}

// socketClient streams signals to one websocket peer.
type socketClient struct {
	conn    *websocket.Conn
	signals signalSource
	logger  *zap.Logger
}

// readPump discards peer messages and watches pongs. It closes done when
// the peer goes away.
func (c *socketClient) readPump(done chan struct{}) {
	defer close(done)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Info("websocket closed", zap.Error(err))
			}
			return
		}
	}
}

func (c *socketClient) writePump(done chan struct{}) {
	ch := c.signals.Subscribe()
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.signals.Unsubscribe(ch)
		c.conn.Close()
	}()

	if last, ok := c.signals.Last(); ok {
		if err := c.write(last); err != nil {
			return
		}
	}

	for {
		select {
		case <-done:
			return
		case sig, ok := <-ch:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
				return
			}
			if err := c.write(sig); err != nil {
				c.logger.Debug("websocket write", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *socketClient) write(sig domain.Signal) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(sig)
}
