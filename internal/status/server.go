package status

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/19wintersp/VectorAudio/internal/adapter"
	"github.com/19wintersp/VectorAudio/internal/radio"
)

// Options configures the server. Zero timeouts leave net/http defaults.
type Options struct {
	Port int
	// Events is served on /events when non-nil.
	Events EventsPort

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Server is the status HTTP responder.
type Server struct {
	read ReadPort
	opts Options

	mu         sync.Mutex
	listener   net.Listener
	httpServer *http.Server
}

// NewServer creates a server reading from read.
func NewServer(read ReadPort, opts Options) *Server {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	return &Server{read: read, opts: opts}
}

// Listen binds the port on all interfaces.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.opts.Port))
	if err != nil {
		return fmt.Errorf("failed to bind status server: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  s.opts.IdleTimeout,
	}
	s.mu.Unlock()

	log.Printf("status: listening on %s", ln.Addr())
	return nil
}

// Serve blocks serving requests until Stop. Listen must have succeeded.
func (s *Server) Serve() error {
	s.mu.Lock()
	ln, srv := s.listener, s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return errors.New("status server not listening")
	}

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("status server failed: %w", err)
	}
	return nil
}

// Addr returns the bound address, or "" before Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop gracefully stops the server. Stopping a server that never listened
// is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, s.opts.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown status server: %w", err)
	}
	return nil
}

// Handler returns the request handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handle)
	return mux
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeText(w, adapter.ClientName)
		return
	}

	switch r.URL.Path {
	case "/transmitting":
		writeText(w, s.read.Transmitting())
	case "/rx":
		writeText(w, radio.JoinPairs(s.read.ReceivingStations()))
	case "/tx":
		writeText(w, radio.JoinPairs(s.read.TransmittingStations()))
	case "/events":
		if s.opts.Events == nil {
			writeText(w, adapter.ClientName)
			return
		}
		s.handleEvents(w, r)
	default:
		writeText(w, adapter.ClientName)
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if err := s.opts.Events.Subscribe(r.Context(), w, r); err != nil {
		log.Printf("status: event subscription failed: %v", err)
		http.Error(w, "event stream unavailable", http.StatusServiceUnavailable)
	}
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, body); err != nil {
		log.Printf("status: write failed: %v", err)
	}
}
