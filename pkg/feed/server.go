package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/peter-kozarec/knockout/pkg/bus"
	"github.com/peter-kozarec/knockout/pkg/simulation"
)

const subscriberBuffer = 256

// Server streams per iteration samples and the final summary of a run to websocket clients.
type Server struct {
	logger   *zap.Logger
	hub      *bus.Hub[Frame]
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	summary *SummaryView
}

func NewServer(logger *zap.Logger) *Server {
	return &Server{
		logger:   logger,
		hub:      bus.NewHub[Frame](),
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/stream", s.handleStream)
	mux.HandleFunc("/summary", s.handleSummary)
	return mux
}

// Observer publishes every sample of a run simulated with params.
func (s *Server) Observer(params simulation.Parameters) simulation.Observer {
	return func(sample simulation.Sample) {
		s.hub.Post(Frame{Type: FrameSample, Data: newSampleView(sample, params)})
	}
}

func (s *Server) PublishSummary(report simulation.Report) {
	summary := newSummaryView(report)

	s.mu.Lock()
	s.summary = &summary
	s.mu.Unlock()

	s.hub.Post(Frame{Type: FrameSummary, Data: summary})
}

func (s *Server) Statistics() bus.Statistics {
	return s.hub.Statistics()
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	sub := s.hub.Subscribe(subscriberBuffer)
	defer s.hub.Unsubscribe(sub)

	s.logger.Debug("feed client connected", zap.String("remote_addr", r.RemoteAddr))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go s.readPump(conn, cancel)

	if summary := s.lastSummary(); summary != nil {
		if err := conn.WriteJSON(Frame{Type: FrameSummary, Data: *summary}); err != nil {
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("feed client disconnected", zap.String("remote_addr", r.RemoteAddr))
			return
		case frame, ok := <-sub.C():
			if !ok {
				return
			}
			if err := conn.WriteJSON(frame); err != nil {
				s.logger.Debug("feed client disconnected", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
				return
			}
		}
	}
}

// readPump discards client messages and cancels the stream once the connection fails or the
// client closes it.
func (s *Server) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	summary := s.lastSummary()
	if summary == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		s.logger.Warn("unable to encode summary", zap.Error(err))
	}
}

func (s *Server) lastSummary() *SummaryView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}
