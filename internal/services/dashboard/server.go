package dashboard

import (
	"context"
	"net/http"
	"time"
)

// Server is the HTTP listener in front of a Dashboard.
type Server struct {
	httpServer *http.Server
	d          *Dashboard
}

func NewServer(addr string, d *Dashboard) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           d,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		d: d,
	}
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.d.logger.Info("HTTP server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains connections within the ctx deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
