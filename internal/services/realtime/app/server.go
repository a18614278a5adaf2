// Package server wires the realtime core to its websocket, REST, and gRPC
// surfaces and owns the process lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	realtimev1 "github.com/louisbranch/clubhouse/api/gen/go/clubhouse/realtime/v1"
	"github.com/louisbranch/clubhouse/internal/platform/timeouts"
	realtimesqlite "github.com/louisbranch/clubhouse/internal/services/realtime/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Config defines the inputs for the realtime process.
type Config struct {
	HTTPAddr string
	// GRPCAddr serves the delivery API; empty disables it.
	GRPCAddr string
	DBPath   string
	// TokenSecret enables HS256 access tokens; empty trusts client ids.
	TokenSecret       string
	Locale            string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Server hosts the realtime HTTP/WebSocket and gRPC listeners.
type Server struct {
	httpAddr        string
	shutdownTimeout time.Duration
	httpServer      *http.Server
	grpcListener    net.Listener
	grpcServer      *grpc.Server
	health          *health.Server
	store           *realtimesqlite.Store
	services        *Services
}

// NewServer opens storage and builds a configured realtime server.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if strings.TrimSpace(config.DBPath) == "" {
		config.DBPath = filepath.Join("data", "realtime.db")
	}
	if config.ReadHeaderTimeout <= 0 {
		config.ReadHeaderTimeout = timeouts.ReadHeader
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = timeouts.Shutdown
	}

	store, err := openRealtimeStore(config.DBPath)
	if err != nil {
		return nil, err
	}
	services, err := NewServices(ServicesConfig{
		Messages:      store,
		Notifications: store,
		Clubs:         store,
		Locale:        config.Locale,
		Logf:          log.Printf,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("wire realtime services: %w", err)
	}

	s := &Server{
		httpAddr:        httpAddr,
		shutdownTimeout: config.ShutdownTimeout,
		store:           store,
		services:        services,
	}
	s.httpServer = &http.Server{
		Addr: httpAddr,
		Handler: newHandler(handlerConfig{
			services: services,
			verifier: newTokenVerifier(config.TokenSecret, nil),
			logf:     log.Printf,
		}),
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}

	if grpcAddr := strings.TrimSpace(config.GRPCAddr); grpcAddr != "" {
		listener, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("listen on %s: %w", grpcAddr, err)
		}
		s.grpcListener = listener
		s.grpcServer, s.health = newGRPCServer(services, log.Printf)
	}
	return s, nil
}

// newGRPCServer registers the delivery and health services.
func newGRPCServer(services *Services, logf func(string, ...any)) (*grpc.Server, *health.Server) {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	realtimev1.RegisterDeliveryServiceServer(grpcServer, &deliveryService{services: services, logf: logf})
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(realtimev1.DeliveryService_ServiceDesc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	return grpcServer, healthServer
}

// GRPCAddr returns the delivery API listener address, or "" when disabled.
func (s *Server) GRPCAddr() string {
	if s == nil || s.grpcListener == nil {
		return ""
	}
	return s.grpcListener.Addr().String()
}

// Run creates and serves a realtime server until the context ends.
func Run(ctx context.Context, config Config) error {
	server, err := NewServer(config)
	if err != nil {
		return fmt.Errorf("init realtime server: %w", err)
	}
	defer server.Close()

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve realtime: %w", err)
	}
	return nil
}

// ListenAndServe runs the HTTP and gRPC servers until the context ends or
// either one fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("realtime server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 2)
	log.Printf("realtime server listening on %s", s.httpAddr)
	go func() {
		err := s.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			err = fmt.Errorf("serve http: %w", err)
		}
		serveErr <- err
	}()
	if s.grpcServer != nil {
		log.Printf("realtime delivery API listening on %s", s.GRPCAddr())
		go func() {
			err := s.grpcServer.Serve(s.grpcListener)
			if errors.Is(err, grpc.ErrServerStopped) {
				err = nil
			}
			if err != nil {
				err = fmt.Errorf("serve gRPC: %w", err)
			}
			serveErr <- err
		}()
	}

	select {
	case <-ctx.Done():
		return s.shutdown()
	case err := <-serveErr:
		shutdownErr := s.shutdown()
		if err != nil {
			return err
		}
		return shutdownErr
	}
}

func (s *Server) shutdown() error {
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.GracefulStop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// Close releases listeners and storage.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.grpcListener != nil {
		_ = s.grpcListener.Close()
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close realtime store: %v", err)
		}
	}
}

func openRealtimeStore(path string) (*realtimesqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := realtimesqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open realtime sqlite store: %w", err)
	}
	return store, nil
}
