package delivery_grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"myblog/internal/logger"
	"myblog/internal/metrics"
	"myblog/internal/middleware"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ServiceName is the health service name checked by orchestrators.
const ServiceName = "myblog"

type Server struct {
	health   *health.Server
	server   *grpc.Server
	pinger   Pinger
	interval time.Duration
	address  string
	port     int
	log      *logger.Logger
	metrics  metrics.MetricsProvider

	stop     chan struct{}
	stopOnce sync.Once
}

func NewServer(pinger Pinger, interval time.Duration, address string, port int, log *logger.Logger, metrics metrics.MetricsProvider) *Server {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	log = log.With(slog.String("component", "grpc"))
	s := &Server{
		health:   health.NewServer(),
		pinger:   pinger,
		interval: interval,
		address:  address,
		port:     port,
		log:      log,
		metrics:  metrics,
		stop:     make(chan struct{}),
	}
	s.server = grpc.NewServer(
		grpc.UnaryInterceptor(grpc_middleware.ChainUnaryServer(
			middleware.UnaryLoggerInterceptor(log),
			grpc_recovery.UnaryServerInterceptor(),
		)),
	)
	healthpb.RegisterHealthServer(s.server, s.health)
	return s
}

func (s *Server) Run() error {
	address := fmt.Sprintf("%s:%d", s.address, s.port)
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen: %v", err)
	}
	return s.Serve(lis)
}

// Serve runs on an existing listener until Shutdown.
func (s *Server) Serve(lis net.Listener) error {
	s.check()
	go s.watch()

	s.log.Info("Starting gRPC server", slog.String("address", lis.Addr().String()))
	return s.server.Serve(lis)
}

func (s *Server) watch() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.check()
		}
	}
}

func (s *Server) check() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval/2)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.pinger.Ping(ctx); err != nil {
		s.log.Warn("Store health check failed", slog.String("error", err.Error()))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.setStatus(status)
}

func (s *Server) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	s.metrics.SetServiceHealth(status == healthpb.HealthCheckResponse_SERVING)
}

func (s *Server) Shutdown() error {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.health.Shutdown()
		s.metrics.SetServiceHealth(false)
		s.server.GracefulStop()
	})
	return nil
}

// PingFunc adapts a function such as (*sql.DB).PingContext to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }
