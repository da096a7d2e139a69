// Package health reports database readiness through the standard gRPC health service.
package health

import (
	"context"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/evalca-server/internal/logger"
)

// ServiceName is the health service name reported next to the overall ("") status.
const ServiceName = "evalca.API"

// Pinger checks connectivity to a dependency. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Checker keeps the health server in sync with the database.
type Checker struct {
	server  *health.Server
	pinger  Pinger
	timeout time.Duration
	logger  *logger.Logger
}

// NewChecker creates a Checker. Status starts as NOT_SERVING until the first Update.
func NewChecker(pinger Pinger, timeout time.Duration, logger *logger.Logger) *Checker {
	s := health.NewServer()
	s.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	s.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &Checker{server: s, pinger: pinger, timeout: timeout, logger: logger}
}

// Server returns the health service to register on a gRPC server.
func (c *Checker) Server() healthpb.HealthServer {
	return c.server
}

// Update pings the database once and publishes the result.
func (c *Checker) Update(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	pingCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := c.pinger.PingContext(pingCtx); err != nil {
		c.logger.Warn("Health checker: database ping failed",
			"error", err.Error())
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	c.server.SetServingStatus("", status)
	c.server.SetServingStatus(ServiceName, status)
	return status
}

// Run updates the status every interval until ctx is done, then marks the service as shutting down.
func (c *Checker) Run(ctx context.Context, interval time.Duration) {
	c.Update(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.server.Shutdown()
			return
		case <-ticker.C:
			c.Update(ctx)
		}
	}
}
