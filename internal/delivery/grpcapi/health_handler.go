package grpcapi

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const CountryServiceName = "country.CountryService"

type HealthHandler struct {
	server *health.Server
}

// NewHealthHandler starts in NOT_SERVING until the first successful probe.
func NewHealthHandler() *HealthHandler {
	server := health.NewServer()
	server.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	server.SetServingStatus(CountryServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthHandler{server: server}
}

func (h *HealthHandler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

func (h *HealthHandler) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(CountryServiceName, status)
}

// Shutdown flips every service to NOT_SERVING and ignores later updates.
func (h *HealthHandler) Shutdown() {
	h.server.Shutdown()
}
