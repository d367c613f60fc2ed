package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"property-rental-backend/internal/api/grpc/interceptor"
	"property-rental-backend/internal/security"
	"property-rental-backend/internal/service"
)

// Services are the workflow services exposed over gRPC.
type Services struct {
	Requests      service.RentalRequestService
	Rentals       service.RentalService
	Notifications service.NotificationService
}

// NewServer builds a gRPC server with recovery, logging and auth interceptors, the three
// rental services, the standard health service and reflection.
func NewServer(tm security.TokenManager, svcs Services, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	authInterceptor := interceptor.NewAuthInterceptor(tm)
	opts = append(opts, grpc.ChainUnaryInterceptor(
		interceptor.Recovery(),
		interceptor.Logging(),
		authInterceptor.Unary(),
	))
	s := grpc.NewServer(opts...)

	RegisterRentalRequestServer(s, NewRentalRequestHandler(svcs.Requests))
	RegisterRentalServer(s, NewRentalHandler(svcs.Rentals))
	RegisterNotificationServer(s, NewNotificationHandler(svcs.Notifications))

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(s, healthSrv)
	for _, name := range []string{RentalRequestServiceName, RentalServiceName, NotificationServiceName} {
		healthSrv.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}

	reflection.Register(s)
	return s, healthSrv
}
