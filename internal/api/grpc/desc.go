package grpc

import (
	"context"

	"google.golang.org/grpc"

	"property-rental-backend/internal/api/wire"
)

// RentalRequestServer is the server API for rental.v1.RentalRequestService.
type RentalRequestServer interface {
	CreateRequest(context.Context, *wire.CreateRequestRequest) (*wire.CreateRequestResponse, error)
	ApproveRequest(context.Context, *wire.ApproveRequestRequest) (*wire.ApproveRequestResponse, error)
	RejectRequest(context.Context, *wire.RejectRequestRequest) (*wire.RejectRequestResponse, error)
	GetRequest(context.Context, *wire.GetRequestRequest) (*wire.GetRequestResponse, error)
	ListRequests(context.Context, *wire.ListRequestsRequest) (*wire.ListRequestsResponse, error)
}

// RentalServer is the server API for rental.v1.RentalService.
type RentalServer interface {
	CreateAgreement(context.Context, *wire.CreateAgreementRequest) (*wire.CreateAgreementResponse, error)
	EndAgreement(context.Context, *wire.EndAgreementRequest) (*wire.EndAgreementResponse, error)
	ListHistory(context.Context, *wire.ListHistoryRequest) (*wire.ListHistoryResponse, error)
	GetCurrentTenant(context.Context, *wire.GetCurrentTenantRequest) (*wire.GetCurrentTenantResponse, error)
	GetActiveRental(context.Context, *wire.GetActiveRentalRequest) (*wire.GetActiveRentalResponse, error)
	IsPropertyAvailable(context.Context, *wire.IsPropertyAvailableRequest) (*wire.IsPropertyAvailableResponse, error)
	ListOwnerActiveRentals(context.Context, *wire.ListOwnerActiveRentalsRequest) (*wire.ListOwnerActiveRentalsResponse, error)
	ListActiveRentals(context.Context, *wire.ListActiveRentalsRequest) (*wire.ListActiveRentalsResponse, error)
}

// NotificationServer is the server API for rental.v1.NotificationService.
type NotificationServer interface {
	GetNotifications(context.Context, *wire.GetNotificationsRequest) (*wire.GetNotificationsResponse, error)
	MarkAsRead(context.Context, *wire.MarkAsReadRequest) (*wire.MarkAsReadResponse, error)
}

const (
	RentalRequestServiceName = "rental.v1.RentalRequestService"
	RentalServiceName        = "rental.v1.RentalService"
	NotificationServiceName  = "rental.v1.NotificationService"
)

// unary adapts a typed method into a grpc.MethodHandler, running the server's
// interceptor chain the same way generated code does.
func unary[S any, Req any, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var RentalRequestServiceDesc = grpc.ServiceDesc{
	ServiceName: RentalRequestServiceName,
	HandlerType: (*RentalRequestServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(RentalRequestServiceName, "CreateRequest", RentalRequestServer.CreateRequest),
		unary(RentalRequestServiceName, "ApproveRequest", RentalRequestServer.ApproveRequest),
		unary(RentalRequestServiceName, "RejectRequest", RentalRequestServer.RejectRequest),
		unary(RentalRequestServiceName, "GetRequest", RentalRequestServer.GetRequest),
		unary(RentalRequestServiceName, "ListRequests", RentalRequestServer.ListRequests),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rental/v1/rental.json",
}

var RentalServiceDesc = grpc.ServiceDesc{
	ServiceName: RentalServiceName,
	HandlerType: (*RentalServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(RentalServiceName, "CreateAgreement", RentalServer.CreateAgreement),
		unary(RentalServiceName, "EndAgreement", RentalServer.EndAgreement),
		unary(RentalServiceName, "ListHistory", RentalServer.ListHistory),
		unary(RentalServiceName, "GetCurrentTenant", RentalServer.GetCurrentTenant),
		unary(RentalServiceName, "GetActiveRental", RentalServer.GetActiveRental),
		unary(RentalServiceName, "IsPropertyAvailable", RentalServer.IsPropertyAvailable),
		unary(RentalServiceName, "ListOwnerActiveRentals", RentalServer.ListOwnerActiveRentals),
		unary(RentalServiceName, "ListActiveRentals", RentalServer.ListActiveRentals),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rental/v1/rental.json",
}

var NotificationServiceDesc = grpc.ServiceDesc{
	ServiceName: NotificationServiceName,
	HandlerType: (*NotificationServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(NotificationServiceName, "GetNotifications", NotificationServer.GetNotifications),
		unary(NotificationServiceName, "MarkAsRead", NotificationServer.MarkAsRead),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rental/v1/rental.json",
}

func RegisterRentalRequestServer(s grpc.ServiceRegistrar, srv RentalRequestServer) {
	s.RegisterService(&RentalRequestServiceDesc, srv)
}

func RegisterRentalServer(s grpc.ServiceRegistrar, srv RentalServer) {
	s.RegisterService(&RentalServiceDesc, srv)
}

func RegisterNotificationServer(s grpc.ServiceRegistrar, srv NotificationServer) {
	s.RegisterService(&NotificationServiceDesc, srv)
}
