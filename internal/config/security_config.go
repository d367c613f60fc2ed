package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// EndpointSecurityConfig maps gRPC full method names and REST route names to
// their required security level.
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Health - Public
	"/grpc.health.v1.Health/Check": SecurityPublic,
	"/grpc.health.v1.Health/Watch": SecurityPublic,
	"GET /healthz":                 SecurityPublic,

	// RentalRequestService - Access Protected
	"/rental.v1.RentalRequestService/CreateRequest":  SecurityAccess,
	"/rental.v1.RentalRequestService/ApproveRequest": SecurityAccess,
	"/rental.v1.RentalRequestService/RejectRequest":  SecurityAccess,
	"/rental.v1.RentalRequestService/GetRequest":     SecurityAccess,
	"/rental.v1.RentalRequestService/ListRequests":   SecurityAccess,

	// RentalService - Access Protected
	"/rental.v1.RentalService/CreateAgreement":        SecurityAccess,
	"/rental.v1.RentalService/EndAgreement":           SecurityAccess,
	"/rental.v1.RentalService/ListHistory":            SecurityAccess,
	"/rental.v1.RentalService/GetCurrentTenant":       SecurityAccess,
	"/rental.v1.RentalService/GetActiveRental":        SecurityAccess,
	"/rental.v1.RentalService/IsPropertyAvailable":    SecurityAccess,
	"/rental.v1.RentalService/ListOwnerActiveRentals": SecurityAccess,
	"/rental.v1.RentalService/ListActiveRentals":      SecurityAccess,

	// NotificationService - Access Protected
	"/rental.v1.NotificationService/GetNotifications": SecurityAccess,
	"/rental.v1.NotificationService/MarkAsRead":       SecurityAccess,
}

// GetSecurityLevel returns the security level for a given method
func GetSecurityLevel(method string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[method]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}
