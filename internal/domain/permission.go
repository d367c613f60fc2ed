package domain

// Each workflow operation has its own check. A nil result means the caller may
// proceed; otherwise the returned error is of kind AUTHORIZATION.

func CanCreateRequest(c Caller) error {
	if c.Role != RoleTenant {
		return Forbiddenf("only tenants can create rental requests")
	}
	return nil
}

func CanReviewRequest(c Caller) error {
	if c.Role != RoleManager {
		return Forbiddenf("only managers can review rental requests")
	}
	return nil
}

// CanViewRequest allows the requesting tenant, the owner of the requested
// property, and any manager.
func CanViewRequest(c Caller, req *RentalRequest, propertyOwnerID int32) error {
	switch c.Role {
	case RoleManager:
		return nil
	case RoleTenant:
		if req.TenantID == c.UserID {
			return nil
		}
	case RoleOwner:
		if propertyOwnerID == c.UserID {
			return nil
		}
	}
	return Forbiddenf("you are not authorized to view this request")
}

func CanCreateAgreement(c Caller) error {
	if c.Role != RoleManager {
		return Forbiddenf("only managers can create rental agreements")
	}
	return nil
}

func CanEndAgreement(c Caller) error {
	if c.Role != RoleManager {
		return Forbiddenf("only managers can end rental agreements")
	}
	return nil
}

// CanViewPropertyRentals covers rental history and current-tenant lookups.
func CanViewPropertyRentals(c Caller, propertyOwnerID int32) error {
	if c.Role == RoleManager {
		return nil
	}
	if c.Role == RoleOwner && c.UserID == propertyOwnerID {
		return nil
	}
	return Forbiddenf("you can only view rentals for your own properties")
}

func CanViewOwnerRentals(c Caller) error {
	if c.Role != RoleOwner {
		return Forbiddenf("only owners can view their active rentals")
	}
	return nil
}

func CanListAllRentals(c Caller) error {
	if c.Role != RoleManager {
		return Forbiddenf("only managers can view all rentals")
	}
	return nil
}

func CanViewActiveRental(c Caller) error {
	if c.Role != RoleTenant {
		return Forbiddenf("only tenants can view their active rental")
	}
	return nil
}
