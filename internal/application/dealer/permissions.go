package dealer

import "github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/user"

// Operation names a role-gated mutation. The table below is the single place
// permissions are declared; every service method consults it once at the top
// instead of re-deriving ad-hoc role checks.
type Operation string

const (
	OpCreateCar      Operation = "car.create"
	OpChangeCarState Operation = "car.change_state"
	OpDeleteCar      Operation = "car.delete"
	OpCreateOrder    Operation = "order.create"
	OpCompleteOrder  Operation = "order.complete"
	OpCancelOrder    Operation = "order.cancel"
	OpSetInProgress  Operation = "order.set_in_progress"
	OpChangeUserRole Operation = "user.change_role"
	OpDeleteUser     Operation = "user.delete"
	OpListUsers      Operation = "user.list"
)

var permissions = map[Operation]map[user.Role]bool{
	OpCreateCar: {
		user.RoleAdmin:   true,
		user.RoleManager: true,
	},
	OpChangeCarState: {
		user.RoleAdmin: true,
	},
	OpDeleteCar: {
		user.RoleAdmin: true,
	},
	// Order creation is additionally constrained in CreateSalesOrder: a
	// non-admin caller may only book for a CLIENT customer.
	OpCreateOrder: {
		user.RoleAdmin:   true,
		user.RoleManager: true,
		user.RoleClient:  true,
	},
	OpCompleteOrder: {
		user.RoleAdmin:   true,
		user.RoleManager: true,
	},
	// Cancelling is self-service: any authenticated role may cancel. The
	// adapter restricts clients to their own orders via visibility rules.
	OpCancelOrder: {
		user.RoleAdmin:   true,
		user.RoleManager: true,
		user.RoleClient:  true,
	},
	OpSetInProgress: {
		user.RoleAdmin:   true,
		user.RoleManager: true,
	},
	OpChangeUserRole: {
		user.RoleAdmin: true,
	},
	OpDeleteUser: {
		user.RoleAdmin: true,
	},
	// Managers may list users, but see a filtered view (no other staff).
	OpListUsers: {
		user.RoleAdmin:   true,
		user.RoleManager: true,
	},
}

// Allowed reports whether the role may perform the operation.
func Allowed(op Operation, role user.Role) bool {
	return permissions[op][role]
}

func requirePermission(op Operation, role user.Role) error {
	if !Allowed(op, role) {
		return &PermissionError{Op: op, Role: role}
	}
	return nil
}
