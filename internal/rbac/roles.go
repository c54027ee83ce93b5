package rbac

// Role names. Keep these stable; they are part of auth/RBAC contracts.
const (
	RoleAdmin       = "admin"
	RoleOperator    = "operator"
	RoleAnalyst     = "analyst"
	RoleSuperAdmin  = "super_admin"
	RoleIntegration = "integration" // hidden role for service-to-service callers
)

func IsSuperAdmin(role string) bool { return role == RoleSuperAdmin }

func IsHiddenRole(role string) bool { return role == RoleIntegration }
