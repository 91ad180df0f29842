package enums

import "fmt"

// Role represents an access-level tag. The set is flat: no role inherits
// another's permissions.
type Role string

const (
	RoleSuperAdmin        Role = "SuperAdmin"
	RoleAdministrator     Role = "Administrator"
	RoleDepartmentManager Role = "Department Manager"
	RoleWarehouseManager  Role = "Warehouse Manager"
	RoleSupplier          Role = "Supplier"
	RoleStaff             Role = "Staff"
)

var validRoles = []Role{
	RoleSuperAdmin,
	RoleAdministrator,
	RoleDepartmentManager,
	RoleWarehouseManager,
	RoleSupplier,
	RoleStaff,
}

// Roles returns the closed role catalog in seeding order.
func Roles() []Role {
	return append([]Role(nil), validRoles...)
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
