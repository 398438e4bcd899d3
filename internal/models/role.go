package models

import "fmt"

// Role is the closed set of principal roles
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleRetailer Role = "retailer"
)

// Roles lists every valid role
var Roles = []interface{}{RoleAdmin, RoleManager, RoleRetailer}

// ParseRole converts a raw string into a Role, rejecting unknown values
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleManager, RoleRetailer:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string {
	return string(r)
}
