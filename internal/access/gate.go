// Package access holds the role × resource × operation rule table that every
// service consults before touching data.
package access

import (
	"fmt"

	"github.com/plancare/plansale-backend/internal/apperrors"
	"github.com/plancare/plansale-backend/internal/models"
)

// Resource names a guarded entity type
type Resource string

const (
	ResourcePartner            Resource = "partner"
	ResourceStore              Resource = "store"
	ResourcePrincipal          Resource = "user profile"
	ResourceItem               Resource = "item"
	ResourcePlan               Resource = "plan"
	ResourcePlanSale           Resource = "plan sale"
	ResourceManagerAssignment  Resource = "manager assignment"
	ResourceRetailerAssignment Resource = "retailer assignment"
	ResourcePartnerItem        Resource = "partner item"
	ResourcePartnerPlan        Resource = "partner plan"
)

// Operation is one of the four CRUD verbs
type Operation string

const (
	OpCreate Operation = "create"
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Decision is the outcome of a rule lookup
type Decision int

const (
	// Deny rejects the request outright
	Deny Decision = iota
	// Allow permits the request with no further checks
	Allow
	// Scoped permits the request subject to the caller narrowing reads to the
	// principal's resolved scope or checking the target object on writes
	Scoped
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Scoped:
		return "scoped"
	default:
		return "deny"
	}
}

// rule holds the decision for each role
type rule struct {
	admin, manager, retailer Decision
}

func (r rule) forRole(role models.Role) (Decision, bool) {
	switch role {
	case models.RoleAdmin:
		return r.admin, true
	case models.RoleManager:
		return r.manager, true
	case models.RoleRetailer:
		return r.retailer, true
	}
	return Deny, false
}

var (
	adminOnly    = rule{admin: Allow}
	everyone     = rule{admin: Allow, manager: Allow, retailer: Allow}
	scopedReader = rule{admin: Allow, manager: Scoped, retailer: Scoped}
)

// defaultRules is the authorization table
var defaultRules = map[Resource]map[Operation]rule{
	ResourcePartner: {
		OpCreate: adminOnly,
		OpRead:   everyone,
		OpUpdate: adminOnly,
		OpDelete: adminOnly,
	},
	ResourceStore: {
		OpCreate: adminOnly,
		OpRead:   scopedReader,
		OpUpdate: adminOnly,
		OpDelete: adminOnly,
	},
	ResourcePrincipal: {
		OpCreate: {admin: Allow, manager: Scoped},
		OpRead:   scopedReader,
		OpUpdate: {admin: Allow, manager: Scoped},
		OpDelete: adminOnly,
	},
	ResourceItem: {
		OpCreate: adminOnly,
		OpRead:   scopedReader,
		OpUpdate: adminOnly,
		OpDelete: adminOnly,
	},
	ResourcePlan: {
		OpCreate: {admin: Allow, manager: Allow},
		OpRead:   scopedReader,
		OpUpdate: {admin: Allow, manager: Scoped},
		OpDelete: adminOnly,
	},
	ResourcePlanSale: {
		OpCreate: everyone,
		OpRead:   scopedReader,
		OpUpdate: {admin: Allow, retailer: Scoped},
		OpDelete: {admin: Allow, retailer: Scoped},
	},
	ResourceManagerAssignment: {
		OpCreate: adminOnly,
		OpRead:   {admin: Allow, manager: Scoped},
		OpUpdate: adminOnly,
		OpDelete: adminOnly,
	},
	ResourceRetailerAssignment: {
		OpCreate: {admin: Allow, manager: Scoped},
		OpRead:   scopedReader,
		OpUpdate: {admin: Allow, manager: Scoped},
		OpDelete: {admin: Allow, manager: Scoped},
	},
	ResourcePartnerItem: {
		OpCreate: adminOnly,
		OpRead:   everyone,
		OpUpdate: adminOnly,
		OpDelete: adminOnly,
	},
	ResourcePartnerPlan: {
		OpCreate: adminOnly,
		OpRead:   everyone,
		OpUpdate: adminOnly,
		OpDelete: adminOnly,
	},
}

// Gate evaluates the authorization table
type Gate struct {
	rules map[Resource]map[Operation]rule
}

// NewGate creates a Gate over the standard rule table
func NewGate() *Gate {
	return &Gate{rules: defaultRules}
}

// Decide looks up the decision for a principal. Unknown roles, resources and
// operations are denied.
func (g *Gate) Decide(p models.Principal, res Resource, op Operation) Decision {
	ops, ok := g.rules[res]
	if !ok {
		return Deny
	}
	r, ok := ops[op]
	if !ok {
		return Deny
	}
	d, _ := r.forRole(p.Role)
	return d
}

// Authorize returns the decision for a permitted request, or a Forbidden
// error when the table denies it
func (g *Gate) Authorize(p models.Principal, res Resource, op Operation) (Decision, error) {
	d := g.Decide(p, res, op)
	if d == Deny {
		return Deny, Denied(op, res)
	}
	return d, nil
}

// Denied builds the Forbidden error for an operation on a resource
func Denied(op Operation, res Resource) error {
	return apperrors.Forbidden(fmt.Sprintf("You do not have permission to %s this %s.", op, res))
}
