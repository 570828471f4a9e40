package auth

import (
	"asset-backend/internal/apperrors"
	"asset-backend/internal/models"
)

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   string
	Role models.UserRole
}

// Capability is one privileged operation. The set is closed: every role
// check in the system goes through Authorize against this table, never
// through ad hoc role comparisons.
type Capability string

const (
	CapDecideWorkflow     Capability = "workflow:decide" // approve or reject
	CapRequestDisposal    Capability = "workflow:request_disposal"
	CapRequestMaintenance Capability = "workflow:request_maintenance"
	CapManageAssets       Capability = "asset:manage" // create, update, delete, assign
	CapManageUsers        Capability = "user:manage"
	CapManageCatalog      Capability = "catalog:manage" // categories, locations
	CapViewReports        Capability = "report:view"
)

var capabilityRoles = map[Capability][]models.UserRole{
	CapDecideWorkflow:     {models.RoleAdmin, models.RoleManager},
	CapRequestDisposal:    {models.RoleAdmin, models.RoleManager},
	CapRequestMaintenance: {models.RoleAdmin, models.RoleManager},
	CapManageAssets:       {models.RoleAdmin, models.RoleManager},
	CapManageUsers:        {models.RoleAdmin},
	CapManageCatalog:      {models.RoleAdmin, models.RoleManager},
	CapViewReports:        {models.RoleAdmin, models.RoleManager},
}

// Authorize returns nil when the actor's role grants the capability, or an
// AuthorizationError otherwise.
func Authorize(actor Actor, cap Capability) error {
	for _, role := range capabilityRoles[cap] {
		if actor.Role == role {
			return nil
		}
	}
	return apperrors.Forbidden("role %s is not allowed to %s", actor.Role, cap)
}

// AuthorizeFunc matches Authorize; services take it as a dependency so tests
// can substitute their own policy.
type AuthorizeFunc func(actor Actor, cap Capability) error
