package lifecycle

import (
	"github.com/dimitrije/maintenance-api/internal/models"
	"github.com/google/uuid"
)

// Actor is the caller of a command, resolved once per request from the
// verified token.
type Actor struct {
	UserID    uuid.UUID
	CompanyID uuid.UUID
	Role      string
}

// CanMaintain reports whether the actor may perform maintenance actions.
func (a Actor) CanMaintain() bool {
	switch a.Role {
	case models.RoleAdmin, models.RoleMaintenanceManager, models.RoleTechnician:
		return true
	}
	return false
}

// CanManage reports whether the actor may assign work and manage teams.
func (a Actor) CanManage() bool {
	return a.Role == models.RoleAdmin || a.Role == models.RoleMaintenanceManager
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// IsAssignableRole reports whether a user with the role can be a request's technician.
func IsAssignableRole(role string) bool {
	return role == models.RoleTechnician || role == models.RoleMaintenanceManager
}
