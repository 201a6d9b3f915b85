package models

import (
	"time"

	"github.com/google/uuid"
)

// Company-level user roles
const (
	RoleAdmin              = "ADMIN"
	RoleMaintenanceManager = "MAINTENANCE_MANAGER"
	RoleTechnician         = "TECHNICIAN"
	RoleEmployee           = "EMPLOYEE"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleMaintenanceManager, RoleTechnician, RoleEmployee:
		return true
	}
	return false
}
