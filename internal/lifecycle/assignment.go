package lifecycle

import (
	"github.com/dimitrije/maintenance-api/internal/models"
	"github.com/google/uuid"
)

// AssignmentInput holds the team and technician explicitly supplied by the caller.
type AssignmentInput struct {
	TeamID       *uuid.UUID
	TechnicianID *uuid.UUID
}

type Defaults struct {
	CategoryID   *uuid.UUID
	TeamID       *uuid.UUID
	TechnicianID *uuid.UUID
}

// ResolveDefaults fills category, team and technician from the linked
// equipment. Explicit input always wins over equipment defaults.
func ResolveDefaults(input AssignmentInput, eq *models.Equipment) Defaults {
	d := Defaults{
		TeamID:       input.TeamID,
		TechnicianID: input.TechnicianID,
	}
	if eq == nil {
		return d
	}

	d.CategoryID = eq.CategoryID
	if d.TeamID == nil {
		d.TeamID = eq.MaintenanceTeamID
	}
	if d.TechnicianID == nil {
		d.TechnicianID = eq.TechnicianID
	}
	return d
}

// ValidateReference checks that a foreign row exists and belongs to companyID.
// refCompanyID is nil when the row was not found.
func ValidateReference(companyID uuid.UUID, refCompanyID *uuid.UUID, what string) error {
	if refCompanyID == nil || *refCompanyID != companyID {
		return InvalidReference(what)
	}
	return nil
}

// ValidateTechnician enforces technician eligibility for a request: same
// company, active, assignable role, and membership of the request's team unless
// the actor is a manager.
func ValidateTechnician(req *models.MaintenanceRequest, technician *models.User, isTeamMember bool, actor Actor) error {
	if technician == nil || technician.CompanyID != req.CompanyID {
		return InvalidReference("technician")
	}
	if !technician.IsActive {
		return Forbidden("technician is not active")
	}
	if !IsAssignableRole(technician.Role) {
		return Forbidden("user cannot be assigned maintenance work")
	}
	if req.TeamID != nil && !isTeamMember && !actor.CanManage() {
		return Forbidden("technician is not a member of the request's team")
	}
	return nil
}

// ValidateAssign checks that the actor may assign a technician to req.
// Managers may overwrite an existing assignment.
func ValidateAssign(req *models.MaintenanceRequest, actor Actor) error {
	if !actor.CanManage() {
		return Forbidden("only admins and maintenance managers can assign technicians")
	}
	if req.Stage.IsTerminal() {
		return InvalidTransition("cannot assign a closed request", req.Stage)
	}
	return nil
}

// ValidateSelfAssign checks that the actor may claim req for themselves.
func ValidateSelfAssign(req *models.MaintenanceRequest, actor Actor) error {
	if !IsAssignableRole(actor.Role) {
		return Forbidden("only technicians can claim requests")
	}
	if req.Stage.IsTerminal() {
		return InvalidTransition("cannot claim a closed request", req.Stage)
	}
	if req.TechnicianID != nil {
		return Conflict("request is already assigned")
	}
	return nil
}

// ValidateClaimant checks that the acting user may take req for themselves.
// user is the acting account as currently stored, so a deactivation or role
// change applies even while an older token is still valid.
func ValidateClaimant(req *models.MaintenanceRequest, user *models.User, isTeamMember bool) error {
	if user == nil || user.CompanyID != req.CompanyID {
		return Forbidden("account is not part of this company")
	}
	self := Actor{UserID: user.ID, CompanyID: user.CompanyID, Role: user.Role}
	return ValidateTechnician(req, user, isTeamMember, self)
}
