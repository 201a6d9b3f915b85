package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/maintenance-api/internal/database"
	"github.com/dimitrije/maintenance-api/internal/lifecycle"
	"github.com/dimitrije/maintenance-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TeamService struct {
	db *database.DB
}

func NewTeamService(db *database.DB) *TeamService {
	return &TeamService{db: db}
}

func (s *TeamService) Create(ctx context.Context, actor lifecycle.Actor, name string) (*models.MaintenanceTeam, error) {
	if !actor.CanManage() {
		return nil, lifecycle.Forbidden("only admins and maintenance managers can manage teams")
	}

	var team models.MaintenanceTeam
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO maintenance_teams (company_id, name)
		VALUES ($1, $2)
		RETURNING id, company_id, name, created_at, updated_at
	`, actor.CompanyID, name).Scan(&team.ID, &team.CompanyID, &team.Name, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return &team, nil
}

func (s *TeamService) GetByID(ctx context.Context, actor lifecycle.Actor, teamID uuid.UUID) (*models.MaintenanceTeam, error) {
	var team models.MaintenanceTeam
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, company_id, name, created_at, updated_at
		FROM maintenance_teams WHERE id = $1 AND company_id = $2
	`, teamID, actor.CompanyID).Scan(&team.ID, &team.CompanyID, &team.Name, &team.CreatedAt, &team.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lifecycle.NotFound("team")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	return &team, nil
}

func (s *TeamService) List(ctx context.Context, actor lifecycle.Actor) ([]models.MaintenanceTeam, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, company_id, name, created_at, updated_at
		FROM maintenance_teams
		WHERE company_id = $1
		ORDER BY name
	`, actor.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := []models.MaintenanceTeam{}
	for rows.Next() {
		var team models.MaintenanceTeam
		if err := rows.Scan(&team.ID, &team.CompanyID, &team.Name, &team.CreatedAt, &team.UpdatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (s *TeamService) GetMembers(ctx context.Context, actor lifecycle.Actor, teamID uuid.UUID) ([]models.TeamMember, error) {
	if _, err := s.GetByID(ctx, actor, teamID); err != nil {
		return nil, err
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT tm.team_id, tm.user_id, tm.is_lead, tm.joined_at,
		       u.id, u.company_id, u.email, u.name, u.role, u.is_active, u.created_at, u.updated_at
		FROM team_members tm
		JOIN users u ON tm.user_id = u.id
		WHERE tm.team_id = $1
		ORDER BY tm.joined_at
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	members := []models.TeamMember{}
	for rows.Next() {
		var member models.TeamMember
		var user models.User
		if err := rows.Scan(
			&member.TeamID, &member.UserID, &member.IsLead, &member.JoinedAt,
			&user.ID, &user.CompanyID, &user.Email, &user.Name, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		member.User = &user
		members = append(members, member)
	}
	return members, rows.Err()
}

// AddMember adds a user of the same company to the team. Adding an existing
// member is a Conflict.
func (s *TeamService) AddMember(ctx context.Context, actor lifecycle.Actor, teamID, userID uuid.UUID, isLead bool) (*models.TeamMember, error) {
	if !actor.CanManage() {
		return nil, lifecycle.Forbidden("only admins and maintenance managers can manage teams")
	}

	var member *models.TeamMember
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		teamCompany, err := companyOf(ctx, tx, tableTeams, teamID)
		if err != nil {
			return err
		}
		if teamCompany == nil || *teamCompany != actor.CompanyID {
			return lifecycle.NotFound("team")
		}

		user, err := loadUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if user == nil || user.CompanyID != actor.CompanyID {
			return lifecycle.InvalidReference("user")
		}

		var m models.TeamMember
		err = tx.QueryRow(ctx, `
			INSERT INTO team_members (team_id, user_id, is_lead)
			VALUES ($1, $2, $3)
			ON CONFLICT (team_id, user_id) DO NOTHING
			RETURNING team_id, user_id, is_lead, joined_at
		`, teamID, userID, isLead).Scan(&m.TeamID, &m.UserID, &m.IsLead, &m.JoinedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return lifecycle.Conflict("user is already a member of this team")
		}
		if err != nil {
			return fmt.Errorf("failed to add team member: %w", err)
		}
		m.User = user
		member = &m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// RemoveMember removes a user from the team unless they still hold an open
// request assigned within it.
func (s *TeamService) RemoveMember(ctx context.Context, actor lifecycle.Actor, teamID, userID uuid.UUID) error {
	if !actor.CanManage() {
		return lifecycle.Forbidden("only admins and maintenance managers can manage teams")
	}

	return s.db.WithTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM maintenance_teams WHERE id = $1 AND company_id = $2)
		`, teamID, actor.CompanyID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to load team: %w", err)
		}
		if !exists {
			return lifecycle.NotFound("team")
		}

		var open int
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM maintenance_requests
			WHERE team_id = $1 AND technician_id = $2 AND stage IN ('NEW', 'IN_PROGRESS')
		`, teamID, userID).Scan(&open)
		if err != nil {
			return fmt.Errorf("failed to count active assignments: %w", err)
		}
		if open > 0 {
			return lifecycle.Conflict("member has active requests in this team")
		}

		tag, err := tx.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`, teamID, userID)
		if err != nil {
			return fmt.Errorf("failed to remove team member: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return lifecycle.NotFound("team member")
		}
		return nil
	})
}
