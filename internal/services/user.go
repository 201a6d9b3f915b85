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

var ErrInvalidRole = errors.New("invalid role")

type UserService struct {
	db *database.DB
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetByID(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE id = $1 AND company_id = $2
	`, id, actor.CompanyID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lifecycle.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// GetContact loads a user for notification delivery. It is not tenant scoped;
// callers compare CompanyID with the event.
func (s *UserService) GetContact(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := loadUser(ctx, s.db.Pool, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, lifecycle.NotFound("user")
	}
	return user, nil
}

// ListTechnicians returns active users that can be assigned maintenance work.
func (s *UserService) ListTechnicians(ctx context.Context, actor lifecycle.Actor) ([]models.User, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE company_id = $1 AND is_active AND role IN ($2, $3)
		ORDER BY name
	`, actor.CompanyID, models.RoleTechnician, models.RoleMaintenanceManager)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// SetRole changes the company role of the user with the given email.
func (s *UserService) SetRole(ctx context.Context, email, role string) (*models.User, error) {
	if !models.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		UPDATE users SET role = $1, updated_at = NOW()
		WHERE email = $2
		RETURNING `+userColumns,
		role, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lifecycle.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}
	return user, nil
}
