package dto

import "github.com/google/uuid"

type CreateTeamRequest struct {
	Name string `json:"name"`
}

type AddTeamMemberRequest struct {
	UserID uuid.UUID `json:"user_id"`
	IsLead bool      `json:"is_lead"`
}

type TeamResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt string    `json:"created_at"`
}

type TeamMemberResponse struct {
	UserID   uuid.UUID     `json:"user_id"`
	IsLead   bool          `json:"is_lead"`
	JoinedAt string        `json:"joined_at"`
	User     *UserResponse `json:"user,omitempty"`
}
