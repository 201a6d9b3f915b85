package handlers

import (
	"github.com/dimitrije/maintenance-api/internal/models"
	"github.com/dimitrije/maintenance-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type TeamHandler struct {
	teamService TeamServiceInterface
	logger      *zap.Logger
}

func NewTeamHandler(teamService TeamServiceInterface, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{teamService: teamService, logger: logger}
}

func (h *TeamHandler) Create(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req dto.CreateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	team, err := h.teamService.Create(c.Request.Context(), actor, req.Name)
	if err != nil {
		respondError(c, h.logger, err, "failed to create team")
		return
	}

	_ = c.JSON(201, toTeamResponse(team))
}

func (h *TeamHandler) List(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	teams, err := h.teamService.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.logger, err, "failed to get teams")
		return
	}

	response := make([]dto.TeamResponse, len(teams))
	for i := range teams {
		response[i] = toTeamResponse(&teams[i])
	}

	_ = c.JSON(200, response)
}

func (h *TeamHandler) Get(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	teamID, ok := parseID(c, "teamId", "team")
	if !ok {
		return
	}

	team, err := h.teamService.GetByID(c.Request.Context(), actor, teamID)
	if err != nil {
		respondError(c, h.logger, err, "failed to get team")
		return
	}

	_ = c.JSON(200, toTeamResponse(team))
}

func (h *TeamHandler) GetMembers(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	teamID, ok := parseID(c, "teamId", "team")
	if !ok {
		return
	}

	members, err := h.teamService.GetMembers(c.Request.Context(), actor, teamID)
	if err != nil {
		respondError(c, h.logger, err, "failed to get members")
		return
	}

	response := make([]dto.TeamMemberResponse, len(members))
	for i := range members {
		response[i] = toTeamMemberResponse(&members[i])
	}

	_ = c.JSON(200, response)
}

func (h *TeamHandler) AddMember(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	teamID, ok := parseID(c, "teamId", "team")
	if !ok {
		return
	}

	var req dto.AddTeamMemberRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.UserID == uuid.Nil {
		c.BadRequest("user_id is required")
		return
	}

	member, err := h.teamService.AddMember(c.Request.Context(), actor, teamID, req.UserID, req.IsLead)
	if err != nil {
		respondError(c, h.logger, err, "failed to add member")
		return
	}

	_ = c.JSON(201, toTeamMemberResponse(member))
}

func (h *TeamHandler) RemoveMember(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	teamID, ok := parseID(c, "teamId", "team")
	if !ok {
		return
	}
	userID, ok := parseID(c, "userId", "user")
	if !ok {
		return
	}

	if err := h.teamService.RemoveMember(c.Request.Context(), actor, teamID, userID); err != nil {
		respondError(c, h.logger, err, "failed to remove member")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "member removed"})
}

func toTeamResponse(t *models.MaintenanceTeam) dto.TeamResponse {
	return dto.TeamResponse{
		ID:        t.ID,
		Name:      t.Name,
		CreatedAt: formatTime(t.CreatedAt),
	}
}

func toTeamMemberResponse(m *models.TeamMember) dto.TeamMemberResponse {
	resp := dto.TeamMemberResponse{
		UserID:   m.UserID,
		IsLead:   m.IsLead,
		JoinedAt: formatTime(m.JoinedAt),
	}
	if m.User != nil {
		u := toUserResponse(m.User)
		resp.User = &u
	}
	return resp
}
