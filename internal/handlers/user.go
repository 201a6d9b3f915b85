package handlers

import (
	"github.com/dimitrije/maintenance-api/internal/models"
	"github.com/dimitrije/maintenance-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService UserServiceInterface
	logger      *zap.Logger
}

func NewUserHandler(userService UserServiceInterface, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

func (h *UserHandler) GetMe(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), actor, actor.UserID)
	if err != nil {
		respondError(c, h.logger, err, "failed to get user")
		return
	}

	_ = c.JSON(200, toUserResponse(user))
}

func (h *UserHandler) ListTechnicians(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	users, err := h.userService.ListTechnicians(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.logger, err, "failed to list technicians")
		return
	}

	response := make([]dto.UserResponse, len(users))
	for i := range users {
		response[i] = toUserResponse(&users[i])
	}

	_ = c.JSON(200, response)
}

func toUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.IsActive,
	}
}
