package handlers

import (
	"github.com/dimitrije/maintenance-api/internal/models"
	"github.com/dimitrije/maintenance-api/internal/services"
	"github.com/dimitrije/maintenance-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type EquipmentHandler struct {
	equipmentService EquipmentServiceInterface
	logger           *zap.Logger
}

func NewEquipmentHandler(equipmentService EquipmentServiceInterface, logger *zap.Logger) *EquipmentHandler {
	return &EquipmentHandler{equipmentService: equipmentService, logger: logger}
}

func (h *EquipmentHandler) Create(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req dto.CreateEquipmentRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	eq, err := h.equipmentService.Create(c.Request.Context(), actor, services.CreateEquipmentInput{
		Name:              req.Name,
		SerialNumber:      req.SerialNumber,
		Location:          req.Location,
		HealthPercentage:  req.HealthPercentage,
		OwnerID:           req.OwnerID,
		TechnicianID:      req.TechnicianID,
		MaintenanceTeamID: req.MaintenanceTeamID,
		CategoryID:        req.CategoryID,
		WorkCenterID:      req.WorkCenterID,
	})
	if err != nil {
		respondError(c, h.logger, err, "failed to create equipment")
		return
	}

	_ = c.JSON(201, toEquipmentResponse(eq))
}

func (h *EquipmentHandler) List(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	items, err := h.equipmentService.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.logger, err, "failed to list equipment")
		return
	}

	response := make([]dto.EquipmentResponse, len(items))
	for i := range items {
		response[i] = toEquipmentResponse(&items[i])
	}

	_ = c.JSON(200, response)
}

func (h *EquipmentHandler) Get(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "equipment")
	if !ok {
		return
	}

	eq, err := h.equipmentService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, h.logger, err, "failed to get equipment")
		return
	}

	_ = c.JSON(200, toEquipmentResponse(eq))
}

func (h *EquipmentHandler) UpdateStatus(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "equipment")
	if !ok {
		return
	}

	var req dto.UpdateEquipmentStatusRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	status := models.EquipmentStatus(req.Status)
	if !status.Valid() {
		c.BadRequest("invalid status")
		return
	}

	eq, err := h.equipmentService.UpdateStatus(c.Request.Context(), actor, id, status)
	if err != nil {
		respondError(c, h.logger, err, "failed to update equipment status")
		return
	}

	_ = c.JSON(200, toEquipmentResponse(eq))
}

func (h *EquipmentHandler) UpdateHealth(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "equipment")
	if !ok {
		return
	}

	var req dto.UpdateEquipmentHealthRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.HealthPercentage == nil {
		c.BadRequest("health_percentage is required")
		return
	}

	eq, err := h.equipmentService.UpdateHealth(c.Request.Context(), actor, id, *req.HealthPercentage)
	if err != nil {
		respondError(c, h.logger, err, "failed to update equipment health")
		return
	}

	_ = c.JSON(200, toEquipmentResponse(eq))
}

func toEquipmentResponse(e *models.Equipment) dto.EquipmentResponse {
	return dto.EquipmentResponse{
		ID:                e.ID,
		Name:              e.Name,
		SerialNumber:      e.SerialNumber,
		Location:          e.Location,
		Status:            string(e.Status),
		HealthPercentage:  e.HealthPercentage,
		ScrapDate:         formatTimePtr(e.ScrapDate),
		OwnerID:           e.OwnerID,
		TechnicianID:      e.TechnicianID,
		MaintenanceTeamID: e.MaintenanceTeamID,
		CategoryID:        e.CategoryID,
		WorkCenterID:      e.WorkCenterID,
		CreatedAt:         formatTime(e.CreatedAt),
		UpdatedAt:         formatTime(e.UpdatedAt),
	}
}
