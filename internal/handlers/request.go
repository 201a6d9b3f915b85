package handlers

import (
	"github.com/dimitrije/maintenance-api/internal/lifecycle"
	"github.com/dimitrije/maintenance-api/internal/models"
	"github.com/dimitrije/maintenance-api/internal/services"
	"github.com/dimitrije/maintenance-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type RequestHandler struct {
	requestService RequestServiceInterface
	logger         *zap.Logger
}

func NewRequestHandler(requestService RequestServiceInterface, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{requestService: requestService, logger: logger}
}

func (h *RequestHandler) Create(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req dto.CreateRequestRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Subject == "" {
		c.BadRequest("subject is required")
		return
	}

	input := services.CreateRequestInput{
		Subject:       req.Subject,
		Description:   req.Description,
		RequestType:   models.RequestType(req.RequestType),
		Priority:      models.Priority(req.Priority),
		ScheduledDate: req.ScheduledDate,
		EquipmentID:   req.EquipmentID,
		TeamID:        req.TeamID,
		TechnicianID:  req.TechnicianID,
	}
	if input.RequestType != "" && !input.RequestType.Valid() {
		c.BadRequest("invalid request type")
		return
	}
	if input.Priority != "" && !input.Priority.Valid() {
		c.BadRequest("invalid priority")
		return
	}

	created, err := h.requestService.Create(c.Request.Context(), actor, input)
	if err != nil {
		respondError(c, h.logger, err, "failed to create request")
		return
	}

	_ = c.JSON(201, toRequestResponse(created))
}

func (h *RequestHandler) List(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var filter services.RequestFilter
	if stage := c.QueryParam("stage"); stage != "" {
		filter.Stage = models.Stage(stage)
		if !filter.Stage.Valid() {
			c.BadRequest("invalid stage")
			return
		}
	}
	for param, target := range map[string]**uuid.UUID{
		"equipment_id":  &filter.EquipmentID,
		"technician_id": &filter.TechnicianID,
		"team_id":       &filter.TeamID,
	} {
		raw := c.QueryParam(param)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			c.BadRequest("invalid " + param)
			return
		}
		*target = &id
	}

	requests, err := h.requestService.List(c.Request.Context(), actor, filter)
	if err != nil {
		respondError(c, h.logger, err, "failed to list requests")
		return
	}

	response := make([]dto.RequestResponse, len(requests))
	for i := range requests {
		response[i] = toRequestResponse(&requests[i])
	}

	_ = c.JSON(200, response)
}

func (h *RequestHandler) Get(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "request")
	if !ok {
		return
	}

	req, err := h.requestService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, h.logger, err, "failed to get request")
		return
	}

	_ = c.JSON(200, toRequestResponse(req))
}

func (h *RequestHandler) Transition(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "request")
	if !ok {
		return
	}

	var req dto.TransitionRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	target := models.Stage(req.Stage)
	if !target.Valid() {
		c.BadRequest("invalid stage")
		return
	}
	if req.Duration != nil && *req.Duration < 0 {
		c.BadRequest("duration cannot be negative")
		return
	}

	updated, err := h.requestService.Transition(c.Request.Context(), actor, id, target, lifecycle.TransitionOptions{
		Duration: req.Duration,
		Notes:    req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, err, "failed to change stage")
		return
	}

	_ = c.JSON(200, toRequestResponse(updated))
}

func (h *RequestHandler) Assign(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "request")
	if !ok {
		return
	}

	var req dto.AssignRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.TechnicianID == uuid.Nil {
		c.BadRequest("technician_id is required")
		return
	}

	updated, err := h.requestService.AssignTechnician(c.Request.Context(), actor, id, req.TechnicianID)
	if err != nil {
		respondError(c, h.logger, err, "failed to assign technician")
		return
	}

	_ = c.JSON(200, toRequestResponse(updated))
}

func (h *RequestHandler) SelfAssign(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "request")
	if !ok {
		return
	}

	updated, err := h.requestService.SelfAssign(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, h.logger, err, "failed to assign request")
		return
	}

	_ = c.JSON(200, toRequestResponse(updated))
}

func (h *RequestHandler) UpdateSchedule(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "request")
	if !ok {
		return
	}

	var req dto.ScheduleRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	updated, err := h.requestService.UpdateSchedule(c.Request.Context(), actor, id, req.ScheduledDate)
	if err != nil {
		respondError(c, h.logger, err, "failed to update schedule")
		return
	}

	_ = c.JSON(200, toRequestResponse(updated))
}

func (h *RequestHandler) Update(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "request")
	if !ok {
		return
	}

	var req dto.UpdateRequestRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	input := services.DetailsInput{
		Subject:     req.Subject,
		Description: req.Description,
		Notes:       req.Notes,
	}
	if req.Subject != nil && *req.Subject == "" {
		c.BadRequest("subject cannot be empty")
		return
	}
	if req.RequestType != nil {
		rt := models.RequestType(*req.RequestType)
		if !rt.Valid() {
			c.BadRequest("invalid request type")
			return
		}
		input.RequestType = &rt
	}
	if req.Priority != nil {
		p := models.Priority(*req.Priority)
		if !p.Valid() {
			c.BadRequest("invalid priority")
			return
		}
		input.Priority = &p
	}

	updated, err := h.requestService.UpdateDetails(c.Request.Context(), actor, id, input)
	if err != nil {
		respondError(c, h.logger, err, "failed to update request")
		return
	}

	_ = c.JSON(200, toRequestResponse(updated))
}

func (h *RequestHandler) Delete(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "request")
	if !ok {
		return
	}

	if err := h.requestService.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, h.logger, err, "failed to delete request")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "request deleted"})
}

func toRequestResponse(r *models.MaintenanceRequest) dto.RequestResponse {
	return dto.RequestResponse{
		ID:             r.ID,
		Subject:        r.Subject,
		Description:    r.Description,
		Notes:          r.Notes,
		RequestType:    string(r.RequestType),
		Priority:       string(r.Priority),
		Stage:          string(r.Stage),
		ScheduledDate:  formatTimePtr(r.ScheduledDate),
		StartDate:      formatTimePtr(r.StartDate),
		CompletionDate: formatTimePtr(r.CompletionDate),
		Duration:       r.Duration,
		IsOverdue:      r.IsOverdue,
		EquipmentID:    r.EquipmentID,
		CategoryID:     r.CategoryID,
		TeamID:         r.TeamID,
		TechnicianID:   r.TechnicianID,
		CreatedByID:    r.CreatedByID,
		CreatedAt:      formatTime(r.CreatedAt),
		UpdatedAt:      formatTime(r.UpdatedAt),
	}
}
