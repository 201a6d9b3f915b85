package handlers

import (
	"fmt"

	"github.com/dimitrije/maintenance-api/internal/sse"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type SSEHandler struct {
	hub              SSEHubInterface
	equipmentService EquipmentServiceInterface
	logger           *zap.Logger
}

func NewSSEHandler(hub SSEHubInterface, equipmentService EquipmentServiceInterface, logger *zap.Logger) *SSEHandler {
	return &SSEHandler{
		hub:              hub,
		equipmentService: equipmentService,
		logger:           logger,
	}
}

// Connect streams every lifecycle event of the caller's company until the
// client disconnects.
func (h *SSEHandler) Connect(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	sseCtx := c.SSE()

	clientID := uuid.New().String()
	client := &sse.Client{
		ID:        clientID,
		UserID:    actor.UserID,
		CompanyID: actor.CompanyID,
		Send:      make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := sseCtx.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": clientID,
	}, "system", ""); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		<-c.Request.Context().Done()
		close(done)
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// Watch narrows a connected client to events of the given equipment.
func (h *SSEHandler) Watch(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	clientID := c.Param("clientId")
	if clientID == "" {
		c.BadRequest("client_id is required")
		return
	}

	equipmentID, ok := parseID(c, "equipmentId", "equipment")
	if !ok {
		return
	}

	if _, err := h.equipmentService.GetByID(c.Request.Context(), actor, equipmentID); err != nil {
		respondError(c, h.logger, err, "failed to get equipment")
		return
	}

	if !h.hub.WatchEquipment(clientID, actor.UserID, equipmentID) {
		c.NotFound("client not connected")
		return
	}

	_ = c.JSON(200, map[string]string{
		"message": fmt.Sprintf("watching equipment %s", equipmentID),
	})
}

func (h *SSEHandler) Unwatch(c *drift.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	clientID := c.Param("clientId")
	if clientID == "" {
		c.BadRequest("client_id is required")
		return
	}

	equipmentID, ok := parseID(c, "equipmentId", "equipment")
	if !ok {
		return
	}

	h.hub.UnwatchEquipment(clientID, actor.UserID, equipmentID)

	_ = c.JSON(200, map[string]string{
		"message": fmt.Sprintf("stopped watching equipment %s", equipmentID),
	})
}
