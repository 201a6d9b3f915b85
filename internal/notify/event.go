// Package notify delivers lifecycle events after their transaction commits.
// Delivery is best effort: nothing here can fail or slow down a command.
package notify

import (
	"context"
	"time"

	"github.com/dimitrije/maintenance-api/internal/models"
	"github.com/google/uuid"
)

type EventType string

const (
	EventRequestCreated    EventType = "request_created"
	EventRequestAssigned   EventType = "request_assigned"
	EventStageChanged      EventType = "stage_changed"
	EventEquipmentScrapped EventType = "equipment_scrapped"
)

// Event references entities by id only; consumers load what they need.
type Event struct {
	Type         EventType    `json:"type"`
	CompanyID    uuid.UUID    `json:"company_id"`
	RequestID    *uuid.UUID   `json:"request_id,omitempty"`
	EquipmentID  *uuid.UUID   `json:"equipment_id,omitempty"`
	ActorID      uuid.UUID    `json:"actor_id"`
	RecipientIDs []uuid.UUID  `json:"recipient_ids,omitempty"`
	Stage        models.Stage `json:"stage,omitempty"`
	OccurredAt   time.Time    `json:"occurred_at"`
}

// Dispatcher accepts committed events. Notify must never block.
type Dispatcher interface {
	Notify(evt Event)
}

type Handler interface {
	Handle(ctx context.Context, evt Event) error
}

type HandlerFunc func(ctx context.Context, evt Event) error

func (f HandlerFunc) Handle(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}

type discard struct{}

func (discard) Notify(Event) {}

// Discard drops every event.
var Discard Dispatcher = discard{}
