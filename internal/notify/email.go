package notify

import (
	"context"
	"fmt"

	"github.com/dimitrije/maintenance-api/internal/models"
	"github.com/google/uuid"
)

type Directory interface {
	GetContact(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type Mailer interface {
	SendRequestEvent(to, eventType, stage, link string) error
}

// EmailHandler mails every recipient of an event except the actor.
type EmailHandler struct {
	users   Directory
	mailer  Mailer
	baseURL string
}

func NewEmailHandler(users Directory, mailer Mailer, baseURL string) *EmailHandler {
	return &EmailHandler{users: users, mailer: mailer, baseURL: baseURL}
}

func (h *EmailHandler) Handle(ctx context.Context, evt Event) error {
	link := h.baseURL
	if evt.RequestID != nil {
		link = fmt.Sprintf("%s/requests/%s", h.baseURL, evt.RequestID)
	} else if evt.EquipmentID != nil {
		link = fmt.Sprintf("%s/equipment/%s", h.baseURL, evt.EquipmentID)
	}

	seen := make(map[uuid.UUID]bool, len(evt.RecipientIDs))
	for _, id := range evt.RecipientIDs {
		if id == evt.ActorID || seen[id] {
			continue
		}
		seen[id] = true

		user, err := h.users.GetContact(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load recipient %s: %w", id, err)
		}
		if !user.IsActive || user.CompanyID != evt.CompanyID {
			continue
		}

		if err := h.mailer.SendRequestEvent(user.Email, string(evt.Type), string(evt.Stage), link); err != nil {
			return fmt.Errorf("failed to email %s: %w", user.Email, err)
		}
	}
	return nil
}
