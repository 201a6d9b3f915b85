package lifecycle

import (
	"fmt"

	"github.com/dimitrije/maintenance-api/internal/models"
)

type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindForbidden         Kind = "FORBIDDEN"
	KindConflict          Kind = "CONFLICT"
	KindInvalidReference  Kind = "INVALID_REFERENCE"
	KindEquipmentTerminal Kind = "EQUIPMENT_TERMINAL"
)

// Error is the typed failure returned by every lifecycle rule. Stage and
// EquipmentStatus carry the state that blocked the action, when known.
type Error struct {
	Kind            Kind
	Message         string
	Stage           models.Stage
	EquipmentStatus models.EquipmentStatus
}

func (e *Error) Error() string {
	switch {
	case e.Stage != "":
		return fmt.Sprintf("%s (stage %s)", e.Message, e.Stage)
	case e.EquipmentStatus != "":
		return fmt.Sprintf("%s (equipment status %s)", e.Message, e.EquipmentStatus)
	}
	return e.Message
}

// Is matches on Kind so callers can use errors.Is(err, lifecycle.ErrConflict).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition, Message: "invalid stage transition"}
	ErrForbidden         = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrConflict          = &Error{Kind: KindConflict, Message: "conflict"}
	ErrInvalidReference  = &Error{Kind: KindInvalidReference, Message: "invalid reference"}
	ErrEquipmentTerminal = &Error{Kind: KindEquipmentTerminal, Message: "equipment is scrapped"}
)

func NotFound(what string) error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func InvalidReference(what string) error {
	return &Error{Kind: KindInvalidReference, Message: what + " does not belong to this company"}
}

func InvalidTransition(msg string, current models.Stage) error {
	return &Error{Kind: KindInvalidTransition, Message: msg, Stage: current}
}

func EquipmentTerminal(status models.EquipmentStatus) error {
	return &Error{Kind: KindEquipmentTerminal, Message: "equipment is scrapped and cannot change", EquipmentStatus: status}
}
