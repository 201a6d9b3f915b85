package handlers

import (
	"time"

	"github.com/dimitrije/maintenance-api/internal/lifecycle"
	"github.com/dimitrije/maintenance-api/internal/services"
	"github.com/google/uuid"
)

var handlerNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestJWTService() *services.JWTService {
	return services.NewJWTService("test-secret-key", 15*time.Minute)
}

func newTestActor(role string) lifecycle.Actor {
	return lifecycle.Actor{UserID: uuid.New(), CompanyID: uuid.New(), Role: role}
}
