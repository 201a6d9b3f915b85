package integration

import (
	"context"
	"testing"

	"github.com/dimitrije/maintenance-api/internal/lifecycle"
	"github.com/dimitrije/maintenance-api/internal/models"
	"github.com/dimitrije/maintenance-api/internal/services"
	"github.com/dimitrije/maintenance-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEquipmentService_Integration_StatusBlockedByOpenRequests(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewEquipmentService(tdb.DB, lifecycle.NewMachine(nil), nil, zap.NewNop())
	ctx := context.Background()

	company := fixtures.CreateCompany(t)
	admin := fixtures.CreateUser(t, company, testutil.WithRole(models.RoleAdmin))
	eq := fixtures.CreateEquipment(t, company)
	req := fixtures.CreateRequest(t, admin, testutil.ForEquipment(eq))
	actor := actorOf(admin)

	_, err := svc.UpdateStatus(ctx, actor, eq.ID, models.EquipmentScrapped)
	assert.ErrorIs(t, err, lifecycle.ErrConflict)

	err = newRequestService(tdb).Delete(ctx, actor, req.ID)
	require.NoError(t, err)

	scrapped, err := svc.UpdateStatus(ctx, actor, eq.ID, models.EquipmentScrapped)
	require.NoError(t, err)
	assert.Equal(t, models.EquipmentScrapped, scrapped.Status)
	assert.NotNil(t, scrapped.ScrapDate)

	_, err = svc.UpdateStatus(ctx, actor, eq.ID, models.EquipmentActive)
	assert.ErrorIs(t, err, lifecycle.ErrEquipmentTerminal)
}

func TestEquipmentService_Integration_GetOtherCompany(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewEquipmentService(tdb.DB, lifecycle.NewMachine(nil), nil, zap.NewNop())

	company := fixtures.CreateCompany(t)
	other := fixtures.CreateCompany(t)
	tech := fixtures.CreateUser(t, company, testutil.WithRole(models.RoleTechnician))
	foreign := fixtures.CreateEquipment(t, other)

	_, err := svc.GetByID(context.Background(), actorOf(tech), foreign.ID)

	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}
