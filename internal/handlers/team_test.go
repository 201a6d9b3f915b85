package handlers

import (
	"net/http"
	"testing"

	"github.com/dimitrije/maintenance-api/internal/lifecycle"
	"github.com/dimitrije/maintenance-api/internal/middleware"
	"github.com/dimitrije/maintenance-api/internal/models"
	"github.com/dimitrije/maintenance-api/internal/services"
	"github.com/dimitrije/maintenance-api/pkg/dto"
	"github.com/dimitrije/maintenance-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func setupTeamTest(t *testing.T) (*testutil.MockTeamService, *testutil.HTTPTestClient, *services.JWTService) {
	t.Helper()
	mockTeamService := new(testutil.MockTeamService)
	handler := NewTeamHandler(mockTeamService, zap.NewNop())
	jwtSvc := newTestJWTService()

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/teams", handler.Create)
	app.Get("/teams", handler.List)
	app.Get("/teams/:teamId", handler.Get)
	app.Get("/teams/:teamId/members", handler.GetMembers)
	app.Post("/teams/:teamId/members", handler.AddMember)
	app.Delete("/teams/:teamId/members/:userId", handler.RemoveMember)

	return mockTeamService, testutil.NewHTTPTestClient(t, app), jwtSvc
}

func TestTeamHandler_Create_Success(t *testing.T) {
	mockTeamService, client, jwtSvc := setupTeamTest(t)
	actor := newTestActor(models.RoleMaintenanceManager)
	team := &models.MaintenanceTeam{ID: uuid.New(), CompanyID: actor.CompanyID, Name: "Mechanics", CreatedAt: handlerNow}

	mockTeamService.On("Create", mock.Anything, actor, "Mechanics").Return(team, nil)

	rec := client.POST("/teams", dto.CreateTeamRequest{Name: "Mechanics"}, testutil.AuthHeaders(t, jwtSvc, actor))

	testutil.AssertStatus(t, rec, http.StatusCreated)

	var response dto.TeamResponse
	testutil.ParseJSON(t, rec, &response)
	assert.Equal(t, team.ID, response.ID)
	assert.Equal(t, "Mechanics", response.Name)

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Create_EmptyName(t *testing.T) {
	mockTeamService, client, jwtSvc := setupTeamTest(t)
	actor := newTestActor(models.RoleMaintenanceManager)

	rec := client.POST("/teams", dto.CreateTeamRequest{Name: ""}, testutil.AuthHeaders(t, jwtSvc, actor))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockTeamService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestTeamHandler_Create_Forbidden(t *testing.T) {
	mockTeamService, client, jwtSvc := setupTeamTest(t)
	actor := newTestActor(models.RoleTechnician)

	mockTeamService.On("Create", mock.Anything, actor, "Mechanics").
		Return(nil, lifecycle.Forbidden("only admins and maintenance managers can manage teams"))

	rec := client.POST("/teams", dto.CreateTeamRequest{Name: "Mechanics"}, testutil.AuthHeaders(t, jwtSvc, actor))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTeamHandler_GetMembers(t *testing.T) {
	mockTeamService, client, jwtSvc := setupTeamTest(t)
	actor := newTestActor(models.RoleTechnician)
	teamID := uuid.New()
	user := &models.User{ID: uuid.New(), CompanyID: actor.CompanyID, Email: "tech@example.com", Name: "Tech", Role: models.RoleTechnician, IsActive: true}
	members := []models.TeamMember{{TeamID: teamID, UserID: user.ID, IsLead: true, JoinedAt: handlerNow, User: user}}

	mockTeamService.On("GetMembers", mock.Anything, actor, teamID).Return(members, nil)

	rec := client.GET("/teams/"+teamID.String()+"/members", testutil.AuthHeaders(t, jwtSvc, actor))

	testutil.AssertStatus(t, rec, http.StatusOK)

	var response []dto.TeamMemberResponse
	testutil.ParseJSON(t, rec, &response)
	assert.Len(t, response, 1)
	assert.True(t, response[0].IsLead)
	assert.Equal(t, "tech@example.com", response[0].User.Email)
}

func TestTeamHandler_AddMember_Duplicate(t *testing.T) {
	mockTeamService, client, jwtSvc := setupTeamTest(t)
	actor := newTestActor(models.RoleMaintenanceManager)
	teamID := uuid.New()
	userID := uuid.New()

	mockTeamService.On("AddMember", mock.Anything, actor, teamID, userID, false).
		Return(nil, lifecycle.Conflict("user is already a member of this team"))

	rec := client.POST("/teams/"+teamID.String()+"/members", dto.AddTeamMemberRequest{UserID: userID}, testutil.AuthHeaders(t, jwtSvc, actor))

	testutil.AssertStatus(t, rec, http.StatusConflict)
	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_AddMember_MissingUser(t *testing.T) {
	_, client, jwtSvc := setupTeamTest(t)
	actor := newTestActor(models.RoleMaintenanceManager)

	rec := client.POST("/teams/"+uuid.New().String()+"/members", map[string]bool{"is_lead": true}, testutil.AuthHeaders(t, jwtSvc, actor))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTeamHandler_RemoveMember_ActiveAssignment(t *testing.T) {
	mockTeamService, client, jwtSvc := setupTeamTest(t)
	actor := newTestActor(models.RoleMaintenanceManager)
	teamID := uuid.New()
	userID := uuid.New()

	mockTeamService.On("RemoveMember", mock.Anything, actor, teamID, userID).
		Return(lifecycle.Conflict("member still has open requests in this team"))

	rec := client.DELETE("/teams/"+teamID.String()+"/members/"+userID.String(), testutil.AuthHeaders(t, jwtSvc, actor))

	testutil.AssertStatus(t, rec, http.StatusConflict)
}

func TestTeamHandler_RemoveMember_Success(t *testing.T) {
	mockTeamService, client, jwtSvc := setupTeamTest(t)
	actor := newTestActor(models.RoleMaintenanceManager)
	teamID := uuid.New()
	userID := uuid.New()

	mockTeamService.On("RemoveMember", mock.Anything, actor, teamID, userID).Return(nil)

	rec := client.DELETE("/teams/"+teamID.String()+"/members/"+userID.String(), testutil.AuthHeaders(t, jwtSvc, actor))

	testutil.AssertStatus(t, rec, http.StatusOK)
	mockTeamService.AssertExpectations(t)
}
