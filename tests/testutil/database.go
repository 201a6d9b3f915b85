package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/maintenance-api/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB wraps a test database connection with cleanup helpers
type TestDB struct {
	DB        *database.DB
	Container testcontainers.Container
}

// SetupTestDB creates a PostgreSQL testcontainer and returns a connected TestDB
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "maintenance_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/maintenance_test?sslmode=disable", host, port.Port())

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	db := &database.DB{Pool: pool}

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		DB:        db,
		Container: container,
	}
}

// CleanTables truncates all tables to reset state between tests
func (tdb *TestDB) CleanTables(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	tables := []string{
		"maintenance_requests",
		"equipment",
		"team_members",
		"maintenance_teams",
		"work_centers",
		"categories",
		"users",
		"companies",
	}

	for _, table := range tables {
		_, err := tdb.DB.Pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			t.Fatalf("failed to truncate table %s: %v", table, err)
		}
	}
}

// StoredRequest is a maintenance request as persisted, read past the services
type StoredRequest struct {
	Stage          string
	TechnicianID   *uuid.UUID
	CompletionDate *time.Time
}

// RequestState reads the committed stage and assignment of a request
func (tdb *TestDB) RequestState(t *testing.T, id uuid.UUID) StoredRequest {
	t.Helper()
	var state StoredRequest
	err := tdb.DB.Pool.QueryRow(context.Background(), `
		SELECT stage, technician_id, completion_date FROM maintenance_requests WHERE id = $1
	`, id).Scan(&state.Stage, &state.TechnicianID, &state.CompletionDate)
	if err != nil {
		t.Fatalf("failed to read request %s: %v", id, err)
	}
	return state
}

// EquipmentStatus reads the committed status of an equipment row
func (tdb *TestDB) EquipmentStatus(t *testing.T, id uuid.UUID) string {
	t.Helper()
	var status string
	err := tdb.DB.Pool.QueryRow(context.Background(), `SELECT status FROM equipment WHERE id = $1`, id).Scan(&status)
	if err != nil {
		t.Fatalf("failed to read equipment %s: %v", id, err)
	}
	return status
}
