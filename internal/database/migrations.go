package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS companies (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		company_id UUID NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		role VARCHAR(50) NOT NULL DEFAULT 'EMPLOYEE',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS categories (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		company_id UUID NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		UNIQUE(company_id, name)
	)`,

	`CREATE TABLE IF NOT EXISTS work_centers (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		company_id UUID NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS maintenance_teams (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		company_id UUID NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS team_members (
		team_id UUID NOT NULL REFERENCES maintenance_teams(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		is_lead BOOLEAN NOT NULL DEFAULT FALSE,
		joined_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		PRIMARY KEY (team_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS equipment (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		company_id UUID NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		serial_number VARCHAR(255),
		location VARCHAR(255),
		status VARCHAR(30) NOT NULL DEFAULT 'ACTIVE',
		health_percentage INTEGER NOT NULL DEFAULT 100 CHECK (health_percentage BETWEEN 0 AND 100),
		scrap_date TIMESTAMP WITH TIME ZONE,
		owner_id UUID REFERENCES users(id) ON DELETE SET NULL,
		technician_id UUID REFERENCES users(id) ON DELETE SET NULL,
		maintenance_team_id UUID REFERENCES maintenance_teams(id) ON DELETE SET NULL,
		category_id UUID REFERENCES categories(id) ON DELETE SET NULL,
		work_center_id UUID REFERENCES work_centers(id) ON DELETE SET NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS maintenance_requests (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		company_id UUID NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		subject VARCHAR(255) NOT NULL,
		description TEXT,
		notes TEXT,
		request_type VARCHAR(20) NOT NULL DEFAULT 'CORRECTIVE',
		priority VARCHAR(20) NOT NULL DEFAULT 'MEDIUM',
		stage VARCHAR(20) NOT NULL DEFAULT 'NEW',
		scheduled_date TIMESTAMP WITH TIME ZONE,
		start_date TIMESTAMP WITH TIME ZONE,
		completion_date TIMESTAMP WITH TIME ZONE,
		duration DOUBLE PRECISION,
		is_overdue BOOLEAN NOT NULL DEFAULT FALSE,
		equipment_id UUID REFERENCES equipment(id) ON DELETE SET NULL,
		category_id UUID REFERENCES categories(id) ON DELETE SET NULL,
		team_id UUID REFERENCES maintenance_teams(id) ON DELETE SET NULL,
		technician_id UUID REFERENCES users(id) ON DELETE SET NULL,
		created_by_id UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_users_company_id ON users(company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_team_members_user_id ON team_members(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_maintenance_teams_company_id ON maintenance_teams(company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_equipment_company_id ON equipment(company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_requests_company_stage ON maintenance_requests(company_id, stage)`,
	`CREATE INDEX IF NOT EXISTS idx_requests_equipment_id ON maintenance_requests(equipment_id)`,
	`CREATE INDEX IF NOT EXISTS idx_requests_team_technician ON maintenance_requests(team_id, technician_id)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
