// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	stderrors "wellness-dashboard/internal/common/errors"
	"wellness-dashboard/internal/common/logger"
	"wellness-dashboard/internal/models"
)

// PostgresStore persists employees and their health metric history. The core
// only ever reads the latest metric per employee; history accumulates so the
// dashboard could grow time series views later.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "postgres-store"}),
	}
}

const createEmployeesTable = `
CREATE TABLE IF NOT EXISTS employees (
	id SERIAL PRIMARY KEY,
	employee_id VARCHAR(10) UNIQUE NOT NULL,
	name VARCHAR(100) NOT NULL,
	department VARCHAR(50) NOT NULL,
	age INTEGER,
	gender VARCHAR(10)
)`

const createMetricsTable = `
CREATE TABLE IF NOT EXISTS health_metrics (
	id SERIAL PRIMARY KEY,
	employee_id VARCHAR(10) NOT NULL,
	heart_rate DOUBLE PRECISION,
	spo2 DOUBLE PRECISION,
	stress_score DOUBLE PRECISION,
	mood VARCHAR(20),
	timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Init creates the tables if they don't exist.
func (s *PostgresStore) Init(ctx context.Context) error {
	for _, ddl := range []string{createEmployeesTable, createMetricsTable} {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return stderrors.NewQueryExecutionFailedError(err)
		}
	}
	s.logger.Info("database tables ready", nil)
	return nil
}

// InsertRecords writes employees (skipping ones already present) and appends
// one health metric row per record, in a single transaction.
func (s *PostgresStore) InsertRecords(ctx context.Context, records []models.EmployeeRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stderrors.NewDatabaseConnectionFailedError(err)
	}
	defer tx.Rollback()

	const insertEmployee = `
		INSERT INTO employees (employee_id, name, department, age, gender)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id) DO NOTHING`

	const insertMetric = `
		INSERT INTO health_metrics (employee_id, heart_rate, spo2, stress_score, mood, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, rec := range records {
		if _, err := tx.ExecContext(ctx, insertEmployee,
			rec.EmployeeID, rec.Name, rec.Department, rec.Age, rec.Gender); err != nil {
			return stderrors.NewInsertFailedError(fmt.Errorf("employee %s: %w", rec.EmployeeID, err))
		}
		if _, err := tx.ExecContext(ctx, insertMetric,
			rec.EmployeeID, rec.HeartRate, rec.SpO2, rec.StressScore, string(rec.Mood), rec.LastUpdated); err != nil {
			return stderrors.NewInsertFailedError(fmt.Errorf("metric %s: %w", rec.EmployeeID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return stderrors.NewInsertFailedError(err)
	}

	s.logger.Info("inserted employee records", map[string]interface{}{
		"count": len(records),
	})
	return nil
}

const loadLatestQuery = `
WITH latest_metrics AS (
	SELECT
		employee_id,
		MAX(timestamp) as max_timestamp
	FROM
		health_metrics
	GROUP BY
		employee_id
)
SELECT
	e.employee_id,
	e.name,
	e.department,
	e.age,
	e.gender,
	hm.heart_rate,
	hm.spo2,
	hm.stress_score,
	hm.mood,
	hm.timestamp as last_updated
FROM
	employees e
JOIN
	latest_metrics lm ON e.employee_id = lm.employee_id
JOIN
	health_metrics hm ON e.employee_id = hm.employee_id AND lm.max_timestamp = hm.timestamp
ORDER BY
	e.department, e.name`

// LoadLatest returns every employee joined with their most recent health
// metric, ordered by department then name. That ordering is what makes
// first-match entity resolution deterministic.
func (s *PostgresStore) LoadLatest(ctx context.Context) ([]models.EmployeeRecord, error) {
	rows, err := s.db.QueryContext(ctx, loadLatestQuery)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError(err)
	}
	defer rows.Close()

	var records []models.EmployeeRecord
	for rows.Next() {
		var rec models.EmployeeRecord
		var mood string
		if err := rows.Scan(
			&rec.EmployeeID, &rec.Name, &rec.Department, &rec.Age, &rec.Gender,
			&rec.HeartRate, &rec.SpO2, &rec.StressScore, &mood, &rec.LastUpdated,
		); err != nil {
			return nil, stderrors.NewQueryExecutionFailedError(err)
		}
		rec.Mood = models.Mood(mood)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, stderrors.NewQueryExecutionFailedError(err)
	}

	s.logger.Info("loaded employee records", map[string]interface{}{
		"count": len(records),
	})
	return records, nil
}

// HasData reports whether both tables contain rows.
func (s *PostgresStore) HasData(ctx context.Context) (bool, error) {
	var employees, metrics int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&employees); err != nil {
		return false, stderrors.NewQueryExecutionFailedError(err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM health_metrics`).Scan(&metrics); err != nil {
		return false, stderrors.NewQueryExecutionFailedError(err)
	}
	return employees > 0 && metrics > 0, nil
}
