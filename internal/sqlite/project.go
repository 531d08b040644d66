package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/metalcycle/lcastudio/internal/domain/project"
	"github.com/metalcycle/lcastudio/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
	id, name, description, assessment_goal, geographic_scope, time_horizon,
	functional_unit, reference_year, primary_objective, target_recycled, carbon_budget,
	improvement_timeframe, investment_willingness, data_source, comparison_benchmark,
	sensitivity_vars, status, created, updated`

// Save inserts a project or replaces the stored copy, metals included.
// A replaced project keeps its place in the listing order.
func (r *ProjectRepository) Save(ctx context.Context, proj *project.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			assessment_goal = excluded.assessment_goal,
			geographic_scope = excluded.geographic_scope,
			time_horizon = excluded.time_horizon,
			functional_unit = excluded.functional_unit,
			reference_year = excluded.reference_year,
			primary_objective = excluded.primary_objective,
			target_recycled = excluded.target_recycled,
			carbon_budget = excluded.carbon_budget,
			improvement_timeframe = excluded.improvement_timeframe,
			investment_willingness = excluded.investment_willingness,
			data_source = excluded.data_source,
			comparison_benchmark = excluded.comparison_benchmark,
			sensitivity_vars = excluded.sensitivity_vars,
			status = excluded.status,
			created = excluded.created,
			updated = excluded.updated
	`
	_, err = tx.ExecContext(ctx, query,
		proj.ID,
		proj.Name,
		proj.Description,
		proj.AssessmentGoal,
		proj.GeographicScope,
		proj.TimeHorizon,
		proj.FunctionalUnit,
		proj.ReferenceYear,
		proj.PrimaryObjective,
		proj.TargetRecycled,
		proj.CarbonBudget,
		proj.ImprovementTimeframe,
		proj.InvestmentWillingness,
		proj.DataSource,
		proj.ComparisonBenchmark,
		proj.SensitivityVars,
		proj.Status,
		proj.Created,
		proj.Updated,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: %v", repository.ErrInvalidInput, err)
		}
		return fmt.Errorf("failed to save project: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM project_metals WHERE project_id = ?`, proj.ID); err != nil {
		return fmt.Errorf("failed to clear metals: %w", err)
	}
	for i, m := range proj.Metals {
		if err := insertMetal(ctx, tx, proj.ID, i, m); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit project: %w", err)
	}
	return nil
}

func insertMetal(ctx context.Context, tx *sql.Tx, projectID string, pos int, m project.MetalEntry) error {
	stages := m.LifecycleStages
	if stages == nil {
		stages = []string{}
	}
	stagesJSON, err := json.Marshal(stages)
	if err != nil {
		return fmt.Errorf("failed to encode lifecycle stages: %w", err)
	}

	var (
		hasTransport, hasUse, hasEOL bool
		stage, mode                  string
		distance, lifetime, rate     *float64
	)
	if m.Transport != nil {
		hasTransport = true
		stage, mode, distance = m.Transport.Stage, m.Transport.Mode, m.Transport.DistanceKM
	}
	if m.Use != nil {
		hasUse = true
		lifetime = m.Use.LifetimeYears
	}
	if m.EOL != nil {
		hasEOL = true
		rate = m.EOL.CollectionRate
	}

	query := `
		INSERT INTO project_metals (
			project_id, id, position, type, quantity, lifecycle_stages, preferred_treatment,
			has_transport, transport_stage, transport_mode, distance_km,
			has_use, lifetime_years, has_eol, collection_rate
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		projectID, m.ID, pos, m.Type, m.Quantity, string(stagesJSON), m.PreferredTreatment,
		hasTransport, stage, mode, distance,
		hasUse, lifetime, hasEOL, rate,
	)
	if err != nil {
		if isUniqueViolation(err) || isCheckViolation(err) {
			return fmt.Errorf("%w: metal %q: %v", repository.ErrInvalidInput, m.ID, err)
		}
		return fmt.Errorf("failed to save metal %q: %w", m.ID, err)
	}
	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if proj.Metals, err = r.loadMetals(ctx, proj.ID); err != nil {
		return nil, err
	}
	return proj, nil
}

// List returns projects newest first. limit <= 0 returns all.
func (r *ProjectRepository) List(ctx context.Context, limit int) ([]project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := []project.Project{}
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *proj)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	rows.Close()

	for i := range projects {
		if projects[i].Metals, err = r.loadMetals(ctx, projects[i].ID); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

// Count returns the number of stored projects
func (r *ProjectRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (*project.Project, error) {
	var (
		proj           project.Project
		target, budget sql.NullFloat64
	)
	err := s.Scan(
		&proj.ID,
		&proj.Name,
		&proj.Description,
		&proj.AssessmentGoal,
		&proj.GeographicScope,
		&proj.TimeHorizon,
		&proj.FunctionalUnit,
		&proj.ReferenceYear,
		&proj.PrimaryObjective,
		&target,
		&budget,
		&proj.ImprovementTimeframe,
		&proj.InvestmentWillingness,
		&proj.DataSource,
		&proj.ComparisonBenchmark,
		&proj.SensitivityVars,
		&proj.Status,
		&proj.Created,
		&proj.Updated,
	)
	if err != nil {
		return nil, err
	}
	proj.TargetRecycled = nullFloat(target)
	proj.CarbonBudget = nullFloat(budget)
	return &proj, nil
}

func (r *ProjectRepository) loadMetals(ctx context.Context, projectID string) ([]project.MetalEntry, error) {
	query := `
		SELECT id, type, quantity, lifecycle_stages, preferred_treatment,
			has_transport, transport_stage, transport_mode, distance_km,
			has_use, lifetime_years, has_eol, collection_rate
		FROM project_metals
		WHERE project_id = ?
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load metals: %w", err)
	}
	defer rows.Close()

	metals := []project.MetalEntry{}
	for rows.Next() {
		var (
			m                            project.MetalEntry
			quantity, distance, lifetime sql.NullFloat64
			rate                         sql.NullFloat64
			stagesJSON, stage, mode      string
			hasTransport, hasUse, hasEOL bool
		)
		if err := rows.Scan(
			&m.ID, &m.Type, &quantity, &stagesJSON, &m.PreferredTreatment,
			&hasTransport, &stage, &mode, &distance,
			&hasUse, &lifetime, &hasEOL, &rate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan metal: %w", err)
		}
		if err := json.Unmarshal([]byte(stagesJSON), &m.LifecycleStages); err != nil {
			return nil, fmt.Errorf("failed to decode lifecycle stages of %q: %w", m.ID, err)
		}
		m.Quantity = nullFloat(quantity)
		if hasTransport {
			m.Transport = &project.Transport{Stage: stage, Mode: mode, DistanceKM: nullFloat(distance)}
		}
		if hasUse {
			m.Use = &project.UsePhase{LifetimeYears: nullFloat(lifetime)}
		}
		if hasEOL {
			m.EOL = &project.EndOfLife{CollectionRate: nullFloat(rate)}
		}
		metals = append(metals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metals: %w", err)
	}
	return metals, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
