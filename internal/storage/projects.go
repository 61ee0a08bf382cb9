package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/tdm-calculator/internal/common"
	"github.com/Veraticus/tdm-calculator/internal/model"
)

// CreateProject inserts a new project and assigns its id and revision.
func (s *SQLiteStorage) CreateProject(ctx context.Context, project *model.Project) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProject(project); err != nil {
		return err
	}

	inputs, err := encodeInputs(project.Inputs)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	revision := uuid.NewString()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (name, address, login_id, form_inputs, revision, date_created, date_modified)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, project.Name, project.Address, project.LoginID, inputs, revision, now, now)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", classify(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get project id: %w", err)
	}

	project.ID = int(id)
	project.Revision = revision
	project.DateCreated = now
	project.DateModified = now
	return nil
}

// GetProject retrieves a project by id.
func (s *SQLiteStorage) GetProject(ctx context.Context, id int) (*model.Project, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, address, login_id, form_inputs, revision, date_created, date_modified
		FROM projects
		WHERE id = ?
	`, id)
	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

// ListProjects returns the projects owned by loginID, most recently
// modified first. A loginID of 0 lists every project.
func (s *SQLiteStorage) ListProjects(ctx context.Context, loginID int) ([]model.Project, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, address, login_id, form_inputs, revision, date_created, date_modified
		FROM projects`
	var args []any
	if loginID != 0 {
		query += ` WHERE login_id = ?`
		args = append(args, loginID)
	}
	query += ` ORDER BY date_modified DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", classify(err))
	}
	defer func() { _ = rows.Close() }()

	var projects []model.Project
	for rows.Next() {
		project, scanErr := scanProject(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		projects = append(projects, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return projects, nil
}

// SaveProject replaces the stored project when its revision still matches
// expectedRevision. On success the new revision is written to project.
func (s *SQLiteStorage) SaveProject(ctx context.Context, project *model.Project, expectedRevision string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProject(project); err != nil {
		return err
	}
	if err := validateID(project.ID, "project.ID"); err != nil {
		return err
	}

	inputs, err := encodeInputs(project.Inputs)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", classify(err))
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	revision := uuid.NewString()
	result, err := tx.ExecContext(ctx, `
		UPDATE projects
		SET name = ?, address = ?, form_inputs = ?, revision = ?, date_modified = ?
		WHERE id = ? AND revision = ?
	`, project.Name, project.Address, inputs, revision, now, project.ID, expectedRevision)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", classify(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE id = ?`, project.ID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check project: %w", classify(err))
		}
		if exists == 0 {
			return fmt.Errorf("project %d: %w", project.ID, common.ErrNotFound)
		}
		return fmt.Errorf("project %d: %w", project.ID, common.ErrStaleRevision)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit project: %w", classify(err))
	}

	project.Revision = revision
	project.DateModified = now
	return nil
}

// DeleteProject removes a project.
func (s *SQLiteStorage) DeleteProject(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", classify(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("project %d: %w", id, common.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*model.Project, error) {
	var (
		project model.Project
		inputs  string
	)
	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Address,
		&project.LoginID,
		&inputs,
		&project.Revision,
		&project.DateCreated,
		&project.DateModified,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", classify(err))
	}

	project.Inputs, err = decodeInputs(inputs)
	if err != nil {
		return nil, fmt.Errorf("project %d: %w", project.ID, err)
	}
	return &project, nil
}

func encodeInputs(inputs map[model.RuleCode]model.Input) (string, error) {
	if inputs == nil {
		inputs = map[model.RuleCode]model.Input{}
	}
	data, err := json.Marshal(inputs)
	if err != nil {
		return "", fmt.Errorf("failed to encode project inputs: %w", err)
	}
	return string(data), nil
}

func decodeInputs(data string) (map[model.RuleCode]model.Input, error) {
	inputs := map[model.RuleCode]model.Input{}
	if data == "" {
		return inputs, nil
	}
	if err := json.Unmarshal([]byte(data), &inputs); err != nil {
		return nil, fmt.Errorf("%w: form inputs: %w", common.ErrDatabaseCorrupted, err)
	}
	return inputs, nil
}
