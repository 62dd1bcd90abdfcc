package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLDatabase implements DatabaseService on top of database/sql.
// The engine specific parts are provided by its Dialect.
type SQLDatabase struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// NewSQLDatabase wraps an already opened handle.
func NewSQLDatabase(db *sql.DB, dialect Dialect) *SQLDatabase {
	return &SQLDatabase{
		db:      db,
		dialect: dialect,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *SQLDatabase) CreateDatabase() (*sql.DB, error) {
	if _, err := s.db.Exec(s.dialect.Schema); err != nil {
		return nil, fmt.Errorf("failed to create projects table: %w", err)
	}
	return s.db, nil
}

func (s *SQLDatabase) DoesDatabaseExist() bool {
	// The SQLite file is created on connect, so a successful ping is the best signal we have.
	return s.db.Ping() == nil
}

func (s *SQLDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLDatabase) CreateProject(ctx context.Context, title, description, imageFilename string) (int64, error) {
	now := s.now()
	var id int64
	if err := s.db.QueryRowContext(ctx, s.dialect.Insert, title, description, imageFilename, now, now).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert project: %w", err)
	}
	return id, nil
}

func (s *SQLDatabase) GetAllProjects(ctx context.Context) ([]*Project, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.SelectAll)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error as any scan error is already returned
	}()

	projects := make([]*Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}

func (s *SQLDatabase) GetProjectByID(ctx context.Context, id int64) (*Project, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.SelectByID, id)
	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *SQLDatabase) UpdateProject(ctx context.Context, id int64, title, description, imageFilename string) (bool, error) {
	result, err := s.db.ExecContext(ctx, s.dialect.Update, title, description, imageFilename, s.now(), id)
	if err != nil {
		return false, fmt.Errorf("failed to update project %d: %w", id, err)
	}
	return affectedAny(result)
}

func (s *SQLDatabase) DeleteProject(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, s.dialect.Delete, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete project %d: %w", id, err)
	}
	return affectedAny(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.ImageFilename, &p.CreatedDate, &p.UpdatedDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	return &p, nil
}

func affectedAny(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
