package database

import (
	"context"
	"database/sql"
)

type DatabaseService interface {
	CreateDatabase() (*sql.DB, error)
	DoesDatabaseExist() bool
	Close() error

	// CreateProject inserts a new row and returns its store-assigned ID.
	// created_date and updated_date are set to the same instant.
	CreateProject(ctx context.Context, title, description, imageFilename string) (int64, error)
	// GetAllProjects returns every project, newest first.
	GetAllProjects(ctx context.Context) ([]*Project, error)
	// GetProjectByID returns nil without an error when no row matches.
	GetProjectByID(ctx context.Context, id int64) (*Project, error)
	// UpdateProject overwrites the mutable fields and refreshes updated_date.
	// It reports whether a row was affected.
	UpdateProject(ctx context.Context, id int64, title, description, imageFilename string) (bool, error)
	// DeleteProject reports whether a row was removed.
	DeleteProject(ctx context.Context, id int64) (bool, error)
}
