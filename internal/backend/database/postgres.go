package database

import (
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// NewPostgresDatabase opens a PostgreSQL database through the pgx database/sql driver.
func NewPostgresDatabase(connectionString string) (*SQLDatabase, error) {
	db, err := sql.Open("pgx", connectionString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return NewSQLDatabase(db, PostgresDialect), nil
}
