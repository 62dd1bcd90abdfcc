package database

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// NewSQLiteDatabase opens a SQLite database. ":memory:" yields a private in-memory database.
func NewSQLiteDatabase(connectionString string) (*SQLDatabase, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}
	// Every new connection to ":memory:" would see an empty database, and SQLite
	// serializes writers anyway, so a single connection is shared by all requests.
	db.SetMaxOpenConns(1)

	return NewSQLDatabase(db, SQLiteDialect), nil
}
