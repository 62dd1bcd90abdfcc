package database

const projectColumns = "id, title, description, image_filename, created_date, updated_date"

// Dialect holds the statements that differ between the supported SQL engines.
// Each engine's queries use its native placeholder syntax.
type Dialect struct {
	Name       string
	Schema     string
	Insert     string
	SelectAll  string
	SelectByID string
	Update     string
	Delete     string
}

var SQLiteDialect = Dialect{
	Name: "sqlite",
	Schema: `CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		image_filename TEXT NOT NULL,
		created_date TIMESTAMP NOT NULL,
		updated_date TIMESTAMP NOT NULL
	)`,
	Insert: `INSERT INTO projects (title, description, image_filename, created_date, updated_date)
		VALUES (?, ?, ?, ?, ?) RETURNING id`,
	SelectAll:  "SELECT " + projectColumns + " FROM projects ORDER BY created_date DESC, id DESC",
	SelectByID: "SELECT " + projectColumns + " FROM projects WHERE id = ?",
	Update: `UPDATE projects
		SET title = ?, description = ?, image_filename = ?, updated_date = ?
		WHERE id = ?`,
	Delete: "DELETE FROM projects WHERE id = ?",
}

var PostgresDialect = Dialect{
	Name: "postgres",
	Schema: `CREATE TABLE IF NOT EXISTS projects (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		image_filename TEXT NOT NULL,
		created_date TIMESTAMPTZ NOT NULL,
		updated_date TIMESTAMPTZ NOT NULL
	)`,
	Insert: `INSERT INTO projects (title, description, image_filename, created_date, updated_date)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
	SelectAll:  "SELECT " + projectColumns + " FROM projects ORDER BY created_date DESC, id DESC",
	SelectByID: "SELECT " + projectColumns + " FROM projects WHERE id = $1",
	Update: `UPDATE projects
		SET title = $1, description = $2, image_filename = $3, updated_date = $4
		WHERE id = $5`,
	Delete: "DELETE FROM projects WHERE id = $1",
}
