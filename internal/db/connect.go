package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:rubric.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/rubric?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS exams (
  uuid TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
  uuid TEXT PRIMARY KEY,
  exam_uuid TEXT NOT NULL REFERENCES exams(uuid) ON DELETE CASCADE,
  statement TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS grading_criteria (
  uuid TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS exam_criteria (
  uuid TEXT PRIMARY KEY,
  exam_uuid TEXT NOT NULL REFERENCES exams(uuid) ON DELETE CASCADE,
  criteria_uuid TEXT NOT NULL REFERENCES grading_criteria(uuid),
  weight REAL NOT NULL DEFAULT 0,
  max_points REAL,
  active INTEGER NOT NULL DEFAULT 1,
  UNIQUE (exam_uuid, criteria_uuid)
);

CREATE TABLE IF NOT EXISTS question_criteria_overrides (
  uuid TEXT PRIMARY KEY,
  question_uuid TEXT NOT NULL REFERENCES questions(uuid) ON DELETE CASCADE,
  criteria_uuid TEXT NOT NULL REFERENCES grading_criteria(uuid),
  weight_override REAL,
  max_points_override REAL,
  active INTEGER NOT NULL DEFAULT 1,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,
  UNIQUE (question_uuid, criteria_uuid)
);

CREATE TABLE IF NOT EXISTS student_answers (
  uuid TEXT PRIMARY KEY,
  question_uuid TEXT NOT NULL REFERENCES questions(uuid) ON DELETE CASCADE,
  student_uuid TEXT NOT NULL,
  answer_text TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS event_log (
  offset INTEGER PRIMARY KEY AUTOINCREMENT, -- BIGSERIAL in Postgres
  site_id TEXT NOT NULL DEFAULT 'local',
  typ TEXT NOT NULL,                         -- e.g., RubricCommitted
  key TEXT NOT NULL,                         -- natural key: questionUUID
  data TEXT NOT NULL,                        -- JSON payload
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS exams (
  uuid TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
  uuid TEXT PRIMARY KEY,
  exam_uuid TEXT NOT NULL REFERENCES exams(uuid) ON DELETE CASCADE,
  statement TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS grading_criteria (
  uuid TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS exam_criteria (
  uuid TEXT PRIMARY KEY,
  exam_uuid TEXT NOT NULL REFERENCES exams(uuid) ON DELETE CASCADE,
  criteria_uuid TEXT NOT NULL REFERENCES grading_criteria(uuid),
  weight DOUBLE PRECISION NOT NULL DEFAULT 0,
  max_points DOUBLE PRECISION,
  active BOOLEAN NOT NULL DEFAULT TRUE,
  UNIQUE (exam_uuid, criteria_uuid)
);

CREATE TABLE IF NOT EXISTS question_criteria_overrides (
  uuid TEXT PRIMARY KEY,
  question_uuid TEXT NOT NULL REFERENCES questions(uuid) ON DELETE CASCADE,
  criteria_uuid TEXT NOT NULL REFERENCES grading_criteria(uuid),
  weight_override DOUBLE PRECISION,
  max_points_override DOUBLE PRECISION,
  active BOOLEAN NOT NULL DEFAULT TRUE,
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL,
  UNIQUE (question_uuid, criteria_uuid)
);

CREATE TABLE IF NOT EXISTS student_answers (
  uuid TEXT PRIMARY KEY,
  question_uuid TEXT NOT NULL REFERENCES questions(uuid) ON DELETE CASCADE,
  student_uuid TEXT NOT NULL,
  answer_text TEXT NOT NULL,
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS event_log (
  "offset" BIGSERIAL PRIMARY KEY,
  site_id TEXT NOT NULL DEFAULT 'local',
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`
