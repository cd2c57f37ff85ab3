// Package sqlite provides a SQLite-backed devapi.Store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dusk-indust/usercrud/internal/devapi"
	"github.com/dusk-indust/usercrud/internal/devapi/sqlite/migrations"
	"github.com/dusk-indust/usercrud/internal/userapi"
	_ "modernc.org/sqlite"
)

// Compile-time interface check.
var _ devapi.Store = (*Store)(nil)

// Store persists users in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Open opens a SQLite user store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer keeps AUTOINCREMENT and :memory: databases consistent.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// List returns all users ordered by ID.
func (s *Store) List(ctx context.Context) ([]userapi.User, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id, name, email FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []userapi.User{}
	for rows.Next() {
		var u userapi.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// Create inserts a user and returns it with its new ID.
func (s *Store) Create(ctx context.Context, in userapi.UserInput) (userapi.User, error) {
	now := toMillis(time.Now())
	res, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO users (name, email, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		in.Name, in.Email, now, now,
	)
	if err != nil {
		return userapi.User{}, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return userapi.User{}, fmt.Errorf("create user: last insert id: %w", err)
	}
	return userapi.User{ID: id, Name: in.Name, Email: in.Email}, nil
}

// Update replaces name and email of an existing user.
func (s *Store) Update(ctx context.Context, id int64, in userapi.UserInput) (userapi.User, error) {
	res, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE users SET name = ?, email = ?, updated_at = ? WHERE id = ?`,
		in.Name, in.Email, toMillis(time.Now()), id,
	)
	if err != nil {
		return userapi.User{}, fmt.Errorf("update user %d: %w", id, err)
	}
	if err := requireAffected(res); err != nil {
		return userapi.User{}, err
	}
	return userapi.User{ID: id, Name: in.Name, Email: in.Email}, nil
}

// Delete removes a user.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return devapi.ErrNotFound
	}
	return nil
}

const migrationTable = "schema_migrations"

// applyMigrations executes each embedded .sql file at most once, in name
// order. Only the part after "-- +migrate Up" runs.
func applyMigrations(sqlDB *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS ` + migrationTable + ` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		var applied int
		if err := sqlDB.QueryRow(`SELECT COUNT(1) FROM `+migrationTable+` WHERE name = ?`, file).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if applied > 0 {
			continue
		}

		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		upSQL := extractUp(string(content))
		if strings.TrimSpace(upSQL) == "" {
			continue
		}

		tx, err := sqlDB.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", file, err)
		}
		if _, err := tx.Exec(upSQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", file, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO `+migrationTable+` (name, applied_at) VALUES (?, ?)`,
			file, toMillis(time.Now()),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
	}
	return nil
}

func extractUp(content string) string {
	const upMarker = "-- +migrate Up"
	const downMarker = "-- +migrate Down"

	if i := strings.Index(content, upMarker); i >= 0 {
		content = content[i+len(upMarker):]
	}
	if i := strings.Index(content, downMarker); i >= 0 {
		content = content[:i]
	}
	return content
}
