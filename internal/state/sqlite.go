package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/user/nextgen/internal/types"
)

// DB is a SQLite-backed store for sessions, chat histories and users.
type DB struct {
	db  *sql.DB
	now func() time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	session_key TEXT NOT NULL UNIQUE,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	session_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	PRIMARY KEY (session_id, seq)
);
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at);
`

// OpenDB opens (creating if needed) the SQLite database at path and applies
// the schema.
func OpenDB(path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}

func unix(t time.Time) int64 { return t.UnixNano() }

func fromUnix(n int64) time.Time { return time.Unix(0, n) }

// ResolveOrCreate returns the SessionID for key, creating a new session if needed.
func (d *DB) ResolveOrCreate(ctx context.Context, key types.SessionKey) (types.SessionID, error) {
	now := unix(d.now())
	_, err := d.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sessions (id, session_key, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		string(types.NewSessionID()), string(key), now, now)
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}

	var id string
	err = d.db.QueryRowContext(ctx, `SELECT id FROM sessions WHERE session_key = ?`, string(key)).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("select session: %w", err)
	}
	return types.SessionID(id), nil
}

func scanSession(row interface{ Scan(...any) error }) (*types.Session, error) {
	var (
		id, key          string
		created, updated int64
	)
	if err := row.Scan(&id, &key, &created, &updated); err != nil {
		return nil, err
	}
	return &types.Session{
		SessionID:  types.SessionID(id),
		SessionKey: types.SessionKey(key),
		CreatedAt:  fromUnix(created),
		UpdatedAt:  fromUnix(updated),
	}, nil
}

// Get returns the session with the given ID.
func (d *DB) Get(ctx context.Context, id types.SessionID) (*types.Session, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT id, session_key, created_at, updated_at FROM sessions WHERE id = ?`, string(id))
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}
	return sess, nil
}

// List returns all sessions, most recently active first.
func (d *DB) List(ctx context.Context) ([]*types.Session, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, session_key, created_at, updated_at FROM sessions ORDER BY updated_at DESC, session_key`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*types.Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Touch records activity on the session at the given time.
func (d *DB) Touch(ctx context.Context, id types.SessionID, at time.Time) error {
	res, err := d.db.ExecContext(ctx, `UPDATE sessions SET updated_at = ? WHERE id = ?`, unix(at), string(id))
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes the session and its messages.
func (d *DB) Delete(ctx context.Context, id types.SessionID) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return tx.Commit()
}

// Load returns the stored history in order, or an empty history.
func (d *DB) Load(ctx context.Context, id types.SessionID) (types.ChatHistory, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT role, content FROM messages WHERE session_id = ? ORDER BY seq`, string(id))
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	history := types.ChatHistory{}
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		history = append(history, types.ChatMessage{Role: types.Role(role), Content: content})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return history.Trim(), nil
}

// Save replaces the stored history, keeping at most types.MaxHistory entries.
func (d *DB) Save(ctx context.Context, id types.SessionID, history types.ChatHistory) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, string(id)); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	for i, m := range history.Trim() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (session_id, seq, role, content) VALUES (?, ?, ?, ?)`,
			string(id), i, string(m.Role), m.Content); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
	}
	return tx.Commit()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers an account. A duplicate email yields ErrEmailTaken.
func (d *DB) CreateUser(ctx context.Context, name, email, passwordHash string) (*types.User, error) {
	email = normalizeEmail(email)
	created := d.now()
	res, err := d.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		name, email, passwordHash, unix(created))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("user id: %w", err)
	}
	return &types.User{ID: id, Name: name, Email: email, PasswordHash: passwordHash, CreatedAt: created}, nil
}

func (d *DB) user(ctx context.Context, where string, arg any) (*types.User, error) {
	var (
		u       types.User
		created int64
	)
	err := d.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE `+where, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	u.CreatedAt = fromUnix(created)
	return &u, nil
}

// UserByEmail looks up an account by email, ignoring case.
func (d *DB) UserByEmail(ctx context.Context, email string) (*types.User, error) {
	return d.user(ctx, "email = ?", normalizeEmail(email))
}

// UserByID looks up an account by id.
func (d *DB) UserByID(ctx context.Context, id int64) (*types.User, error) {
	return d.user(ctx, "id = ?", id)
}
