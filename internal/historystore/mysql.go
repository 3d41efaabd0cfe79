package historystore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/steveyegge/stuckdetector/internal/event"
)

// MySQLStore is a Store backed by a MySQL table, for deployments that run
// the daemon behind a pool of workers sharing one history. Grounded on the
// teacher's database/sql usage in cmd/bd/doctor/database.go, substituting
// the teacher's embedded-SQLite driver for the MySQL driver this system's
// multi-worker deployment needs.
type MySQLStore struct {
	db *sql.DB
}

// OpenMySQLStore opens (and does not itself create) the backing table.
// Callers should run EnsureSchema once at startup.
func OpenMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("historystore: open mysql: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("historystore: ping mysql: %w", err)
	}
	return &MySQLStore{db: db}, nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS session_events (
	session_id VARCHAR(128) NOT NULL,
	seq        INT          NOT NULL,
	kind       VARCHAR(32)  NOT NULL,
	source     VARCHAR(16)  NOT NULL,
	content    TEXT         NOT NULL,
	command    TEXT         NOT NULL,
	path       TEXT         NOT NULL,
	code       TEXT         NOT NULL,
	PRIMARY KEY (session_id, seq)
) ENGINE=InnoDB`

// EnsureSchema creates the session_events table if it doesn't exist.
func (s *MySQLStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schemaDDL)
	if err != nil {
		return fmt.Errorf("historystore: create schema: %w", err)
	}
	return nil
}

func (s *MySQLStore) Append(ctx context.Context, sessionID string, ev event.Event) error {
	var seq int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq) + 1, 0) FROM session_events WHERE session_id = ?`, sessionID,
	).Scan(&seq)
	if err != nil {
		return fmt.Errorf("historystore: next seq: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO session_events (session_id, seq, kind, source, content, command, path, code)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, seq, string(ev.Kind), string(ev.Source), ev.Content, ev.Command, ev.Path, ev.Code,
	)
	if err != nil {
		return fmt.Errorf("historystore: insert event: %w", err)
	}
	return nil
}

func (s *MySQLStore) History(ctx context.Context, sessionID string) ([]event.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, kind, source, content, command, path, code
		 FROM session_events WHERE session_id = ? ORDER BY seq ASC`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("historystore: query history: %w", err)
	}
	defer rows.Close()

	var out []event.Event
	for rows.Next() {
		var (
			seq                            int
			kind, source, content, command string
			path, code                     string
		)
		if err := rows.Scan(&seq, &kind, &source, &content, &command, &path, &code); err != nil {
			return nil, fmt.Errorf("historystore: scan event: %w", err)
		}
		out = append(out, event.Event{
			Seq:     seq,
			Kind:    event.Kind(kind),
			Source:  event.Source(source),
			Content: content,
			Command: command,
			Path:    path,
			Code:    code,
		})
	}
	return out, rows.Err()
}

func (s *MySQLStore) Close() error {
	return s.db.Close()
}

var _ Store = (*MySQLStore)(nil)
