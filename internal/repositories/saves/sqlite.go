package saves

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/KirkDiggler/rpg-gm/internal/entities"
	"github.com/KirkDiggler/rpg-gm/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS saves (
	handle         TEXT PRIMARY KEY,
	session_id     TEXT NOT NULL,
	character_name TEXT NOT NULL,
	race           TEXT NOT NULL,
	class          TEXT NOT NULL,
	model          TEXT NOT NULL,
	last_saved     INTEGER NOT NULL,
	data           TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_saves_last_saved ON saves(last_saved DESC);
`

// SQLiteRepository stores snapshots in a local SQLite file
type SQLiteRepository struct {
	db *sql.DB
}

// Ensure SQLiteRepository implements Repository
var _ Repository = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens or creates the database at path
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	if path == "" {
		return nil, errors.InvalidArgument("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create save directory")
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}

	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to migrate %s", path)
	}

	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	_, err := r.db.Exec(schema)
	return err
}

// Close releases the database
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Save upserts the snapshot for the session
func (r *SQLiteRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if err := validateSave(input); err != nil {
		return nil, err
	}

	summary := SummaryOf(input.Session)
	data, err := json.Marshal(input.Session)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal session")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO saves (handle, session_id, character_name, race, class, model, last_saved, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(handle) DO UPDATE SET
			character_name = excluded.character_name,
			race = excluded.race,
			class = excluded.class,
			model = excluded.model,
			last_saved = excluded.last_saved,
			data = excluded.data`,
		summary.Handle, summary.SessionID, summary.CharacterName, summary.Race, summary.Class,
		summary.Model, summary.LastSaved.UnixMilli(), string(data),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to write save %s", summary.Handle)
	}

	return &SaveOutput{Summary: summary}, nil
}

// Load reads a snapshot by handle
func (r *SQLiteRepository) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	if err := validateHandle(input); err != nil {
		return nil, err
	}

	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM saves WHERE handle = ?`, input.Handle).Scan(&data)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundf("save %s not found", input.Handle)
		}
		return nil, errors.Wrapf(err, "failed to read save %s", input.Handle)
	}

	var sess entities.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal save %s", input.Handle)
	}

	return &LoadOutput{Session: &sess}, nil
}

// List returns summaries newest first without decoding histories
func (r *SQLiteRepository) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT handle, session_id, character_name, race, class, model, last_saved
		FROM saves
		ORDER BY last_saved DESC, handle
		LIMIT ?`, listLimit(input))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list saves")
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Warn("Failed to close rows", "error", err)
		}
	}()

	out := []Summary{}
	for rows.Next() {
		var (
			s     Summary
			saved int64
		)
		if err := rows.Scan(&s.Handle, &s.SessionID, &s.CharacterName, &s.Race, &s.Class, &s.Model, &saved); err != nil {
			return nil, errors.Wrapf(err, "failed to scan save")
		}
		s.LastSaved = time.UnixMilli(saved).UTC()
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to iterate saves")
	}

	return &ListOutput{Saves: out}, nil
}
