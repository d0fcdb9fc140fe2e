package persistence

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/promptnx/pipeline/internal/domain"
)

// versionCap bounds the history. Appending beyond it silently evicts the
// oldest entries.
const versionCap = 50

// VersionRepo is the append-only prompt history, persisted in SQLite. It is a
// debugging and recovery aid, not a source of truth: every failure mode
// degrades to "history unavailable" and is logged instead of surfaced, so it
// can never block the generation flow.
type VersionRepo struct {
	db *sql.DB
}

func NewVersionRepo(path string) (*VersionRepo, error) {
	db, err := sql.Open("sqlite3", path)

	if err != nil {
		return nil, err
	}

	r := &VersionRepo{db: db}

	err = r.initSchema()

	if err != nil {
		db.Close()
		return nil, err
	}

	return r, nil
}

func (r *VersionRepo) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS prompt_versions (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		id          TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		prompt      TEXT NOT NULL,
		platform    TEXT NOT NULL,
		score       INTEGER,
		is_favorite INTEGER NOT NULL DEFAULT 0
	);
	`

	_, err := r.db.Exec(schema)

	if err != nil {
		return fmt.Errorf("failed to initialize version schema: %w", err)
	}

	return nil
}

// Append builds a version from the input, inserts it at the head of the
// history, and evicts everything beyond the capacity. The built entry is
// returned even when persistence fails.
func (r *VersionRepo) Append(input domain.VersionInput) domain.Version {
	now := time.Now().UTC()
	version := domain.Version{
		Id:        strconv.FormatInt(now.UnixNano(), 10),
		Timestamp: now,
		Prompt:    input.Prompt,
		Platform:  input.Platform,
		Score:     input.Score,
	}

	var score sql.NullInt64
	if input.Score != nil {
		score = sql.NullInt64{Int64: int64(*input.Score), Valid: true}
	}

	_, err := r.db.Exec(
		`INSERT INTO prompt_versions (id, created_at, prompt, platform, score, is_favorite) VALUES (?, ?, ?, ?, ?, 0)`,
		version.Id, version.Timestamp.Format(time.RFC3339Nano), version.Prompt, version.Platform, score)

	if err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		return version
	}

	_, err = r.db.Exec(
		`DELETE FROM prompt_versions WHERE seq NOT IN (SELECT seq FROM prompt_versions ORDER BY seq DESC LIMIT ?)`,
		versionCap)

	if err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
	}

	return version
}

// Load returns the history, most recent first. Missing or corrupt storage
// reads as an empty history, never as an error.
func (r *VersionRepo) Load() []domain.Version {
	rows, err := r.db.Query(
		`SELECT id, created_at, prompt, platform, score, is_favorite FROM prompt_versions ORDER BY seq DESC LIMIT ?`,
		versionCap)

	if err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		return []domain.Version{}
	}
	defer rows.Close()

	versions := []domain.Version{}
	for rows.Next() {
		var version domain.Version
		var createdAt string
		var score sql.NullInt64
		var favorite int

		err = rows.Scan(&version.Id, &createdAt, &version.Prompt, &version.Platform, &score, &favorite)

		if err != nil {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
			return []domain.Version{}
		}

		version.Timestamp, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			// Legacy rows without a parseable timestamp default to now,
			// matching the read-side normalization of missing data.
			version.Timestamp = time.Now().UTC()
		}

		if score.Valid {
			s := int(score.Int64)
			version.Score = &s
		}
		version.IsFavorite = favorite != 0

		versions = append(versions, version)
	}

	if err = rows.Err(); err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		return []domain.Version{}
	}

	return versions
}

// ToggleFavorite flips the favorite flag on one entry. Best-effort: failures
// are logged, and favorites never affect ordering or retention.
func (r *VersionRepo) ToggleFavorite(id string) {
	_, err := r.db.Exec(`UPDATE prompt_versions SET is_favorite = 1 - is_favorite WHERE id = ?`, id)

	if err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
	}
}

func (r *VersionRepo) Close() error {
	return r.db.Close()
}
