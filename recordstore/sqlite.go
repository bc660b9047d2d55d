package recordstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hupe1980/recallmesh/core"
)

// SQLiteConfig controls SQLiteStore initialization.
type SQLiteConfig struct {
	// Path is the database file. Required.
	Path string
}

// SQLiteStore is a durable RecordStore backed by a local SQLite database.
// One table per record family; list-valued metadata fields are persisted as
// JSON text and decoded on read.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database and ensures the schema.
func NewSQLiteStore(ctx context.Context, cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, errors.New("database path is required")
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", cfg.Path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            content TEXT NOT NULL,
            occurred_at DATETIME NOT NULL,
            importance REAL DEFAULT 0.5,
            valence REAL,
            arousal REAL,
            tags JSON,
            participants JSON,
            location TEXT,
            extra JSON
        );`,
		`CREATE INDEX IF NOT EXISTS idx_events_user_time ON events(user_id, occurred_at);`,
		`CREATE TABLE IF NOT EXISTS affect_states (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            content TEXT NOT NULL,
            recorded_at DATETIME NOT NULL,
            valence REAL NOT NULL,
            arousal REAL NOT NULL,
            importance REAL DEFAULT 0.5,
            tags JSON,
            participants JSON,
            location TEXT,
            extra JSON
        );`,
		`CREATE INDEX IF NOT EXISTS idx_affect_user_time ON affect_states(user_id, recorded_at);`,
		`CREATE TABLE IF NOT EXISTS skills (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            skill TEXT NOT NULL,
            last_practiced DATETIME,
            success_rate REAL DEFAULT 0,
            practice_count INTEGER DEFAULT 0,
            tags JSON,
            participants JSON,
            location TEXT,
            extra JSON
        );`,
		`CREATE INDEX IF NOT EXISTS idx_skills_user ON skills(user_id, last_practiced);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// InsertEvent writes an event row, generating an id when absent, and returns it.
func (s *SQLiteStore) InsertEvent(ctx context.Context, row core.EventRow) (string, error) {
	if row.Content == "" {
		return "", fmt.Errorf("content is required")
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	tags, participants, extra := encodeMetadata(row.Metadata)
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO events(id, user_id, content, occurred_at, importance, valence, arousal, tags, participants, location, extra)
        VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
    `, row.ID, row.UserID, row.Content, row.OccurredAt, row.Importance, row.Valence, row.Arousal, tags, participants, row.Metadata.Location, extra)
	if err != nil {
		return "", err
	}
	return row.ID, nil
}

// InsertAffect writes an affect row, generating an id when absent, and returns it.
func (s *SQLiteStore) InsertAffect(ctx context.Context, row core.AffectRow) (string, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	tags, participants, extra := encodeMetadata(row.Metadata)
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO affect_states(id, user_id, content, recorded_at, valence, arousal, importance, tags, participants, location, extra)
        VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
    `, row.ID, row.UserID, row.Content, row.RecordedAt, row.Valence, row.Arousal, row.Importance, tags, participants, row.Metadata.Location, extra)
	if err != nil {
		return "", err
	}
	return row.ID, nil
}

// InsertSkill writes a skill row, generating an id when absent, and returns it.
func (s *SQLiteStore) InsertSkill(ctx context.Context, row core.SkillRow) (string, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	tags, participants, extra := encodeMetadata(row.Metadata)
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO skills(id, user_id, skill, last_practiced, success_rate, practice_count, tags, participants, location, extra)
        VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
    `, row.ID, row.UserID, row.Skill, row.LastPracticed, row.SuccessRate, row.PracticeCount, tags, participants, row.Metadata.Location, extra)
	if err != nil {
		return "", err
	}
	return row.ID, nil
}

// QueryEvents implements core.RecordStore. Results are most-recent-first.
func (s *SQLiteStore) QueryEvents(ctx context.Context, userID string, f core.EventFilter) ([]core.EventRow, error) {
	query := `SELECT id, user_id, content, occurred_at, importance, valence, arousal, tags, participants, location, extra
        FROM events WHERE user_id = ?`
	args := []any{userID}
	if f.Start != nil {
		query += ` AND occurred_at >= ?`
		args = append(args, *f.Start)
	}
	if f.End != nil {
		query += ` AND occurred_at <= ?`
		args = append(args, *f.End)
	}
	query += ` ORDER BY occurred_at DESC, id ASC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.EventRow
	for rows.Next() {
		var (
			row          core.EventRow
			valence      sql.NullFloat64
			arousal      sql.NullFloat64
			tags         sql.NullString
			participants sql.NullString
			location     sql.NullString
			extra        sql.NullString
		)
		if err := rows.Scan(&row.ID, &row.UserID, &row.Content, &row.OccurredAt, &row.Importance, &valence, &arousal, &tags, &participants, &location, &extra); err != nil {
			return nil, err
		}
		if valence.Valid {
			v := valence.Float64
			row.Valence = &v
		}
		if arousal.Valid {
			a := arousal.Float64
			row.Arousal = &a
		}
		row.Metadata = decodeMetadata(tags, participants, location, extra)
		out = append(out, row)
	}
	return out, rows.Err()
}

// QueryAffect implements core.RecordStore. Results are most-recent-first.
func (s *SQLiteStore) QueryAffect(ctx context.Context, userID string, f core.AffectFilter) ([]core.AffectRow, error) {
	query := `SELECT id, user_id, content, recorded_at, valence, arousal, importance, tags, participants, location, extra
        FROM affect_states WHERE user_id = ? ORDER BY recorded_at DESC, id ASC`
	args := []any{userID}
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.AffectRow
	for rows.Next() {
		var (
			row          core.AffectRow
			tags         sql.NullString
			participants sql.NullString
			location     sql.NullString
			extra        sql.NullString
		)
		if err := rows.Scan(&row.ID, &row.UserID, &row.Content, &row.RecordedAt, &row.Valence, &row.Arousal, &row.Importance, &tags, &participants, &location, &extra); err != nil {
			return nil, err
		}
		row.Metadata = decodeMetadata(tags, participants, location, extra)
		out = append(out, row)
	}
	return out, rows.Err()
}

// QuerySkills implements core.RecordStore. Results are ordered by last
// practice time, most recent first.
func (s *SQLiteStore) QuerySkills(ctx context.Context, userID string, f core.SkillFilter) ([]core.SkillRow, error) {
	query := `SELECT id, user_id, skill, last_practiced, success_rate, practice_count, tags, participants, location, extra
        FROM skills WHERE user_id = ? ORDER BY last_practiced DESC, id ASC`
	args := []any{userID}
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.SkillRow
	for rows.Next() {
		var (
			row          core.SkillRow
			practiced    sql.NullTime
			tags         sql.NullString
			participants sql.NullString
			location     sql.NullString
			extra        sql.NullString
		)
		if err := rows.Scan(&row.ID, &row.UserID, &row.Skill, &practiced, &row.SuccessRate, &row.PracticeCount, &tags, &participants, &location, &extra); err != nil {
			return nil, err
		}
		if practiced.Valid {
			row.LastPracticed = practiced.Time
		}
		row.Metadata = decodeMetadata(tags, participants, location, extra)
		out = append(out, row)
	}
	return out, rows.Err()
}

func encodeMetadata(md core.Metadata) (tags, participants, extra any) {
	tags = encodeJSON(md.Tags)
	participants = encodeJSON(md.Participants)
	extra = encodeJSON(md.Extra)
	return tags, participants, extra
}

func encodeJSON(v any) any {
	switch t := v.(type) {
	case []string:
		if len(t) == 0 {
			return nil
		}
	case map[string]any:
		if len(t) == 0 {
			return nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return string(b)
}

// decodeMetadata rebuilds the typed metadata side-table from the persisted
// JSON columns. Decoding happens here, at the adapter boundary, so downstream
// code never touches JSON-in-a-string fields.
func decodeMetadata(tags, participants, location, extra sql.NullString) core.Metadata {
	var md core.Metadata
	if tags.Valid && tags.String != "" {
		_ = json.Unmarshal([]byte(tags.String), &md.Tags)
	}
	if participants.Valid && participants.String != "" {
		_ = json.Unmarshal([]byte(participants.String), &md.Participants)
	}
	if location.Valid {
		md.Location = location.String
	}
	if extra.Valid && extra.String != "" {
		_ = json.Unmarshal([]byte(extra.String), &md.Extra)
	}
	return md
}

var _ core.RecordStore = (*SQLiteStore)(nil)
