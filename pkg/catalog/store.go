package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrStorageUnavailable wraps every driver fault so callers can report a
// generic storage failure without inspecting sqlite internals.
var ErrStorageUnavailable = errors.New("voice storage unavailable")

// Store is the durable voice catalog cache, keyed by voice_id.
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, storageErr(err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS voices (
		voice_id  TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		language  TEXT NOT NULL,
		gender    TEXT,
		is_cloned INTEGER NOT NULL DEFAULT 0
	)`)
	if err != nil {
		return storageErr(err)
	}
	return nil
}

// ReplaceAll clears the table and inserts voices inside one transaction, so
// concurrent readers never observe a half-synced catalog.
func (s *Store) ReplaceAll(ctx context.Context, voices []Voice) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM voices"); err != nil {
		return storageErr(err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO voices (voice_id, name, language, gender, is_cloned) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return storageErr(err)
	}
	defer stmt.Close()

	for _, v := range voices {
		if _, err := stmt.ExecContext(ctx, v.VoiceID, v.Name, v.Language, v.Gender, v.IsCloned); err != nil {
			return storageErr(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr(err)
	}
	return nil
}

// Upsert inserts a voice or overwrites all mutable attributes of an existing
// one. Last write wins.
func (s *Store) Upsert(ctx context.Context, v Voice) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO voices (voice_id, name, language, gender, is_cloned)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(voice_id) DO UPDATE SET
			name = excluded.name,
			language = excluded.language,
			gender = excluded.gender,
			is_cloned = excluded.is_cloned`,
		v.VoiceID, v.Name, v.Language, v.Gender, v.IsCloned)
	if err != nil {
		return storageErr(err)
	}
	return nil
}

func (s *Store) ListAll(ctx context.Context) ([]Voice, error) {
	return s.query(ctx, "SELECT voice_id, name, language, gender, is_cloned FROM voices")
}

func (s *Store) ListByLanguage(ctx context.Context, language string) ([]Voice, error) {
	return s.query(ctx,
		"SELECT voice_id, name, language, gender, is_cloned FROM voices WHERE language = ?", language)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Voice, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	var voices []Voice
	for rows.Next() {
		var v Voice
		var gender sql.NullString
		if err := rows.Scan(&v.VoiceID, &v.Name, &v.Language, &gender, &v.IsCloned); err != nil {
			return nil, storageErr(err)
		}
		v.Gender = gender.String
		voices = append(voices, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}
	return voices, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
