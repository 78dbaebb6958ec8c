package files

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// File is one upload's metadata row. Content lives in object storage under
// StoragePath; listings and ownership checks only touch this table.
type File struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	Size        int64     `json:"file_size"`
	MimeType    string    `json:"mime_type"`
	CreatedAt   time.Time `json:"created_at"`
}

var ErrNotFound = errors.New("file not found")

// Store persists upload metadata in Postgres. Every query is scoped by
// owner; there is no cross-user file access.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(ctx context.Context, f File) (File, error) {
	const q = `
		INSERT INTO files (id, user_id, filename, storage_path, file_size, mime_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, filename, storage_path, file_size, mime_type, created_at`

	var out File
	err := s.db.QueryRowContext(ctx, q,
		f.ID, f.UserID, f.Filename, f.StoragePath, f.Size, f.MimeType, f.CreatedAt).
		Scan(&out.ID, &out.UserID, &out.Filename, &out.StoragePath, &out.Size, &out.MimeType, &out.CreatedAt)
	if err != nil {
		return File{}, err
	}
	return out, nil
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]File, error) {
	const q = `
		SELECT id, user_id, filename, storage_path, file_size, mime_type, created_at
		FROM files WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []File
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.ID, &f.UserID, &f.Filename, &f.StoragePath, &f.Size, &f.MimeType, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// FindByIDAndUser is the ownership check: a file id belonging to another
// user reads as not found.
func (s *Store) FindByIDAndUser(ctx context.Context, id, userID string) (File, error) {
	const q = `
		SELECT id, user_id, filename, storage_path, file_size, mime_type, created_at
		FROM files WHERE id = $1 AND user_id = $2`

	var f File
	err := s.db.QueryRowContext(ctx, q, id, userID).
		Scan(&f.ID, &f.UserID, &f.Filename, &f.StoragePath, &f.Size, &f.MimeType, &f.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return File{}, ErrNotFound
	}
	if err != nil {
		return File{}, err
	}
	return f, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM files WHERE id = $1`

	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
