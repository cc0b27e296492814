package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// FileByPath returns the file record for path, or nil if it was never
// analyzed.
func (s *Store) FileByPath(path string) (*File, error) {
	row := s.db.QueryRow(
		`SELECT id, path, hash, last_analyzed FROM files WHERE path = ?`, path)
	var f File
	if err := row.Scan(&f.ID, &f.Path, &f.Hash, &f.LastAnalyzed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("file by path: %w", err)
	}
	return &f, nil
}

// UpsertFile inserts or updates the record for f.Path and returns its ID.
func (s *Store) UpsertFile(f *File) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO files (path, hash, last_analyzed) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET hash = excluded.hash, last_analyzed = excluded.last_analyzed`,
		f.Path, f.Hash, f.LastAnalyzed)
	if err != nil {
		return 0, fmt.Errorf("upsert file: %w", err)
	}
	existing, err := s.FileByPath(f.Path)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}
	return res.LastInsertId()
}

// Files returns every analyzed file ordered by path.
func (s *Store) Files() ([]File, error) {
	rows, err := s.db.Query(`SELECT id, path, hash, last_analyzed FROM files ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("files: %w", err)
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.ID, &f.Path, &f.Hash, &f.LastAnalyzed); err != nil {
			return nil, fmt.Errorf("files: scan: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("files: rows: %w", err)
	}
	return files, nil
}

// DeleteFile removes a file record and, via cascade, its findings.
func (s *Store) DeleteFile(path string) error {
	if _, err := s.db.Exec(`DELETE FROM files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}
