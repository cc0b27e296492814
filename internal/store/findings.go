package store

import (
	"database/sql"
	"fmt"
)

// ReplaceFindings replaces every stored finding for fileID with the given
// set, atomically.
func (s *Store) ReplaceFindings(fileID int64, findings []Finding) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("replace findings: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM findings WHERE file_id = ?`, fileID); err != nil {
		return fmt.Errorf("replace findings: delete: %w", err)
	}
	stmt, err := tx.Prepare(
		`INSERT INTO findings (file_id, rule, message, start_line, start_col, end_line, end_col)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("replace findings: prepare: %w", err)
	}
	defer stmt.Close()

	for _, f := range findings {
		if _, err := stmt.Exec(fileID, f.Rule, f.Message, f.StartLine, f.StartCol, f.EndLine, f.EndCol); err != nil {
			return fmt.Errorf("replace findings: insert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace findings: commit: %w", err)
	}
	return nil
}

// FindingsByFile returns the findings for one file in source order.
func (s *Store) FindingsByFile(fileID int64) ([]Finding, error) {
	rows, err := s.db.Query(
		`SELECT id, file_id, rule, message, start_line, start_col, end_line, end_col
		 FROM findings WHERE file_id = ? ORDER BY start_line, start_col`, fileID)
	if err != nil {
		return nil, fmt.Errorf("findings by file: %w", err)
	}
	return scanFindings(rows)
}

// AllFindings returns every finding joined with its file path, ordered by
// path then position. The returned map is keyed by path.
func (s *Store) AllFindings() (map[string][]Finding, error) {
	rows, err := s.db.Query(
		`SELECT fd.id, fd.file_id, fd.rule, fd.message, fd.start_line, fd.start_col, fd.end_line, fd.end_col, f.path
		 FROM findings fd JOIN files f ON f.id = fd.file_id
		 ORDER BY f.path, fd.start_line, fd.start_col`)
	if err != nil {
		return nil, fmt.Errorf("all findings: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]Finding)
	for rows.Next() {
		var fd Finding
		var path string
		if err := rows.Scan(&fd.ID, &fd.FileID, &fd.Rule, &fd.Message,
			&fd.StartLine, &fd.StartCol, &fd.EndLine, &fd.EndCol, &path); err != nil {
			return nil, fmt.Errorf("all findings: scan: %w", err)
		}
		out[path] = append(out[path], fd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("all findings: rows: %w", err)
	}
	return out, nil
}

func scanFindings(rows *sql.Rows) ([]Finding, error) {
	defer rows.Close()
	var out []Finding
	for rows.Next() {
		var fd Finding
		if err := rows.Scan(&fd.ID, &fd.FileID, &fd.Rule, &fd.Message,
			&fd.StartLine, &fd.StartCol, &fd.EndLine, &fd.EndCol); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		out = append(out, fd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("findings rows: %w", err)
	}
	return out, nil
}
