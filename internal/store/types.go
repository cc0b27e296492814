package store

import "time"

// File is one analyzed source file. Hash is the SHA-256 of the content
// at the time of the last analysis.
type File struct {
	ID           int64
	Path         string
	Hash         string
	LastAnalyzed time.Time
}

// Finding is one stored rule finding.
type Finding struct {
	ID        int64
	FileID    int64
	Rule      string
	Message   string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}
