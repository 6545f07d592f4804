package model

import (
	"strings"
	"time"
)

// UploadTask represents a single image upload task
type UploadTask struct {
	ID         string
	RepoName   string
	LocalPath  string
	RemotePath string
	Status     TaskStatus
	Progress   float64 // 0.0 to 1.0
	Percent    int     // 0 to 100
	LastError  string  // last error message if any
	FileSize   int64   // original file size in bytes
	StartedAt  time.Time
	FinishedAt time.Time
}

// GetDisplayName returns the file name without path or extension, falling
// back to the remote path when no local path is set.
func (ut *UploadTask) GetDisplayName() string {
	source := ut.LocalPath
	if source == "" {
		source = ut.RemotePath
	}
	if source == "" {
		return ""
	}

	// Support both / and \ separators
	parts := strings.FieldsFunc(source, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	if len(parts) == 0 {
		return ""
	}
	name := parts[len(parts)-1]
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name
}
