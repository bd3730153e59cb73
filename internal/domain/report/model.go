package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/careops/rosterpdf/internal/domain/roster"
)

// Artifact describes one written roster document.
type Artifact struct {
	ID       uuid.UUID       `json:"id"`
	Key      roster.GroupKey `json:"key"`
	FileName string          `json:"file_name"`
	Path     string          `json:"path"`
	Pages    int             `json:"pages"`
	Bytes    int64           `json:"bytes"`
}

// ArtifactInfo describes one document present in the output directory.
// Unlike Artifact it is recovered from the filesystem, so the group key
// and page count of the original build are not available.
type ArtifactInfo struct {
	FileName   string    `json:"file_name"`
	Bytes      int64     `json:"bytes"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Result pairs a group with the outcome of its build. Err is nil when the
// artifact was written.
type Result struct {
	Key      roster.GroupKey
	Artifact Artifact
	Err      error
}

// Failed reports whether the group's document could not be produced.
func (r Result) Failed() bool { return r.Err != nil }
