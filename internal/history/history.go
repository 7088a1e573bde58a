package history

import (
	"context"
	"fmt"
	"time"

	"github.com/alsdiag/alsdiag/internal/als"
	"github.com/alsdiag/alsdiag/internal/diff"
	"github.com/alsdiag/alsdiag/internal/rules"
)

// VersionRecord is one saved evaluation of a project. The parsed snapshot
// rides along with the report so a later save can be diffed against this
// version without re-reading the original file.
type VersionRecord struct {
	ScanID    string              `json:"scan_id"`
	Project   string              `json:"project"`
	Timestamp time.Time           `json:"timestamp"`
	Report    *rules.HealthReport `json:"report"`
	Snapshot  *als.Project        `json:"snapshot"`
}

// Store persists version records and the change records derived from
// consecutive versions. Histories are per project name; change records are
// aggregated across all projects for pattern learning.
type Store interface {
	// Append adds a version. Appending a record older than the project's
	// latest version fails with *ConcurrencyConflictError.
	Append(ctx context.Context, rec VersionRecord) error

	// History returns a project's versions ordered oldest first.
	History(ctx context.Context, project string) ([]VersionRecord, error)

	// Latest returns the most recent version, or found=false for an
	// unknown project.
	Latest(ctx context.Context, project string) (rec VersionRecord, found bool, err error)

	// Projects lists every project with at least one version, sorted.
	Projects(ctx context.Context) ([]string, error)

	// RecordChanges stores the structural changes of one transition.
	RecordChanges(ctx context.Context, project, scanID string, changes []diff.Change) error

	// AllChanges returns every stored change across all projects.
	AllChanges(ctx context.Context) ([]diff.Change, error)

	Close() error
}

// InsufficientHistoryError reports too few versions for the requested
// analysis.
type InsufficientHistoryError struct {
	Project string
	Have    int
	Need    int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("project %q has %d saved versions, need at least %d", e.Project, e.Have, e.Need)
}

// ConcurrencyConflictError reports an append that would interleave with a
// newer version of the same project.
type ConcurrencyConflictError struct {
	Project string
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("project %q already has a newer version", e.Project)
}
