package annotation

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Saver pushes one snapshot to the external store. The pipeline client
// implements this; tests supply a double.
type Saver interface {
	SaveAnnotations(ctx context.Context, resultID string, entries []Entry) error
}

// KeyFunc derives the identifier a session's snapshots are stored under.
// It is called once per push and must be deterministic for the session.
type KeyFunc func() string

// NewInstanceToken mints the per-session random token that keeps repeated
// sessions over the same document from overwriting each other.
func NewInstanceToken() string {
	return uuid.New().String()[:8]
}

// DeriveResultID builds the default persistence key: the summary file's
// base name with the .txt suffix stripped, joined to the session token.
func DeriveResultID(summaryFileName, token string) string {
	return strings.ReplaceAll(summaryFileName, ".txt", "") + "_" + token
}

// ResultKey returns a KeyFunc for the default identity scheme.
func ResultKey(summaryFileName, token string) KeyFunc {
	id := DeriveResultID(summaryFileName, token)
	return func() string { return id }
}

// AutoSaver pushes a full snapshot of the sheet on every change event.
// Delivery is fire-and-forget and at-most-once per change: a failed push
// is not retried, and the next change supersedes it with a complete
// snapshot.
type AutoSaver struct {
	saver Saver
	key   KeyFunc
}

func NewAutoSaver(saver Saver, key KeyFunc) *AutoSaver {
	return &AutoSaver{saver: saver, key: key}
}

// ResultID exposes the session's derived persistence key.
func (a *AutoSaver) ResultID() string {
	return a.key()
}

// Push builds and delivers a snapshot of the sheet. Nothing is pushed
// until at least one criterion has been answered for at least one
// citation; in that case Push reports pushed=false with no error.
func (a *AutoSaver) Push(ctx context.Context, sheet *Sheet, citations []Citation) (bool, error) {
	if !sheet.Answered() {
		return false, nil
	}
	entries := sheet.Snapshot(citations)
	if err := a.saver.SaveAnnotations(ctx, a.key(), entries); err != nil {
		return true, err
	}
	return true, nil
}
