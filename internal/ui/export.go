package ui

import (
	"encoding/json"
	"fmt"

	"github.com/atotto/clipboard"
)

// ExportSnapshotToClipboard copies the current annotation snapshot to the
// clipboard as JSON, for pasting into a report or a bug ticket.
func (m *Model) ExportSnapshotToClipboard() error {
	if m.sheet == nil {
		return fmt.Errorf("no annotation session active")
	}

	entries := m.sheet.Snapshot(m.citations)
	if len(entries) == 0 {
		return fmt.Errorf("no citations to export")
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal annotations: %w", err)
	}

	if err := clipboard.WriteAll(string(data)); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}

	return nil
}
