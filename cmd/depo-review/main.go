package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/casemark/depo-review/internal/config"
	"github.com/casemark/depo-review/internal/journal"
	"github.com/casemark/depo-review/internal/ui"
)

func main() {
	history := flag.Int("history", 0, "print the last N journalled snapshot pushes and exit")
	flag.Parse()

	if *history > 0 {
		if err := printHistory(*history); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	// Route log output to a file so it doesn't corrupt the TUI
	if dir, err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(filepath.Join(dir, "depo-review.log"),
			os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
			log.SetOutput(f)
			defer f.Close()
		}
	}

	m := ui.NewModel()
	defer m.Close()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),       // Use alternate screen buffer (clears terminal)
		tea.WithMouseCellMotion(), // Enable mouse support
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// printHistory lists recent snapshot pushes from the local journal, the
// fallback record when a fire-and-forget push to the backend was lost.
func printHistory(limit int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	path, err := cfg.EffectiveJournalPath()
	if err != nil {
		return err
	}
	j, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer j.Close()

	records, err := j.History(limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no journalled pushes")
		return nil
	}

	for _, rec := range records {
		status := "delivered"
		if !rec.Delivered {
			status = "failed: " + rec.Error
		}
		fmt.Printf("%s  %-30s  %d entries  %s\n",
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.ResultID, len(rec.Entries), status)
	}
	return nil
}
