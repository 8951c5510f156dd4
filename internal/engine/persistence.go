package engine

import (
	"log"
	"os"
	"path/filepath"

	"github.com/gcbaptista/go-tagger-eval/internal/persistence"
	"github.com/gcbaptista/go-tagger-eval/store"
)

const reportsFile = "reports.gob"

func (e *Engine) reportsPath() string {
	return filepath.Join(e.settings.ReportDir, reportsFile)
}

// loadReports restores the report store from disk. A missing or unreadable file
// leaves the store empty.
func (e *Engine) loadReports() {
	path := e.reportsPath()
	loaded := store.NewReportStore()
	if err := persistence.LoadGob(path, loaded); err != nil {
		if err == os.ErrNotExist {
			log.Printf("Info: Report file %s not found. Starting with no reports.", path)
		} else {
			log.Printf("Warning: Failed to load reports from %s: %v. Starting with no reports.", path, err)
		}
		return
	}
	e.reports = loaded
	log.Printf("Loaded %d run reports from %s", loaded.Len(), path)
}

// saveReports writes the report store to disk.
func (e *Engine) saveReports() error {
	return persistence.SaveGob(e.reportsPath(), e.reports)
}
