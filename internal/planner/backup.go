package planner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/balkashynov/ssp/internal/db"
	"github.com/balkashynov/ssp/internal/models"
)

// backupDocument is the import shape. Pointer fields tell an absent or null
// key apart from an empty collection.
type backupDocument struct {
	Tasks    *[]models.Task    `json:"tasks"`
	Sessions *[]models.Session `json:"sessions"`
	Settings *models.Settings  `json:"settings"`
}

// Export returns the full state as pretty-printed JSON
func (p *Planner) Export() ([]byte, error) {
	p.mu.Lock()
	snap := db.Snapshot{
		Tasks:    p.tasks.All(),
		Sessions: p.sessions.All(),
		Settings: p.settings,
	}
	p.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return data, nil
}

// ExportFileName is the backup file name for the given day
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("ssp_backup_%s.json", now.Format(models.DateLayout))
}

// ExportTo writes a dated backup into dir and returns its path
func (p *Planner) ExportTo(dir string) (string, error) {
	data, err := p.Export()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, ExportFileName(p.clock.Now()))
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return path, nil
}

// Import replaces every collection present in data. Missing keys are left
// alone; malformed JSON changes nothing.
func (p *Planner) Import(data []byte) error {
	var doc backupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrImport, err)
	}

	var c change
	if doc.Tasks != nil {
		c |= tasksChanged
	}
	if doc.Sessions != nil {
		c |= sessionsChanged
	}
	if doc.Settings != nil {
		c |= settingsChanged
	}
	if c == 0 {
		p.log.Info("backup had nothing to import")
		return nil
	}

	_, err := p.mutate(c, func() error {
		if doc.Tasks != nil {
			p.tasks.Replace(*doc.Tasks)
			if id := p.engine.Attached(); id != "" {
				if _, ok := p.tasks.ByID(id); !ok {
					p.engine.Detach()
				}
			}
		}
		if doc.Sessions != nil {
			p.sessions.Replace(*doc.Sessions)
		}
		if doc.Settings != nil {
			p.settings = doc.Settings.Normalize()
			p.engine.Configure(p.focusDuration(), p.breakDuration())
		}
		return nil
	})
	if err != nil {
		return err
	}
	p.log.Info("backup imported", "tasks", doc.Tasks != nil, "sessions", doc.Sessions != nil, "settings", doc.Settings != nil)
	return nil
}
