package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Dan9191/loan-registry/internal/export"
	"github.com/Dan9191/loan-registry/internal/models"
	"github.com/sirupsen/logrus"
)

// Lister supplies the records to snapshot
type Lister interface {
	List() ([]models.LoanRecord, error)
}

// Job writes a timestamped export of all records into a directory
type Job struct {
	lister Lister
	dir    string
	format export.Format
	log    *logrus.Logger
	now    func() time.Time
}

// NewJob creates a backup job
func NewJob(lister Lister, dir string, format export.Format, log *logrus.Logger) *Job {
	return &Job{lister: lister, dir: dir, format: format, log: log, now: time.Now}
}

// Run writes one snapshot and returns its path
func (j *Job) Run() (string, error) {
	records, err := j.lister.List()
	if err != nil {
		return "", fmt.Errorf("failed to load records for backup: %w", err)
	}

	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup dir: %w", err)
	}

	name := fmt.Sprintf("loan-records-%s.%s", j.now().Format("20060102-150405"), j.format.Extension())
	path := filepath.Join(j.dir, name)
	tmp, err := os.CreateTemp(j.dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := export.Write(tmp, j.format, records); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close backup file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", fmt.Errorf("failed to set backup file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("failed to finalize backup file: %w", err)
	}

	j.log.WithFields(logrus.Fields{"path": path, "records": len(records)}).Info("Backup written")
	return path, nil
}

// Func adapts Run for a cron scheduler, logging failures
func (j *Job) Func() func() {
	return func() {
		if _, err := j.Run(); err != nil {
			j.log.Errorf("Backup failed: %v", err)
		}
	}
}
