package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"github.com/cppla/portfolio/models"
)

// SweepUploads removes files under dir that no UploadedFile row references and that are
// older than grace (aborted or half-written uploads), and drops rows whose file is gone.
func SweepUploads(db *gorm.DB, dir string, grace time.Duration) (filesRemoved, rowsRemoved int, err error) {
	var rows []models.UploadedFile
	if err := db.Find(&rows).Error; err != nil {
		return 0, 0, err
	}
	known := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		abs, _ := filepath.Abs(r.FilePath)
		known[abs] = struct{}{}
		if _, statErr := os.Stat(r.FilePath); os.IsNotExist(statErr) {
			if err := db.Delete(&models.UploadedFile{}, r.ID).Error; err == nil {
				rowsRemoved++
			}
		}
	}

	cutoff := time.Now().Add(-grace)
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		abs, _ := filepath.Abs(path)
		if _, ok := known[abs]; ok {
			return nil
		}
		info, err := d.Info()
		if err != nil || info.ModTime().After(cutoff) {
			return nil
		}
		if os.Remove(path) == nil {
			filesRemoved++
		}
		return nil
	})
	return filesRemoved, rowsRemoved, walkErr
}

// StartUploadCleaner launches a background goroutine that periodically sweeps the upload directory.
func StartUploadCleaner(db *gorm.DB, dir string, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			files, rows, err := SweepUploads(db, dir, interval)
			if err != nil {
				Sugar.Warnf("upload cleaner failed: %v", err)
				continue
			}
			if files > 0 || rows > 0 {
				Sugar.Infow("upload cleaner swept", "files", files, "rows", rows)
			}
		}
	}()
}
