package logging

import (
	"log/slog"
	"time"

	"github.com/craftlink/craftlink-backend/internal/models"
	"gorm.io/gorm"
)

// system_logs rows older than this are dropped.
const retentionDays = 30

// StartCleanup prunes expired system_logs once at startup and then once
// a day, until done is closed.
func StartCleanup(db *gorm.DB, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		prune(db)
		for {
			select {
			case <-ticker.C:
				prune(db)
			case <-done:
				return
			}
		}
	}()
}

func prune(db *gorm.DB) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		slog.Error("system log cleanup failed", "error", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		slog.Info("system log cleanup completed", "deleted", result.RowsAffected)
	}
}
