package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abbossetdarov/restaurant-ops/models"
	"github.com/abbossetdarov/restaurant-ops/utils"
)

// TableStatusWorker drains the durable status schedule. Reservation
// handlers enqueue one job per interval boundary; the worker polls for
// due jobs and recomputes the table status from the reservation
// calendar instead of applying a remembered target. Jobs left
// unprocessed by a crash are simply picked up on the next poll.
type TableStatusWorker struct {
	DB       *gorm.DB
	Interval time.Duration
	stopCh   chan struct{}
}

func NewTableStatusWorker(db *gorm.DB) *TableStatusWorker {
	return &TableStatusWorker{
		DB:       db,
		Interval: 5 * time.Second,
		stopCh:   make(chan struct{}),
	}
}

func (w *TableStatusWorker) Start() {
	go func() {
		ticker := time.NewTicker(w.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := w.ProcessDueJobs(time.Now().UTC()); err != nil {
					utils.ErrorLogger.Printf("table status worker: %v", err)
				}
			case <-w.stopCh:
				return
			}
		}
	}()
}

func (w *TableStatusWorker) Stop() {
	close(w.stopCh)
}

// ProcessDueJobs applies every unprocessed job whose effective time has
// passed. Exported so tests can drive the worker without the ticker.
func (w *TableStatusWorker) ProcessDueJobs(now time.Time) error {
	var jobs []models.TableStatusJob
	if err := w.DB.Where("processed = ? AND effective_at <= ?", false, now).
		Order("effective_at asc").Find(&jobs).Error; err != nil {
		return err
	}

	for _, job := range jobs {
		if err := w.applyJob(job, now); err != nil {
			utils.ErrorLogger.Printf("apply status job %d (table %d): %v", job.ID, job.TableID, err)
			continue
		}
	}
	return nil
}

func (w *TableStatusWorker) applyJob(job models.TableStatusJob, now time.Time) error {
	return w.DB.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&table, job.TableID).Error; err != nil {
			// Table deleted since the job was enqueued: retire the job.
			return tx.Model(&models.TableStatusJob{}).Where("id = ?", job.ID).
				Update("processed", true).Error
		}

		status, err := desiredTableStatus(tx, job.TableID, now)
		if err != nil {
			return err
		}

		if table.Status != status {
			table.Status = status
			if err := tx.Save(&table).Error; err != nil {
				return err
			}
			utils.InfoLogger.Printf("table %d status recomputed to %s", table.ID, status)
		}

		return tx.Model(&models.TableStatusJob{}).Where("id = ?", job.ID).
			Update("processed", true).Error
	})
}

// desiredTableStatus answers "should this table be RESERVED right now"
// from the reservation rows alone.
func desiredTableStatus(tx *gorm.DB, tableID uint, now time.Time) (string, error) {
	var count int64
	err := tx.Model(&models.Reservation{}).
		Where("table_id = ? AND is_active = ? AND start_time <= ? AND end_time > ?",
			tableID, true, now, now).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	if count > 0 {
		return models.TableStatusReserved, nil
	}
	return models.TableStatusAvailable, nil
}

// EnqueueStatusJob records a boundary in the schedule, deduplicated on
// (table_id, effective_at) so overlapping requests cannot double-book
// a flip.
func EnqueueStatusJob(db *gorm.DB, businessID, tableID uint, effectiveAt time.Time) error {
	job := models.TableStatusJob{
		BusinessID:  businessID,
		TableID:     tableID,
		EffectiveAt: effectiveAt.UTC(),
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&job).Error
}

// PurgeProcessedJobs deletes applied schedule rows past a one-day
// retention window, keeping table_status_jobs bounded.
func PurgeProcessedJobs(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("processed = ? AND effective_at < ?", true, now.Add(-24*time.Hour)).
		Delete(&models.TableStatusJob{})
	return result.RowsAffected, result.Error
}

// RecomputeTableStatus is the synchronous variant used when a
// reservation is created with an already-started interval, or deleted.
func RecomputeTableStatus(db *gorm.DB, tableID uint, now time.Time) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&table, tableID).Error; err != nil {
			return err
		}
		status, err := desiredTableStatus(tx, tableID, now)
		if err != nil {
			return err
		}
		if table.Status == status {
			return nil
		}
		table.Status = status
		return tx.Save(&table).Error
	})
}
