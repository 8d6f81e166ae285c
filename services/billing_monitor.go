package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/abbossetdarov/restaurant-ops/models"
	"github.com/abbossetdarov/restaurant-ops/utils"
)

// BillingMonitor re-evaluates tenant subscriptions: a business whose
// payment_expiry_date has passed loses its paid flag on the next sweep.
type BillingMonitor struct {
	DB       *gorm.DB
	Interval time.Duration
	stopCh   chan struct{}
}

func NewBillingMonitor(db *gorm.DB) *BillingMonitor {
	return &BillingMonitor{
		DB:       db,
		Interval: time.Hour,
		stopCh:   make(chan struct{}),
	}
}

func (m *BillingMonitor) Start() {
	go func() {
		ticker := time.NewTicker(m.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := m.Sweep(time.Now().UTC()); err != nil {
					utils.ErrorLogger.Printf("billing sweep: %v", err)
				}
				utils.CleanupBlacklist()
				if _, err := PurgeProcessedJobs(m.DB, time.Now().UTC()); err != nil {
					utils.ErrorLogger.Printf("status job purge: %v", err)
				}
			case <-m.stopCh:
				return
			}
		}
	}()
}

func (m *BillingMonitor) Stop() {
	close(m.stopCh)
}

// Sweep flips is_paid off for every business whose subscription has
// expired.
func (m *BillingMonitor) Sweep(now time.Time) error {
	result := m.DB.Model(&models.Business{}).
		Where("is_paid = ? AND payment_expiry_date < ?", true, now).
		Update("is_paid", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		utils.InfoLogger.Printf("billing sweep: %d business(es) expired", result.RowsAffected)
	}
	return nil
}
