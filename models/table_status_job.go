package models

import "time"

// TableStatusJob is a durable entry in the status schedule. One row is
// enqueued per reservation boundary, deduplicated on
// (table_id, effective_at). The worker never stores a target status:
// when a job comes due it recomputes what the table status should be
// right now, so replaying a job is always safe.
type TableStatusJob struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BusinessID  uint      `gorm:"index;not null" json:"business_id"`
	TableID     uint      `gorm:"uniqueIndex:idx_table_effective;not null" json:"table_id"`
	EffectiveAt time.Time `gorm:"uniqueIndex:idx_table_effective;index;not null" json:"effective_at"`
	Processed   bool      `gorm:"index;default:false" json:"processed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
