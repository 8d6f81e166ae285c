package models

import "time"

// Reservation holds a table for the half-open interval
// [StartTime, EndTime). Two active reservations of the same table must
// never overlap; the controller enforces this at create and update time.
type Reservation struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BusinessID uint      `gorm:"index;not null" json:"business_id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	TableID    uint      `gorm:"index;not null" json:"table_id"`
	StartTime  time.Time `gorm:"index;not null" json:"start_time"`
	EndTime    time.Time `gorm:"not null" json:"end_time"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Covers reports whether the reservation interval contains t.
func (r *Reservation) Covers(t time.Time) bool {
	return !r.StartTime.After(t) && t.Before(r.EndTime)
}
