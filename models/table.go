package models

import "time"

const (
	TableStatusAvailable = "AVAILABLE"
	TableStatusReserved  = "RESERVED"
)

// Table.Status is derived from the reservation calendar; it is flipped
// by the reservation workflow and the status worker, never trusted as
// authoritative on its own.
type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BusinessID  uint      `gorm:"uniqueIndex:idx_business_table_number;not null" json:"business_id"`
	TableNumber int       `gorm:"uniqueIndex:idx_business_table_number;not null" json:"table_number"`
	ModuleID    uint      `gorm:"index;not null" json:"module_id"`
	Description string    `gorm:"type:varchar(255)" json:"description"`
	Capacity    int       `json:"capacity"`
	Status      string    `gorm:"type:varchar(20);not null;default:'AVAILABLE'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
