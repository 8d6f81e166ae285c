package models

import "time"

// Module is a named subdivision of a floor ("terrace", "VIP corner").
// Modules may nest under a parent module; the tree is kept acyclic by
// convention, not by constraint.
type Module struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BusinessID uint      `gorm:"index;not null" json:"business_id"`
	FloorID    uint      `gorm:"index;not null" json:"floor_id"`
	ParentID   *uint     `gorm:"index" json:"parent_id,omitempty"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Tables []Table `gorm:"foreignKey:ModuleID" json:"tables,omitempty"`
}
