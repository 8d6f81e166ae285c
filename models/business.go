package models

import "time"

// Business is a tenant. Every floor, table, menu item, order,
// reservation and payment transaction belongs to exactly one business.
type Business struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Name              string     `gorm:"type:varchar(255);not null" json:"name"`
	Location          string     `gorm:"type:varchar(255)" json:"location"`
	Image             string     `gorm:"type:varchar(512)" json:"image"`
	IsPaid            bool       `gorm:"default:false" json:"is_paid"`
	PaymentExpiryDate *time.Time `json:"payment_expiry_date,omitempty"`
	DeveloperID       uint       `gorm:"index" json:"developer_id"`
	SupervisorID      *uint      `json:"supervisor_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
