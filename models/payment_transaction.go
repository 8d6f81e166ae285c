package models

import "time"

// Payme transaction states as reported back to the gateway.
const (
	TransactionStateCreated    = 1
	TransactionStateSuccessful = 2
	TransactionStateCancelled  = 3
)

// PaymentTransaction is written exclusively by the Payme webhook
// handlers. TransactionID is the gateway's id and must be unique; a
// duplicate CreateTransaction is answered with a distinct error code
// from an unknown transaction.
type PaymentTransaction struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	BusinessID    uint       `gorm:"index;not null" json:"business_id"`
	OrderID       uint       `gorm:"index;not null" json:"order_id"`
	Order         Order      `gorm:"foreignKey:OrderID" json:"-"`
	TransactionID string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"transaction_id"`
	Amount        float64    `gorm:"type:decimal(12,2);not null" json:"amount"`
	State         int        `gorm:"not null;default:1" json:"state"`
	PerformTime   *time.Time `json:"perform_time,omitempty"`
	CancelTime    *time.Time `json:"cancel_time,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
