package models

import "time"

const (
	OrderStatusPending    = "PENDING"
	OrderStatusInProgress = "IN_PROGRESS"
	OrderStatusCompleted  = "COMPLETED"
	OrderStatusCancelled  = "CANCELLED"
)

// Order.Price is captured at creation time as menu price x quantity and
// is never recomputed afterwards, even if the menu price changes.
type Order struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BusinessID uint      `gorm:"index;not null" json:"business_id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"-"`
	MenuID     uint      `gorm:"not null" json:"menu_id"`
	Menu       Menu      `gorm:"foreignKey:MenuID" json:"-"`
	TableID    uint      `gorm:"index;not null" json:"table_id"`
	Table      Table     `gorm:"foreignKey:TableID" json:"-"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Price      float64   `gorm:"type:decimal(12,2);not null" json:"price"`
	Status     string    `gorm:"type:varchar(20);index;not null;default:'PENDING'" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CanTransitionTo guards the PENDING -> IN_PROGRESS -> COMPLETED
// workflow, with CANCELLED reachable from PENDING only.
func (o *Order) CanTransitionTo(next string) bool {
	switch next {
	case OrderStatusInProgress:
		return o.Status == OrderStatusPending
	case OrderStatusCompleted:
		return o.Status == OrderStatusInProgress
	case OrderStatusCancelled:
		return o.Status == OrderStatusPending
	default:
		return false
	}
}
