package models

import "time"

// Staff / customer roles.
const (
	RoleSupervisor = "SUPERVISOR"
	RoleWaiter     = "WAITER"
	RoleWorker     = "WORKER"
	RoleCustomer   = "CUSTOMER"
	RoleDeveloper  = "DEVELOPER"
)

type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Username    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	FirstName   string `gorm:"type:varchar(255)" json:"first_name"`
	LastName    string `gorm:"type:varchar(255)" json:"last_name"`
	PhoneNumber string `gorm:"type:varchar(50)" json:"phone_number"`
	Password    string `gorm:"type:varchar(255);not null" json:"-"`
	Role        string `gorm:"type:varchar(20);index;not null" json:"role"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
