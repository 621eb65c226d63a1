package domain

import "time"

const (
	RoleTelesale   = "telesale"
	RoleSupervisor = "supervisor"

	StatusActive = "active"
)

// Agent is the slice of the users table the distribution core needs.
type Agent struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	CompanyID int64     `gorm:"not null;index" json:"company_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `gorm:"not null" json:"role"`
	Status    string    `gorm:"not null" json:"status"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Agent) TableName() string {
	return "users"
}
