package domain

import "time"

// Lifecycle statuses the distributor writes. Leads are created upstream
// (sales/import flows) so the zero status is whatever the importer set.
const (
	LifecycleStatusNew      = "new"
	LifecycleStatusAssigned = "assigned"
)

// Lead is a sales prospect tracked for assignment and follow-up.
type Lead struct {
	ID        int64 `gorm:"primaryKey" json:"id"`
	CompanyID int64 `gorm:"not null;index" json:"company_id"`

	FullName string `gorm:"not null" json:"full_name"`
	Phone    string `json:"phone,omitempty"`

	AssignedTo       *int64  `json:"assigned_to,omitempty"`
	CurrentRound     int     `gorm:"not null;default:1" json:"current_round"`
	CurrentBasketKey *string `json:"current_basket_key,omitempty"`
	LifecycleStatus  string  `json:"lifecycle_status,omitempty"`

	IsBlocked              bool       `gorm:"not null;default:false" json:"is_blocked"`
	IsInWaitingBasket      bool       `gorm:"not null;default:false" json:"is_in_waiting_basket"`
	WaitingBasketStartDate *time.Time `json:"waiting_basket_start_date,omitempty"`
	BasketEnteredDate      *time.Time `json:"basket_entered_date,omitempty"`
	OwnershipExpires       *time.Time `json:"ownership_expires,omitempty"`

	LastFollowUpDate *time.Time `json:"last_follow_up_date,omitempty"`
	DateAssigned     *time.Time `json:"date_assigned,omitempty"`
	DateRegistered   *time.Time `json:"date_registered,omitempty"`

	OrderCount     int        `gorm:"not null;default:0" json:"order_count"`
	FirstOrderDate *time.Time `json:"first_order_date,omitempty"`
	LastOrderDate  *time.Time `json:"last_order_date,omitempty"`
	Grade          *string    `json:"grade,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Lead) TableName() string {
	return "customers"
}
