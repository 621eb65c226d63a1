package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	TypeDistribute     = "distribute"
	TypeBulkDistribute = "bulk_distribute"
	TypeManualReset    = "manual_reset"
)

// Transition is an immutable audit row for one basket/ownership move.
// Rows are never updated or deleted.
type Transition struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID  int64        `gorm:"not null;index" json:"company_id"`
	CustomerID int64        `gorm:"not null;index" json:"customer_id"`

	FromBasketKey *string `json:"from_basket_key,omitempty"`
	ToBasketKey   *string `json:"to_basket_key,omitempty"`
	PrevOwner     *int64  `json:"prev_owner,omitempty"`
	NewOwner      *int64  `json:"new_owner,omitempty"`

	TransitionType string            `gorm:"not null" json:"transition_type"`
	TriggeredBy    string            `json:"triggered_by,omitempty"`
	Note           string            `json:"note,omitempty"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Transition) TableName() string {
	return "basket_transitions"
}
