package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Entry marks that a lead was offered to an agent during the lead's
// current round. Rows are deleted in bulk when the round completes, so
// the table only ever holds the open round.
type Entry struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID  int64        `gorm:"not null;uniqueIndex:ux_ledger_offer,priority:1" json:"company_id"`
	CustomerID int64        `gorm:"not null;uniqueIndex:ux_ledger_offer,priority:2" json:"customer_id"`
	AgentID    int64        `gorm:"not null;uniqueIndex:ux_ledger_offer,priority:3" json:"agent_id"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Entry) TableName() string {
	return "assignment_ledger"
}

// CandidateRow is a lead joined with its open-round offer count.
type CandidateRow struct {
	CustomerID    int64  `json:"customer_id"`
	FullName      string `json:"full_name"`
	Phone         string `json:"phone"`
	AssignedTo    *int64 `json:"assigned_to"`
	CurrentRound  int    `json:"current_round"`
	AssignedCount int    `json:"assigned_count"`
}

// SummaryRow is one histogram bucket of leads per offer count.
type SummaryRow struct {
	AssignedCount int   `json:"assigned_count"`
	CustomerCount int64 `json:"customer_count"`
}

// HistoryRow is one open-round offer with the receiving agent's name.
type HistoryRow struct {
	AgentID   int64     `json:"agent_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}
