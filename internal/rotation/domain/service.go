package domain

import (
	"context"
	"errors"

	ledgerdomain "github.com/salespool/leadrotor/internal/ledger/domain"
	"github.com/salespool/leadrotor/pkg/db/pagination"
	"gorm.io/gorm"
)

var (
	ErrInvalidCompany     = errors.New("invalid_company")
	ErrInvalidMode        = errors.New("invalid_mode")
	ErrMissingCustomerIDs = errors.New("missing_customer_ids")
	ErrMissingTargetCount = errors.New("missing_target_count")
	ErrInvalidCustomerID  = errors.New("invalid_customer_id")
)

const (
	ResetModeSelected = "selected"
	ResetModeAll      = "all"
)

type CandidatesRequest struct {
	TargetCount int
	Page        pagination.Pagination
}

type CandidatesResponse struct {
	pagination.PageInfo
	Candidates []ledgerdomain.CandidateRow `json:"candidates"`
}

type ManualResetRequest struct {
	Mode        string
	CustomerIDs []int64
	TargetCount *int
	TriggeredBy string
}

type ManualResetResponse struct {
	TotalReset int   `json:"total_reset"`
	LogDeleted int64 `json:"log_deleted"`
}

// Service owns the round state machine: open -> full -> reset.
type Service interface {
	// CheckRoundCompletion runs inside the caller's transaction right
	// after a successful assignment. When the lead's ledger count has
	// reached the active-agent denominator it wipes the lead's ledger
	// rows and advances current_round.
	CheckRoundCompletion(ctx context.Context, tx *gorm.DB, companyID, customerID int64) (bool, error)
	GetCandidates(ctx context.Context, req CandidatesRequest) (CandidatesResponse, error)
	ManualReset(ctx context.Context, req ManualResetRequest) (ManualResetResponse, error)
	GetResetSummary(ctx context.Context) ([]ledgerdomain.SummaryRow, error)
	GetAssignHistory(ctx context.Context, customerID int64) ([]ledgerdomain.HistoryRow, error)
}
