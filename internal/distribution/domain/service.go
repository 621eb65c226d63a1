package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrEmptyBatch     = errors.New("empty_batch")
	ErrInvalidCount   = errors.New("invalid_count")
	ErrNoAgents       = errors.New("no_agents_available")
)

// Per-pair failure reasons reported in the batch result. Not errors:
// a failed pair never aborts the batch.
const (
	ReasonAlreadyAssigned = "already_assigned_this_round"
	ReasonLeadNotFound    = "lead_not_found"
	ReasonLeadBlocked     = "lead_blocked"
)

// AssignmentPair is one (lead, agent) element of a distribution batch.
type AssignmentPair struct {
	CustomerID int64 `json:"customer_id"`
	AgentID    int64 `json:"agent_id"`
}

type DistributeRequest struct {
	Pairs           []AssignmentPair
	SourceBasketKey string
	TargetBasketKey string
	TriggeredBy     string
}

// FailedPair carries the per-item skip outcome back to the caller.
type FailedPair struct {
	CustomerID int64  `json:"customer_id"`
	AgentID    int64  `json:"agent_id"`
	Reason     string `json:"reason"`
}

type DistributeResponse struct {
	SuccessIDs   []int64          `json:"success_ids"`
	FailedIDs    []int64          `json:"failed_ids"`
	Failed       []FailedPair     `json:"failed,omitempty"`
	SkippedPairs []AssignmentPair `json:"skipped_pairs,omitempty"`
	AgentStats   map[int64]int    `json:"agent_stats"`
	TotalSuccess int              `json:"total_success"`
	TotalFailed  int              `json:"total_failed"`
}

// BulkDistributeRequest fans fresh (never-assigned) leads out across
// agents. No ledger check: assigned_to IS NULL is already a
// precondition of the candidate query.
type BulkDistributeRequest struct {
	Count         int
	AgentIDs      []int64
	TargetStatus  string
	OwnershipDays int
	TriggeredBy   string
}

type BulkDistributeResponse struct {
	Distributed int           `json:"distributed"`
	Assignments map[int64]int `json:"assignments"`
	// Skipped is the shortfall against the requested count when fewer
	// fresh leads were available.
	Skipped int `json:"skipped"`
}

type Service interface {
	// Distribute applies the batch in one all-or-nothing transaction.
	// Per-pair "already assigned this round" outcomes are collected in
	// the response; only storage faults fail the whole batch.
	Distribute(ctx context.Context, req DistributeRequest) (DistributeResponse, error)
	BulkDistribute(ctx context.Context, req BulkDistributeRequest) (BulkDistributeResponse, error)
}
