package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("lead_not_found")

// AssignmentUpdate is the ownership mutation the distributor applies.
type AssignmentUpdate struct {
	AgentID           int64
	DateAssigned      time.Time
	BasketEnteredDate time.Time
	LifecycleStatus   string
	// BasketKey is only written when a target basket resolved.
	BasketKey        *string
	OwnershipExpires *time.Time
}

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, companyID, id int64) (*Lead, error)
	List(ctx context.Context, db *gorm.DB, companyID int64) ([]Lead, error)
	// FindFresh returns unassigned, unblocked leads oldest-registered first.
	FindFresh(ctx context.Context, db *gorm.DB, companyID int64, limit int) ([]Lead, error)
	UpdateAssignment(ctx context.Context, db *gorm.DB, companyID, id int64, update AssignmentUpdate) error
	// IncrementRound advances current_round by one for every given lead.
	IncrementRound(ctx context.Context, db *gorm.DB, companyID int64, ids []int64) error
}
