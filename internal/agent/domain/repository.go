package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// ActiveCount returns the round-completion denominator: active agents
	// with the telesale role or any supervisor role.
	ActiveCount(ctx context.Context, db *gorm.DB, companyID int64) (int64, error)
	FindActive(ctx context.Context, db *gorm.DB, companyID int64) ([]Agent, error)
	FindActiveByIDs(ctx context.Context, db *gorm.DB, companyID int64, ids []int64) ([]Agent, error)
}
