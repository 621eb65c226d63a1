package domain

import (
	"context"

	"github.com/salespool/leadrotor/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	// InsertIfAbsent atomically records the offer unless the (company,
	// customer, agent) pair already exists. It reports false on conflict
	// instead of an error; the conflict IS the already-assigned outcome.
	InsertIfAbsent(ctx context.Context, db *gorm.DB, entry *Entry) (bool, error)
	CountForCustomer(ctx context.Context, db *gorm.DB, companyID, customerID int64) (int64, error)
	DeleteForCustomer(ctx context.Context, db *gorm.DB, companyID, customerID int64) (int64, error)
	DeleteForCustomers(ctx context.Context, db *gorm.DB, companyID int64, customerIDs []int64) (int64, error)
	// CustomerIDsWithCount resolves the id set for manual reset mode "all".
	CustomerIDsWithCount(ctx context.Context, db *gorm.DB, companyID int64, count int) ([]int64, error)
	Candidates(ctx context.Context, db *gorm.DB, companyID int64, count int, page pagination.Pagination) ([]CandidateRow, int64, error)
	Summary(ctx context.Context, db *gorm.DB, companyID int64) ([]SummaryRow, error)
	History(ctx context.Context, db *gorm.DB, companyID, customerID int64) ([]HistoryRow, error)
}
