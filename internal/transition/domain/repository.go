package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// Insert must fail loudly: the enclosing transaction depends on the
	// log row being the durable evidence of an ownership change.
	Insert(ctx context.Context, db *gorm.DB, transition *Transition) error
	InsertBatch(ctx context.Context, db *gorm.DB, transitions []Transition, batchSize int) error
	ListForCustomer(ctx context.Context, db *gorm.DB, companyID, customerID int64, limit int) ([]Transition, error)
}
