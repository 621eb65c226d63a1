package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// ListActive returns active configs ordered by (display_order, id);
	// that pair is the classifier's total order.
	ListActive(ctx context.Context, db *gorm.DB, companyID int64, targetPage string) ([]BasketConfig, error)
	FindByKey(ctx context.Context, db *gorm.DB, companyID int64, basketKey string) (*BasketConfig, error)
}
