package repository

import (
	"context"

	"github.com/salespool/leadrotor/internal/transition/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, transition *domain.Transition) error {
	return db.WithContext(ctx).Create(transition).Error
}

func (r *repo) InsertBatch(ctx context.Context, db *gorm.DB, transitions []domain.Transition, batchSize int) error {
	if len(transitions) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	return db.WithContext(ctx).CreateInBatches(transitions, batchSize).Error
}

func (r *repo) ListForCustomer(ctx context.Context, db *gorm.DB, companyID, customerID int64, limit int) ([]domain.Transition, error) {
	var transitions []domain.Transition
	stmt := db.WithContext(ctx).
		Where("company_id = ? AND customer_id = ?", companyID, customerID).
		Order("created_at desc, id desc")
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	if err := stmt.Find(&transitions).Error; err != nil {
		return nil, err
	}
	return transitions, nil
}
