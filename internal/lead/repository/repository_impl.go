package repository

import (
	"context"

	"github.com/salespool/leadrotor/internal/lead/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id int64) (*domain.Lead, error) {
	var lead domain.Lead
	err := db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Take(&lead).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &lead, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID int64) ([]domain.Lead, error) {
	var leads []domain.Lead
	err := db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("id asc").
		Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *repo) FindFresh(ctx context.Context, db *gorm.DB, companyID int64, limit int) ([]domain.Lead, error) {
	var leads []domain.Lead
	stmt := db.WithContext(ctx).
		Where("company_id = ? AND assigned_to IS NULL AND is_blocked = ?", companyID, false).
		Order("date_registered asc, id asc")
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	if err := stmt.Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *repo) UpdateAssignment(ctx context.Context, db *gorm.DB, companyID, id int64, update domain.AssignmentUpdate) error {
	if update.BasketKey != nil {
		return db.WithContext(ctx).Exec(
			`UPDATE customers
			 SET assigned_to = ?, date_assigned = ?, basket_entered_date = ?,
			     lifecycle_status = ?, current_basket_key = ?, ownership_expires = ?, updated_at = ?
			 WHERE company_id = ? AND id = ?`,
			update.AgentID,
			update.DateAssigned,
			update.BasketEnteredDate,
			update.LifecycleStatus,
			*update.BasketKey,
			update.OwnershipExpires,
			update.DateAssigned,
			companyID,
			id,
		).Error
	}
	return db.WithContext(ctx).Exec(
		`UPDATE customers
		 SET assigned_to = ?, date_assigned = ?, basket_entered_date = ?,
		     lifecycle_status = ?, ownership_expires = ?, updated_at = ?
		 WHERE company_id = ? AND id = ?`,
		update.AgentID,
		update.DateAssigned,
		update.BasketEnteredDate,
		update.LifecycleStatus,
		update.OwnershipExpires,
		update.DateAssigned,
		companyID,
		id,
	).Error
}

func (r *repo) IncrementRound(ctx context.Context, db *gorm.DB, companyID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`UPDATE customers SET current_round = current_round + 1 WHERE company_id = ? AND id IN ?`,
		companyID,
		ids,
	).Error
}
