package repository

import (
	"context"

	"github.com/salespool/leadrotor/internal/agent/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ActiveCount(ctx context.Context, db *gorm.DB, companyID int64) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Agent{}).
		Where("company_id = ? AND status = ?", companyID, domain.StatusActive).
		Where("role = ? OR role LIKE ?", domain.RoleTelesale, "%"+domain.RoleSupervisor+"%").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) FindActive(ctx context.Context, db *gorm.DB, companyID int64) ([]domain.Agent, error) {
	var agents []domain.Agent
	err := db.WithContext(ctx).
		Where("company_id = ? AND status = ?", companyID, domain.StatusActive).
		Where("role = ? OR role LIKE ?", domain.RoleTelesale, "%"+domain.RoleSupervisor+"%").
		Order("id asc").
		Find(&agents).Error
	if err != nil {
		return nil, err
	}
	return agents, nil
}

func (r *repo) FindActiveByIDs(ctx context.Context, db *gorm.DB, companyID int64, ids []int64) ([]domain.Agent, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var agents []domain.Agent
	err := db.WithContext(ctx).
		Where("company_id = ? AND status = ? AND id IN ?", companyID, domain.StatusActive, ids).
		Order("id asc").
		Find(&agents).Error
	if err != nil {
		return nil, err
	}
	return agents, nil
}
