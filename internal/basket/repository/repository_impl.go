package repository

import (
	"context"
	"strings"

	"github.com/salespool/leadrotor/internal/basket/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB, companyID int64, targetPage string) ([]domain.BasketConfig, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.BasketConfig{}).
		Where("company_id = ? AND is_active = ?", companyID, true)
	if page := strings.TrimSpace(targetPage); page != "" {
		stmt = stmt.Where("target_page = ?", page)
	}

	var configs []domain.BasketConfig
	err := stmt.
		Order("display_order asc, id asc").
		Find(&configs).Error
	if err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *repo) FindByKey(ctx context.Context, db *gorm.DB, companyID int64, basketKey string) (*domain.BasketConfig, error) {
	var config domain.BasketConfig
	err := db.WithContext(ctx).
		Where("company_id = ? AND basket_key = ? AND is_active = ?", companyID, basketKey, true).
		Order("display_order asc, id asc").
		Take(&config).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &config, nil
}
