package domain

import (
	"context"
	"errors"
	"time"

	leaddomain "github.com/salespool/leadrotor/internal/lead/domain"
)

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrNotFound       = errors.New("basket_not_found")
)

// BasketConfig is a declarative matcher mapping lead attributes to a
// named basket. Authored by the configuration UI, read-only here.
type BasketConfig struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	CompanyID int64  `gorm:"not null;index" json:"company_id"`
	BasketKey string `gorm:"not null" json:"basket_key"`

	MinOrderCount       *int `json:"min_order_count,omitempty"`
	MaxOrderCount       *int `json:"max_order_count,omitempty"`
	MinDaysSinceOrder   *int `json:"min_days_since_order,omitempty"`
	MaxDaysSinceOrder   *int `json:"max_days_since_order,omitempty"`
	DaysSinceFirstOrder *int `json:"days_since_first_order,omitempty"`
	DaysSinceRegistered *int `json:"days_since_registered,omitempty"`

	TargetPage   string `json:"target_page,omitempty"`
	DisplayOrder int    `gorm:"not null;default:0" json:"display_order"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`

	OnSaleBasketKey            *string `json:"on_sale_basket_key,omitempty"`
	FailAfterDays              *int    `json:"fail_after_days,omitempty"`
	OnFailBasketKey            *string `json:"on_fail_basket_key,omitempty"`
	MaxDistributionCount       *int    `json:"max_distribution_count,omitempty"`
	HoldDaysBeforeRedistribute *int    `json:"hold_days_before_redistribute,omitempty"`
	LinkedBasketKey            *string `json:"linked_basket_key,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (BasketConfig) TableName() string {
	return "basket_configs"
}

// Bucket is one classified basket with its leads, for dashboards.
type Bucket struct {
	BasketKey    string            `json:"basket_key"`
	DisplayOrder int               `json:"display_order"`
	Total        int               `json:"total"`
	Leads        []leaddomain.Lead `json:"leads"`
}

type OverviewRequest struct {
	TargetPage string
}

type OverviewResponse struct {
	Buckets     []Bucket `json:"buckets"`
	Unbucketed  int      `json:"unbucketed"`
	TotalLeads  int      `json:"total_leads"`
	TotalActive int      `json:"total_configs"`
}

type Service interface {
	// Overview buckets the company's leads for display. Read-only.
	Overview(ctx context.Context, req OverviewRequest) (OverviewResponse, error)
	// ResolveTarget returns the basket an assignment should land in, or
	// nil when neither key resolves to a configured basket.
	ResolveTarget(ctx context.Context, companyID int64, sourceBasketKey, targetBasketKey string) (*BasketConfig, error)
}
