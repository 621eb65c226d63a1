package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	agentdomain "github.com/salespool/leadrotor/internal/agent/domain"
	basketdomain "github.com/salespool/leadrotor/internal/basket/domain"
	"gorm.io/gorm"
)

// EnsureBasketConfigs seeds the baseline basket layout for a company so
// a fresh install classifies and distributes without manual setup.
func EnsureBasketConfigs(db *gorm.DB, companyID int64) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if companyID == 0 {
		return errors.New("seed company id is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, cfg := range defaultBasketConfigs(companyID) {
			if err := ensureBasketConfigTx(ctx, tx, node, cfg); err != nil {
				return err
			}
		}
		return nil
	})
}

// EnsureDevAgents seeds a small active agent pool for local development.
func EnsureDevAgents(db *gorm.DB, companyID int64) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if companyID == 0 {
		return errors.New("seed company id is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	agents := []agentdomain.Agent{
		{CompanyID: companyID, FirstName: "Ade", LastName: "Wijaya", Role: agentdomain.RoleTelesale, Status: agentdomain.StatusActive},
		{CompanyID: companyID, FirstName: "Sari", LastName: "Putri", Role: agentdomain.RoleTelesale, Status: agentdomain.StatusActive},
		{CompanyID: companyID, FirstName: "Budi", LastName: "Santoso", Role: agentdomain.RoleSupervisor, Status: agentdomain.StatusActive},
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, agent := range agents {
			var existing agentdomain.Agent
			err := tx.WithContext(ctx).
				Where("company_id = ? AND first_name = ? AND last_name = ?", agent.CompanyID, agent.FirstName, agent.LastName).
				First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			agent.ID = node.Generate().Int64()
			if err := tx.WithContext(ctx).Create(&agent).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func ensureBasketConfigTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, cfg basketdomain.BasketConfig) error {
	var existing basketdomain.BasketConfig
	err := tx.WithContext(ctx).
		Where("company_id = ? AND basket_key = ?", cfg.CompanyID, cfg.BasketKey).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	cfg.ID = node.Generate().Int64()
	return tx.WithContext(ctx).Create(&cfg).Error
}

func defaultBasketConfigs(companyID int64) []basketdomain.BasketConfig {
	intp := func(v int) *int { return &v }
	strp := func(v string) *string { return &v }

	return []basketdomain.BasketConfig{
		{
			CompanyID:           companyID,
			BasketKey:           "new_leads",
			MaxOrderCount:       intp(0),
			DaysSinceRegistered: intp(0),
			TargetPage:          "distribution",
			DisplayOrder:        1,
			IsActive:            true,
			LinkedBasketKey:     strp("assigned"),
		},
		{
			CompanyID:       companyID,
			BasketKey:       "assigned",
			TargetPage:      "follow_up",
			DisplayOrder:    2,
			IsActive:        true,
			LinkedBasketKey: strp("repeat_order"),
		},
		{
			CompanyID:         companyID,
			BasketKey:         "repeat_order",
			MinOrderCount:     intp(1),
			MaxDaysSinceOrder: intp(90),
			TargetPage:        "follow_up",
			DisplayOrder:      3,
			IsActive:          true,
		},
		{
			CompanyID:         companyID,
			BasketKey:         "dormant",
			MinOrderCount:     intp(1),
			MinDaysSinceOrder: intp(91),
			TargetPage:        "reactivation",
			DisplayOrder:      4,
			IsActive:          true,
			LinkedBasketKey:   strp("assigned"),
		},
	}
}
