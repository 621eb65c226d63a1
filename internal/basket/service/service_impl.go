package service

import (
	"context"
	"strings"

	"github.com/salespool/leadrotor/internal/basket/domain"
	"github.com/salespool/leadrotor/internal/clock"
	"github.com/salespool/leadrotor/internal/companyctx"
	leaddomain "github.com/salespool/leadrotor/internal/lead/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
	Leads leaddomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
	leads leaddomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("basket.service"),
		clock: p.Clock,
		repo:  p.Repo,
		leads: p.Leads,
	}
}

func (s *Service) Overview(ctx context.Context, req domain.OverviewRequest) (domain.OverviewResponse, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return domain.OverviewResponse{}, domain.ErrInvalidCompany
	}

	configs, err := s.repo.ListActive(ctx, s.db, companyID, req.TargetPage)
	if err != nil {
		return domain.OverviewResponse{}, err
	}

	leads, err := s.leads.List(ctx, s.db, companyID)
	if err != nil {
		return domain.OverviewResponse{}, err
	}

	buckets := domain.ClassifyAll(s.clock.Now(), leads, configs)

	resp := domain.OverviewResponse{
		Buckets:     make([]domain.Bucket, 0, len(configs)),
		TotalLeads:  len(leads),
		TotalActive: len(configs),
	}
	bucketed := 0
	seen := map[string]bool{}
	for _, cfg := range configs {
		if seen[cfg.BasketKey] {
			continue
		}
		seen[cfg.BasketKey] = true
		inBucket := buckets[cfg.BasketKey]
		bucketed += len(inBucket)
		resp.Buckets = append(resp.Buckets, domain.Bucket{
			BasketKey:    cfg.BasketKey,
			DisplayOrder: cfg.DisplayOrder,
			Total:        len(inBucket),
			Leads:        inBucket,
		})
	}
	resp.Unbucketed = len(leads) - bucketed

	return resp, nil
}

func (s *Service) ResolveTarget(ctx context.Context, companyID int64, sourceBasketKey, targetBasketKey string) (*domain.BasketConfig, error) {
	if target := strings.TrimSpace(targetBasketKey); target != "" {
		config, err := s.repo.FindByKey(ctx, s.db, companyID, target)
		if err != nil {
			return nil, err
		}
		if config == nil {
			return nil, domain.ErrNotFound
		}
		return config, nil
	}

	source := strings.TrimSpace(sourceBasketKey)
	if source == "" {
		return nil, nil
	}

	sourceConfig, err := s.repo.FindByKey(ctx, s.db, companyID, source)
	if err != nil {
		return nil, err
	}
	if sourceConfig == nil || sourceConfig.LinkedBasketKey == nil || *sourceConfig.LinkedBasketKey == "" {
		return nil, nil
	}

	linked, err := s.repo.FindByKey(ctx, s.db, companyID, *sourceConfig.LinkedBasketKey)
	if err != nil {
		return nil, err
	}
	return linked, nil
}
