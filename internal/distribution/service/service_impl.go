package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	agentdomain "github.com/salespool/leadrotor/internal/agent/domain"
	basketdomain "github.com/salespool/leadrotor/internal/basket/domain"
	"github.com/salespool/leadrotor/internal/clock"
	"github.com/salespool/leadrotor/internal/companyctx"
	"github.com/salespool/leadrotor/internal/distribution/domain"
	leaddomain "github.com/salespool/leadrotor/internal/lead/domain"
	ledgerdomain "github.com/salespool/leadrotor/internal/ledger/domain"
	"github.com/salespool/leadrotor/internal/observability/metrics"
	rotationdomain "github.com/salespool/leadrotor/internal/rotation/domain"
	transitiondomain "github.com/salespool/leadrotor/internal/transition/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	GenID       *snowflake.Node
	Leads       leaddomain.Repository
	Agents      agentdomain.Repository
	Ledger      ledgerdomain.Repository
	Transitions transitiondomain.Repository
	Baskets     basketdomain.Service
	Rotation    rotationdomain.Service
	Metrics     *metrics.DistributionMetrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	genID       *snowflake.Node
	leads       leaddomain.Repository
	agents      agentdomain.Repository
	ledger      ledgerdomain.Repository
	transitions transitiondomain.Repository
	baskets     basketdomain.Service
	rotation    rotationdomain.Service
	metrics     *metrics.DistributionMetrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("distribution.service"),
		clock:       p.Clock,
		genID:       p.GenID,
		leads:       p.Leads,
		agents:      p.Agents,
		ledger:      p.Ledger,
		transitions: p.Transitions,
		baskets:     p.Baskets,
		rotation:    p.Rotation,
		metrics:     p.Metrics,
	}
}

func (s *Service) Distribute(ctx context.Context, req domain.DistributeRequest) (domain.DistributeResponse, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return domain.DistributeResponse{}, domain.ErrInvalidCompany
	}

	pairs, skipped := splitMalformed(req.Pairs)
	if len(pairs) == 0 && len(skipped) == 0 {
		return domain.DistributeResponse{}, domain.ErrEmptyBatch
	}

	// Resolve the landing basket once for the whole batch, outside the
	// write transaction. A nil target is allowed: ownership still moves,
	// the lead just keeps its current basket.
	target, err := s.baskets.ResolveTarget(ctx, companyID, req.SourceBasketKey, req.TargetBasketKey)
	if err != nil {
		return domain.DistributeResponse{}, err
	}

	res := domain.DistributeResponse{
		SuccessIDs:   []int64{},
		FailedIDs:    []int64{},
		SkippedPairs: skipped,
		AgentStats:   map[int64]int{},
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, pair := range pairs {
			outcome, err := s.assignPair(ctx, tx, companyID, pair, target, req.TriggeredBy)
			if err != nil {
				return err
			}
			if outcome == "" {
				res.SuccessIDs = append(res.SuccessIDs, pair.CustomerID)
				res.AgentStats[pair.AgentID]++
				s.metrics.RecordAssignment("assigned")
				continue
			}
			res.FailedIDs = append(res.FailedIDs, pair.CustomerID)
			res.Failed = append(res.Failed, domain.FailedPair{
				CustomerID: pair.CustomerID,
				AgentID:    pair.AgentID,
				Reason:     outcome,
			})
			s.metrics.RecordAssignment(outcome)
		}
		return nil
	})
	if err != nil {
		return domain.DistributeResponse{}, err
	}

	res.TotalSuccess = len(res.SuccessIDs)
	res.TotalFailed = len(res.FailedIDs)

	s.log.Info("distribution batch applied",
		zap.Int64("company_id", companyID),
		zap.Int("success", res.TotalSuccess),
		zap.Int("failed", res.TotalFailed),
		zap.Int("skipped_pairs", len(res.SkippedPairs)),
	)
	return res, nil
}

// assignPair applies one pair inside the batch transaction. It returns
// a non-empty reason for per-pair skips and reserves the error return
// for storage faults that must roll the whole batch back.
func (s *Service) assignPair(ctx context.Context, tx *gorm.DB, companyID int64, pair domain.AssignmentPair, target *basketdomain.BasketConfig, triggeredBy string) (string, error) {
	lead, err := s.leads.FindByID(ctx, tx, companyID, pair.CustomerID)
	if err != nil {
		return "", err
	}
	if lead == nil {
		return domain.ReasonLeadNotFound, nil
	}
	if lead.IsBlocked {
		return domain.ReasonLeadBlocked, nil
	}

	now := s.clock.Now()
	inserted, err := s.ledger.InsertIfAbsent(ctx, tx, &ledgerdomain.Entry{
		ID:         s.genID.Generate(),
		CompanyID:  companyID,
		CustomerID: pair.CustomerID,
		AgentID:    pair.AgentID,
		CreatedAt:  now,
	})
	if err != nil {
		return "", err
	}
	if !inserted {
		return domain.ReasonAlreadyAssigned, nil
	}

	update := leaddomain.AssignmentUpdate{
		AgentID:           pair.AgentID,
		DateAssigned:      now,
		BasketEnteredDate: now,
		LifecycleStatus:   leaddomain.LifecycleStatusAssigned,
	}
	var toBasket *string
	if target != nil {
		key := target.BasketKey
		update.BasketKey = &key
		toBasket = &key
	}
	if err := s.leads.UpdateAssignment(ctx, tx, companyID, pair.CustomerID, update); err != nil {
		return "", err
	}

	agentID := pair.AgentID
	if err := s.transitions.Insert(ctx, tx, &transitiondomain.Transition{
		ID:             s.genID.Generate(),
		CompanyID:      companyID,
		CustomerID:     pair.CustomerID,
		FromBasketKey:  lead.CurrentBasketKey,
		ToBasketKey:    toBasket,
		PrevOwner:      lead.AssignedTo,
		NewOwner:       &agentID,
		TransitionType: transitiondomain.TypeDistribute,
		TriggeredBy:    triggeredBy,
		CreatedAt:      now,
	}); err != nil {
		return "", err
	}

	if _, err := s.rotation.CheckRoundCompletion(ctx, tx, companyID, pair.CustomerID); err != nil {
		return "", err
	}
	return "", nil
}

func (s *Service) BulkDistribute(ctx context.Context, req domain.BulkDistributeRequest) (domain.BulkDistributeResponse, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return domain.BulkDistributeResponse{}, domain.ErrInvalidCompany
	}
	if req.Count <= 0 {
		return domain.BulkDistributeResponse{}, domain.ErrInvalidCount
	}

	agents, err := s.resolveAgents(ctx, companyID, req.AgentIDs)
	if err != nil {
		return domain.BulkDistributeResponse{}, err
	}
	if len(agents) == 0 {
		return domain.BulkDistributeResponse{}, domain.ErrNoAgents
	}

	status := req.TargetStatus
	if status == "" {
		status = leaddomain.LifecycleStatusAssigned
	}
	var expires *time.Time
	now := s.clock.Now()
	if req.OwnershipDays > 0 {
		t := now.AddDate(0, 0, req.OwnershipDays)
		expires = &t
	}

	res := domain.BulkDistributeResponse{Assignments: map[int64]int{}}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		leads, err := s.leads.FindFresh(ctx, tx, companyID, req.Count)
		if err != nil {
			return err
		}

		for i, lead := range leads {
			agent := agents[i%len(agents)]

			update := leaddomain.AssignmentUpdate{
				AgentID:           agent.ID,
				DateAssigned:      now,
				BasketEnteredDate: now,
				LifecycleStatus:   status,
				OwnershipExpires:  expires,
			}
			if err := s.leads.UpdateAssignment(ctx, tx, companyID, lead.ID, update); err != nil {
				return err
			}

			if _, err := s.ledger.InsertIfAbsent(ctx, tx, &ledgerdomain.Entry{
				ID:         s.genID.Generate(),
				CompanyID:  companyID,
				CustomerID: lead.ID,
				AgentID:    agent.ID,
				CreatedAt:  now,
			}); err != nil {
				return err
			}

			agentID := agent.ID
			if err := s.transitions.Insert(ctx, tx, &transitiondomain.Transition{
				ID:             s.genID.Generate(),
				CompanyID:      companyID,
				CustomerID:     lead.ID,
				FromBasketKey:  lead.CurrentBasketKey,
				PrevOwner:      lead.AssignedTo,
				NewOwner:       &agentID,
				TransitionType: transitiondomain.TypeBulkDistribute,
				TriggeredBy:    req.TriggeredBy,
				CreatedAt:      now,
			}); err != nil {
				return err
			}

			res.Distributed++
			res.Assignments[agent.ID]++
			s.metrics.RecordAssignment("bulk_assigned")
		}
		return nil
	})
	if err != nil {
		return domain.BulkDistributeResponse{}, err
	}
	res.Skipped = req.Count - res.Distributed

	s.log.Info("bulk distribution applied",
		zap.Int64("company_id", companyID),
		zap.Int("requested", req.Count),
		zap.Int("distributed", res.Distributed),
		zap.Int("skipped", res.Skipped),
		zap.Int("agents", len(agents)),
	)
	return res, nil
}

// resolveAgents validates the requested agent set against active agents,
// or falls back to every active agent when none were named.
func (s *Service) resolveAgents(ctx context.Context, companyID int64, ids []int64) ([]agentdomain.Agent, error) {
	if len(ids) == 0 {
		return s.agents.FindActive(ctx, s.db, companyID)
	}
	return s.agents.FindActiveByIDs(ctx, s.db, companyID, ids)
}

// splitMalformed separates usable pairs from those with a missing side.
// Malformed pairs are reported back, never silently dropped.
func splitMalformed(pairs []domain.AssignmentPair) (valid, skipped []domain.AssignmentPair) {
	for _, pair := range pairs {
		if pair.CustomerID <= 0 || pair.AgentID <= 0 {
			skipped = append(skipped, pair)
			continue
		}
		valid = append(valid, pair)
	}
	return valid, skipped
}
