package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	agentdomain "github.com/salespool/leadrotor/internal/agent/domain"
	"github.com/salespool/leadrotor/internal/clock"
	"github.com/salespool/leadrotor/internal/companyctx"
	"github.com/salespool/leadrotor/internal/config"
	leaddomain "github.com/salespool/leadrotor/internal/lead/domain"
	ledgerdomain "github.com/salespool/leadrotor/internal/ledger/domain"
	"github.com/salespool/leadrotor/internal/observability/metrics"
	"github.com/salespool/leadrotor/internal/rotation/domain"
	transitiondomain "github.com/salespool/leadrotor/internal/transition/domain"
	"github.com/salespool/leadrotor/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Cfg         config.Config
	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	GenID       *snowflake.Node
	Ledger      ledgerdomain.Repository
	Leads       leaddomain.Repository
	Agents      agentdomain.Repository
	Transitions transitiondomain.Repository
	Metrics     *metrics.DistributionMetrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	genID       *snowflake.Node
	ledger      ledgerdomain.Repository
	leads       leaddomain.Repository
	agents      agentdomain.Repository
	transitions transitiondomain.Repository
	metrics     *metrics.DistributionMetrics
	chunkSize   int
}

func New(p Params) domain.Service {
	chunkSize := p.Cfg.ResetChunkSize
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("rotation.service"),
		clock:       p.Clock,
		genID:       p.GenID,
		ledger:      p.Ledger,
		leads:       p.Leads,
		agents:      p.Agents,
		transitions: p.Transitions,
		metrics:     p.Metrics,
		chunkSize:   chunkSize,
	}
}

func (s *Service) CheckRoundCompletion(ctx context.Context, tx *gorm.DB, companyID, customerID int64) (bool, error) {
	count, err := s.ledger.CountForCustomer(ctx, tx, companyID, customerID)
	if err != nil {
		return false, err
	}

	active, err := s.agents.ActiveCount(ctx, tx, companyID)
	if err != nil {
		return false, err
	}
	if active == 0 || count < active {
		return false, nil
	}

	deleted, err := s.ledger.DeleteForCustomer(ctx, tx, companyID, customerID)
	if err != nil {
		return false, err
	}
	if err := s.leads.IncrementRound(ctx, tx, companyID, []int64{customerID}); err != nil {
		return false, err
	}

	s.metrics.RecordRoundReset()
	s.log.Info("round completed",
		zap.Int64("company_id", companyID),
		zap.Int64("customer_id", customerID),
		zap.Int64("offers", count),
		zap.Int64("active_agents", active),
		zap.Int64("ledger_deleted", deleted),
	)
	return true, nil
}

func (s *Service) GetCandidates(ctx context.Context, req domain.CandidatesRequest) (domain.CandidatesResponse, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return domain.CandidatesResponse{}, domain.ErrInvalidCompany
	}
	if req.TargetCount <= 0 {
		return domain.CandidatesResponse{}, domain.ErrMissingTargetCount
	}

	page := req.Page.Normalize()
	rows, total, err := s.ledger.Candidates(ctx, s.db, companyID, req.TargetCount, page)
	if err != nil {
		return domain.CandidatesResponse{}, err
	}

	return domain.CandidatesResponse{
		PageInfo:   pagination.BuildPageInfo(page, total),
		Candidates: rows,
	}, nil
}

func (s *Service) ManualReset(ctx context.Context, req domain.ManualResetRequest) (domain.ManualResetResponse, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return domain.ManualResetResponse{}, domain.ErrInvalidCompany
	}

	ids, err := s.resolveResetIDs(ctx, companyID, req)
	if err != nil {
		return domain.ManualResetResponse{}, err
	}
	if len(ids) == 0 {
		// Legitimate empty result, not a fault.
		return domain.ManualResetResponse{}, nil
	}

	var logDeleted int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, chunk := range chunkIDs(ids, s.chunkSize) {
			deleted, err := s.ledger.DeleteForCustomers(ctx, tx, companyID, chunk)
			if err != nil {
				return err
			}
			logDeleted += deleted

			if err := s.leads.IncrementRound(ctx, tx, companyID, chunk); err != nil {
				return err
			}

			if err := s.transitions.InsertBatch(ctx, tx, s.resetTransitions(companyID, chunk, req.TriggeredBy), s.chunkSize); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.ManualResetResponse{}, err
	}

	s.metrics.RecordManualReset(len(ids))
	s.log.Info("manual reset applied",
		zap.Int64("company_id", companyID),
		zap.String("mode", req.Mode),
		zap.Int("total_reset", len(ids)),
		zap.Int64("log_deleted", logDeleted),
	)

	return domain.ManualResetResponse{
		TotalReset: len(ids),
		LogDeleted: logDeleted,
	}, nil
}

func (s *Service) GetResetSummary(ctx context.Context) ([]ledgerdomain.SummaryRow, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidCompany
	}
	return s.ledger.Summary(ctx, s.db, companyID)
}

func (s *Service) GetAssignHistory(ctx context.Context, customerID int64) ([]ledgerdomain.HistoryRow, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidCompany
	}
	if customerID <= 0 {
		return nil, domain.ErrInvalidCustomerID
	}
	return s.ledger.History(ctx, s.db, companyID, customerID)
}

func (s *Service) resolveResetIDs(ctx context.Context, companyID int64, req domain.ManualResetRequest) ([]int64, error) {
	switch strings.TrimSpace(req.Mode) {
	case domain.ResetModeSelected:
		if len(req.CustomerIDs) == 0 {
			return nil, domain.ErrMissingCustomerIDs
		}
		ids := make([]int64, 0, len(req.CustomerIDs))
		for _, id := range req.CustomerIDs {
			if id <= 0 {
				return nil, domain.ErrInvalidCustomerID
			}
			ids = append(ids, id)
		}
		return ids, nil
	case domain.ResetModeAll:
		if req.TargetCount == nil {
			return nil, domain.ErrMissingTargetCount
		}
		return s.ledger.CustomerIDsWithCount(ctx, s.db, companyID, *req.TargetCount)
	default:
		return nil, domain.ErrInvalidMode
	}
}

func (s *Service) resetTransitions(companyID int64, customerIDs []int64, triggeredBy string) []transitiondomain.Transition {
	now := s.clock.Now()
	rows := make([]transitiondomain.Transition, 0, len(customerIDs))
	for _, customerID := range customerIDs {
		rows = append(rows, transitiondomain.Transition{
			ID:             s.genID.Generate(),
			CompanyID:      companyID,
			CustomerID:     customerID,
			TransitionType: transitiondomain.TypeManualReset,
			TriggeredBy:    triggeredBy,
			Note:           fmt.Sprintf("round counter advanced for customer %d", customerID),
			CreatedAt:      now,
		})
	}
	return rows
}

func chunkIDs(ids []int64, size int) [][]int64 {
	if size <= 0 {
		size = 1000
	}
	chunks := make([][]int64, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
