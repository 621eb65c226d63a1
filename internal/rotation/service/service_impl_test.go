package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	agentrepo "github.com/salespool/leadrotor/internal/agent/repository"
	"github.com/salespool/leadrotor/internal/clock"
	"github.com/salespool/leadrotor/internal/companyctx"
	leadrepo "github.com/salespool/leadrotor/internal/lead/repository"
	ledgerdomain "github.com/salespool/leadrotor/internal/ledger/domain"
	ledgerrepo "github.com/salespool/leadrotor/internal/ledger/repository"
	"github.com/salespool/leadrotor/internal/rotation/domain"
	transitionrepo "github.com/salespool/leadrotor/internal/transition/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func setupRotationService(t *testing.T) (*Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	prepareRotationSchema(t, db)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := &Service{
		db:          db,
		log:         zaptest.NewLogger(t),
		clock:       clock.NewFakeClock(time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)),
		genID:       node,
		ledger:      ledgerrepo.Provide(),
		leads:       leadrepo.Provide(),
		agents:      agentrepo.Provide(),
		transitions: transitionrepo.Provide(),
		chunkSize:   2,
	}
	return svc, db, node
}

func prepareRotationSchema(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Exec(`CREATE TABLE customers (
		id BIGINT PRIMARY KEY,
		company_id BIGINT NOT NULL,
		full_name TEXT NOT NULL,
		phone TEXT,
		assigned_to BIGINT,
		current_round INTEGER NOT NULL DEFAULT 1,
		is_blocked BOOLEAN NOT NULL DEFAULT FALSE
	)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE users (
		id BIGINT PRIMARY KEY,
		company_id BIGINT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		status TEXT NOT NULL
	)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE assignment_ledger (
		id BIGINT PRIMARY KEY,
		company_id BIGINT NOT NULL,
		customer_id BIGINT NOT NULL,
		agent_id BIGINT NOT NULL,
		created_at DATETIME NOT NULL,
		CONSTRAINT ux_ledger_offer UNIQUE (company_id, customer_id, agent_id)
	)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE basket_transitions (
		id BIGINT PRIMARY KEY,
		company_id BIGINT NOT NULL,
		customer_id BIGINT NOT NULL,
		from_basket_key TEXT,
		to_basket_key TEXT,
		prev_owner BIGINT,
		new_owner BIGINT,
		transition_type TEXT NOT NULL,
		triggered_by TEXT,
		note TEXT,
		metadata JSON,
		created_at DATETIME NOT NULL
	)`).Error)
}

func seedAgents(t *testing.T, db *gorm.DB, companyID int64, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, db.Exec(
			`INSERT INTO users (id, company_id, role, status) VALUES (?, ?, 'telesale', 'active')`,
			id, companyID,
		).Error)
	}
}

func seedCustomer(t *testing.T, db *gorm.DB, companyID, id int64) {
	t.Helper()
	require.NoError(t, db.Exec(
		`INSERT INTO customers (id, company_id, full_name) VALUES (?, ?, 'Lead')`,
		id, companyID,
	).Error)
}

func seedOffer(t *testing.T, db *gorm.DB, svc *Service, companyID, customerID, agentID int64) {
	t.Helper()
	ok, err := svc.ledger.InsertIfAbsent(context.Background(), db, &ledgerdomain.Entry{
		ID:         svc.genID.Generate(),
		CompanyID:  companyID,
		CustomerID: customerID,
		AgentID:    agentID,
		CreatedAt:  svc.clock.Now(),
	})
	require.NoError(t, err)
	require.True(t, ok)
}

func currentRound(t *testing.T, db *gorm.DB, customerID int64) int {
	t.Helper()
	var round int
	require.NoError(t, db.Raw(`SELECT current_round FROM customers WHERE id = ?`, customerID).Scan(&round).Error)
	return round
}

func TestCheckRoundCompletion(t *testing.T) {
	svc, db, _ := setupRotationService(t)
	ctx := context.Background()
	seedAgents(t, db, 1, 10, 11)
	seedCustomer(t, db, 1, 500)

	seedOffer(t, db, svc, 1, 500, 10)

	completed, err := svc.CheckRoundCompletion(ctx, db, 1, 500)
	require.NoError(t, err)
	assert.False(t, completed, "one offer of two agents leaves the round open")
	assert.Equal(t, 1, currentRound(t, db, 500))

	seedOffer(t, db, svc, 1, 500, 11)

	completed, err = svc.CheckRoundCompletion(ctx, db, 1, 500)
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, 2, currentRound(t, db, 500))

	count, err := svc.ledger.CountForCustomer(ctx, db, 1, 500)
	require.NoError(t, err)
	assert.Zero(t, count, "completion wipes the lead's open-round rows")
}

func TestCheckRoundCompletionAgentCountShrinks(t *testing.T) {
	svc, db, _ := setupRotationService(t)
	ctx := context.Background()
	seedAgents(t, db, 1, 10, 11, 12)
	seedCustomer(t, db, 1, 500)
	seedOffer(t, db, svc, 1, 500, 10)
	seedOffer(t, db, svc, 1, 500, 11)

	completed, err := svc.CheckRoundCompletion(ctx, db, 1, 500)
	require.NoError(t, err)
	assert.False(t, completed, "two offers of three agents leaves the round open")
	assert.Equal(t, 1, currentRound(t, db, 500))

	// The threshold is the live active-agent count, so losing an agent
	// mid-round can close the round with the offers already banked.
	require.NoError(t, db.Exec(`UPDATE users SET status = 'inactive' WHERE id = 12`).Error)

	completed, err = svc.CheckRoundCompletion(ctx, db, 1, 500)
	require.NoError(t, err)
	assert.True(t, completed, "two offers now meet the two-agent threshold")
	assert.Equal(t, 2, currentRound(t, db, 500))

	count, err := svc.ledger.CountForCustomer(ctx, db, 1, 500)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCheckRoundCompletionNoAgents(t *testing.T) {
	svc, db, _ := setupRotationService(t)
	seedCustomer(t, db, 1, 500)
	seedOffer(t, db, svc, 1, 500, 10)

	completed, err := svc.CheckRoundCompletion(context.Background(), db, 1, 500)
	require.NoError(t, err)
	assert.False(t, completed, "zero active agents never completes a round")
	assert.Equal(t, 1, currentRound(t, db, 500))
}

func TestManualResetSelected(t *testing.T) {
	svc, db, _ := setupRotationService(t)
	ctx := companyctx.WithCompanyID(context.Background(), 1)
	seedAgents(t, db, 1, 10, 11, 12)
	for _, id := range []int64{500, 501, 502} {
		seedCustomer(t, db, 1, id)
		seedOffer(t, db, svc, 1, id, 10)
		seedOffer(t, db, svc, 1, id, 11)
	}

	resp, err := svc.ManualReset(ctx, domain.ManualResetRequest{
		Mode:        domain.ResetModeSelected,
		CustomerIDs: []int64{500, 501, 502},
		TriggeredBy: "supervisor:7",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.TotalReset)
	assert.Equal(t, int64(6), resp.LogDeleted)
	assert.Equal(t, 2, currentRound(t, db, 500))
	assert.Equal(t, 2, currentRound(t, db, 502))

	var transitions int
	require.NoError(t, db.Raw(
		`SELECT COUNT(1) FROM basket_transitions WHERE transition_type = 'manual_reset'`,
	).Scan(&transitions).Error)
	assert.Equal(t, 3, transitions)

	// A second reset of the same leads still advances the round even
	// though there is nothing left to delete.
	resp, err = svc.ManualReset(ctx, domain.ManualResetRequest{
		Mode:        domain.ResetModeSelected,
		CustomerIDs: []int64{500, 501, 502},
		TriggeredBy: "supervisor:7",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.TotalReset)
	assert.Equal(t, int64(0), resp.LogDeleted)
	assert.Equal(t, 3, currentRound(t, db, 500))
}

func TestManualResetAll(t *testing.T) {
	svc, db, _ := setupRotationService(t)
	ctx := companyctx.WithCompanyID(context.Background(), 1)
	seedAgents(t, db, 1, 10, 11)

	seedCustomer(t, db, 1, 500)
	seedOffer(t, db, svc, 1, 500, 10)
	seedOffer(t, db, svc, 1, 500, 11)
	seedCustomer(t, db, 1, 501)
	seedOffer(t, db, svc, 1, 501, 10)

	two := 2
	resp, err := svc.ManualReset(ctx, domain.ManualResetRequest{
		Mode:        domain.ResetModeAll,
		TargetCount: &two,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalReset)
	assert.Equal(t, int64(2), resp.LogDeleted)
	assert.Equal(t, 2, currentRound(t, db, 500))
	assert.Equal(t, 1, currentRound(t, db, 501), "leads below the target count are untouched")

	t.Run("no candidates is a no-op success", func(t *testing.T) {
		nine := 9
		resp, err := svc.ManualReset(ctx, domain.ManualResetRequest{
			Mode:        domain.ResetModeAll,
			TargetCount: &nine,
		})
		require.NoError(t, err)
		assert.Zero(t, resp.TotalReset)
		assert.Zero(t, resp.LogDeleted)
	})
}

func TestManualResetValidation(t *testing.T) {
	svc, _, _ := setupRotationService(t)
	ctx := companyctx.WithCompanyID(context.Background(), 1)

	_, err := svc.ManualReset(ctx, domain.ManualResetRequest{Mode: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidMode)

	_, err = svc.ManualReset(ctx, domain.ManualResetRequest{Mode: domain.ResetModeSelected})
	assert.ErrorIs(t, err, domain.ErrMissingCustomerIDs)

	_, err = svc.ManualReset(ctx, domain.ManualResetRequest{
		Mode:        domain.ResetModeSelected,
		CustomerIDs: []int64{0},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCustomerID)

	_, err = svc.ManualReset(ctx, domain.ManualResetRequest{Mode: domain.ResetModeAll})
	assert.ErrorIs(t, err, domain.ErrMissingTargetCount)

	_, err = svc.ManualReset(context.Background(), domain.ManualResetRequest{Mode: domain.ResetModeAll})
	assert.ErrorIs(t, err, domain.ErrInvalidCompany)
}

func TestGetCandidates(t *testing.T) {
	svc, db, _ := setupRotationService(t)
	ctx := companyctx.WithCompanyID(context.Background(), 1)
	seedAgents(t, db, 1, 10, 11)
	seedCustomer(t, db, 1, 500)
	seedOffer(t, db, svc, 1, 500, 10)
	seedOffer(t, db, svc, 1, 500, 11)
	seedCustomer(t, db, 1, 501)
	seedOffer(t, db, svc, 1, 501, 10)

	resp, err := svc.GetCandidates(ctx, domain.CandidatesRequest{TargetCount: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, int64(500), resp.Candidates[0].CustomerID)
	assert.Equal(t, 2, resp.Candidates[0].AssignedCount)

	_, err = svc.GetCandidates(ctx, domain.CandidatesRequest{})
	assert.ErrorIs(t, err, domain.ErrMissingTargetCount)
}

func TestSummaryAndHistory(t *testing.T) {
	svc, db, _ := setupRotationService(t)
	ctx := companyctx.WithCompanyID(context.Background(), 1)
	require.NoError(t, db.Exec(
		`INSERT INTO users (id, company_id, first_name, last_name, role, status)
		 VALUES (10, 1, 'Ade', 'Wijaya', 'telesale', 'active'),
		        (11, 1, 'Sari', 'Putri', 'telesale', 'active')`,
	).Error)
	seedCustomer(t, db, 1, 500)
	seedOffer(t, db, svc, 1, 500, 10)
	seedOffer(t, db, svc, 1, 500, 11)

	summary, err := svc.GetResetSummary(ctx)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, 2, summary[0].AssignedCount)
	assert.Equal(t, int64(1), summary[0].CustomerCount)

	history, err := svc.GetAssignHistory(ctx, 500)
	require.NoError(t, err)
	require.Len(t, history, 2)

	_, err = svc.GetAssignHistory(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidCustomerID)
}
