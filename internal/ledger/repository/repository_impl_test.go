package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/salespool/leadrotor/internal/ledger/domain"
	"github.com/salespool/leadrotor/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLedgerDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.Exec(`CREATE TABLE assignment_ledger (
		id BIGINT PRIMARY KEY,
		company_id BIGINT NOT NULL,
		customer_id BIGINT NOT NULL,
		agent_id BIGINT NOT NULL,
		created_at DATETIME NOT NULL,
		CONSTRAINT ux_ledger_offer UNIQUE (company_id, customer_id, agent_id)
	)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE customers (
		id BIGINT PRIMARY KEY,
		company_id BIGINT NOT NULL,
		full_name TEXT NOT NULL,
		phone TEXT,
		assigned_to BIGINT,
		current_round INTEGER NOT NULL DEFAULT 1
	)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE users (
		id BIGINT PRIMARY KEY,
		company_id BIGINT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL
	)`).Error)

	return db
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

func TestInsertIfAbsent(t *testing.T) {
	db := setupLedgerDB(t)
	node := mustNode(t)
	repo := Provide()
	ctx := context.Background()

	entry := &domain.Entry{
		ID:         node.Generate(),
		CompanyID:  1,
		CustomerID: 100,
		AgentID:    10,
		CreatedAt:  time.Now().UTC(),
	}
	inserted, err := repo.InsertIfAbsent(ctx, db, entry)
	require.NoError(t, err)
	assert.True(t, inserted)

	dup := &domain.Entry{
		ID:         node.Generate(),
		CompanyID:  1,
		CustomerID: 100,
		AgentID:    10,
		CreatedAt:  time.Now().UTC(),
	}
	inserted, err = repo.InsertIfAbsent(ctx, db, dup)
	require.NoError(t, err)
	assert.False(t, inserted, "same pair in the same round must not insert twice")

	count, err := repo.CountForCustomer(ctx, db, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Same customer, different agent, is a fresh offer.
	other := &domain.Entry{
		ID:         node.Generate(),
		CompanyID:  1,
		CustomerID: 100,
		AgentID:    11,
		CreatedAt:  time.Now().UTC(),
	}
	inserted, err = repo.InsertIfAbsent(ctx, db, other)
	require.NoError(t, err)
	assert.True(t, inserted)
}

func TestCandidatesAndSummary(t *testing.T) {
	db := setupLedgerDB(t)
	node := mustNode(t)
	repo := Provide()
	ctx := context.Background()

	require.NoError(t, db.Exec(
		`INSERT INTO customers (id, company_id, full_name, phone, assigned_to, current_round)
		 VALUES (100, 1, 'Lead A', '0812', 10, 1),
		        (101, 1, 'Lead B', '0813', 11, 2),
		        (102, 1, 'Lead C', '0814', NULL, 1)`,
	).Error)

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	insert := func(customerID, agentID int64, at time.Time) {
		t.Helper()
		ok, err := repo.InsertIfAbsent(ctx, db, &domain.Entry{
			ID:         node.Generate(),
			CompanyID:  1,
			CustomerID: customerID,
			AgentID:    agentID,
			CreatedAt:  at,
		})
		require.NoError(t, err)
		require.True(t, ok)
	}

	// Lead A offered twice, lead B twice, lead C once.
	insert(100, 10, base)
	insert(100, 11, base.Add(time.Hour))
	insert(101, 10, base.Add(2*time.Hour))
	insert(101, 11, base.Add(3*time.Hour))
	insert(102, 10, base.Add(4*time.Hour))

	t.Run("candidates exact count", func(t *testing.T) {
		rows, total, err := repo.Candidates(ctx, db, 1, 2, pagination.Pagination{Page: 1, Limit: 10}.Normalize())
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, rows, 2)

		// Most recently offered lead first.
		assert.Equal(t, int64(101), rows[0].CustomerID)
		assert.Equal(t, int64(100), rows[1].CustomerID)
		assert.Equal(t, 2, rows[0].AssignedCount)
		assert.Equal(t, "Lead B", rows[0].FullName)
		assert.Equal(t, 2, rows[0].CurrentRound)
	})

	t.Run("candidates exclude other counts", func(t *testing.T) {
		rows, total, err := repo.Candidates(ctx, db, 1, 1, pagination.Pagination{Page: 1, Limit: 10}.Normalize())
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(102), rows[0].CustomerID)
		assert.Nil(t, rows[0].AssignedTo)
	})

	t.Run("summary histogram", func(t *testing.T) {
		rows, err := repo.Summary(ctx, db, 1)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, 1, rows[0].AssignedCount)
		assert.Equal(t, int64(1), rows[0].CustomerCount)
		assert.Equal(t, 2, rows[1].AssignedCount)
		assert.Equal(t, int64(2), rows[1].CustomerCount)
	})

	t.Run("ids with count", func(t *testing.T) {
		ids, err := repo.CustomerIDsWithCount(ctx, db, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, []int64{100, 101}, ids)
	})
}

func TestHistoryNewestFirst(t *testing.T) {
	db := setupLedgerDB(t)
	node := mustNode(t)
	repo := Provide()
	ctx := context.Background()

	require.NoError(t, db.Exec(
		`INSERT INTO users (id, company_id, first_name, last_name)
		 VALUES (10, 1, 'Ade', 'Wijaya'), (11, 1, 'Sari', 'Putri')`,
	).Error)

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	for i, agentID := range []int64{10, 11} {
		_, err := repo.InsertIfAbsent(ctx, db, &domain.Entry{
			ID:         node.Generate(),
			CompanyID:  1,
			CustomerID: 500,
			AgentID:    agentID,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	rows, err := repo.History(ctx, db, 1, 500)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(11), rows[0].AgentID)
	assert.Equal(t, "Sari", rows[0].FirstName)
	assert.Equal(t, int64(10), rows[1].AgentID)
}
