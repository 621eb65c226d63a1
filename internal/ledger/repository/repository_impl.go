package repository

import (
	"context"

	"github.com/salespool/leadrotor/internal/ledger/domain"
	pkgdb "github.com/salespool/leadrotor/pkg/db"
	"github.com/salespool/leadrotor/pkg/db/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertIfAbsent(ctx context.Context, db *gorm.DB, entry *domain.Entry) (bool, error) {
	res := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "company_id"},
			{Name: "customer_id"},
			{Name: "agent_id"},
		},
		DoNothing: true,
	}).Create(entry)
	if res.Error != nil {
		if pkgdb.IsDuplicateKeyErr(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) CountForCustomer(ctx context.Context, db *gorm.DB, companyID, customerID int64) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Entry{}).
		Where("company_id = ? AND customer_id = ?", companyID, customerID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) DeleteForCustomer(ctx context.Context, db *gorm.DB, companyID, customerID int64) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`DELETE FROM assignment_ledger WHERE company_id = ? AND customer_id = ?`,
		companyID,
		customerID,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) DeleteForCustomers(ctx context.Context, db *gorm.DB, companyID int64, customerIDs []int64) (int64, error) {
	if len(customerIDs) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).Exec(
		`DELETE FROM assignment_ledger WHERE company_id = ? AND customer_id IN ?`,
		companyID,
		customerIDs,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) CustomerIDsWithCount(ctx context.Context, db *gorm.DB, companyID int64, count int) ([]int64, error) {
	var ids []int64
	err := db.WithContext(ctx).Raw(
		`SELECT customer_id
		 FROM assignment_ledger
		 WHERE company_id = ?
		 GROUP BY customer_id
		 HAVING COUNT(*) = ?
		 ORDER BY customer_id`,
		companyID,
		count,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repo) Candidates(ctx context.Context, db *gorm.DB, companyID int64, count int, page pagination.Pagination) ([]domain.CandidateRow, int64, error) {
	var total int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM (
			SELECT customer_id
			FROM assignment_ledger
			WHERE company_id = ?
			GROUP BY customer_id
			HAVING COUNT(*) = ?
		 ) candidates`,
		companyID,
		count,
	).Scan(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var rows []domain.CandidateRow
	err = db.WithContext(ctx).Raw(
		`SELECT l.customer_id,
		        c.full_name,
		        c.phone,
		        c.assigned_to,
		        c.current_round,
		        COUNT(*) AS assigned_count
		 FROM assignment_ledger l
		 JOIN customers c ON c.id = l.customer_id AND c.company_id = l.company_id
		 WHERE l.company_id = ?
		 GROUP BY l.customer_id, c.full_name, c.phone, c.assigned_to, c.current_round
		 HAVING COUNT(*) = ?
		 ORDER BY MAX(l.created_at) DESC, l.customer_id ASC
		 LIMIT ? OFFSET ?`,
		companyID,
		count,
		page.Limit,
		page.Offset(),
	).Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repo) Summary(ctx context.Context, db *gorm.DB, companyID int64) ([]domain.SummaryRow, error) {
	var rows []domain.SummaryRow
	err := db.WithContext(ctx).Raw(
		`SELECT assigned_count, COUNT(*) AS customer_count
		 FROM (
			SELECT customer_id, COUNT(*) AS assigned_count
			FROM assignment_ledger
			WHERE company_id = ?
			GROUP BY customer_id
		 ) counts
		 GROUP BY assigned_count
		 ORDER BY assigned_count`,
		companyID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) History(ctx context.Context, db *gorm.DB, companyID, customerID int64) ([]domain.HistoryRow, error) {
	var rows []domain.HistoryRow
	err := db.WithContext(ctx).Raw(
		`SELECT l.agent_id, u.first_name, u.last_name, l.created_at
		 FROM assignment_ledger l
		 JOIN users u ON u.id = l.agent_id AND u.company_id = l.company_id
		 WHERE l.company_id = ? AND l.customer_id = ?
		 ORDER BY l.created_at DESC, l.id DESC`,
		companyID,
		customerID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
