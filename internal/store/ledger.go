package store

import (
	"context"
	"fmt"

	"tour-revenue-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// Accrue adds amount to the ledger row keyed by (schedule, partner,
// partner_type), inserting the row on first accrual. The upsert resolves
// concurrent accruals to the same key through the row lock the conflict
// arm takes. A zero amount is valid and writes nothing.
func (s *Store) Accrue(ctx context.Context, q sqlx.ExtContext, scheduleID, partnerID int64, partnerType string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("accrual amount must not be negative: %s", amount)
	}
	if amount.IsZero() {
		return nil
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO revenue_ledger (schedule_id, partner_id, partner_type, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (schedule_id, partner_id, partner_type)
		DO UPDATE SET amount = revenue_ledger.amount + EXCLUDED.amount, updated_at = NOW()`,
		scheduleID, partnerID, partnerType, amount)
	if err != nil {
		return fmt.Errorf("failed to accrue revenue: %w", err)
	}
	return nil
}

// LedgerBySchedule returns all ledger rows written for one schedule.
func (s *Store) LedgerBySchedule(ctx context.Context, scheduleID int64) ([]models.RevenueLedgerRow, error) {
	var rows []models.RevenueLedgerRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM revenue_ledger WHERE schedule_id = $1 ORDER BY partner_id, partner_type",
		scheduleID)
	return rows, err
}

// LedgerByPartner returns a partner's ledger rows across schedules,
// newest first. Served by the secondary index on partner_id.
func (s *Store) LedgerByPartner(ctx context.Context, partnerID int64) ([]models.RevenueLedgerRow, error) {
	var rows []models.RevenueLedgerRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM revenue_ledger WHERE partner_id = $1 ORDER BY updated_at DESC",
		partnerID)
	return rows, err
}

// PartnerRevenueTotal sums a partner's accrued revenue across all
// schedules.
func (s *Store) PartnerRevenueTotal(ctx context.Context, partnerID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.GetContext(ctx, &total,
		"SELECT COALESCE(SUM(amount), 0) FROM revenue_ledger WHERE partner_id = $1",
		partnerID)
	return total, err
}
