package service

import (
	"context"
	"encoding/json"
	"time"

	"tour-revenue-service/internal/models"
	"tour-revenue-service/internal/redisclient"
	"tour-revenue-service/internal/store"
	"tour-revenue-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SummaryService serves the operator dashboard reads. It takes no locks
// and may observe state a concurrent transition has already left behind.
// Redis is a best-effort cache in front of Postgres; a missing or broken
// cache never fails a read.
type SummaryService struct {
	store    *store.Store
	redis    *redisclient.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewSummaryService creates a new summary service. redis may be nil to
// disable caching.
func NewSummaryService(st *store.Store, redis *redisclient.Client, cacheTTL time.Duration) *SummaryService {
	return &SummaryService{
		store:    st,
		redis:    redis,
		cacheTTL: cacheTTL,
		logger:   util.GetLogger(),
	}
}

// ScheduleSummary lists every active schedule with at least one
// confirmed booking, optionally narrowed to one status, ordered by
// departure ascending.
func (s *SummaryService) ScheduleSummary(ctx context.Context, statusFilter string) ([]models.ScheduleSummaryRow, error) {
	ctx, span := util.StartSpan(ctx, "SummaryService.ScheduleSummary")
	defer span.End()

	if s.redis != nil {
		if cached, err := s.redis.GetSummaryCache(ctx, statusFilter); err == nil && cached != nil {
			var rows []models.ScheduleSummaryRow
			if err := json.Unmarshal(cached, &rows); err == nil {
				return rows, nil
			}
		}
	}

	rows, err := s.store.ScheduleSummaries(ctx, statusFilter)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if payload, err := json.Marshal(rows); err == nil {
			if err := s.redis.SetSummaryCache(ctx, statusFilter, payload, s.cacheTTL); err != nil {
				s.logger.Warn("Failed to cache schedule summary", zap.Error(err))
			}
		}
	}
	return rows, nil
}

// PartnerRevenueResponse is returned by PartnerRevenue
type PartnerRevenueResponse struct {
	PartnerID int64                     `json:"partner_id"`
	Total     decimal.Decimal           `json:"total"`
	Ledger    []models.RevenueLedgerRow `json:"ledger"`
}

// PartnerRevenue returns one partner's ledger rows and accrued total.
// The total prefers the worker-maintained Redis running sum and falls
// back to the ledger table.
func (s *SummaryService) PartnerRevenue(ctx context.Context, partnerID int64) (*PartnerRevenueResponse, error) {
	ctx, span := util.StartSpan(ctx, "SummaryService.PartnerRevenue")
	defer span.End()

	rows, err := s.store.LedgerByPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	var total decimal.Decimal
	cached := false
	if s.redis != nil {
		if t, ok, err := s.redis.GetPartnerRevenueTotal(ctx, partnerID); err == nil && ok {
			total, cached = t, true
		}
	}
	if !cached {
		total, err = s.store.PartnerRevenueTotal(ctx, partnerID)
		if err != nil {
			return nil, err
		}
	}

	return &PartnerRevenueResponse{
		PartnerID: partnerID,
		Total:     total,
		Ledger:    rows,
	}, nil
}
