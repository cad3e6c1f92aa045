package service

import (
	"context"
	"fmt"
	"time"

	"vault-dashboard/internal/core/domain"
	"vault-dashboard/internal/core/ports"
	"vault-dashboard/pkg/apperror"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// historyService implements ports.HistoryService.
type historyService struct {
	repo      ports.VaultHistoryRepository
	vaultName string
	clock     func() time.Time
}

// NewHistoryService creates a new history service for vaultName.
func NewHistoryService(repo ports.VaultHistoryRepository, vaultName string) ports.HistoryService {
	return &historyService{
		repo:      repo,
		vaultName: vaultName,
		clock:     time.Now,
	}
}

// Record stores the overview as a history point.
func (s *historyService) Record(ctx context.Context, overview *ports.VaultOverview) error {
	point := &domain.VaultHistoryPoint{
		VaultName:  s.vaultName,
		BatchIndex: overview.CurrentBatchIndex,
		SharePrice: overview.SharePrice,
		TVL:        overview.TVL,
		RecordedAt: s.clock().UTC(),
	}
	if err := s.repo.Record(ctx, point); err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("record history: %w", err))
	}
	return nil
}

// GetPerformance returns the share price series since the period start.
// Performance is the percent change against the first point of the period.
func (s *historyService) GetPerformance(ctx context.Context, period string) (*ports.PerformanceSeries, error) {
	var since *time.Time

	now := s.clock()
	switch period {
	case "day":
		t := now.AddDate(0, 0, -1)
		since = &t
	case "week":
		t := now.AddDate(0, 0, -7)
		since = &t
	case "month":
		t := now.AddDate(0, -1, 0)
		since = &t
	case "all", "":
		period = "all"
	default:
		return nil, apperror.Validation("invalid period: must be day, week, month, or all")
	}

	points, err := s.repo.ListSince(ctx, s.vaultName, since)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list history: %w", err))
	}

	series := &ports.PerformanceSeries{
		Period: period,
		Points: make([]ports.PerformancePoint, 0, len(points)),
	}
	if len(points) == 0 {
		return series, nil
	}

	first := points[0].SharePrice
	for _, p := range points {
		series.Points = append(series.Points, ports.PerformancePoint{
			RecordedAt:  p.RecordedAt,
			BatchIndex:  p.BatchIndex,
			SharePrice:  p.SharePrice,
			TVL:         p.TVL,
			Performance: performance(p.SharePrice, first),
		})
	}
	return series, nil
}

func performance(price, first decimal.Decimal) decimal.Decimal {
	if first.IsZero() {
		return decimal.Zero
	}
	return price.Div(first).Sub(decimal.NewFromInt(1)).Mul(hundred).Round(4)
}
