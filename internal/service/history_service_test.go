package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"vault-dashboard/internal/core/domain"
	"vault-dashboard/internal/core/ports"
	"vault-dashboard/internal/core/ports/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupHistoryService(t *testing.T) (*historyService, *mocks.MockVaultHistoryRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockVaultHistoryRepository(ctrl)
	svc := NewHistoryService(repo, testVault).(*historyService)
	svc.clock = fixedClock
	return svc, repo
}

func TestHistoryService_Record(t *testing.T) {
	svc, repo := setupHistoryService(t)
	repo.EXPECT().Record(gomock.Any(), &domain.VaultHistoryPoint{
		VaultName:  testVault,
		BatchIndex: 7,
		SharePrice: dec("1.1"),
		TVL:        dec("9000"),
		RecordedAt: testNow,
	}).Return(nil)

	err := svc.Record(context.Background(), &ports.VaultOverview{
		VaultName:         testVault,
		TVL:               dec("9000"),
		SharePrice:        dec("1.1"),
		CurrentBatchIndex: 7,
	})
	require.NoError(t, err)
}

func TestHistoryService_Record_DBError(t *testing.T) {
	svc, repo := setupHistoryService(t)
	repo.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	err := svc.Record(context.Background(), &ports.VaultOverview{})
	requireCode(t, err, "SYS_001")
}

func TestHistoryService_GetPerformance_PeriodStart(t *testing.T) {
	tests := []struct {
		period string
		since  *time.Time
		want   string
	}{
		{"day", ptrTime(testNow.AddDate(0, 0, -1)), "day"},
		{"week", ptrTime(testNow.AddDate(0, 0, -7)), "week"},
		{"month", ptrTime(testNow.AddDate(0, -1, 0)), "month"},
		{"all", nil, "all"},
		{"", nil, "all"},
	}
	for _, tt := range tests {
		t.Run(tt.want+"/"+tt.period, func(t *testing.T) {
			svc, repo := setupHistoryService(t)
			repo.EXPECT().ListSince(gomock.Any(), testVault, tt.since).Return(nil, nil)

			series, err := svc.GetPerformance(context.Background(), tt.period)
			require.NoError(t, err)
			assert.Equal(t, tt.want, series.Period)
			assert.NotNil(t, series.Points)
			assert.Empty(t, series.Points)
		})
	}
}

func TestHistoryService_GetPerformance_InvalidPeriod(t *testing.T) {
	svc, _ := setupHistoryService(t)

	_, err := svc.GetPerformance(context.Background(), "year")
	requireCode(t, err, "REQ_001")
}

func TestHistoryService_GetPerformance_RelativeToFirstPoint(t *testing.T) {
	svc, repo := setupHistoryService(t)
	repo.EXPECT().ListSince(gomock.Any(), testVault, gomock.Any()).Return([]domain.VaultHistoryPoint{
		{BatchIndex: 1, SharePrice: dec("1.00"), TVL: dec("100"), RecordedAt: testNow.Add(-2 * time.Hour)},
		{BatchIndex: 2, SharePrice: dec("1.05"), TVL: dec("150"), RecordedAt: testNow.Add(-time.Hour)},
		{BatchIndex: 3, SharePrice: dec("0.97"), TVL: dec("140"), RecordedAt: testNow},
	}, nil)

	series, err := svc.GetPerformance(context.Background(), "week")
	require.NoError(t, err)
	require.Len(t, series.Points, 3)
	assert.True(t, series.Points[0].Performance.IsZero())
	assert.True(t, dec("5").Equal(series.Points[1].Performance), series.Points[1].Performance.String())
	assert.True(t, dec("-3").Equal(series.Points[2].Performance), series.Points[2].Performance.String())
}

func TestHistoryService_GetPerformance_ZeroFirstPrice(t *testing.T) {
	svc, repo := setupHistoryService(t)
	repo.EXPECT().ListSince(gomock.Any(), testVault, gomock.Any()).Return([]domain.VaultHistoryPoint{
		{SharePrice: dec("0")},
		{SharePrice: dec("1")},
	}, nil)

	series, err := svc.GetPerformance(context.Background(), "all")
	require.NoError(t, err)
	for _, p := range series.Points {
		assert.True(t, p.Performance.IsZero())
	}
}

func ptrTime(t time.Time) *time.Time { return &t }
