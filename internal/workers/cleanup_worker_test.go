package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"donation_backend/internal/models"
	"donation_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type stubRepo struct {
	deleted   int64
	deleteErr error
	calls     int
}

func (r *stubRepo) Create(record *models.DonationRecord) error { return nil }

func (r *stubRepo) FindByOrderID(orderID string) (*models.DonationRecord, error) {
	return nil, repositories.ErrDonationNotFound
}

func (r *stubRepo) Settle(orderID string, rawPayload datatypes.JSON) (repositories.SettleResult, error) {
	return repositories.SettleNotFound, nil
}

func (r *stubRepo) DeleteUnsettled() (int64, error) {
	r.calls++
	return r.deleted, r.deleteErr
}

func TestNextSweepTime(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "mid-month",
			now:  time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC),
			want: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "december rolls into next year",
			now:  time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC),
			want: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "exactly at a sweep boundary schedules the next month",
			now:  time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextSweepTime(tt.now))
		})
	}
}

func TestRunOnce_ReportsDeletedCount(t *testing.T) {
	repo := &stubRepo{deleted: 3}
	worker := NewCleanupWorker(repo)

	deleted, err := worker.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.Equal(t, 1, repo.calls)
}

func TestRunOnce_EmptySweepIsNotAnError(t *testing.T) {
	worker := NewCleanupWorker(&stubRepo{})

	deleted, err := worker.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestRunOnce_PropagatesRepositoryError(t *testing.T) {
	repo := &stubRepo{deleteErr: errors.New("connection refused")}
	worker := NewCleanupWorker(repo)

	_, err := worker.RunOnce(context.Background())
	assert.Error(t, err)
}
