package services

import (
	"context"
	"testing"

	. "freshnest/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBatchStatement(t *testing.T) {
	ctx := context.Background()

	cleaner := weekdayCleaner()
	jobRepo := &stubJobRepo{jobs: []*Job{
		unpaidJob(&cleaner.ID, 12000),
		unpaidJob(&cleaner.ID, 8000),
	}}
	batchRepo := newStubPayoutBatchRepo()
	payout := newTestPayoutService(t, jobRepo, batchRepo)
	service := NewStatementService(payout, newStubCleanerRepo(cleaner))

	batch, err := payout.CreatePayoutBatch(ctx, payoutPeriodStart, payoutPeriodEnd, "")
	require.NoError(t, err)

	statement, err := service.GenerateBatchStatement(ctx, batch.ID)
	require.NoError(t, err)
	require.NotEmpty(t, statement)
	assert.Equal(t, "%PDF", string(statement[:4]))
}

func TestGenerateBatchStatement_UnknownBatch(t *testing.T) {
	ctx := context.Background()

	payout := newTestPayoutService(t, &stubJobRepo{}, newStubPayoutBatchRepo())
	service := NewStatementService(payout, newStubCleanerRepo())

	_, err := service.GenerateBatchStatement(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
