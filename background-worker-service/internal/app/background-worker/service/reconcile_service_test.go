package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"velora/background-worker-service/internal/app/background-worker/entity"
	"velora/background-worker-service/internal/app/background-worker/repository/mocks"
)

func setupReconcileService() (*ReconcileService, *mocks.MockAggregateRepository, *mocks.MockRankingRepository) {
	aggregateRepo := new(mocks.MockAggregateRepository)
	rankingRepo := new(mocks.MockRankingRepository)
	return NewReconcileService(aggregateRepo, rankingRepo), aggregateRepo, rankingRepo
}

func TestReconcileAggregates_NoDrift(t *testing.T) {
	svc, aggregateRepo, rankingRepo := setupReconcileService()
	ctx := context.Background()
	productID := uuid.New()

	aggregates := []entity.ProductAggregate{{ProductID: productID, Rating: 4.5, NumReviews: 10}}
	aggregateRepo.On("ComputeFromReviews", mock.Anything).Return(aggregates, nil)
	aggregateRepo.On("GetStored", mock.Anything).Return(aggregates, nil)

	result, err := svc.ReconcileAggregates(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Checked)
	assert.Equal(t, 0, result.Fixed)
	aggregateRepo.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	rankingRepo.AssertNotCalled(t, "UpdateScore", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileAggregates_RepairsDriftedAggregate(t *testing.T) {
	svc, aggregateRepo, rankingRepo := setupReconcileService()
	ctx := context.Background()
	productID := uuid.New()

	// Фактически в отзывах среднее 4.0, а в products записано 3.0
	aggregateRepo.On("ComputeFromReviews", mock.Anything).Return([]entity.ProductAggregate{
		{ProductID: productID, Rating: 4.0, NumReviews: 4},
	}, nil)
	aggregateRepo.On("GetStored", mock.Anything).Return([]entity.ProductAggregate{
		{ProductID: productID, Rating: 3.0, NumReviews: 3},
	}, nil)
	aggregateRepo.On("UpdateProduct", mock.Anything, productID, 4.0, int64(4)).Return(nil)
	rankingRepo.On("UpdateScore", mock.Anything, productID.String(), 4.0).Return(nil)

	result, err := svc.ReconcileAggregates(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Fixed)
	assert.Equal(t, 0, result.Failed)
	aggregateRepo.AssertExpectations(t)
	rankingRepo.AssertExpectations(t)
}

func TestReconcileAggregates_ResetsProductWithoutReviews(t *testing.T) {
	svc, aggregateRepo, rankingRepo := setupReconcileService()
	ctx := context.Background()
	productID := uuid.New()

	// Отзывов у товара нет, а агрегаты остались ненулевыми
	aggregateRepo.On("ComputeFromReviews", mock.Anything).Return([]entity.ProductAggregate{}, nil)
	aggregateRepo.On("GetStored", mock.Anything).Return([]entity.ProductAggregate{
		{ProductID: productID, Rating: 4.2, NumReviews: 5},
	}, nil)
	aggregateRepo.On("UpdateProduct", mock.Anything, productID, 0.0, int64(0)).Return(nil)
	rankingRepo.On("Remove", mock.Anything, productID.String()).Return(nil)

	result, err := svc.ReconcileAggregates(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Fixed)
	rankingRepo.AssertCalled(t, "Remove", mock.Anything, productID.String())
	rankingRepo.AssertNotCalled(t, "UpdateScore", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileAggregates_ZeroAggregatesWithoutReviewsUntouched(t *testing.T) {
	svc, aggregateRepo, _ := setupReconcileService()
	ctx := context.Background()
	productID := uuid.New()

	aggregateRepo.On("ComputeFromReviews", mock.Anything).Return([]entity.ProductAggregate{}, nil)
	aggregateRepo.On("GetStored", mock.Anything).Return([]entity.ProductAggregate{
		{ProductID: productID, Rating: 0, NumReviews: 0},
	}, nil)

	result, err := svc.ReconcileAggregates(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Fixed)
	aggregateRepo.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileAggregates_UpdateFailureCounted(t *testing.T) {
	svc, aggregateRepo, rankingRepo := setupReconcileService()
	ctx := context.Background()
	productID := uuid.New()

	aggregateRepo.On("ComputeFromReviews", mock.Anything).Return([]entity.ProductAggregate{
		{ProductID: productID, Rating: 5.0, NumReviews: 1},
	}, nil)
	aggregateRepo.On("GetStored", mock.Anything).Return([]entity.ProductAggregate{
		{ProductID: productID, Rating: 1.0, NumReviews: 1},
	}, nil)
	aggregateRepo.On("UpdateProduct", mock.Anything, productID, 5.0, int64(1)).
		Return(errors.New("db unavailable"))

	result, err := svc.ReconcileAggregates(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Fixed)
	assert.Equal(t, 1, result.Failed)
	rankingRepo.AssertNotCalled(t, "UpdateScore", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileAggregates_ComputeErrorAborts(t *testing.T) {
	svc, aggregateRepo, _ := setupReconcileService()

	aggregateRepo.On("ComputeFromReviews", mock.Anything).Return(nil, errors.New("db unavailable"))

	result, err := svc.ReconcileAggregates(context.Background())

	assert.Error(t, err)
	assert.Nil(t, result)
	aggregateRepo.AssertNotCalled(t, "GetStored", mock.Anything)
}
