package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"velora/background-worker-service/internal/app/background-worker/entity"
)

// MockAggregateRepository мок для repository.ProductAggregateRepository
type MockAggregateRepository struct {
	mock.Mock
}

func (m *MockAggregateRepository) ComputeFromReviews(ctx context.Context) ([]entity.ProductAggregate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ProductAggregate), args.Error(1)
}

func (m *MockAggregateRepository) GetStored(ctx context.Context) ([]entity.ProductAggregate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ProductAggregate), args.Error(1)
}

func (m *MockAggregateRepository) UpdateProduct(ctx context.Context, productID uuid.UUID, rating float64, numReviews int64) error {
	args := m.Called(ctx, productID, rating, numReviews)
	return args.Error(0)
}

// MockRankingRepository мок для repository.RankingRepository
type MockRankingRepository struct {
	mock.Mock
}

func (m *MockRankingRepository) UpdateScore(ctx context.Context, productID string, rating float64) error {
	args := m.Called(ctx, productID, rating)
	return args.Error(0)
}

func (m *MockRankingRepository) Remove(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockRankingRepository) TopRated(ctx context.Context, limit int64) ([]entity.TopRatedProduct, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.TopRatedProduct), args.Error(1)
}

func (m *MockRankingRepository) InvalidateStatistics(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}
