package delivery_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/delivery"
	"messaging-service/internal/mocks"
	"messaging-service/internal/repositories"
)

func TestRecordCreatesOneRowPerRecipient(t *testing.T) {
	repo := new(mocks.DeliveryRepositoryMock)
	tracker := delivery.NewTracker(repo)

	repo.On("CreateIfAbsent", mock.Anything, int64(10), int64(2)).Return(nil).Once()
	repo.On("CreateIfAbsent", mock.Anything, int64(10), int64(3)).Return(nil).Once()

	err := tracker.Record(context.Background(), 10, []int64{2, 3})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRecordAbortsOnFirstFailure(t *testing.T) {
	repo := new(mocks.DeliveryRepositoryMock)
	tracker := delivery.NewTracker(repo)

	repo.On("CreateIfAbsent", mock.Anything, int64(10), int64(2)).Return(nil).Once()
	repo.On("CreateIfAbsent", mock.Anything, int64(10), int64(3)).Return(assert.AnError).Once()

	err := tracker.Record(context.Background(), 10, []int64{2, 3, 4})
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "recipient 3")

	repo.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, int64(10), int64(4))
	repo.AssertExpectations(t)
}

func TestRecordNoRecipients(t *testing.T) {
	repo := new(mocks.DeliveryRepositoryMock)
	tracker := delivery.NewTracker(repo)

	require.NoError(t, tracker.Record(context.Background(), 10, nil))
	repo.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkReadUnknownStatus(t *testing.T) {
	repo := new(mocks.DeliveryRepositoryMock)
	tracker := delivery.NewTracker(repo)

	repo.On("MarkRead", mock.Anything, int64(99)).Return(repositories.ErrDeliveryStatusNotFound).Once()

	err := tracker.MarkRead(context.Background(), 99)
	require.ErrorIs(t, err, repositories.ErrDeliveryStatusNotFound)
	repo.AssertExpectations(t)
}

func TestUnreadCount(t *testing.T) {
	repo := new(mocks.DeliveryRepositoryMock)
	tracker := delivery.NewTracker(repo)

	repo.On("UnreadCount", mock.Anything, int64(2)).Return(int64(4), nil).Once()

	count, err := tracker.UnreadCount(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	repo.AssertExpectations(t)
}
