package notify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/mocks"
	"messaging-service/internal/models"
	"messaging-service/internal/notify"
)

func groupID(v int64) *int64 { return &v }

func TestNotifyCreatesAndPushesPerRecipient(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	channel := new(mocks.ChannelMock)
	fanout := notify.NewFanout(repo, channel)

	msg := models.Message{ID: 10, SenderID: 1, ReceiverGroupID: groupID(7)}
	recipients := []models.User{{ID: 2, Username: "bob"}, {ID: 3, Username: "carol"}}

	repo.On("Create", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.MessageID == 10 && n.SenderID == 1 && n.Kind == models.KindGroupMessage && *n.GroupID == 7
	})).Return(models.Notification{ID: 5}, nil).Twice()
	channel.On("Publish", "user:bob", mock.Anything).Return(nil).Once()
	channel.On("Publish", "user:carol", mock.Anything).Return(nil).Once()

	err := fanout.Notify(context.Background(), msg, recipients, models.KindGroupMessage)
	require.NoError(t, err)
	repo.AssertExpectations(t)
	channel.AssertExpectations(t)
}

func TestNotifyToleratesPushFailure(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	channel := new(mocks.ChannelMock)
	fanout := notify.NewFanout(repo, channel)

	msg := models.Message{ID: 10, SenderID: 1}
	recipients := []models.User{{ID: 2, Username: "bob"}}

	repo.On("Create", mock.Anything, mock.Anything).Return(models.Notification{ID: 5}, nil).Once()
	channel.On("Publish", "user:bob", mock.Anything).Return(assert.AnError).Once()

	err := fanout.Notify(context.Background(), msg, recipients, models.KindDirectMessage)
	require.NoError(t, err)
	repo.AssertExpectations(t)
	channel.AssertExpectations(t)
}

func TestNotifyAbortsOnInsertFailure(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	channel := new(mocks.ChannelMock)
	fanout := notify.NewFanout(repo, channel)

	msg := models.Message{ID: 10, SenderID: 1}
	recipients := []models.User{{ID: 2, Username: "bob"}, {ID: 3, Username: "carol"}}

	repo.On("Create", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.RecipientID == 2
	})).Return(models.Notification{}, assert.AnError).Once()

	err := fanout.Notify(context.Background(), msg, recipients, models.KindDirectMessage)
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "recipient 2")

	channel.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestNotifyNoRecipients(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	channel := new(mocks.ChannelMock)
	fanout := notify.NewFanout(repo, channel)

	err := fanout.Notify(context.Background(), models.Message{ID: 10}, nil, models.KindDirectMessage)
	require.NoError(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMarkAllRead(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	fanout := notify.NewFanout(repo, new(mocks.ChannelMock))

	repo.On("MarkAllRead", mock.Anything, int64(2)).Return(int64(3), nil).Once()

	updated, err := fanout.MarkAllRead(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)
	repo.AssertExpectations(t)
}
