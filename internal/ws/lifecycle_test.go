package ws_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/mocks"
	"messaging-service/internal/models"
	"messaging-service/internal/presence"
	"messaging-service/internal/pubsub"
	"messaging-service/internal/repositories"
	"messaging-service/internal/ws"
)

func newLifecycle(channel *mocks.ChannelMock) *ws.Lifecycle {
	return ws.NewLifecycle(presence.NewRegistry(), new(mocks.UserRepositoryMock), channel)
}

func TestConnectedBroadcastsOnlineOnFirstSessionOnly(t *testing.T) {
	channel := new(mocks.ChannelMock)
	lifecycle := newLifecycle(channel)

	// each connect pushes a snapshot to the connecting user
	channel.On("Publish", pubsub.UserDestination("alice"), mock.AnythingOfType("models.OnlineUsersEvent")).Return(nil).Twice()
	// only the first session triggers the global broadcast
	channel.On("Publish", pubsub.PresenceTopic, models.NewUserStatusEvent("alice", true)).Return(nil).Once()

	lifecycle.Connected("s1", "alice")
	lifecycle.Connected("s2", "alice")

	channel.AssertExpectations(t)
	channel.AssertNumberOfCalls(t, "Publish", 3)
}

func TestDisconnectedBroadcastsOfflineOnLastSessionOnly(t *testing.T) {
	channel := new(mocks.ChannelMock)
	lifecycle := newLifecycle(channel)

	channel.On("Publish", pubsub.UserDestination("alice"), mock.Anything).Return(nil).Twice()
	channel.On("Publish", pubsub.PresenceTopic, models.NewUserStatusEvent("alice", true)).Return(nil).Once()
	channel.On("Publish", pubsub.PresenceTopic, models.NewUserStatusEvent("alice", false)).Return(nil).Once()

	lifecycle.Connected("s1", "alice")
	lifecycle.Connected("s2", "alice")

	lifecycle.Disconnected("s1")
	lifecycle.Disconnected("s2")

	channel.AssertExpectations(t)
	channel.AssertNumberOfCalls(t, "Publish", 4)
}

func TestDisconnectedUnknownSessionIsSilent(t *testing.T) {
	channel := new(mocks.ChannelMock)
	lifecycle := newLifecycle(channel)

	lifecycle.Disconnected("never-connected")

	channel.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestConnectedSurvivesPushFailure(t *testing.T) {
	channel := new(mocks.ChannelMock)
	lifecycle := newLifecycle(channel)

	// the snapshot and broadcast both fail; presence state must still advance
	channel.On("Publish", mock.Anything, mock.Anything).Return(ws.ErrNoSubscribers)

	lifecycle.Connected("s1", "alice")
	lifecycle.Disconnected("s1")
}

func TestAuthenticateUnknownUsername(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	lifecycle := ws.NewLifecycle(presence.NewRegistry(), users, new(mocks.ChannelMock))

	users.On("GetUserByUsername", mock.Anything, "ghost").Return(models.User{}, repositories.ErrUserNotFound).Once()

	_, err := lifecycle.Authenticate(context.Background(), "ghost")
	require.ErrorIs(t, err, repositories.ErrUserNotFound)
	users.AssertExpectations(t)
}
