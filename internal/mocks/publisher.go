package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"messaging-service/internal/observability"
	"messaging-service/internal/pubsub"
	"messaging-service/internal/rabbitmq"
	"messaging-service/internal/telemetry"
)

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) PublishWithHeaders(ctx context.Context, routingKey string, event any, headers map[string]string) error {
	args := m.Called(ctx, routingKey, event, headers)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

type ChannelMock struct {
	mock.Mock
}

func (m *ChannelMock) Publish(destination string, payload any) error {
	args := m.Called(destination, payload)
	return args.Error(0)
}

var (
	_ rabbitmq.Publisher      = (*PublisherMock)(nil)
	_ observability.Publisher = (*PublisherMock)(nil)
	_ telemetry.Publisher     = (*PublisherMock)(nil)
	_ pubsub.Channel          = (*ChannelMock)(nil)
)
