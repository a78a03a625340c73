package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/card-directory/internal/events"
)

// ActivityPublisher forwards serialized events to an external channel.
type ActivityPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// ActivityService records domain events as an activity feed.
type ActivityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	publisher  ActivityPublisher
	channel    string
}

// NewActivityService creates the service. A nil publisher only logs.
func NewActivityService(dispatcher events.Dispatcher, logger *zap.Logger, publisher ActivityPublisher, channel string) *ActivityService {
	return &ActivityService{
		dispatcher: dispatcher,
		logger:     logger,
		publisher:  publisher,
		channel:    channel,
	}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventUserRegistered,
		events.EventUserUpdated,
		events.EventUserBusinessChanged,
		events.EventUserDeleted,
		events.EventCardCreated,
		events.EventCardUpdated,
		events.EventCardDeleted,
		events.EventCardLikeToggled,
	} {
		a.dispatcher.Subscribe(eventType, a.record)
	}
}

func (a *ActivityService) record(ctx context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("resource_id", event.ResourceID),
		zap.String("actor_id", event.ActorID),
		zap.Any("payload", event.Payload))

	if a.publisher == nil {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		a.logger.Error("encode activity event", zap.String("event_id", event.ID), zap.Error(err))
		return err
	}
	if err := a.publisher.Publish(ctx, a.channel, body); err != nil {
		a.logger.Warn("publish activity event",
			zap.String("channel", a.channel),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return err
	}
	return nil
}
