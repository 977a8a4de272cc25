package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/travelwits/travelwits/internal/catalog"
)

// PubSubHandler feeds job messages from a subscription to a Runner.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	runner           *Runner
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	Runner           *Runner
	Logger           zerolog.Logger
}

// NewPubSubHandler creates a handler bound to one subscription.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)
	// Regenerations are serialized by the catalog anyway.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 1
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		runner:           cfg.Runner,
		logger:           cfg.Logger,
	}, nil
}

// Start receives messages until ctx is cancelled.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		logger := h.logger.With().
			Str("message_id", msg.ID).
			Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
			Logger()

		if process(logger.WithContext(ctx), h.runner, msg.Data) {
			msg.Ack()
		} else {
			msg.Nack()
		}
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

// process runs one message and reports whether it should be acked.
// Messages that can never succeed are acked so they are not redelivered
// forever. Failed jobs are nacked for retry.
func process(ctx context.Context, runner *Runner, data []byte) bool {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	msg, err := ParseMessage(data)
	if err != nil {
		logger.Error().Err(err).Msg("dropping malformed message")
		return true
	}

	logger.Debug().Str("job_type", msg.JobType).Str("job_id", msg.JobID).Msg("received job")

	err = runner.Handle(ctx, msg)
	switch {
	case errors.Is(err, ErrUnknownJobType):
		logger.Warn().Str("job_type", msg.JobType).Msg("unknown job type")
		return true
	case errors.Is(err, catalog.ErrNothingToRegenerate):
		logger.Warn().Str("job_id", msg.JobID).Msg("dropping regeneration with nothing selected")
		return true
	case err != nil:
		logger.Error().Err(err).Str("job_type", msg.JobType).Str("job_id", msg.JobID).Msg("job failed")
		return false
	}

	logger.Info().
		Str("job_type", msg.JobType).
		Str("job_id", msg.JobID).
		Str("requested_by", msg.RequestedBy).
		Dur("duration", time.Since(start)).
		Msg("job completed successfully")
	return true
}
