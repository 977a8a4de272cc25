package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
)

// Publisher queues maintenance jobs on a Pub/Sub topic.
type Publisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topic     string
}

// NewPublisher creates a publisher for topic in projectID.
func NewPublisher(ctx context.Context, projectID, topic string) (*Publisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}
	return &Publisher{
		client:    client,
		publisher: client.Publisher(topic),
		topic:     topic,
	}, nil
}

// PublishRegenerate publishes msg and waits for the server to accept it.
// A missing JobID is filled in; the returned string is the Pub/Sub message ID.
func (p *Publisher) PublishRegenerate(ctx context.Context, msg RegenerateMessage) (RegenerateMessage, string, error) {
	if msg.JobType == "" {
		msg.JobType = JobTypeCatalogRegenerate
	}
	if msg.JobID == "" {
		msg.JobID = "job_" + uuid.NewString()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return msg, "", fmt.Errorf("encode job message: %w", err)
	}

	id, err := p.publisher.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"job_type": msg.JobType, "job_id": msg.JobID},
	}).Get(ctx)
	if err != nil {
		return msg, "", fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	return msg, id, nil
}

// Close flushes pending messages and closes the client.
func (p *Publisher) Close() error {
	p.publisher.Stop()
	return p.client.Close()
}
