package alerts

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// pubsubSink publishes alerts to a Pub/Sub topic and waits for the server ack.
type pubsubSink struct {
	id     string
	client *pubsub.Client
	topic  *pubsub.Topic
	log    Logger
}

func newPubSubSink(ctx context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	if cfg.PubSub == nil {
		return nil, errors.New("pubsub block is missing")
	}

	var opts []option.ClientOption
	if cfg.PubSub.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.PubSub.CredentialsFile))
	}
	client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("pubsub client: %w", err)
	}

	return &pubsubSink{
		id:     cfg.ID,
		client: client,
		topic:  client.Topic(cfg.PubSub.Topic),
		log:    orNoop(log),
	}, nil
}

func (p *pubsubSink) ID() string   { return p.id }
func (p *pubsubSink) Type() string { return TypePubSub }

func (p *pubsubSink) Send(ctx context.Context, a Alert) error {
	body, err := a.payload()
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}

	serverID, err := p.topic.Publish(ctx, &pubsub.Message{Data: body, Attributes: a.attributes()}).Get(ctx)
	if err != nil {
		failed(p.log, p, a, err)
		return fmt.Errorf("pubsub publish: %w", err)
	}

	delivered(p.log, p, a, map[string]any{"message_id": serverID})
	return nil
}

// Close flushes pending publishes and releases the client.
func (p *pubsubSink) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
