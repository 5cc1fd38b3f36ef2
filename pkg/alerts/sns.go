package alerts

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type snsPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// topicSink publishes alerts to an SNS topic.
type topicSink struct {
	id       string
	topicARN string
	client   snsPublisher
	log      Logger
}

func newSNSSink(ctx context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	if cfg.SNS == nil {
		return nil, errors.New("sns block is missing")
	}
	awsCfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(cfg.SNS.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &topicSink{
		id:       cfg.ID,
		topicARN: cfg.SNS.TopicARN,
		client:   sns.NewFromConfig(awsCfg),
		log:      orNoop(log),
	}, nil
}

func (t *topicSink) ID() string   { return t.id }
func (t *topicSink) Type() string { return TypeSNS }

func (t *topicSink) Send(ctx context.Context, a Alert) error {
	body, err := a.payload()
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}

	out, err := t.client.Publish(ctx, &sns.PublishInput{
		TopicArn:          aws.String(t.topicARN),
		Subject:           aws.String("alert " + a.Code),
		Message:           aws.String(string(body)),
		MessageAttributes: snsAttributes(a),
	})
	if err != nil {
		failed(t.log, t, a, err)
		return fmt.Errorf("sns publish: %w", err)
	}

	delivered(t.log, t, a, map[string]any{"message_id": aws.ToString(out.MessageId)})
	return nil
}

func snsAttributes(a Alert) map[string]types.MessageAttributeValue {
	out := make(map[string]types.MessageAttributeValue)
	for k, v := range a.attributes() {
		if v == "" {
			continue
		}
		out[k] = types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
	}
	return out
}
