package alerts

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type sqsSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// queueSink enqueues alerts on an SQS queue.
type queueSink struct {
	id       string
	queueURL string
	client   sqsSender
	log      Logger
}

func newSQSSink(ctx context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	if cfg.SQS == nil {
		return nil, errors.New("sqs block is missing")
	}
	awsCfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(cfg.SQS.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &queueSink{
		id:       cfg.ID,
		queueURL: cfg.SQS.QueueURL,
		client:   sqs.NewFromConfig(awsCfg),
		log:      orNoop(log),
	}, nil
}

func (q *queueSink) ID() string   { return q.id }
func (q *queueSink) Type() string { return TypeSQS }

func (q *queueSink) Send(ctx context.Context, a Alert) error {
	body, err := a.payload()
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}

	out, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          aws.String(q.queueURL),
		MessageBody:       aws.String(string(body)),
		MessageAttributes: sqsAttributes(a),
	})
	if err != nil {
		failed(q.log, q, a, err)
		return fmt.Errorf("sqs send: %w", err)
	}

	delivered(q.log, q, a, map[string]any{"message_id": aws.ToString(out.MessageId)})
	return nil
}

func sqsAttributes(a Alert) map[string]types.MessageAttributeValue {
	out := make(map[string]types.MessageAttributeValue)
	for k, v := range a.attributes() {
		if v == "" {
			continue
		}
		out[k] = types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
	}
	return out
}
