package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("m-1")}, nil
}

type fakeSQS struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQS) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

type capturingLogger struct {
	debugs, errs []string
}

func (c *capturingLogger) DebugObj(msg, _ string, _ interface{}) { c.debugs = append(c.debugs, msg) }
func (c *capturingLogger) ErrorObj(msg, _ string, _ interface{}) { c.errs = append(c.errs, msg) }

func TestTopicSinkPublishes(t *testing.T) {
	client := &fakeSNS{}
	log := &capturingLogger{}
	sink := &topicSink{id: "topic", topicARN: "arn:aws:sns:us-east-1:1:alerts", client: client, log: log}

	if err := sink.Send(context.Background(), NewAlert("rpc", "2001", "locked")); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if aws.ToString(client.input.TopicArn) != "arn:aws:sns:us-east-1:1:alerts" {
		t.Fatalf("unexpected topic: %v", aws.ToString(client.input.TopicArn))
	}
	if aws.ToString(client.input.Subject) != "alert 2001" {
		t.Fatalf("unexpected subject: %v", aws.ToString(client.input.Subject))
	}
	var got Alert
	if err := json.Unmarshal([]byte(aws.ToString(client.input.Message)), &got); err != nil {
		t.Fatalf("message not json: %v", err)
	}
	if got.Code != "2001" {
		t.Fatalf("unexpected alert: %#v", got)
	}
	if aws.ToString(client.input.MessageAttributes["code"].StringValue) != "2001" {
		t.Fatalf("missing code attribute")
	}
	if len(log.debugs) != 1 || len(log.errs) != 0 {
		t.Fatalf("unexpected logs: %#v", log)
	}
}

func TestTopicSinkPublishError(t *testing.T) {
	log := &capturingLogger{}
	sink := &topicSink{id: "topic", client: &fakeSNS{err: errors.New("boom")}, log: log}
	if err := sink.Send(context.Background(), NewAlert("rpc", "2001", "x")); err == nil {
		t.Fatalf("expected publish error")
	}
	if len(log.errs) != 1 {
		t.Fatalf("expected failure to be logged")
	}
}

func TestQueueSinkSends(t *testing.T) {
	client := &fakeSQS{}
	sink := &queueSink{id: "queue", queueURL: "https://sqs.local/alerts", client: client, log: noopLogger{}}

	a := NewAlert("rpc", "2999", "limit")
	if err := sink.Send(context.Background(), a); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if aws.ToString(client.input.QueueUrl) != "https://sqs.local/alerts" {
		t.Fatalf("unexpected queue: %v", aws.ToString(client.input.QueueUrl))
	}
	attrs := client.input.MessageAttributes
	if aws.ToString(attrs["code"].StringValue) != "2999" || aws.ToString(attrs["alert_id"].StringValue) != a.ID {
		t.Fatalf("unexpected attributes: %#v", attrs)
	}
}

func TestQueueSinkSendError(t *testing.T) {
	sink := &queueSink{id: "queue", client: &fakeSQS{err: errors.New("boom")}, log: noopLogger{}}
	if err := sink.Send(context.Background(), Alert{}); err == nil {
		t.Fatalf("expected send error")
	}
}
