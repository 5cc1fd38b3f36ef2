package alerts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/samvad-hq/samvad-rest-facade/pkg/httpclient"
)

// AlertIDHeader lets webhook receivers de-duplicate redelivered alerts.
const AlertIDHeader = "X-Alert-Id"

const errorBodyLimit = 512

// webhookSink posts alerts to an HTTP endpoint.
type webhookSink struct {
	id     string
	cfg    HTTPSinkConfig
	client *resty.Client
	log    Logger
}

func newHTTPSink(_ context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	if cfg.HTTP == nil {
		return nil, errors.New("http block is missing")
	}
	return &webhookSink{
		id:     cfg.ID,
		cfg:    *cfg.HTTP,
		client: httpclient.NewRestyHTTPClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second),
		log:    orNoop(log),
	}, nil
}

func (w *webhookSink) ID() string   { return w.id }
func (w *webhookSink) Type() string { return TypeHTTP }

func (w *webhookSink) Send(ctx context.Context, a Alert) error {
	body, err := a.payload()
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetHeaders(w.cfg.Headers).
		SetHeader("Content-Type", "application/json").
		SetHeader(AlertIDHeader, a.ID).
		SetBody(body).
		Execute(w.cfg.Method, w.cfg.URL)
	if err != nil {
		failed(w.log, w, a, err)
		return fmt.Errorf("webhook request: %w", err)
	}
	if resp.IsError() {
		err := fmt.Errorf("webhook responded %d: %s", resp.StatusCode(), truncate(resp.Body(), errorBodyLimit))
		failed(w.log, w, a, err)
		return err
	}

	delivered(w.log, w, a, map[string]any{"status": resp.StatusCode()})
	return nil
}

func truncate(body []byte, limit int) string {
	if len(body) > limit {
		body = body[:limit]
	}
	return strings.TrimSpace(string(body))
}
