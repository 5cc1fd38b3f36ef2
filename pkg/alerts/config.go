package alerts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sink types understood by DefaultBuilders.
const (
	TypeHTTP   = "http"
	TypeSNS    = "sns"
	TypeSQS    = "sqs"
	TypePubSub = "pubsub"
)

const (
	webhookMethod         = "POST"
	webhookTimeoutSeconds = 5
)

// SinkConfig is one entry of the alerts file. Exactly the block matching Type is read.
type SinkConfig struct {
	ID      string          `json:"id" yaml:"id"`
	Type    string          `json:"type" yaml:"type"`
	Enabled *bool           `json:"enabled" yaml:"enabled"`
	HTTP    *HTTPSinkConfig `json:"http" yaml:"http"`
	SNS     *SNSSinkConfig  `json:"sns" yaml:"sns"`
	SQS     *SQSSinkConfig  `json:"sqs" yaml:"sqs"`
	PubSub  *PubSubConfig   `json:"pubsub" yaml:"pubsub"`
}

// HTTPSinkConfig describes a webhook.
type HTTPSinkConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// SNSSinkConfig names an SNS topic.
type SNSSinkConfig struct {
	TopicARN string `json:"topic_arn" yaml:"topic_arn"`
	Region   string `json:"region" yaml:"region"`
}

// SQSSinkConfig names an SQS queue.
type SQSSinkConfig struct {
	QueueURL string `json:"uri" yaml:"uri"`
	Region   string `json:"region" yaml:"region"`
}

// PubSubConfig names a Pub/Sub topic. CredentialsFile is optional.
type PubSubConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// Config is the parsed alerts file. It is read-only after LoadConfig.
type Config struct {
	Sinks []SinkConfig `json:"alerts" yaml:"alerts"`
}

// LoadConfig reads and validates an alerts file. The format follows the extension
// (.yaml, .yml, .json); any other extension is tried as YAML, which also accepts JSON.
func LoadConfig(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("alerts file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alerts file: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &cfg)
	default:
		err = yaml.Unmarshal(raw, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("decode alerts file %s: %w", filepath.Base(path), err)
	}
	if len(cfg.Sinks) == 0 {
		return nil, errors.New("alerts file declares no sinks")
	}

	seen := make(map[string]struct{}, len(cfg.Sinks))
	for i := range cfg.Sinks {
		sc := cfg.Sinks[i].normalized()
		if err := sc.validate(); err != nil {
			return nil, fmt.Errorf("alerts[%d]: %w", i, err)
		}
		if _, dup := seen[sc.ID]; dup {
			return nil, fmt.Errorf("alerts[%d]: sink id %q declared twice", i, sc.ID)
		}
		seen[sc.ID] = struct{}{}
		cfg.Sinks[i] = sc
	}
	return &cfg, nil
}

// Enabled returns the sinks not switched off, in file order.
func (c *Config) Enabled() []SinkConfig {
	if c == nil {
		return nil
	}
	out := make([]SinkConfig, 0, len(c.Sinks))
	for _, sc := range c.Sinks {
		if sc.IsEnabled() {
			out = append(out, sc)
		}
	}
	return out
}

// IsEnabled treats a missing flag as on.
func (sc SinkConfig) IsEnabled() bool {
	return sc.Enabled == nil || *sc.Enabled
}

func (sc SinkConfig) normalized() SinkConfig {
	sc.ID = strings.TrimSpace(sc.ID)
	sc.Type = strings.ToLower(strings.TrimSpace(sc.Type))

	if h := sc.HTTP; h != nil {
		c := *h
		c.URL = strings.TrimSpace(c.URL)
		c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
		if c.Method == "" {
			c.Method = webhookMethod
		}
		if c.TimeoutSeconds <= 0 {
			c.TimeoutSeconds = webhookTimeoutSeconds
		}
		c.Headers = trimHeaders(c.Headers)
		sc.HTTP = &c
	}
	if s := sc.SNS; s != nil {
		sc.SNS = &SNSSinkConfig{TopicARN: strings.TrimSpace(s.TopicARN), Region: strings.TrimSpace(s.Region)}
	}
	if q := sc.SQS; q != nil {
		sc.SQS = &SQSSinkConfig{QueueURL: strings.TrimSpace(q.QueueURL), Region: strings.TrimSpace(q.Region)}
	}
	if p := sc.PubSub; p != nil {
		sc.PubSub = &PubSubConfig{
			ProjectID:       strings.TrimSpace(p.ProjectID),
			Topic:           strings.TrimSpace(p.Topic),
			CredentialsFile: strings.TrimSpace(p.CredentialsFile),
		}
	}
	return sc
}

// trimHeaders drops entries whose name or value is blank.
func trimHeaders(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" && v != "" {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (sc SinkConfig) validate() error {
	if sc.ID == "" {
		return errors.New("sink id is required")
	}

	var missing string
	switch sc.Type {
	case "":
		return fmt.Errorf("sink %q has no type", sc.ID)
	case TypeHTTP:
		if sc.HTTP == nil || sc.HTTP.URL == "" {
			missing = "http.url"
		}
	case TypeSNS:
		switch {
		case sc.SNS == nil || sc.SNS.TopicARN == "":
			missing = "sns.topic_arn"
		case sc.SNS.Region == "":
			missing = "sns.region"
		}
	case TypeSQS:
		switch {
		case sc.SQS == nil || sc.SQS.QueueURL == "":
			missing = "sqs.uri"
		case sc.SQS.Region == "":
			missing = "sqs.region"
		}
	case TypePubSub:
		switch {
		case sc.PubSub == nil || sc.PubSub.ProjectID == "":
			missing = "pubsub.project_id"
		case sc.PubSub.Topic == "":
			missing = "pubsub.topic"
		}
	}
	if missing != "" {
		return fmt.Errorf("sink %q: %s is required", sc.ID, missing)
	}
	return nil
}
