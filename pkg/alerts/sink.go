package alerts

import "context"

// Sink delivers alerts to one channel.
type Sink interface {
	ID() string
	Type() string
	Send(ctx context.Context, a Alert) error
}

// Logger is what sinks log through.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func orNoop(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}

// delivered records a successful send in a uniform shape.
func delivered(log Logger, sink Sink, a Alert, extra map[string]any) {
	rec := map[string]any{"sink_id": sink.ID(), "sink_type": sink.Type(), "alert_id": a.ID}
	for k, v := range extra {
		rec[k] = v
	}
	log.DebugObj("alert delivered", "alert_delivery", rec)
}

// failed records a failed send in a uniform shape.
func failed(log Logger, sink Sink, a Alert, err error) {
	log.ErrorObj("alert delivery failed", "alert_delivery_error", map[string]any{
		"sink_id":   sink.ID(),
		"sink_type": sink.Type(),
		"alert_id":  a.ID,
		"error":     err.Error(),
	})
}
