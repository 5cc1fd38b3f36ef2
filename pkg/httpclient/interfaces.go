package httpclient

import (
	"context"
	"io"
)

// Request is a fully resolved outbound call.
type Request struct {
	Method        string
	URL           string
	Headers       map[string]string
	ContentType   string
	Accept        string
	AcceptCharset string
	Body          string
}

// Response is a minimal HTTP response contract. The body is not read until the
// caller reads it, so status checks can run first.
type Response interface {
	StatusCode() int
	Body() io.ReadCloser
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Do(ctx context.Context, req Request) (Response, error)
}

// Logger is the logging surface the transport hooks rely on.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) ErrorObj(string, string, interface{}) {}
