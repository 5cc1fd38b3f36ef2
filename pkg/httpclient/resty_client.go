package httpclient

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// RequestTimeHeader is stamped on every outbound request with the send time in unix millis.
const RequestTimeHeader = "X-Inside-Request-Time"

// ErrBodyTooLarge is returned while reading a response body that exceeds MaxBodyBytes.
var ErrBodyTooLarge = errors.New("response body exceeds configured limit")

// Options tunes the shared transport.
type Options struct {
	Timeout            time.Duration
	MaxConnsPerHost    int
	MaxIdleConns       int
	IdleConnTimeout    time.Duration
	DisableCompression bool
	// MaxBodyBytes caps how much of a response body may be read; 0 disables the cap.
	MaxBodyBytes int64
	Logger       Logger
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Timeout:         30 * time.Second,
		MaxConnsPerHost: 100,
		MaxIdleConns:    100,
		IdleConnTimeout: 60 * time.Second,
		MaxBodyBytes:    5 * 1024 * 1024,
	}
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client       *resty.Client
	maxBodyBytes int64
	log          Logger
}

// NewRestyClient creates a RestyClient with a pooled transport. The client is safe for
// concurrent use and is meant to be shared.
func NewRestyClient(opts Options) *RestyClient {
	log := opts.Logger
	if log == nil {
		log = noopLogger{}
	}

	c := newRestyBaseClient(opts.Timeout)
	c.SetTransport(newTransport(opts))
	c.SetDoNotParseResponse(true)
	c.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		r.SetHeader(RequestTimeHeader, strconv.FormatInt(time.Now().UnixMilli(), 10))
		return nil
	})
	c.OnError(func(r *resty.Request, err error) {
		log.ErrorObj("web client request error", "http_transport_error", map[string]any{
			"method": r.Method,
			"url":    r.URL,
			"error":  err.Error(),
		})
	})

	return &RestyClient{client: c, maxBodyBytes: opts.MaxBodyBytes, log: log}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	return c
}

func newTransport(opts Options) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 60 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          opts.MaxIdleConns,
		MaxIdleConnsPerHost:   opts.MaxConnsPerHost,
		MaxConnsPerHost:       opts.MaxConnsPerHost,
		IdleConnTimeout:       opts.IdleConnTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
		DisableCompression:    opts.DisableCompression,
		ForceAttemptHTTP2:     true,
	}
}

// Do performs the request. Caller headers are applied first so the explicit content
// negotiation fields always win.
func (r *RestyClient) Do(ctx context.Context, in Request) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(in.Headers) > 0 {
		req.SetHeaders(in.Headers)
	}
	if in.ContentType != "" {
		req.SetHeader("Content-Type", in.ContentType)
	}
	if in.Accept != "" {
		req.SetHeader("Accept", in.Accept)
	}
	if in.AcceptCharset != "" {
		req.SetHeader("Accept-Charset", in.AcceptCharset)
	}
	if in.Body != "" {
		req.SetBody(in.Body)
	}

	resp, err := req.Execute(in.Method, in.URL)
	if err != nil {
		if resp != nil && resp.RawResponse != nil && resp.RawResponse.Body != nil {
			resp.RawResponse.Body.Close()
		}
		return nil, err
	}
	r.log.DebugObj("web client response received", "http_transport_response", map[string]any{
		"method":     in.Method,
		"url":        in.URL,
		"status":     resp.StatusCode(),
		"elapsed_ms": resp.Time().Milliseconds(),
	})
	return &restyResponseAdapter{resp: resp, limit: r.maxBodyBytes}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp  *resty.Response
	limit int64
}

func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }

func (r *restyResponseAdapter) Body() io.ReadCloser {
	body := r.resp.RawBody()
	if body == nil {
		return io.NopCloser(http.NoBody)
	}
	if r.limit <= 0 {
		return body
	}
	return &limitedBody{rc: body, remaining: r.limit}
}

// limitedBody fails with ErrBodyTooLarge once more than the allowed bytes are available.
type limitedBody struct {
	rc        io.ReadCloser
	remaining int64
}

func (l *limitedBody) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		var probe [1]byte
		n, err := l.rc.Read(probe[:])
		if n > 0 {
			return 0, ErrBodyTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.rc.Read(p)
	l.remaining -= int64(n)
	return n, err
}

func (l *limitedBody) Close() error { return l.rc.Close() }
