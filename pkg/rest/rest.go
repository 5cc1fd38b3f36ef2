// Package rest issues outbound HTTP calls and normalizes every failure into an
// *apperr.Error.
//
// Each call returns an *async.Future[string] immediately. The request is sent when the
// future is started (Start, Await, Done, or a chained stage). A successful future holds
// the response body as text. A failed future holds exactly one unified error: a status
// error from the ordered 404/4xx/5xx/other ladder, or the fixed system error for any
// transport fault.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/samvad-hq/samvad-rest-facade/pkg/apperr"
	"github.com/samvad-hq/samvad-rest-facade/pkg/async"
	"github.com/samvad-hq/samvad-rest-facade/pkg/form"
	"github.com/samvad-hq/samvad-rest-facade/pkg/httpclient"
)

// Recorder observes finished calls. outcome is "ok" or the apperr.Kind of the failure.
type Recorder interface {
	CallStarted(method string)
	CallFinished(method, outcome string, elapsed time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) CallStarted(string)                        {}
func (noopRecorder) CallFinished(string, string, time.Duration) {}

// Option customizes a Rest.
type Option func(*Rest)

// WithLogger sets the diagnostic logger.
func WithLogger(log Logger) Option {
	return func(r *Rest) {
		if log != nil {
			r.log = safeLogger{log: log}
		}
	}
}

// WithSerializer replaces the JSON serializer used for Object bodies.
func WithSerializer(s Serializer) Option {
	return func(r *Rest) {
		if s != nil {
			r.serializer = s
		}
	}
}

// WithRecorder attaches a call recorder such as metrics.CallMetrics.
func WithRecorder(rec Recorder) Option {
	return func(r *Rest) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// Rest is the outbound call facade. It holds no per-call state and is safe for
// concurrent use when its transport is.
type Rest struct {
	client     httpclient.Client
	serializer Serializer
	log        safeLogger
	recorder   Recorder
}

// New builds a Rest on top of client.
func New(client httpclient.Client, opts ...Option) *Rest {
	r := &Rest{
		client:     client,
		serializer: JSONSerializer{},
		log:        safeLogger{log: noopLogger{}},
		recorder:   noopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Post sends body as JSON. Text bodies are sent verbatim, anything else is serialized.
func (r *Rest) Post(ctx context.Context, url string, body any) *async.Future[string] {
	return r.Do(ctx, Call{Method: http.MethodPost, URL: url, Body: JSONBody(body)})
}

// PostWithHeaders is Post with caller headers merged into the request.
func (r *Rest) PostWithHeaders(ctx context.Context, url string, body any, headers http.Header) *async.Future[string] {
	return r.Do(ctx, Call{Method: http.MethodPost, URL: url, Body: JSONBody(body), Headers: headers})
}

// PostForm sends fields as an application/x-www-form-urlencoded body.
func (r *Rest) PostForm(ctx context.Context, url string, fields form.Fields) *async.Future[string] {
	return r.Do(ctx, Call{Method: http.MethodPost, URL: url, Body: Form(fields)})
}

// PostFormWithHeaders is PostForm with caller headers merged into the request.
func (r *Rest) PostFormWithHeaders(ctx context.Context, url string, fields form.Fields, headers http.Header) *async.Future[string] {
	return r.Do(ctx, Call{Method: http.MethodPost, URL: url, Body: Form(fields), Headers: headers})
}

// Get sends a GET with fields appended to the URL query.
func (r *Rest) Get(ctx context.Context, url string, fields form.Fields) *async.Future[string] {
	return r.Do(ctx, Call{Method: http.MethodGet, URL: url, Query: fields})
}

// GetWithHeaders is Get with caller headers merged into the request.
func (r *Rest) GetWithHeaders(ctx context.Context, url string, fields form.Fields, headers http.Header) *async.Future[string] {
	return r.Do(ctx, Call{Method: http.MethodGet, URL: url, Query: fields, Headers: headers})
}

// Do resolves call and returns its normalized outcome. It never returns nil and never
// panics; failures are delivered through the future.
func (r *Rest) Do(ctx context.Context, call Call) *async.Future[string] {
	req, err := call.request(r.serializer)
	if err != nil {
		r.log.error("http client call failed", "http_call_error", map[string]any{
			"method": call.Method,
			"url":    call.URL,
			"error":  err.Error(),
		})
		return async.Failed[string](apperr.System())
	}

	r.log.debug("start http call", "http_call_request", func() any {
		rec := map[string]any{
			"request_id": req.Headers[RequestIDHeader],
			"method":     req.Method,
			"url":        req.URL,
		}
		if call.Body != nil {
			rec["body"] = call.Body.logValue()
		}
		if len(call.Headers) > 0 {
			rec["headers"] = call.Headers
		}
		return rec
	})

	return async.New(func() (string, error) {
		start := time.Now()
		r.recorder.CallStarted(req.Method)
		text, err := r.normalize(ctx, req)
		r.recorder.CallFinished(req.Method, outcome(err), time.Since(start))
		return text, err
	})
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := apperr.KindOf(err); kind != "" {
		return string(kind)
	}
	return string(apperr.KindSystem)
}
