package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/samvad-hq/samvad-rest-facade/pkg/apperr"
	"github.com/samvad-hq/samvad-rest-facade/pkg/httpclient"
)

const (
	msgRouteNotFound = "request path does not exist, check the request address"
	msgClientError   = "authentication failed, contact administrator, error code: %d"
	msgServerError   = "internal server error, retry later or contact support, error code: %d"
	msgUnknownError  = "unknown error, retry later or contact administrator, error code: %d"
)

// statusRule maps a class of error statuses to a unified error.
type statusRule struct {
	kind    apperr.Kind
	match   func(status int) bool
	message func(status int) string
}

// statusLadder is evaluated in order; the first match wins. 404 must stay ahead of the
// generic 4xx rule and the catch-all must stay last.
var statusLadder = []statusRule{
	{
		kind:    apperr.KindRoute,
		match:   func(s int) bool { return s == http.StatusNotFound },
		message: func(int) string { return msgRouteNotFound },
	},
	{
		kind:    apperr.KindClient,
		match:   func(s int) bool { return s >= 400 && s < 500 },
		message: func(s int) string { return fmt.Sprintf(msgClientError, s) },
	},
	{
		kind:    apperr.KindServer,
		match:   func(s int) bool { return s >= 500 && s < 600 },
		message: func(s int) string { return fmt.Sprintf(msgServerError, s) },
	},
	{
		kind:    apperr.KindUnknownStatus,
		match:   isErrorStatus,
		message: func(s int) string { return fmt.Sprintf(msgUnknownError, s) },
	},
}

// isErrorStatus follows resty's classification: anything above 399 is an error.
func isErrorStatus(status int) bool {
	return status > 399
}

// classifyStatus returns the unified error for status, or nil when it is not an error.
func classifyStatus(status int) *apperr.Error {
	for _, rule := range statusLadder {
		if rule.match(status) {
			return apperr.HTTPRequest(rule.kind, rule.message(status))
		}
	}
	return nil
}

// normalize performs req and maps every outcome to either the body text or one
// unified error. Transport faults are logged and replaced by the system error.
func (r *Rest) normalize(ctx context.Context, req httpclient.Request) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logTransportFailure(req, fmt.Errorf("panic: %v", p))
			text, err = "", apperr.System()
		}
	}()

	resp, err := r.client.Do(ctx, req)
	if err != nil {
		r.logTransportFailure(req, err)
		return "", apperr.System()
	}
	if resp == nil {
		r.logTransportFailure(req, fmt.Errorf("transport returned no response"))
		return "", apperr.System()
	}

	body := resp.Body()
	defer body.Close()

	if statusErr := classifyStatus(resp.StatusCode()); statusErr != nil {
		r.log.debug("http call rejected by status", "http_call_status", func() any {
			return map[string]any{
				"request_id": req.Headers[RequestIDHeader],
				"url":        req.URL,
				"status":     resp.StatusCode(),
			}
		})
		return "", statusErr
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		r.logTransportFailure(req, err)
		return "", apperr.System()
	}

	text = string(raw)
	r.log.debug("http call response", "http_call_response", func() any {
		return map[string]any{
			"request_id": req.Headers[RequestIDHeader],
			"response":   text,
		}
	})
	return text, nil
}

func (r *Rest) logTransportFailure(req httpclient.Request, err error) {
	r.log.error("http client call failed", "http_call_error", map[string]any{
		"request_id": req.Headers[RequestIDHeader],
		"method":     req.Method,
		"url":        req.URL,
		"error":      err.Error(),
	})
}
