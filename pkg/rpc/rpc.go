// Package rpc adapts a blocking remote call into an *async.Future and normalizes its
// outcome the same way pkg/rest does for HTTP: result envelopes are gated, faults are
// classified into *apperr.Error values.
package rpc

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/samvad-hq/samvad-rest-facade/pkg/alerts"
	"github.com/samvad-hq/samvad-rest-facade/pkg/apperr"
	"github.com/samvad-hq/samvad-rest-facade/pkg/async"
	"github.com/samvad-hq/samvad-rest-facade/pkg/result"
)

// Business codes in this range are raised as alerts.
const (
	alertCodeMin = 2000
	alertCodeMax = 3000

	alertSource = "rpc"
)

// Func performs one remote call.
type Func func(ctx context.Context) (any, error)

// Alerter receives alerts for business failures that need attention. *alerts.Fanout
// satisfies it.
type Alerter interface {
	Send(ctx context.Context, a alerts.Alert) (int, error)
}

// Caller carries the collaborators shared by every Call.
type Caller struct {
	log     Logger
	alerter Alerter
}

// NewCaller returns a Caller. Both arguments may be nil.
func NewCaller(log Logger, alerter Alerter) *Caller {
	if log == nil {
		log = noopLogger{}
	}
	return &Caller{log: log, alerter: alerter}
}

type payloadCarrier interface {
	Payload() any
}

// Call wraps fn in a lazily started future.
//
// A nil value completes with the zero T. A failed envelope becomes a business error.
// A successful result.Result is unwrapped to its data while a result.PagedResult is
// returned whole. Any fault is passed through Classify.
func Call[T any](ctx context.Context, c *Caller, fn Func) *async.Future[T] {
	if c == nil {
		c = NewCaller(nil, nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return async.New(func() (T, error) {
		var zero T

		v, err := invoke(ctx, fn)
		if err != nil {
			fields := map[string]any{"error": err.Error()}
			if _, unified := apperr.As(err); unified {
				// already normalized and logged where it was raised
				c.log.DebugObj("rpc call failed", "rpc_error", fields)
			} else {
				c.log.ErrorObj("rpc call failed", "rpc_error", fields)
			}
			return zero, Classify(err)
		}
		if v == nil {
			c.log.DebugObj("rpc result is nil", "rpc_result", nil)
			return zero, nil
		}
		if c.log.DebugEnabled() {
			c.log.DebugObj("rpc call result", "rpc_result", v)
		}

		if env, ok := v.(result.Envelope); ok {
			if !env.IsSuccess() {
				c.reportFailure(ctx, env.ResultCode(), env.ResultDescription())
				return zero, apperr.Business(env.ResultCode(), env.ResultDescription())
			}
			if p, ok := v.(payloadCarrier); ok {
				v = p.Payload()
			}
		}
		if v == nil {
			return zero, nil
		}

		out, ok := v.(T)
		if !ok {
			c.log.ErrorObj("rpc result type mismatch", "rpc_error", map[string]any{
				"expected": fmt.Sprintf("%T", zero),
				"actual":   fmt.Sprintf("%T", v),
			})
			return zero, Classify(ErrSerialization)
		}
		return out, nil
	})
}

// invoke runs fn and turns a panic into a plain error so it is classified like any
// other fault.
func invoke(ctx context.Context, fn Func) (v any, err error) {
	if fn == nil {
		return nil, fmt.Errorf("rpc: nil call")
	}
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("rpc: call panicked: %v", r)
		}
	}()
	return fn(ctx)
}

func (c *Caller) reportFailure(ctx context.Context, code, description string) {
	if strings.TrimSpace(code) == "" {
		return
	}
	fields := map[string]any{
		"code":        code,
		"description": description,
	}
	if !alertable(code) {
		c.log.InfoObj("rpc result failed", "rpc_business_error", fields)
		return
	}

	c.log.ErrorObj("rpc result failed", "rpc_business_error", fields)
	if c.alerter == nil {
		return
	}
	if _, err := c.alerter.Send(ctx, alerts.NewAlert(alertSource, code, description)); err != nil {
		c.log.ErrorObj("rpc alert delivery failed", "rpc_alert_error", map[string]any{
			"code":  code,
			"error": err.Error(),
		})
	}
}

func alertable(code string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return false
	}
	return n >= alertCodeMin && n <= alertCodeMax
}
