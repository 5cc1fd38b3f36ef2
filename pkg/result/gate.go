package result

import (
	"encoding/json"

	"github.com/samvad-hq/samvad-rest-facade/pkg/apperr"
	"github.com/samvad-hq/samvad-rest-facade/pkg/async"
)

// Logger is the logging surface Decode uses for undecodable payloads.
type Logger interface {
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) ErrorObj(string, string, interface{}) {}

// Check returns the business error for a failed envelope, or nil.
func Check(env Envelope) error {
	if env.IsSuccess() {
		return nil
	}
	return apperr.Business(env.ResultCode(), env.ResultDescription())
}

// Gate passes successful envelopes through unchanged and replaces failed ones with
// apperr.Business built from the envelope's code and description. Upstream errors are
// left as they are.
func Gate[E Envelope](f *async.Future[E]) *async.Future[E] {
	return async.Then(f, func(env E) (E, error) {
		if err := Check(env); err != nil {
			var zero E
			return zero, err
		}
		return env, nil
	})
}

// Decode parses response text as a Result[T]. A payload that cannot be decoded
// becomes the system error; the parse detail goes to log only.
func Decode[T any](f *async.Future[string], log Logger) *async.Future[Result[T]] {
	return async.Then(f, func(text string) (Result[T], error) {
		var out Result[T]
		if err := decodeJSON(text, &out, log); err != nil {
			return Result[T]{}, err
		}
		return out, nil
	})
}

// DecodePaged parses response text as a PagedResult[T].
func DecodePaged[T any](f *async.Future[string], log Logger) *async.Future[PagedResult[T]] {
	return async.Then(f, func(text string) (PagedResult[T], error) {
		var out PagedResult[T]
		if err := decodeJSON(text, &out, log); err != nil {
			return PagedResult[T]{}, err
		}
		return out, nil
	})
}

// Data gates f and yields the payload of a successful envelope.
func Data[T any](f *async.Future[Result[T]]) *async.Future[T] {
	return async.Then(Gate(f), func(r Result[T]) (T, error) {
		return r.Data, nil
	})
}

func decodeJSON(text string, dst any, log Logger) error {
	if log == nil {
		log = noopLogger{}
	}
	if err := json.Unmarshal([]byte(text), dst); err != nil {
		log.ErrorObj("decode result envelope failed", "result_decode_error", map[string]any{
			"error":   err.Error(),
			"payload": text,
		})
		return apperr.System()
	}
	return nil
}
