// Package result holds the business-level result envelopes and the gate that turns a
// logically failed envelope into an *apperr.Error.
package result

// Envelope is a decoded business result: a success flag plus a code and description.
type Envelope interface {
	IsSuccess() bool
	ResultCode() string
	ResultDescription() string
}

// Result is the standard envelope returned by downstream services.
type Result[T any] struct {
	Success     bool   `json:"success"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Data        T      `json:"data"`
}

func (r Result[T]) IsSuccess() bool           { return r.Success }
func (r Result[T]) ResultCode() string        { return r.Code }
func (r Result[T]) ResultDescription() string { return r.Description }

// Payload returns Data as an untyped value for adapters that unwrap envelopes.
func (r Result[T]) Payload() any { return r.Data }

// PagedResult is the envelope for paginated listings.
type PagedResult[T any] struct {
	Success     bool   `json:"success"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Data        []T    `json:"data"`
	PageNo      int    `json:"pageNo"`
	PageSize    int    `json:"pageSize"`
	TotalCount  int64  `json:"totalCount"`
}

func (p PagedResult[T]) IsSuccess() bool           { return p.Success }
func (p PagedResult[T]) ResultCode() string        { return p.Code }
func (p PagedResult[T]) ResultDescription() string { return p.Description }
