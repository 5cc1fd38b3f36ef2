package apperr

// Meta is an error family template: a stable code plus its default message.
type Meta struct {
	Code    string
	Message string
}

// WithMessage returns a copy of the family with the message replaced.
// The package-level families are never mutated.
func (m Meta) WithMessage(msg string) Meta {
	m.Message = msg
	return m
}

// Error families shared by every outbound path.
var (
	SysError               = Meta{Code: "SYS_ERROR", Message: "system error, please retry later"}
	HTTPRequestError       = Meta{Code: "HTTP_REQUEST_ERROR", Message: "http request error"}
	BusyService            = Meta{Code: "BUSY_SERVICE", Message: "service is busy, please retry later"}
	NetworkConnectFailed   = Meta{Code: "NETWORK_CONNECT_FAILED", Message: "network connection failed"}
	SerializationException = Meta{Code: "SERIALIZATION_EXCEPTION", Message: "serialization failed"}
	ForbiddenException     = Meta{Code: "FORBIDDEN_EXCEPTION", Message: "access to remote service is forbidden"}
	RPCCallException       = Meta{Code: "RPC_CALL_EXCEPTION", Message: "remote call failed"}
	RemoteService          = Meta{Code: "REMOTE_SERVICE", Message: "remote service error"}
)

// Kind classifies where an Error came from.
type Kind string

const (
	KindRoute         Kind = "route"
	KindClient        Kind = "client"
	KindServer        Kind = "server"
	KindUnknownStatus Kind = "unknown_status"
	KindSystem        Kind = "system"
	KindBusiness      Kind = "business"
	KindRemote        Kind = "remote"
)
