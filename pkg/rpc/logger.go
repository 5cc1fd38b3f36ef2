package rpc

// Logger defines the logging surface the adapter relies on.
type Logger interface {
	DebugEnabled() bool
	DebugObj(msg, key string, obj interface{})
	InfoObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) DebugEnabled() bool                   { return false }
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}
