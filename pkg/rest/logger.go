package rest

// Logger defines the logging surface the executor relies on.
type Logger interface {
	DebugEnabled() bool
	DebugObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) DebugEnabled() bool                   { return false }
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

// safeLogger keeps a misbehaving logger from affecting a call.
type safeLogger struct {
	log Logger
}

func (s safeLogger) debugEnabled() (enabled bool) {
	defer func() {
		if recover() != nil {
			enabled = false
		}
	}()
	return s.log.DebugEnabled()
}

func (s safeLogger) debug(msg, key string, obj func() any) {
	if !s.debugEnabled() {
		return
	}
	defer func() { _ = recover() }()
	s.log.DebugObj(msg, key, obj())
}

func (s safeLogger) error(msg, key string, obj any) {
	defer func() { _ = recover() }()
	s.log.ErrorObj(msg, key, obj)
}
