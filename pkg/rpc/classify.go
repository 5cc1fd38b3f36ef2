package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"strings"

	"github.com/samvad-hq/samvad-rest-facade/pkg/apperr"
)

var (
	// ErrForbidden marks a call the remote side refused to serve.
	ErrForbidden = errors.New("rpc: forbidden")
	// ErrSerialization marks a payload that could not be converted to the expected type.
	ErrSerialization = errors.New("rpc: serialization failed")
)

const (
	legacyOpen  = "[_"
	legacyClose = "_]"
)

// Classify maps a remote-call fault to an *apperr.Error. An error that already is an
// *apperr.Error is returned as is.
func Classify(err error) *apperr.Error {
	if err == nil {
		return nil
	}
	if appErr, ok := apperr.As(err); ok {
		return appErr
	}

	switch {
	case isTimeout(err):
		return apperr.New(apperr.KindRemote, apperr.BusyService)
	case isNetwork(err):
		return apperr.New(apperr.KindRemote, apperr.NetworkConnectFailed)
	case isSerialization(err):
		return apperr.New(apperr.KindRemote, apperr.SerializationException)
	case errors.Is(err, ErrForbidden):
		return apperr.New(apperr.KindRemote, apperr.ForbiddenException)
	}

	if legacy, ok := parseLegacy(err.Error()); ok {
		return legacy
	}
	return apperr.New(apperr.KindRemote, apperr.RPCCallException)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNetwork(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func isSerialization(err error) bool {
	if errors.Is(err, ErrSerialization) {
		return true
	}
	var (
		syntaxErr      *json.SyntaxError
		typeErr        *json.UnmarshalTypeError
		unsupportedErr *json.UnsupportedTypeError
		valueErr       *json.UnsupportedValueError
		marshalerErr   *json.MarshalerError
	)
	return errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr) ||
		errors.As(err, &unsupportedErr) ||
		errors.As(err, &valueErr) ||
		errors.As(err, &marshalerErr)
}

// parseLegacy reads "[_code:message_]" markers older services embed in error text.
// A marker without a message part becomes REMOTE_SERVICE carrying the marker text.
func parseLegacy(msg string) (*apperr.Error, bool) {
	begin := strings.Index(msg, legacyOpen)
	if begin < 0 {
		return nil, false
	}
	rest := msg[begin+len(legacyOpen):]
	end := strings.Index(rest, legacyClose)
	if end < 0 {
		return nil, false
	}
	body := rest[:end]

	code, text, found := strings.Cut(body, ":")
	if !found {
		return apperr.New(apperr.KindRemote, apperr.RemoteService.WithMessage(body)), true
	}
	return apperr.New(apperr.KindRemote, apperr.Meta{Code: code, Message: text}), true
}
