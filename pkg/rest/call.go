package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/samvad-hq/samvad-rest-facade/pkg/form"
	"github.com/samvad-hq/samvad-rest-facade/pkg/httpclient"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
	CharsetUTF8     = "UTF-8"

	// RequestIDHeader correlates a call across the facade's log records.
	RequestIDHeader = "X-Request-Id"
)

// Serializer renders non-text bodies as JSON text.
type Serializer interface {
	ToText(v any) (string, error)
}

// JSONSerializer is the default Serializer.
type JSONSerializer struct{}

func (JSONSerializer) ToText(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Body is the request payload. It is one of Text, Object, or Form.
type Body interface {
	contentType() string
	encode(s Serializer) (string, error)
	logValue() any
}

// Text is a body that is already serialized; it is sent verbatim.
type Text string

func (Text) contentType() string                 { return ContentTypeJSON }
func (t Text) encode(Serializer) (string, error) { return string(t), nil }
func (t Text) logValue() any                     { return string(t) }

// Object is a body serialized to JSON before sending.
type Object struct {
	Value any
}

func (Object) contentType() string { return ContentTypeJSON }
func (o Object) encode(s Serializer) (string, error) {
	return s.ToText(o.Value)
}
func (o Object) logValue() any { return o.Value }

// Form is a body sent as application/x-www-form-urlencoded.
type Form form.Fields

func (Form) contentType() string                 { return ContentTypeForm }
func (f Form) encode(Serializer) (string, error) { return form.Encode(form.Fields(f)), nil }
func (f Form) logValue() any                     { return form.Fields(f).Map() }

// JSONBody picks Text for values that are already text and Object for everything else.
func JSONBody(v any) Body {
	switch b := v.(type) {
	case string:
		return Text(b)
	case []byte:
		return Text(b)
	case json.RawMessage:
		return Text(b)
	case Body:
		return b
	default:
		return Object{Value: v}
	}
}

// Call describes one outbound request. Query fields are merged into the URL; Body is
// nil for calls without a payload.
type Call struct {
	Method  string
	URL     string
	Query   form.Fields
	Body    Body
	Headers http.Header
}

// request resolves the call into a transport request.
func (c Call) request(s Serializer) (httpclient.Request, error) {
	method := strings.ToUpper(strings.TrimSpace(c.Method))
	if method == "" {
		method = http.MethodGet
	}
	if strings.TrimSpace(c.URL) == "" {
		return httpclient.Request{}, fmt.Errorf("call url is empty")
	}

	req := httpclient.Request{
		Method:        method,
		URL:           form.URLWithQuery(c.URL, c.Query),
		Headers:       singleValueHeaders(c.Headers),
		Accept:        ContentTypeJSON,
		AcceptCharset: CharsetUTF8,
	}
	if _, ok := req.Headers[RequestIDHeader]; !ok {
		req.Headers[RequestIDHeader] = uuid.NewString()
	}

	if c.Body != nil {
		body, err := encodeBody(c.Body, s)
		if err != nil {
			return httpclient.Request{}, fmt.Errorf("encode body: %w", err)
		}
		req.Body = body
		req.ContentType = c.Body.contentType()
	}
	return req, nil
}

// encodeBody renders b, turning a panicking serializer or marshaler into an error.
func encodeBody(b Body, s Serializer) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("serializer panicked: %v", p)
		}
	}()
	return b.encode(s)
}

// singleValueHeaders flattens h, keeping the last value for each canonical key.
func singleValueHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h)+1)
	for k, values := range h {
		if len(values) == 0 {
			continue
		}
		out[http.CanonicalHeaderKey(k)] = values[len(values)-1]
	}
	return out
}
