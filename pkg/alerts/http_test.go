package alerts

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWebhookSinkSendsAlert(t *testing.T) {
	var (
		gotMethod, gotKey, gotAlertID string
		gotAlert                      Alert
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotKey = r.Header.Get("X-Key")
		gotAlertID = r.Header.Get(AlertIDHeader)
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotAlert)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	sink, err := newHTTPSink(context.Background(), SinkConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPSinkConfig{URL: server.URL, Method: "PUT", Headers: map[string]string{"X-Key": "k"}, TimeoutSeconds: 2},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPSink: %v", err)
	}

	a := NewAlert("rpc", "2500", "quota")
	if err := sink.Send(context.Background(), a); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotMethod != http.MethodPut || gotKey != "k" || gotAlertID != a.ID {
		t.Fatalf("unexpected request: method=%s key=%s alert=%s", gotMethod, gotKey, gotAlertID)
	}
	if gotAlert.Code != "2500" || gotAlert.Source != "rpc" {
		t.Fatalf("unexpected alert body: %#v", gotAlert)
	}
}

func TestWebhookSinkReportsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("  upstream down  "))
	}))
	defer server.Close()

	sink, err := newHTTPSink(context.Background(), SinkConfig{
		ID:   "hook",
		HTTP: &HTTPSinkConfig{URL: server.URL, Method: "POST", TimeoutSeconds: 2},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPSink: %v", err)
	}

	err = sink.Send(context.Background(), NewAlert("rpc", "2001", "x"))
	if err == nil || err.Error() != "webhook responded 502: upstream down" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewHTTPSinkRequiresBlock(t *testing.T) {
	if _, err := newHTTPSink(context.Background(), SinkConfig{ID: "x"}, nil); err == nil {
		t.Fatalf("expected error without http block")
	}
}
