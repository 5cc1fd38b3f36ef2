package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRestyClientDoSendsHeadersAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("X-Test"); got != "1" {
			t.Errorf("missing header, got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("content type = %q, caller value must be overridden", got)
		}
		if got := r.Header.Get("Accept-Charset"); got != "UTF-8" {
			t.Errorf("accept charset = %q", got)
		}
		if r.Header.Get(RequestTimeHeader) == "" {
			t.Errorf("request time header not stamped")
		}
		raw, _ := io.ReadAll(r.Body)
		if string(raw) != `{"a":1}` {
			t.Errorf("body = %s", raw)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("done"))
	}))
	defer srv.Close()

	client := NewRestyClient(DefaultOptions())
	resp, err := client.Do(context.Background(), Request{
		Method:        http.MethodPost,
		URL:           srv.URL,
		Headers:       map[string]string{"X-Test": "1", "Content-Type": "text/plain"},
		ContentType:   "application/json",
		Accept:        "application/json",
		AcceptCharset: "UTF-8",
		Body:          `{"a":1}`,
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode() != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode())
	}
	body := resp.Body()
	defer body.Close()
	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(raw) != "done" {
		t.Fatalf("body = %q", raw)
	}
}

func TestRestyClientBodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer srv.Close()

	opts := DefaultOptions()
	opts.MaxBodyBytes = 16
	client := NewRestyClient(opts)

	resp, err := client.Do(context.Background(), Request{Method: http.MethodGet, URL: srv.URL})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	body := resp.Body()
	defer body.Close()
	if _, err := io.ReadAll(body); err != ErrBodyTooLarge {
		t.Fatalf("expected ErrBodyTooLarge, got %v", err)
	}
}

func TestRestyClientBodyWithinLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("exactly16bytes!!"))
	}))
	defer srv.Close()

	opts := DefaultOptions()
	opts.MaxBodyBytes = 16
	resp, err := NewRestyClient(opts).Do(context.Background(), Request{Method: http.MethodGet, URL: srv.URL})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	body := resp.Body()
	defer body.Close()
	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(raw) != "exactly16bytes!!" {
		t.Fatalf("body = %q", raw)
	}
}

type recordingLogger struct {
	errors []string
}

func (r *recordingLogger) DebugObj(string, string, interface{}) {}
func (r *recordingLogger) ErrorObj(msg, _ string, _ interface{}) {
	r.errors = append(r.errors, msg)
}

func TestRestyClientTimeoutReportsError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	log := &recordingLogger{}
	opts := DefaultOptions()
	opts.Timeout = 50 * time.Millisecond
	opts.Logger = log

	_, err := NewRestyClient(opts).Do(context.Background(), Request{Method: http.MethodGet, URL: srv.URL})
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if len(log.errors) == 0 {
		t.Fatalf("expected transport error to be logged")
	}
}
