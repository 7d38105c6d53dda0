package axis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	custerror "github.com/axfleet/eventwatch/internal/error"
)

const digestChallenge = `Digest realm="AXIS_TEST", nonce="abcdef0123456789", qop="auth", algorithm=MD5`

func newStreamServer(t *testing.T, lines []string, authHeader *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/axis-cgi/event.cgi" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("action"); got != "subscribe" {
			t.Errorf("action = %q, want subscribe", got)
		}
		if got := r.URL.Query().Get("events"); got != "tns1:VideoAnalytics/*" {
			t.Errorf("events = %q, want tns1:VideoAnalytics/*", got)
		}

		if r.Header.Get("Authorization") == "" {
			w.Header().Set("WWW-Authenticate", digestChallenge)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		*authHeader = r.Header.Get("Authorization")

		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		for _, line := range lines {
			fmt.Fprintln(w, line)
			flusher.Flush()
		}
	}))
}

func newTestClient(t *testing.T) Client {
	t.Helper()
	c, err := NewClient(WithConnectTimeout(5 * time.Second))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestSubscribe_StreamsLinesUntilEOF(t *testing.T) {
	lines := []string{
		"",
		`data: {"topic":"tns1:VideoAnalytics/ObjectDetected","data":{"ObjectClass":"person"}}`,
		"retry: 3000",
	}
	var authHeader string
	server := newStreamServer(t, lines, &authHeader)
	defer server.Close()

	stream, err := newTestClient(t).
		Events(&Credentials{Ip: server.URL, Username: "root", Password: "pass"}).
		Subscribe(context.Background(), &SubscribeRequest{EventFilter: "tns1:VideoAnalytics/*"})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer stream.Close()

	for i, want := range lines {
		got, err := stream.Next()
		if err != nil {
			t.Fatalf("Next() #%d: %v", i, err)
		}
		if got != want {
			t.Errorf("Next() #%d = %q, want %q", i, got, want)
		}
	}

	if _, err := stream.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF after server close, got %v", err)
	}

	if !strings.Contains(authHeader, `username="root"`) {
		t.Errorf("digest handshake missing username, Authorization = %q", authHeader)
	}
}

func TestSubscribe_DefaultFilter(t *testing.T) {
	var authHeader string
	server := newStreamServer(t, nil, &authHeader)
	defer server.Close()

	stream, err := newTestClient(t).
		Events(&Credentials{Ip: server.URL, Username: "root", Password: "pass"}).
		Subscribe(context.Background(), &SubscribeRequest{})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	stream.Close()
}

func TestSubscribe_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("WWW-Authenticate", digestChallenge)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(t).
		Events(&Credentials{Ip: server.URL, Username: "root", Password: "wrong"}).
		Subscribe(context.Background(), &SubscribeRequest{})
	if err == nil {
		t.Fatal("expected error for rejected credentials")
	}
	var custErr *custerror.CustomError
	if !errors.As(err, &custErr) || custErr.Code != custerror.CodePermissionDenied {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestSubscribe_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := newTestClient(t).
		Events(&Credentials{Ip: server.URL, Username: "root", Password: "pass"}).
		Subscribe(context.Background(), &SubscribeRequest{})
	if err == nil {
		t.Fatal("expected error for refused connection")
	}
	var custErr *custerror.CustomError
	if !errors.As(err, &custErr) || custErr.Code != custerror.CodeUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestEventStream_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "data: {}")
		flusher.Flush()
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := newTestClient(t).
		Events(&Credentials{Ip: server.URL, Username: "root", Password: "pass"}).
		Subscribe(ctx, &SubscribeRequest{EventFilter: "tns1:VideoAnalytics/*"})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer stream.Close()

	if _, err := stream.Next(); err != nil {
		t.Fatalf("Next() before cancel: %v", err)
	}

	cancel()

	_, err = stream.Next()
	if err == nil {
		t.Fatal("expected error after context cancellation")
	}
	if errors.Is(err, io.EOF) {
		t.Fatal("cancellation must not look like a clean EOF")
	}
}

func TestEventStream_CloseIsIdempotent(t *testing.T) {
	var authHeader string
	server := newStreamServer(t, []string{"data: {}"}, &authHeader)
	defer server.Close()

	stream, err := newTestClient(t).
		Events(&Credentials{Ip: server.URL, Username: "root", Password: "pass"}).
		Subscribe(context.Background(), &SubscribeRequest{EventFilter: "tns1:VideoAnalytics/*"})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
