package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	handler := LoggerWith(base, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	t.Run("generates a request id", func(t *testing.T) {
		buf.Reset()
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/species", nil))

		if rr.Code != http.StatusTeapot {
			t.Errorf("expected status %d, got %d", http.StatusTeapot, rr.Code)
		}
		id := rr.Header().Get(RequestIDHeader)
		if id == "" {
			t.Fatal("expected a request id header")
		}
		out := buf.String()
		for _, want := range []string{"request_id=" + id, "status=418", "path=/v1/species", "bytes=15"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected log to contain %q, got %q", want, out)
			}
		}
	})

	t.Run("keeps a caller request id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if got := rr.Header().Get(RequestIDHeader); got != "abc-123" {
			t.Errorf("expected abc-123, got %q", got)
		}
		if !strings.Contains(buf.String(), "request_id=abc-123") {
			t.Errorf("expected caller id in log, got %q", buf.String())
		}
	})
}

func TestLoggerWith_ServerErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))
	handler := LoggerWith(base, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/battles", nil))
	if !strings.Contains(buf.String(), "level=ERROR") {
		t.Errorf("expected error level for 500, got %q", buf.String())
	}
}

func TestLoggerWith_HijackUnsupported(t *testing.T) {
	var hijackErr error
	handler := LoggerWith(slog.New(slog.NewTextHandler(io.Discard, nil)), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := w.(http.Hijacker)
		if !ok {
			t.Fatal("expected the recorder to implement http.Hijacker")
		}
		_, _, hijackErr = h.Hijack()
		w.WriteHeader(http.StatusBadRequest)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/ws/battles/x", nil))
	if hijackErr == nil {
		t.Error("expected an error hijacking a ResponseRecorder")
	}
}
