// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("new should successfully create a logger", func(t *testing.T) {
		l := New(slog.LevelInfo)
		if l == nil {
			t.Fatal("expected logger to be non-nil")
		}
	})
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		want  []string
		skip  []string
	}{
		{"DEBUG", slog.LevelDebug, []string{"debug", "info", "warn", "error"}, nil},
		{"INFO", slog.LevelInfo, []string{"info", "warn", "error"}, []string{"debug"}},
		{"WARN", slog.LevelWarn, []string{"warn", "error"}, []string{"debug", "info"}},
		{"ERROR", slog.LevelError, []string{"error"}, []string{"debug", "info", "warn"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := bytes.NewBuffer(nil)
			l := NewLogger(tc.level, buf)
			l.Debug("msg-debug")
			l.Info("msg-info")
			l.Warn("msg-warn")
			l.Error("msg-error")

			for _, lvl := range tc.want {
				if !strings.Contains(buf.String(), "msg-"+lvl) {
					t.Errorf("expected %s message to be logged", lvl)
				}
			}
			for _, lvl := range tc.skip {
				if strings.Contains(buf.String(), "msg-"+lvl) {
					t.Errorf("did not expect %s message to be logged", lvl)
				}
			}
		})
	}
}

func TestErr(t *testing.T) {
	t.Run("error attributes should be logged", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		l := NewLogger(slog.LevelDebug, buf)
		want := "intentionally failing"
		l.Error("this is a test", Err(errors.New(want)))

		if !strings.Contains(buf.String(), `error="`+want+`"`) {
			t.Errorf("expected log line to contain %q, got: %q", want, buf.String())
		}
	})
}

func TestLogger_AccessLog(t *testing.T) {
	t.Run("served requests are logged with status and size", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		l := NewLogger(slog.LevelInfo, buf)
		handler := l.AccessLog(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("tea"))
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pot", nil))

		for _, want := range []string{"path=/pot", "status=418", "bytes=3", "method=GET"} {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("expected access log to contain %q, got: %q", want, buf.String())
			}
		}
	})
	t.Run("implicit status is recorded as 200", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		l := NewLogger(slog.LevelInfo, buf)
		handler := l.AccessLog(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		if !strings.Contains(buf.String(), "status=200") {
			t.Errorf("expected access log to contain status=200, got: %q", buf.String())
		}
	})
	t.Run("handlers without a response body are logged as 200", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		l := NewLogger(slog.LevelInfo, buf)
		handler := l.AccessLog(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodHead, "/", nil))
		for _, want := range []string{"status=200", "bytes=0", "method=HEAD"} {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("expected access log to contain %q, got: %q", want, buf.String())
			}
		}
	})
}
