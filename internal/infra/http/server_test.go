package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestHealthz(t *testing.T) {
	var healthErr error
	srv := NewServer(zerolog.Nop(), ":0", func(context.Context) error { return healthErr })

	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d", rec.Code)
	}

	healthErr = errors.New("api unreachable")
	rec = httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ожидали 503, получили %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := NewServer(zerolog.Nop(), ":0", nil)
	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d", rec.Code)
	}
}

func TestShutdownBeforeStart(t *testing.T) {
	srv := NewServer(zerolog.Nop(), "127.0.0.1:0", nil)
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- srv.Start() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ожидали nil после остановки, получили %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Start после Shutdown должен сразу завершиться")
	}
}

func TestShutdownStopsRunningServer(t *testing.T) {
	srv := NewServer(zerolog.Nop(), "127.0.0.1:0", nil)
	done := make(chan error, 1)
	go func() { done <- srv.Start() }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ожидали nil, получили %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("сервер не остановился")
	}
}
