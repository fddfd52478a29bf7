package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name     string
		checks   map[string]Check
		wantCode int
		wantBody string
	}{
		{
			name:     "no checks",
			wantCode: http.StatusOK,
			wantBody: `{"status":"ok"}`,
		},
		{
			name:     "all ready",
			checks:   map[string]Check{"postgres": ok, "redis": ok},
			wantCode: http.StatusOK,
			wantBody: `{"status":"ok","checks":{"postgres":"ok","redis":"ok"}}`,
		},
		{
			name:     "one dependency down",
			checks:   map[string]Check{"postgres": ok, "redis": down},
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"status":"not ready","checks":{"postgres":"ok","redis":"connection refused"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Handler(tt.checks)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, tt.wantCode, rec.Code)
			require.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
