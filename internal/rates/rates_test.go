package rates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCache_Get(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	calls := 0
	var refreshErr error
	refresh := func(ctx context.Context) (Rates, error) {
		calls++
		if refreshErr != nil {
			return Rates{}, refreshErr
		}
		return Rates{Base: "USD", Values: map[string]float64{"USD": 1, "EUR": 0.9}}, nil
	}

	cache := NewCache(zap.NewNop(), refresh, time.Hour)
	cache.now = func() time.Time { return now }

	r := cache.Get(ctx)
	require.Equal(t, SourceLive, r.Source)
	require.Equal(t, 0.9, r.Values["EUR"])
	require.Equal(t, now, r.UpdatedAt)
	require.Equal(t, 1, calls)

	// В пределах TTL обращения к API нет
	now = now.Add(30 * time.Minute)
	r = cache.Get(ctx)
	require.Equal(t, SourceCache, r.Source)
	require.Equal(t, 1, calls)

	// Изменение результата не портит кэш
	r.Values["EUR"] = 100
	require.Equal(t, 0.9, cache.Get(ctx).Values["EUR"])

	// TTL истёк, API недоступен: отдаём последнее удачное значение
	now = now.Add(time.Hour)
	refreshErr = errors.New("upstream down")
	r = cache.Get(ctx)
	require.Equal(t, 2, calls)
	require.Equal(t, SourceCache, r.Source)
	require.Equal(t, 0.9, r.Values["EUR"])

	// До RetryAfter API не опрашивается повторно
	refreshErr = nil
	now = now.Add(RetryAfter / 2)
	r = cache.Get(ctx)
	require.Equal(t, 2, calls)
	require.Equal(t, SourceCache, r.Source)

	// После паузы обновление повторяется
	now = now.Add(RetryAfter)
	r = cache.Get(ctx)
	require.Equal(t, 3, calls)
	require.Equal(t, SourceLive, r.Source)
}

func TestCache_GetFallsBackToDefaults(t *testing.T) {
	cache := NewCache(zap.NewNop(), func(ctx context.Context) (Rates, error) {
		return Rates{}, errors.New("boom")
	}, 0)

	r := cache.Get(context.Background())
	require.Equal(t, SourceFallback, r.Source)
	require.Equal(t, "USD", r.Base)
	for _, code := range Supported {
		require.Contains(t, r.Values, code)
	}
}

func TestCache_GetBacksOffAfterFailure(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	calls := 0
	cache := NewCache(zap.NewNop(), func(ctx context.Context) (Rates, error) {
		calls++
		return Rates{}, errors.New("upstream down")
	}, time.Hour)
	cache.now = func() time.Time { return now }

	tests := []struct {
		name      string
		advance   time.Duration
		wantCalls int
	}{
		{name: "first failure", advance: 0, wantCalls: 1},
		{name: "inside retry window", advance: time.Second, wantCalls: 1},
		{name: "right before retry", advance: RetryAfter - 2*time.Second, wantCalls: 1},
		{name: "retry window passed", advance: time.Second, wantCalls: 2},
		{name: "new window after second failure", advance: time.Second, wantCalls: 2},
	}

	// Шаги выполняются последовательно и зависят друг от друга
	for _, tt := range tests {
		now = now.Add(tt.advance)
		r := cache.Get(context.Background())
		require.Equal(t, SourceFallback, r.Source, tt.name)
		require.Equal(t, tt.wantCalls, calls, tt.name)
	}
}

func TestProvider_Fetch(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
		want    map[string]float64
	}{
		{
			name:   "keeps supported currencies",
			status: http.StatusOK,
			body:   `{"result":"success","base_code":"USD","time_last_update_unix":1700000000,"rates":{"USD":1,"EUR":0.91,"XAU":0.0005,"JPY":150.2}}`,
			want:   map[string]float64{"USD": 1, "EUR": 0.91, "JPY": 150.2},
		},
		{
			name:    "api error result",
			status:  http.StatusOK,
			body:    `{"result":"error","error-type":"unsupported-code"}`,
			wantErr: true,
		},
		{
			name:    "non 200",
			status:  http.StatusBadGateway,
			body:    `bad gateway`,
			wantErr: true,
		},
		{
			name:    "no supported currencies",
			status:  http.StatusOK,
			body:    `{"result":"success","rates":{"XAU":0.0005}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodGet, r.Method)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewProvider(nil, srv.URL, time.Second)
			got, err := p.Fetch(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "USD", got.Base)
			require.Equal(t, tt.want, got.Values)
			require.Equal(t, time.Unix(1700000000, 0).UTC(), got.UpdatedAt)
		})
	}
}
