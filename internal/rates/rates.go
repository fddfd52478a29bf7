package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/metrics"
)

// DefaultURL - бесплатный API курсов относительно USD
const DefaultURL = "https://open.er-api.com/v6/latest/USD"

// DefaultTTL - время жизни закэшированных курсов
const DefaultTTL = time.Hour

// RetryAfter - пауза перед следующей попыткой после неудачного обновления
const RetryAfter = time.Minute

// Source показывает, откуда взято значение
type Source string

const (
	SourceLive     Source = "live"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

// Supported - валюты, которые отдаются клиенту
var Supported = []string{"USD", "EUR", "GBP", "CAD", "AUD", "JPY", "INR", "BRL", "MXN", "CNY", "KRW", "PHP", "SGD"}

// Rates - курсы валют относительно базовой
type Rates struct {
	Base      string
	Values    map[string]float64
	UpdatedAt time.Time
	Source    Source
}

// Defaults возвращает статические курсы на случай недоступности API
func Defaults() Rates {
	return Rates{
		Base: "USD",
		Values: map[string]float64{
			"USD": 1,
			"EUR": 0.92,
			"GBP": 0.79,
			"CAD": 1.36,
			"AUD": 1.52,
			"JPY": 149.5,
			"INR": 83.1,
			"BRL": 4.97,
			"MXN": 17.1,
			"CNY": 7.24,
			"KRW": 1330,
			"PHP": 56.2,
			"SGD": 1.34,
		},
		Source: SourceFallback,
	}
}

// RefreshFunc загружает свежие курсы
type RefreshFunc func(ctx context.Context) (Rates, error)

// Cache хранит одно значение курсов со сроком годности
// Чтение сквозное: протухшее значение обновляется при обращении
type Cache struct {
	logger  *zap.Logger
	refresh RefreshFunc
	ttl     time.Duration
	now     func() time.Time

	mu        sync.Mutex
	value     *Rates
	expiresAt time.Time
	retryAt   time.Time
}

// NewCache создаёт кэш курсов
func NewCache(logger *zap.Logger, refresh RefreshFunc, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		logger:  logger,
		refresh: refresh,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get возвращает курсы, обновляя их по истечении TTL
// При ошибке обновления отдаётся последнее удачное значение или статические курсы,
// следующая попытка не раньше чем через RetryAfter
func (c *Cache) Get(ctx context.Context) Rates {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.value != nil && now.Before(c.expiresAt) {
		return c.cached()
	}
	// После сбоя API не опрашивается до retryAt
	if now.Before(c.retryAt) {
		if c.value != nil {
			return c.cached()
		}
		return Defaults()
	}

	fresh, err := c.refresh(ctx)
	if err != nil {
		c.retryAt = now.Add(RetryAfter)
		if c.value != nil {
			c.logger.Warn("rates refresh failed, serving stale value", zap.Error(err))
			return c.cached()
		}
		c.logger.Error("rates refresh failed, serving defaults", zap.Error(err))
		return Defaults()
	}

	if fresh.UpdatedAt.IsZero() {
		fresh.UpdatedAt = now
	}
	fresh.Source = SourceLive
	c.value = &fresh
	c.expiresAt = now.Add(c.ttl)
	return copyRates(fresh)
}

func (c *Cache) cached() Rates {
	r := copyRates(*c.value)
	r.Source = SourceCache
	return r
}

func copyRates(r Rates) Rates {
	values := make(map[string]float64, len(r.Values))
	for k, v := range r.Values {
		values[k] = v
	}
	r.Values = values
	return r
}

// Provider получает курсы из open.er-api.com
type Provider struct {
	metrics *metrics.Metrics
	url     string
	client  *http.Client
}

// NewProvider создаёт провайдер курсов
func NewProvider(m *metrics.Metrics, url string, timeout time.Duration) *Provider {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Provider{
		metrics: m,
		url:     url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type apiResponse struct {
	Result             string             `json:"result"`
	BaseCode           string             `json:"base_code"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
	Rates              map[string]float64 `json:"rates"`
}

// Fetch загружает курсы и оставляет только поддерживаемые валюты
func (p *Provider) Fetch(ctx context.Context) (Rates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return Rates{}, fmt.Errorf("create rates request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		p.metrics.ObserveUpstream("rates", "latest", 0, time.Since(start))
		return Rates{}, fmt.Errorf("send rates request: %w", err)
	}
	defer resp.Body.Close()
	p.metrics.ObserveUpstream("rates", "latest", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Rates{}, fmt.Errorf("rates api returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Rates{}, fmt.Errorf("decode rates response: %w", err)
	}
	if payload.Result != "" && payload.Result != "success" {
		return Rates{}, fmt.Errorf("rates api result %q", payload.Result)
	}

	values := make(map[string]float64, len(Supported))
	for _, code := range Supported {
		if v, ok := payload.Rates[code]; ok {
			values[code] = v
		}
	}
	if len(values) == 0 {
		return Rates{}, fmt.Errorf("rates api returned no supported currencies")
	}

	base := payload.BaseCode
	if base == "" {
		base = "USD"
	}
	var updated time.Time
	if payload.TimeLastUpdateUnix > 0 {
		updated = time.Unix(payload.TimeLastUpdateUnix, 0).UTC()
	}

	return Rates{Base: base, Values: values, UpdatedAt: updated}, nil
}
