package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

func TestKafkaHeaderCarrier(t *testing.T) {
	headers := []kafka.Header{{Key: "event_id", Value: []byte("evt-1")}}
	c := NewKafkaHeaderCarrier(&headers)

	c.Set("traceparent", "00-abc-def-01")
	c.Set("event_id", "evt-2")

	require.Equal(t, "evt-2", c.Get("event_id"))
	require.Equal(t, "00-abc-def-01", c.Get("traceparent"))
	require.Empty(t, c.Get("missing"))
	require.ElementsMatch(t, []string{"event_id", "traceparent"}, c.Keys())
	require.Len(t, headers, 2)
}

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{Enabled: false, ServiceName: "syndicate"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInit_EnabledWithoutEndpoint(t *testing.T) {
	_, err := Init(context.Background(), Config{Enabled: true, ServiceName: "syndicate"})
	require.ErrorIs(t, err, ErrNoEndpoint)

	_, err = Init(context.Background(), Config{Enabled: true, OTLPEndpoint: "127.0.0.1:4317"})
	require.ErrorIs(t, err, ErrNoServiceName)
}

func TestConfig_Sampler(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  string
	}{
		{name: "all traces", ratio: 1, want: sdktrace.ParentBased(sdktrace.AlwaysSample()).Description()},
		{name: "above one", ratio: 2, want: sdktrace.ParentBased(sdktrace.AlwaysSample()).Description()},
		{name: "none", ratio: 0, want: sdktrace.ParentBased(sdktrace.NeverSample()).Description()},
		{name: "ratio", ratio: 0.25, want: sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.25)).Description()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Config{SamplingRatio: tt.ratio}.sampler().Description())
		})
	}
}

func TestConfig_Attributes(t *testing.T) {
	attrs := Config{ServiceName: "syndicate"}.attributes()
	require.Equal(t, []attribute.KeyValue{semconv.ServiceName("syndicate")}, attrs)

	attrs = Config{ServiceName: "syndicate", DeploymentEnvironment: "docker", ServiceVersion: "v1.0.0"}.attributes()
	require.ElementsMatch(t, []attribute.KeyValue{
		semconv.ServiceName("syndicate"),
		semconv.DeploymentEnvironment("docker"),
		semconv.ServiceVersion("v1.0.0"),
	}, attrs)

	// Интервал по умолчанию
	require.Equal(t, defaultExportInterval, Config{}.exportInterval())
	require.Equal(t, time.Second, Config{ExportInterval: time.Second}.exportInterval())
}

func TestHTTPMiddleware(t *testing.T) {
	var gotLogger *zap.Logger

	r := chi.NewRouter()
	r.Use(HTTPMiddleware("syndicate", zap.NewNop()))
	r.Get("/api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		gotLogger = LoggerFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/42", nil))

	require.Equal(t, http.StatusTeapot, rec.Code)
	require.NotNil(t, gotLogger)
}

func TestL(t *testing.T) {
	base := zap.NewNop()
	require.Same(t, base, L(context.Background(), base))
	require.NotNil(t, L(context.Background(), nil))
}
