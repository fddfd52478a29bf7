package observability

import (
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const defaultExportInterval = 15 * time.Second

var (
	// ErrNoEndpoint экспорт включён без адреса collector
	ErrNoEndpoint = errors.New("observability: otlp endpoint is empty")
	// ErrNoServiceName экспорт включён без имени сервиса
	ErrNoServiceName = errors.New("observability: service name is empty")
)

// Config параметры экспорта трасс и метрик
type Config struct {
	Enabled               bool
	OTLPEndpoint          string
	SamplingRatio         float64
	ServiceName           string
	DeploymentEnvironment string
	// ServiceVersion из -ldflags при сборке, пустая строка не попадает в resource
	ServiceVersion string
	// ExportInterval период выгрузки метрик, 0 = defaultExportInterval
	ExportInterval time.Duration
}

func (c Config) validate() error {
	if c.OTLPEndpoint == "" {
		return ErrNoEndpoint
	}
	if c.ServiceName == "" {
		return ErrNoServiceName
	}
	return nil
}

// sampler уважает решение родительского span; 0 и 1 без TraceIDRatioBased
func (c Config) sampler() sdktrace.Sampler {
	switch {
	case c.SamplingRatio >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case c.SamplingRatio <= 0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(c.SamplingRatio))
	}
}

func (c Config) exportInterval() time.Duration {
	if c.ExportInterval <= 0 {
		return defaultExportInterval
	}
	return c.ExportInterval
}

func (c Config) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{semconv.ServiceName(c.ServiceName)}
	if c.DeploymentEnvironment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(c.DeploymentEnvironment))
	}
	if c.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(c.ServiceVersion))
	}
	return attrs
}
