package tracer

import (
	"context"

	"learnflow-be/internal/config"
	"learnflow-be/internal/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

const ServiceName = "learnflow-be"

// InitTracer installs the OTLP HTTP exporter when tracing is enabled and
// returns the provider shutdown. Disabled tracing returns a no-op.
func InitTracer(ctx context.Context, cfg config.AppConfig, log logger.ILogger) func(context.Context) error {
	noop := func(context.Context) error { return nil }
	if !cfg.OtelEnabled {
		log.Info("TRACER", "OpenTelemetry tracing is disabled", nil)
		return noop
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.OtelEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		log.Warn("TRACER", "Failed to create OTLP exporter, tracing disabled", map[string]interface{}{
			"error": err.Error(),
		})
		return noop
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(ServiceName),
			semconv.DeploymentEnvironmentKey.String(cfg.Environment),
		)),
	)

	otel.SetTracerProvider(tp)
	log.Info("TRACER", "OpenTelemetry tracer initialized", map[string]interface{}{"endpoint": cfg.OtelEndpoint})
	return tp.Shutdown
}
