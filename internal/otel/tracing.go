package otel

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/zap"
)

// Init initializes the OpenTelemetry tracer provider with an OTLP exporter.
// The OTEL_* environment variables drive the configuration; with
// OTEL_SDK_DISABLED=true only propagation is set up.
func Init(ctx context.Context, log *zap.Logger) (func(context.Context) error, error) {
	if os.Getenv("OTEL_SDK_DISABLED") == "true" {
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
		log.Info("tracing_configured", zap.Bool("tracing_enabled", false))
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(getEnv("OTEL_SERVICE_NAME", "easydoc")),
		),
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	protocol := os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL")
	if protocol == "" {
		protocol = "grpc" // default OTLP protocol
	}

	var exporter *otlptrace.Exporter
	var expErr error

	switch protocol {
	case "grpc":
		exporter, expErr = otlptracegrpc.New(ctx)
	case "http/protobuf":
		exporter, expErr = otlptracehttp.New(ctx)
	default:
		expErr = fmt.Errorf("unsupported OTLP protocol: %s", protocol)
	}

	if expErr != nil {
		// Degrade gracefully: the service runs untraced rather than not at all
		log.Error("tracing_init_failed", zap.Error(expErr))
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
		return func(context.Context) error { return nil }, nil
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(getSampler()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT")
	if endpoint == "" {
		endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}

	log.Info("tracing_configured",
		zap.Bool("tracing_enabled", true),
		zap.String("otlp_protocol", protocol),
		zap.String("otlp_endpoint", endpoint),
		zap.String("sampler", getEnv("OTEL_TRACES_SAMPLER", "parentbased_traceidratio")),
		zap.String("sampler_arg", getEnv("OTEL_TRACES_SAMPLER_ARG", "1.0")),
	)

	return tp.Shutdown, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSampler() trace.Sampler {
	sampler := os.Getenv("OTEL_TRACES_SAMPLER")
	arg := os.Getenv("OTEL_TRACES_SAMPLER_ARG")

	switch sampler {
	case "always_on":
		return trace.AlwaysSample()
	case "always_off":
		return trace.NeverSample()
	case "traceidratio":
		var ratio float64 = 1.0
		fmt.Sscanf(arg, "%f", &ratio)
		return trace.TraceIDRatioBased(ratio)
	case "parentbased_always_on":
		return trace.ParentBased(trace.AlwaysSample())
	case "parentbased_always_off":
		return trace.ParentBased(trace.NeverSample())
	case "parentbased_traceidratio":
		var ratio float64 = 1.0
		fmt.Sscanf(arg, "%f", &ratio)
		return trace.ParentBased(trace.TraceIDRatioBased(ratio))
	default:
		return trace.ParentBased(trace.AlwaysSample())
	}
}
