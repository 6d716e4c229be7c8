package observability

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultServiceName = "genai-toolbox-launcher"
	serviceNamespace   = "genai-toolbox"
	defaultEnvironment = "development"
)

// TelemetryConfig selects and labels the OTLP trace pipeline. Empty
// ServiceName and Environment fall back to OTEL_SERVICE_NAME and
// OTEL_ENVIRONMENT.
type TelemetryConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	Version     string
	Commit      string
	Environment string
}

func (c *TelemetryConfig) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("service.name", cmp.Or(c.ServiceName, os.Getenv("OTEL_SERVICE_NAME"), defaultServiceName)),
		attribute.String("service.namespace", serviceNamespace),
		attribute.String("service.version", c.Version),
		attribute.String("deployment.environment", cmp.Or(c.Environment, os.Getenv("OTEL_ENVIRONMENT"), defaultEnvironment)),
	}
	if c.Commit != "" {
		attrs = append(attrs, attribute.String("service.commit", c.Commit))
	}

	return attrs
}

// TelemetryShutdown flushes pending spans and puts the previous otel
// globals back.
type TelemetryShutdown func(ctx context.Context) error

// otelGlobals is the process-wide otel state SetupTelemetry replaces.
type otelGlobals struct {
	provider   trace.TracerProvider
	propagator propagation.TextMapPropagator
	errors     otel.ErrorHandler
}

func currentGlobals() otelGlobals {
	return otelGlobals{
		provider:   otel.GetTracerProvider(),
		propagator: otel.GetTextMapPropagator(),
		errors:     otel.GetErrorHandler(),
	}
}

func (g otelGlobals) install() {
	otel.SetTracerProvider(g.provider)
	otel.SetTextMapPropagator(g.propagator)
	otel.SetErrorHandler(g.errors)
}

// SetupTelemetry installs a batching OTLP/HTTP tracer provider. A nil or
// disabled cfg leaves the otel globals alone.
func SetupTelemetry(ctx context.Context, cfg *TelemetryConfig) (TelemetryShutdown, error) {
	if cfg == nil || !cfg.Enabled {
		return noopShutdown, nil
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(cfg.attributes()...))
	if err != nil {
		return noopShutdown, fmt.Errorf("merge otel resource: %w", err)
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithCompression(otlptracehttp.GzipCompression)}
	if cfg.Endpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(cfg.Endpoint))
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return noopShutdown, fmt.Errorf("create otel exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter), sdktrace.WithResource(res))

	previous := currentGlobals()
	otelGlobals{
		provider:   provider,
		propagator: propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
		// Export failures stay off the terminal the child shares.
		errors: otel.ErrorHandlerFunc(func(error) {}),
	}.install()

	return func(shutdownCtx context.Context) error {
		defer previous.install()

		if err := provider.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown otel provider: %w", err)
		}

		return nil
	}, nil
}

// Tracer returns a named tracer from the global TracerProvider.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(name)
}

// traceEnv pairs the environment variables a child reads with the W3C
// headers they carry.
var traceEnv = map[string]string{
	"TRACEPARENT": "traceparent",
	"TRACESTATE":  "tracestate",
}

// TraceEnv returns env with TRACEPARENT and TRACESTATE taken from the span in
// ctx, so a child process can continue the trace. A nil env means the current
// process environment. env is returned as-is when ctx carries no valid span.
func TraceEnv(ctx context.Context, env []string) []string {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return env
	}

	carrier := propagation.MapCarrier{}
	propagation.TraceContext{}.Inject(ctx, carrier)

	if env == nil {
		env = os.Environ()
	}

	out := slices.DeleteFunc(slices.Clone(env), func(kv string) bool {
		key, _, _ := strings.Cut(kv, "=")
		_, ok := traceEnv[strings.ToUpper(key)]

		return ok
	})

	for _, name := range slices.Sorted(maps.Keys(traceEnv)) {
		if v := carrier.Get(traceEnv[name]); v != "" {
			out = append(out, name+"="+v)
		}
	}

	return out
}

// IsTelemetryEnabled reports whether OTEL_ENABLED holds 1, true or yes.
func IsTelemetryEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("OTEL_ENABLED"))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

func noopShutdown(context.Context) error { return nil }
