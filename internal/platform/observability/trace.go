package observability

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/Ayush-gihub-12345/Web-app/internal/platform/requestctx"
)

var (
	tracer     = otel.Tracer("github.com/Ayush-gihub-12345/Web-app/internal/platform/observability")
	propagator = propagation.TraceContext{}
)

// TraceMiddleware continues an incoming W3C traceparent, starts a server span and stores
// the identifiers on the request context.
func TraceMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(ctx, fmt.Sprintf("%s %s", r.Method, r.URL.Path), trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()
			span.SetAttributes(spanAttributes(r)...)

			if sc := span.SpanContext(); sc.IsValid() {
				ctx = requestctx.WithTraceID(ctx, sc.TraceID().String())
				propagator.Inject(ctx, propagation.HeaderCarrier(w.Header()))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func spanAttributes(r *http.Request) []attribute.KeyValue {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	attrs := []attribute.KeyValue{
		attribute.String("http.request.method", r.Method),
		attribute.String("url.scheme", scheme),
		attribute.String("url.path", r.URL.Path),
	}
	if r.Host != "" {
		attrs = append(attrs, attribute.String("server.address", r.Host))
	}
	if ua := r.UserAgent(); ua != "" {
		attrs = append(attrs, attribute.String("user_agent.original", sanitizeString(ua, 256)))
	}
	if r.Header.Get("HX-Request") != "" {
		attrs = append(attrs, attribute.String("htmx.target", sanitizeString(r.Header.Get("HX-Target"), 80)))
	}
	return attrs
}
