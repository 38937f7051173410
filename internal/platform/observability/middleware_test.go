package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Ayush-gihub-12345/Web-app/internal/platform/requestctx"
)

func TestRequestLoggerRecordsStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := chi.NewRouter()
	router.Use(InjectLogger(zap.New(core)), TraceMiddleware(), RequestLogger())
	router.Get("/quote/{id}", func(w http.ResponseWriter, r *http.Request) {
		requestctx.Logger(r.Context()).Info("inside")
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quote/gold", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	completed := logs.FilterMessage("request completed").All()
	if len(completed) != 1 {
		t.Fatalf("expected one completion entry, got %d", len(completed))
	}
	fields := completed[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) || fields["route"] != "/quote/{id}" {
		t.Fatalf("unexpected fields %+v", fields)
	}
	if completed[0].Level != zapcore.WarnLevel {
		t.Fatalf("4xx should log at warn, got %s", completed[0].Level)
	}
	if inside := logs.FilterMessage("inside").All(); len(inside) != 1 || inside[0].ContextMap()["path"] != "/quote/gold" {
		t.Fatalf("handler logger missing request fields: %+v", inside)
	}
}

func TestRecoveryWritesJSONError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	handler := Recovery(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected JSON error body")
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Fatalf("panic was not logged")
	}
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger("nonsense", false)
	if err != nil {
		t.Fatalf("NewLogger error: %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug should be disabled at the default level")
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("info should be enabled")
	}
}
