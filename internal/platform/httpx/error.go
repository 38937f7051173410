package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Ayush-gihub-12345/Web-app/internal/middleware"
	"github.com/Ayush-gihub-12345/Web-app/internal/platform/requestctx"
)

// ErrorEvent is the client event raised when a fragment request fails.
const ErrorEvent = "fragment:error"

// Error is the JSON error envelope written for fragment failures.
type Error struct {
	Code    string
	Message string
	Status  int
	Details map[string]any
}

// NewError builds an Error; a zero status means 500.
func NewError(code, message string, status int) Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return Error{Code: clean(code, 80), Message: clean(message, 512), Status: status}
}

// WithDetails returns a copy of e carrying details in its payload.
func (e Error) WithDetails(details map[string]any) Error {
	if len(details) == 0 {
		return e
	}
	e.Details = make(map[string]any, len(details))
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

func (e Error) payload(ctx context.Context) map[string]any {
	out := make(map[string]any, len(e.Details)+5)
	for k, v := range e.Details {
		out[k] = v
	}
	out["error"] = e.Code
	out["message"] = e.Message
	out["status"] = e.Status
	if id := clean(chimw.GetReqID(ctx), 80); id != "" {
		out["request_id"] = id
	}
	if id := clean(requestctx.TraceID(ctx), 64); id != "" {
		out["trace_id"] = id
	}
	return out
}

// WriteError writes err as JSON with the request and trace ids from ctx. For htmx
// requests the swap is cancelled so the current fragment stays on screen, and ErrorEvent
// is triggered with the code and message.
func WriteError(ctx context.Context, w http.ResponseWriter, err Error) {
	if err.Status == 0 {
		err.Status = http.StatusInternalServerError
	}
	if middleware.IsHTMXRequest(ctx) {
		trigger, _ := json.Marshal(map[string]any{
			ErrorEvent: map[string]string{"code": err.Code, "message": err.Message},
		})
		w.Header().Set("HX-Reswap", "none")
		w.Header().Set("HX-Trigger", string(trigger))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Status)
	_ = json.NewEncoder(w).Encode(err.payload(ctx))
}

func clean(value string, limit int) string {
	value = strings.TrimSpace(strings.NewReplacer("\n", " ", "\r", " ").Replace(value))
	if len(value) > limit {
		value = value[:limit]
	}
	return value
}
