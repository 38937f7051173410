package submission

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/Ayush-gihub-12345/Web-app/internal/platform/httpx"
	"github.com/Ayush-gihub-12345/Web-app/internal/platform/requestctx"
	"github.com/Ayush-gihub-12345/Web-app/internal/quote"
)

// SelectionReader rebuilds the calculator state from posted controls.
type SelectionReader interface {
	ReadSelection(form url.Values) quote.Selection
}

// Observer is notified once per serialised submission.
type Observer interface {
	SubmissionSerialised(withQuote bool)
}

// ReviewView is what the review page shows before the visitor sends the enquiry on.
type ReviewView struct {
	Action        string
	Fields        []Field
	Name          string
	Email         string
	Message       string
	Plan          string
	TotalText     string
	BreakdownText string
}

// HasQuote reports whether a quote is attached.
func (v ReviewView) HasQuote() bool { return v.Plan != "" }

// Renderer writes the review page.
type Renderer interface {
	RenderReview(w io.Writer, view ReviewView) error
}

// Handler serves POST /contact: it enriches the posted form and renders a review page
// whose native form posts the enriched fields to the relay endpoint.
type Handler struct {
	serializer *Serializer
	reader     SelectionReader
	renderer   Renderer
	relay      string
	observer   Observer
}

// HandlerOption customises a Handler.
type HandlerOption func(*Handler)

// WithObserver registers a submission observer.
func WithObserver(o Observer) HandlerOption {
	return func(h *Handler) {
		if o != nil {
			h.observer = o
		}
	}
}

type nopObserver struct{}

func (nopObserver) SubmissionSerialised(bool) {}

// NewHandler wires the contact handler.
func NewHandler(s *Serializer, reader SelectionReader, renderer Renderer, relay string, opts ...HandlerOption) *Handler {
	h := &Handler{
		serializer: s,
		reader:     reader,
		renderer:   renderer,
		relay:      relay,
		observer:   nopObserver{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := requestctx.Logger(ctx)

	if err := r.ParseForm(); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_form", "unable to parse form", http.StatusBadRequest))
		return
	}
	form := r.PostForm

	out, err := h.serializer.Fields(Input{Form: form, Selection: h.reader.ReadSelection(form)})
	if err != nil {
		var cfgErr *quote.ConfigurationError
		if errors.As(err, &cfgErr) {
			logger.Error("quote configuration", zap.String("package", cfgErr.PackageID), zap.Error(err))
		} else {
			logger.Error("serialise submission", zap.Error(err))
		}
		httpx.WriteError(ctx, w, httpx.NewError("quote_unavailable", "quote is unavailable", http.StatusInternalServerError))
		return
	}
	enriched := h.serializer.Apply(form, out.Fields)

	view := ReviewView{
		Action:  h.relay,
		Fields:  Ordered(enriched),
		Name:    form.Get("name"),
		Email:   form.Get(FieldEmail),
		Message: form.Get("message"),
	}
	if out.Quote != nil {
		money := h.serializer.Money()
		view.Plan = out.Quote.Plan
		view.TotalText = money.Format(out.Quote.Total)
		view.BreakdownText = out.Quote.Text(money)
	}

	var buf bytes.Buffer
	if err := h.renderer.RenderReview(&buf, view); err != nil {
		logger.Error("render review", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("render_failed", "unable to render review", http.StatusInternalServerError))
		return
	}

	h.observer.SubmissionSerialised(out.Quote != nil)
	logger.Info("submission serialised",
		zap.Bool("with_quote", out.Quote != nil),
		zap.String("plan", view.Plan),
		zap.Int("fields", len(view.Fields)),
	)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
