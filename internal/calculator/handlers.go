package calculator

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Ayush-gihub-12345/Web-app/internal/middleware"
	"github.com/Ayush-gihub-12345/Web-app/internal/platform/httpx"
	"github.com/Ayush-gihub-12345/Web-app/internal/platform/requestctx"
	"github.com/Ayush-gihub-12345/Web-app/internal/quote"
)

// Preview re-reads the posted controls and answers with the calculator fragment.
// Input events target the summary only; toggle changes replace the whole wrapper.
func (b *Binding) Preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_form", "unable to parse form", http.StatusBadRequest))
		return
	}

	sel := b.ReadSelection(r.PostForm)
	panel, err := b.Refresh(ctx, sel)
	if err != nil {
		b.writeComputeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	target := strings.TrimPrefix(middleware.HTMXInfoFromContext(ctx).Target, "#")
	if target == SummaryID && panel.Visible {
		err = b.RenderSummary(&buf, panel)
	} else {
		err = b.RenderPanel(&buf, panel)
	}
	if err != nil {
		requestctx.Logger(ctx).Error("render calculator", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("render_failed", "unable to render calculator", http.StatusInternalServerError))
		return
	}
	writeHTML(w, buf.Bytes())
}

// Apply presets the calculator from a pricing control and reveals it.
func (b *Binding) Apply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_form", "unable to parse form", http.StatusBadRequest))
		return
	}

	opts := ParseApplyOptions(r.PostForm)
	sel, reveal, matched := b.ApplyPricing(b.ReadSelection(r.PostForm), opts)
	logger := requestctx.Logger(ctx).With(zap.String("plan_name", opts.Name), zap.Bool("matched", matched))
	if !matched && opts.Name != "" {
		logger.Debug("plan name did not match a package")
	}

	panel, err := b.Refresh(ctx, sel)
	if err != nil {
		b.writeComputeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := b.RenderPanel(&buf, panel); err != nil {
		logger.Error("render calculator", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("render_failed", "unable to render calculator", http.StatusInternalServerError))
		return
	}
	if err := b.RenderToggle(&buf, true, true); err != nil {
		logger.Error("render toggle", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("render_failed", "unable to render calculator", http.StatusInternalServerError))
		return
	}

	trigger, err := reveal.TriggerHeader()
	if err != nil {
		logger.Warn("encode reveal trigger", zap.Error(err))
	} else {
		w.Header().Set("HX-Trigger", trigger)
	}
	logger.Info("pricing applied", zap.String("package", sel.PackageID), zap.Int("pages", sel.RequestedPages))
	writeHTML(w, buf.Bytes())
}

func (b *Binding) writeComputeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	var cfgErr *quote.ConfigurationError
	if errors.As(err, &cfgErr) {
		requestctx.Logger(ctx).Error("quote configuration", zap.String("package", cfgErr.PackageID), zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("quote_unavailable", "quote is unavailable", http.StatusInternalServerError).
			WithDetails(map[string]any{"package": cfgErr.PackageID}))
		return
	}
	requestctx.Logger(ctx).Error("compute quote", zap.Error(err))
	httpx.WriteError(ctx, w, httpx.NewError("quote_unavailable", "quote is unavailable", http.StatusInternalServerError))
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
