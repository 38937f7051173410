package calculator

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/Ayush-gihub-12345/Web-app/internal/catalog"
	"github.com/Ayush-gihub-12345/Web-app/internal/quote"
)

// Form keys read by the apply endpoint. They are prefixed so they never collide with the
// contact form's own name field when the form is included in the request.
const (
	ApplyFieldName  = "plan_name"
	ApplyFieldPages = "plan_pages"

	// RevealEvent is the client event carrying scroll and focus hints.
	RevealEvent = "quote:reveal"
)

const (
	defaultRevealTarget = "#contact"
	defaultRevealFocus  = `input[name="name"]`
	defaultFocusDelay   = 450 * time.Millisecond
)

// ApplyOptions preset a selection from outside the calculator.
type ApplyOptions struct {
	Name          string
	IncludedPages *int
}

// ParseApplyOptions reads options posted by a "choose this plan" control.
// A malformed page count is coerced to 0 and clamped to 1; large counts are capped at
// quote.MaxPages.
func ParseApplyOptions(form url.Values) ApplyOptions {
	opts := ApplyOptions{Name: strings.TrimSpace(form.Get(ApplyFieldName))}
	if raw := strings.TrimSpace(form.Get(ApplyFieldPages)); raw != "" {
		pages := quote.ClampPages(catalog.ParseAmount(raw, 0))
		opts.IncludedPages = &pages
	}
	return opts
}

// Reveal tells the page where to scroll and which field to focus afterwards.
type Reveal struct {
	Target     string
	Focus      string
	FocusDelay time.Duration
}

func (r Reveal) withDefaults() Reveal {
	if r.Target == "" {
		r.Target = defaultRevealTarget
	}
	if r.Focus == "" {
		r.Focus = defaultRevealFocus
	}
	if r.FocusDelay <= 0 {
		r.FocusDelay = defaultFocusDelay
	}
	return r
}

type revealPayload struct {
	Target       string `json:"target"`
	Focus        string `json:"focus"`
	FocusDelayMs int64  `json:"focusDelayMs"`
}

// TriggerHeader encodes the reveal as an HX-Trigger header value.
func (r Reveal) TriggerHeader() (string, error) {
	payload := map[string]revealPayload{
		RevealEvent: {
			Target:       r.Target,
			Focus:        r.Focus,
			FocusDelayMs: r.FocusDelay.Milliseconds(),
		},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ApplyPricing forces the quote visible, presets the package and page count, and returns
// the reveal hints. A name matches a package id case-insensitively first, then a label
// substring; an unmatched name leaves the package unchanged and matched reports false.
func (b *Binding) ApplyPricing(sel quote.Selection, opts ApplyOptions) (quote.Selection, Reveal, bool) {
	out := sel.Clone()
	out.QuoteRequested = true

	matched := false
	if name := strings.TrimSpace(opts.Name); name != "" {
		if pkg, ok := b.catalog.MatchPackage(name); ok {
			out.PackageID = pkg.ID
			matched = true
		}
	}
	if opts.IncludedPages != nil {
		out.RequestedPages = quote.ClampPages(int64(*opts.IncludedPages))
	}
	b.observer.PricingApplied(matched)
	return out, b.reveal, matched
}
