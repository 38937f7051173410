package calculator

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Ayush-gihub-12345/Web-app/internal/catalog"
	"github.com/Ayush-gihub-12345/Web-app/internal/format"
	"github.com/Ayush-gihub-12345/Web-app/internal/quote"
)

// Mount points and control names shared with the page markup.
const (
	ContainerID = "quote-calculator"
	ToggleID    = "generate-quote-checkbox"
	FormID      = "contact-simple-form"
	WrapperID   = "calc-wrap"
	SummaryID   = "quote-summary"

	FieldPackage = "calc_package"
	FieldPages   = "calc_pages"
	FieldNotes   = "calc_notes"
	FieldToggle  = "generate_quote"

	mountedAttr = "data-quote-mounted"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// AddonField is the posted control name for an add-on category.
func AddonField(cat catalog.Category) string {
	return "calc_" + string(cat)
}

// ControlNames lists every posted name owned by the calculator.
func ControlNames() []string {
	names := []string{FieldPackage, FieldPages, FieldNotes, FieldToggle}
	for _, cat := range catalog.Categories() {
		names = append(names, AddonField(cat))
	}
	return names
}

// Observer receives calculator events, e.g. for metrics.
type Observer interface {
	QuoteComputed(plan string)
	PricingApplied(matched bool)
}

type nopObserver struct{}

func (nopObserver) QuoteComputed(string)  {}
func (nopObserver) PricingApplied(bool) {}

// Binding connects posted form controls to the quote engine and renders the panel.
type Binding struct {
	engine   *quote.Engine
	catalog  *catalog.Catalog
	money    format.Money
	tmpl     *template.Template
	reveal   Reveal
	observer Observer
	tracer   trace.Tracer
}

// Option customises a Binding.
type Option func(*Binding)

// WithReveal overrides the scroll and focus hints returned by ApplyPricing.
func WithReveal(r Reveal) Option {
	return func(b *Binding) {
		b.reveal = r.withDefaults()
	}
}

// WithObserver registers an event observer.
func WithObserver(o Observer) Option {
	return func(b *Binding) {
		if o != nil {
			b.observer = o
		}
	}
}

// New constructs a Binding over the engine's catalog.
func New(engine *quote.Engine, opts ...Option) (*Binding, error) {
	if engine == nil {
		return nil, fmt.Errorf("calculator: engine is required")
	}
	tmpl, err := template.New("calculator").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("calculator: parse templates: %w", err)
	}
	cur := engine.Catalog().Currency()
	b := &Binding{
		engine:   engine,
		catalog:  engine.Catalog(),
		money:    format.NewMoney(cur.Symbol, cur.Locale),
		tmpl:     tmpl,
		reveal:   Reveal{}.withDefaults(),
		observer: nopObserver{},
		tracer:   otel.Tracer("github.com/Ayush-gihub-12345/Web-app/internal/calculator"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Money returns the formatter used for display.
func (b *Binding) Money() format.Money { return b.money }

// Engine returns the underlying quote engine.
func (b *Binding) Engine() *quote.Engine { return b.engine }

// DefaultSelection is the state at mount: first package at its included page count,
// every add-on at its free choice, no notes, quote not requested.
func (b *Binding) DefaultSelection() quote.Selection {
	sel := quote.Selection{Addons: map[catalog.Category]string{}}
	if pkg, ok := b.catalog.FirstPackage(); ok {
		sel.PackageID = pkg.ID
		sel.RequestedPages = quote.ClampPages(int64(pkg.IncludedPages))
	}
	for _, g := range b.catalog.Groups() {
		sel.Addons[g.Category] = g.DefaultChoice().ID
	}
	return sel
}

// ReadSelection rebuilds the selection from posted control values. Unknown packages fall
// back to the first package; an empty page count means the package allowance and a
// malformed one is coerced to 0 then clamped to 1.
func (b *Binding) ReadSelection(form url.Values) quote.Selection {
	sel := b.DefaultSelection()

	pkg, ok := b.catalog.Package(form.Get(FieldPackage))
	if !ok {
		pkg, _ = b.catalog.FirstPackage()
	}
	sel.PackageID = pkg.ID

	if raw := strings.TrimSpace(form.Get(FieldPages)); raw == "" {
		sel.RequestedPages = quote.ClampPages(int64(pkg.IncludedPages))
	} else {
		sel.RequestedPages = quote.ClampPages(catalog.ParseAmount(raw, 0))
	}

	for _, cat := range catalog.Categories() {
		sel.Addons[cat] = b.catalog.ResolveChoice(cat, form.Get(AddonField(cat))).ID
	}
	sel.Notes = form.Get(FieldNotes)
	sel.QuoteRequested = checked(form, FieldToggle)
	return sel
}

func checked(form url.Values, name string) bool {
	values, ok := form[name]
	if !ok || len(values) == 0 {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(values[len(values)-1])) {
	case "", "off", "false", "0":
		return false
	}
	return true
}


// Panel is the view model of the calculator fragment.
type Panel struct {
	Visible       bool
	Packages      []PackageOption
	Pages         int
	Addons        []AddonControl
	Notes         string
	TotalText     string
	BreakdownText string
	Result        *quote.Result
}

// PackageOption is one rendered package choice.
type PackageOption struct {
	ID            string
	Label         string
	Tagline       string
	Text          string
	Price         int64
	IncludedPages int
	Selected      bool
}

// AddonControl is one rendered add-on select.
type AddonControl struct {
	Category catalog.Category
	Field    string
	MarkupID string
	Label    string
	Choices  []ChoiceOption
}

// ChoiceOption is one rendered add-on choice.
type ChoiceOption struct {
	ID       string
	Label    string
	Text     string
	Cost     int64
	Selected bool
}

// Refresh is the visibility state machine: Hidden renders the controls with a zero total
// and computes nothing; Visible computes the quote and fills the summary.
func (b *Binding) Refresh(ctx context.Context, sel quote.Selection) (Panel, error) {
	panel := b.controls(sel)
	panel.Visible = sel.QuoteRequested
	panel.TotalText = b.money.Format(0)
	if !panel.Visible {
		return panel, nil
	}

	res, err := b.compute(ctx, sel)
	if err != nil {
		return Panel{}, err
	}
	panel.Result = &res
	panel.TotalText = b.money.Format(res.Total)
	panel.BreakdownText = res.Text(b.money)
	return panel, nil
}

// Compute runs the engine inside a tracing span and notifies the observer.
func (b *Binding) compute(ctx context.Context, sel quote.Selection) (quote.Result, error) {
	_, span := b.tracer.Start(ctx, "quote.compute")
	defer span.End()
	span.SetAttributes(
		attribute.String("quote.package", sel.PackageID),
		attribute.Int("quote.pages", sel.RequestedPages),
	)

	res, err := b.engine.Compute(sel)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compute failed")
		return quote.Result{}, err
	}
	span.SetAttributes(attribute.Int64("quote.total", res.Total))
	b.observer.QuoteComputed(res.PackageID)
	return res, nil
}

func (b *Binding) controls(sel quote.Selection) Panel {
	panel := Panel{Pages: sel.RequestedPages, Notes: sel.Notes}
	for _, p := range b.catalog.Packages() {
		suffix := fmt.Sprintf("%d pages", p.IncludedPages)
		if p.Tagline != "" {
			suffix = p.Tagline
		}
		panel.Packages = append(panel.Packages, PackageOption{
			ID:            p.ID,
			Label:         p.Label,
			Tagline:       p.Tagline,
			Text:          fmt.Sprintf("%s — %s (%s)", p.Label, b.money.Format(p.Price), suffix),
			Price:         p.Price,
			IncludedPages: p.IncludedPages,
			Selected:      p.ID == sel.PackageID,
		})
	}
	for _, g := range b.catalog.Groups() {
		ctrl := AddonControl{
			Category: g.Category,
			Field:    AddonField(g.Category),
			MarkupID: g.Category.MarkupID(),
			Label:    g.Label,
		}
		selected := b.catalog.ResolveChoice(g.Category, sel.Addons[g.Category]).ID
		for _, c := range g.Choices {
			text := c.Label
			if c.Cost != 0 {
				text = fmt.Sprintf("%s — %s", c.Label, b.money.Format(c.Cost))
			}
			ctrl.Choices = append(ctrl.Choices, ChoiceOption{
				ID:       c.ID,
				Label:    c.Label,
				Text:     text,
				Cost:     c.Cost,
				Selected: c.ID == selected,
			})
		}
		panel.Addons = append(panel.Addons, ctrl)
	}
	return panel
}

// RenderPanel writes the whole calculator wrapper.
func (b *Binding) RenderPanel(w io.Writer, panel Panel) error {
	return b.tmpl.ExecuteTemplate(w, "calculator/panel", panel)
}

// RenderSummary writes only the total and breakdown block.
func (b *Binding) RenderSummary(w io.Writer, panel Panel) error {
	return b.tmpl.ExecuteTemplate(w, "calculator/summary", panel)
}

type toggleView struct {
	Checked bool
	OOB     bool
}

// RenderToggle writes the quote toggle; oob marks it for an htmx out-of-band swap.
func (b *Binding) RenderToggle(w io.Writer, checked, oob bool) error {
	return b.tmpl.ExecuteTemplate(w, "calculator/toggle", toggleView{Checked: checked, OOB: oob})
}

// Mount injects the calculator into the page. It needs the container, the toggle and the
// contact form; when any is missing the document is left untouched and false is returned.
// A container already carrying the mounted marker is not rendered twice. The initial
// visibility follows the toggle's checked attribute, and one computation pass runs so
// the summary is never stale.
func (b *Binding) Mount(ctx context.Context, doc *goquery.Document, sel quote.Selection) (bool, error) {
	if doc == nil {
		return false, nil
	}
	container := doc.Find("#" + ContainerID)
	toggle := doc.Find("#" + ToggleID)
	form := doc.Find("#" + FormID)
	if container.Length() == 0 || toggle.Length() == 0 || form.Length() == 0 {
		return false, nil
	}
	if _, done := container.Attr(mountedAttr); done {
		return true, nil
	}

	_, sel.QuoteRequested = toggle.Attr("checked")
	panel, err := b.Refresh(ctx, sel)
	if err != nil {
		return false, err
	}
	var buf bytes.Buffer
	if err := b.RenderPanel(&buf, panel); err != nil {
		return false, fmt.Errorf("render calculator: %w", err)
	}
	container.First().SetHtml(buf.String())
	container.First().SetAttr(mountedAttr, "true")
	return true, nil
}
