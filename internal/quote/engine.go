package quote

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/Ayush-gihub-12345/Web-app/internal/catalog"
)

var (
	// ErrUnknownPackage signals a selection whose package is not in the catalog.
	ErrUnknownPackage = errors.New("quote: unknown package")

	// ErrAmountOverflow signals catalog amounts too large to total.
	ErrAmountOverflow = errors.New("quote: amount overflow")
)

// MaxPages bounds the requested page count.
const MaxPages = 500

// ClampPages bounds a requested page count to [1, MaxPages].
func ClampPages(n int64) int {
	switch {
	case n < 1:
		return 1
	case n > MaxPages:
		return MaxPages
	}
	return int(n)
}

// ConfigurationError is returned when a selection cannot be resolved against the catalog.
// With a catalog-backed calculator this only happens on tampered or stale input.
type ConfigurationError struct {
	PackageID string
	Err       error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("quote configuration: package %q: %v", e.PackageID, e.Err)
}

// Unwrap exposes the underlying error.
func (e *ConfigurationError) Unwrap() error { return e.Err }

// Engine turns selections into quotes. It holds no mutable state.
type Engine struct {
	catalog *catalog.Catalog
}

// NewEngine builds an engine over the catalog.
func NewEngine(c *catalog.Catalog) (*Engine, error) {
	if c == nil {
		return nil, errors.New("quote engine: catalog is required")
	}
	return &Engine{catalog: c}, nil
}

// Catalog exposes the engine's catalog.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Compute prices the selection.
//
// total = price + max(0, pages-included)*extraPageCost + sum(add-on costs)
func (e *Engine) Compute(sel Selection) (Result, error) {
	pkg, ok := e.catalog.Package(sel.PackageID)
	if !ok {
		return Result{}, &ConfigurationError{PackageID: sel.PackageID, Err: ErrUnknownPackage}
	}

	pages := ClampPages(int64(sel.RequestedPages))
	extraPages := pages - pkg.IncludedPages
	if extraPages < 0 {
		extraPages = 0
	}
	overflow := func() error {
		return &ConfigurationError{PackageID: pkg.ID, Err: ErrAmountOverflow}
	}
	extraCost, ok := mulAmount(int64(extraPages), e.catalog.ExtraPageCost())
	if !ok {
		return Result{}, overflow()
	}
	notes := CleanNotes(sel.Notes)

	res := Result{
		PackageID:      pkg.ID,
		Plan:           pkg.Label,
		BasePrice:      pkg.Price,
		RequestedPages: pages,
		IncludedPages:  pkg.IncludedPages,
		ExtraPages:     extraPages,
		ExtraPagesCost: extraCost,
		AddonCosts:     make(map[catalog.Category]int64, len(catalog.Categories())),
	}
	total, ok := addAmount(pkg.Price, extraCost)
	if !ok {
		return Result{}, overflow()
	}

	lines := []LineItem{
		{Kind: LinePlan, Label: "Plan", Detail: pkg.Label, Amount: pkg.Price},
		{Kind: LinePages, Label: "Pages", Detail: strconv.Itoa(pages) + " (included " + strconv.Itoa(pkg.IncludedPages) + ")"},
	}
	if extraPages > 0 {
		lines = append(lines, LineItem{Kind: LineExtraPages, Label: "Extra pages", Amount: extraCost})
	}

	costs := Costs{ExtraPagesCost: extraCost}
	for _, cat := range catalog.Categories() {
		choice := e.catalog.ResolveChoice(cat, sel.Addons[cat])
		res.AddonCosts[cat] = choice.Cost
		costs.set(cat, choice.Cost)
		if total, ok = addAmount(total, choice.Cost); !ok {
			return Result{}, overflow()
		}
		if choice.Cost != 0 {
			label := string(cat)
			if g, ok := e.catalog.Group(cat); ok {
				label = g.LineLabel
			}
			lines = append(lines, LineItem{Kind: LineAddon, Category: cat, Label: label, Detail: choice.Label, Amount: choice.Cost})
		}
	}
	if notes != "" {
		lines = append(lines, LineItem{Kind: LineNotes, Label: "Notes", Detail: notes})
	}
	lines = append(lines, LineItem{Kind: LineTotal, Label: "Estimated total", Amount: total})

	res.Total = total
	res.Lines = lines
	res.Breakdown = Breakdown{
		Plan:       pkg.Label,
		Pages:      pages,
		Included:   pkg.IncludedPages,
		ExtraPages: extraPages,
		Costs:      costs,
		Notes:      notes,
	}
	return res, nil
}

// CleanNotes trims free text and drops control characters other than line breaks and tabs.
func CleanNotes(notes string) string {
	notes = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, notes)
	return strings.TrimSpace(notes)
}

func addAmount(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}
	return a + b, true
}

func mulAmount(n, amount int64) (int64, bool) {
	if n == 0 || amount == 0 {
		return 0, true
	}
	product := n * amount
	if product/n != amount {
		return 0, false
	}
	return product, true
}
