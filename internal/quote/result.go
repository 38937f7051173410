package quote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Ayush-gihub-12345/Web-app/internal/catalog"
	"github.com/Ayush-gihub-12345/Web-app/internal/format"
)

// Selection is the calculator input. Zero-value add-on entries resolve to the free choice.
type Selection struct {
	PackageID      string
	RequestedPages int
	Addons         map[catalog.Category]string
	Notes          string
	QuoteRequested bool
}

// Clone returns a deep copy so callers can derive selections without aliasing the map.
func (s Selection) Clone() Selection {
	out := s
	out.Addons = make(map[catalog.Category]string, len(s.Addons))
	for k, v := range s.Addons {
		out.Addons[k] = v
	}
	return out
}

// LineKind classifies breakdown lines.
type LineKind string

const (
	LinePlan       LineKind = "plan"
	LinePages      LineKind = "pages"
	LineExtraPages LineKind = "extra_pages"
	LineAddon      LineKind = "addon"
	LineNotes      LineKind = "notes"
	LineTotal      LineKind = "total"
)

// LineItem is one row of the human-readable breakdown.
type LineItem struct {
	Kind     LineKind
	Category catalog.Category
	Label    string
	Detail   string
	Amount   int64
}

// Render formats the line for display.
func (l LineItem) Render(m format.Money) string {
	switch l.Kind {
	case LinePlan:
		return fmt.Sprintf("%s: %s — %s", l.Label, l.Detail, m.Format(l.Amount))
	case LinePages, LineNotes:
		return fmt.Sprintf("%s: %s", l.Label, l.Detail)
	default:
		return fmt.Sprintf("%s: %s", l.Label, m.Format(l.Amount))
	}
}

// Costs lists every cost component; zero entries are kept for machine consumers.
type Costs struct {
	ExtraPagesCost  int64 `json:"extraPagesCost"`
	EcomCost        int64 `json:"ecomCost"`
	BookingCost     int64 `json:"bookingCost"`
	PaymentsCost    int64 `json:"paymentsCost"`
	DomainCost      int64 `json:"domainCost"`
	MaintenanceCost int64 `json:"maintenanceCost"`
	PriorityCost    int64 `json:"priorityCost"`
}

func (c *Costs) set(cat catalog.Category, amount int64) {
	switch cat {
	case catalog.CategoryEcommerce:
		c.EcomCost = amount
	case catalog.CategoryBooking:
		c.BookingCost = amount
	case catalog.CategoryPayments:
		c.PaymentsCost = amount
	case catalog.CategoryDomain:
		c.DomainCost = amount
	case catalog.CategoryMaintenance:
		c.MaintenanceCost = amount
	case catalog.CategoryPriority:
		c.PriorityCost = amount
	}
}

// Breakdown is the structured form of a quote sent as quote_data.
type Breakdown struct {
	Plan       string `json:"plan"`
	Pages      int    `json:"pages"`
	Included   int    `json:"included"`
	ExtraPages int    `json:"extraPages"`
	Costs      Costs  `json:"costs"`
	Notes      string `json:"notes"`
}

// Result is a single computed quote. It is never cached across input changes.
type Result struct {
	PackageID      string
	Plan           string
	BasePrice      int64
	RequestedPages int
	IncludedPages  int
	ExtraPages     int
	ExtraPagesCost int64
	AddonCosts     map[catalog.Category]int64
	Total          int64
	Lines          []LineItem
	Breakdown      Breakdown
}

// Text renders the breakdown lines joined by newlines.
func (r Result) Text(m format.Money) string {
	out := make([]byte, 0, 256)
	for i, line := range r.Lines {
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, line.Render(m)...)
	}
	return string(out)
}

// StructuredJSON serialises the structured breakdown without HTML escaping, so notes
// such as "a & b" reach the relay as typed.
func (r Result) StructuredJSON() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r.Breakdown); err != nil {
		return "", fmt.Errorf("marshal quote breakdown: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
