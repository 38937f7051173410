package quote

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/Ayush-gihub-12345/Web-app/internal/catalog"
	"github.com/Ayush-gihub-12345/Web-app/internal/format"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(catalog.Default())
	if err != nil {
		t.Fatalf("NewEngine error: %v", err)
	}
	return engine
}

var inr = format.NewMoney("₹", "en-IN")

func TestComputeScenarios(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name       string
		sel        Selection
		wantTotal  int64
		wantExtra  int
		wantLines  int
		wantLabels []string
	}{
		{
			name:       "silver with included pages only",
			sel:        Selection{PackageID: "silver", RequestedPages: 6},
			wantTotal:  4999,
			wantExtra:  0,
			wantLabels: []string{"Plan", "Pages", "Estimated total"},
		},
		{
			name:       "bronze with extra pages and catalog shop",
			sel:        Selection{PackageID: "bronze", RequestedPages: 7, Addons: map[catalog.Category]string{catalog.CategoryEcommerce: "catalog"}},
			wantTotal:  6249,
			wantExtra:  3,
			wantLabels: []string{"Plan", "Pages", "Extra pages", "E-commerce", "Estimated total"},
		},
		{
			name:       "gold with ten pages",
			sel:        Selection{PackageID: "gold", RequestedPages: 10},
			wantTotal:  12999,
			wantExtra:  4,
			wantLabels: []string{"Plan", "Pages", "Extra pages", "Estimated total"},
		},
		{
			name: "every add-on and notes",
			sel: Selection{
				PackageID:      "bronze",
				RequestedPages: 4,
				Notes:          "  booking form, gallery ",
				Addons: map[catalog.Category]string{
					catalog.CategoryEcommerce:   "full-shop",
					catalog.CategoryBooking:     "yes",
					catalog.CategoryPayments:    "yes",
					catalog.CategoryDomain:      "setup",
					catalog.CategoryMaintenance: "minor",
					catalog.CategoryPriority:    "yes",
				},
			},
			wantTotal:  2999 + 4500 + 800 + 1200 + 800 + 200 + 700,
			wantLabels: []string{"Plan", "Pages", "E-commerce", "Booking", "Payments", "Domain setup", "Maintenance/month", "Priority", "Notes", "Estimated total"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := engine.Compute(tc.sel)
			if err != nil {
				t.Fatalf("Compute error: %v", err)
			}
			if res.Total != tc.wantTotal {
				t.Fatalf("total: want %d, got %d", tc.wantTotal, res.Total)
			}
			if res.ExtraPages != tc.wantExtra {
				t.Fatalf("extra pages: want %d, got %d", tc.wantExtra, res.ExtraPages)
			}
			if len(res.Lines) != len(tc.wantLabels) {
				t.Fatalf("lines: want %v, got %+v", tc.wantLabels, res.Lines)
			}
			for i, label := range tc.wantLabels {
				if res.Lines[i].Label != label {
					t.Errorf("line %d: want %q, got %q", i, label, res.Lines[i].Label)
				}
			}
			if last := res.Lines[len(res.Lines)-1]; last.Kind != LineTotal || last.Amount != res.Total {
				t.Errorf("last line must be the total, got %+v", last)
			}
		})
	}
}

func TestComputeText(t *testing.T) {
	engine := newTestEngine(t)
	res, err := engine.Compute(Selection{
		PackageID:      "bronze",
		RequestedPages: 7,
		Addons:         map[catalog.Category]string{catalog.CategoryEcommerce: "catalog"},
	})
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}

	want := "Plan: Bronze — ₹2,999\n" +
		"Pages: 7 (included 4)\n" +
		"Extra pages: ₹750\n" +
		"E-commerce: ₹2,500\n" +
		"Estimated total: ₹6,249"
	if got := res.Text(inr); got != want {
		t.Fatalf("unexpected text:\n%s\nwant:\n%s", got, want)
	}
}

func TestStructuredJSON(t *testing.T) {
	engine := newTestEngine(t)
	res, err := engine.Compute(Selection{
		PackageID:      "bronze",
		RequestedPages: 7,
		Addons:         map[catalog.Category]string{catalog.CategoryEcommerce: "catalog"},
	})
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	got, err := res.StructuredJSON()
	if err != nil {
		t.Fatalf("StructuredJSON error: %v", err)
	}
	want := `{"plan":"Bronze","pages":7,"included":4,"extraPages":3,"costs":{"extraPagesCost":750,"ecomCost":2500,"bookingCost":0,"paymentsCost":0,"domainCost":0,"maintenanceCost":0,"priorityCost":0},"notes":""}`
	if got != want {
		t.Fatalf("unexpected json:\n%s\nwant:\n%s", got, want)
	}
}

func TestComputeUnknownPackage(t *testing.T) {
	engine := newTestEngine(t)
	_, err := engine.Compute(Selection{PackageID: "platinum", RequestedPages: 1})

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cfgErr.PackageID != "platinum" || !errors.Is(err, ErrUnknownPackage) {
		t.Fatalf("unexpected error %+v", cfgErr)
	}
}

func TestComputeClampsPagesAndIgnoresUnknownChoices(t *testing.T) {
	engine := newTestEngine(t)
	res, err := engine.Compute(Selection{
		PackageID:      "silver",
		RequestedPages: -3,
		Addons:         map[catalog.Category]string{catalog.CategoryBooking: "<script>"},
	})
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if res.RequestedPages != 1 || res.ExtraPages != 0 || res.Total != 4999 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestCleanNotes(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "  add <gallery> page ", want: "add <gallery> page"},
		{in: "need <gallery> & a <b>blog</b>", want: "need <gallery> & a <b>blog</b>"},
		{in: "two\nlines\x00\x1b", want: "two\nlines"},
		{in: "   ", want: ""},
	}
	for _, tt := range tests {
		if got := CleanNotes(tt.in); got != tt.want {
			t.Errorf("CleanNotes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNotesKeepAngleBracketsInQuote(t *testing.T) {
	engine := newTestEngine(t)
	res, err := engine.Compute(Selection{PackageID: "bronze", RequestedPages: 4, Notes: "add <gallery> & shop"})
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if res.Breakdown.Notes != "add <gallery> & shop" {
		t.Fatalf("notes rewritten: %q", res.Breakdown.Notes)
	}
	data, err := res.StructuredJSON()
	if err != nil {
		t.Fatalf("StructuredJSON error: %v", err)
	}
	if !strings.Contains(data, `"notes":"add <gallery> & shop"`) {
		t.Fatalf("quote data should keep plain characters: %s", data)
	}
	if !strings.Contains(res.Text(inr), "Notes: add <gallery> & shop") {
		t.Fatalf("breakdown text lost notes: %s", res.Text(inr))
	}
}

func TestComputeCapsHugePageCounts(t *testing.T) {
	engine := newTestEngine(t)
	res, err := engine.Compute(Selection{PackageID: "bronze", RequestedPages: 1 << 56})
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if res.RequestedPages != MaxPages {
		t.Fatalf("expected pages capped at %d, got %d", MaxPages, res.RequestedPages)
	}
	if want := int64(2999 + (MaxPages-4)*250); res.Total != want {
		t.Fatalf("expected total %d, got %d", want, res.Total)
	}
}

func TestComputeRejectsOverflowingAmounts(t *testing.T) {
	base := catalog.Default()
	c := catalog.New(
		[]catalog.Package{{ID: "huge", Label: "Huge", Price: math.MaxInt64 - 100, IncludedPages: 1}},
		base.Groups(),
	)
	engine, err := NewEngine(c)
	if err != nil {
		t.Fatalf("NewEngine error: %v", err)
	}

	_, err = engine.Compute(Selection{
		PackageID:      "huge",
		RequestedPages: 1,
		Addons:         map[catalog.Category]string{catalog.CategoryEcommerce: "catalog"},
	})
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) || !errors.Is(err, ErrAmountOverflow) {
		t.Fatalf("expected overflow error, got %v", err)
	}

	if _, err := engine.Compute(Selection{PackageID: "huge", RequestedPages: 3}); !errors.Is(err, ErrAmountOverflow) {
		t.Fatalf("expected overflow on extra pages, got %v", err)
	}
}

func randomSelection(rng *rand.Rand, c *catalog.Catalog) Selection {
	pkgs := c.Packages()
	sel := Selection{
		PackageID:      pkgs[rng.Intn(len(pkgs))].ID,
		RequestedPages: 1 + rng.Intn(40),
		Addons:         map[catalog.Category]string{},
	}
	for _, g := range c.Groups() {
		sel.Addons[g.Category] = g.Choices[rng.Intn(len(g.Choices))].ID
	}
	return sel
}

func TestTotalInvariantHoldsForRandomSelections(t *testing.T) {
	engine := newTestEngine(t)
	c := engine.Catalog()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		sel := randomSelection(rng, c)
		res, err := engine.Compute(sel)
		if err != nil {
			t.Fatalf("Compute error: %v", err)
		}
		pkg, _ := c.Package(sel.PackageID)

		wantExtra := sel.RequestedPages - pkg.IncludedPages
		if wantExtra < 0 {
			wantExtra = 0
		}
		if res.ExtraPages != wantExtra {
			t.Fatalf("selection %+v: extra pages want %d, got %d", sel, wantExtra, res.ExtraPages)
		}

		want := pkg.Price + int64(wantExtra)*c.ExtraPageCost()
		for _, cat := range catalog.Categories() {
			want += c.ResolveChoice(cat, sel.Addons[cat]).Cost
		}
		if res.Total != want {
			t.Fatalf("selection %+v: total want %d, got %d", sel, want, res.Total)
		}
	}
}

func TestTotalMonotonicInPagesAndAddons(t *testing.T) {
	engine := newTestEngine(t)
	c := engine.Catalog()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		sel := randomSelection(rng, c)
		base, err := engine.Compute(sel)
		if err != nil {
			t.Fatalf("Compute error: %v", err)
		}

		more := sel.Clone()
		more.RequestedPages++
		next, _ := engine.Compute(more)
		if next.Total < base.Total {
			t.Fatalf("total decreased with more pages: %d -> %d", base.Total, next.Total)
		}

		for _, g := range c.Groups() {
			current := c.ResolveChoice(g.Category, sel.Addons[g.Category])
			for _, choice := range g.Choices {
				if choice.Cost < current.Cost {
					continue
				}
				alt := sel.Clone()
				alt.Addons[g.Category] = choice.ID
				res, _ := engine.Compute(alt)
				if res.Total < base.Total {
					t.Fatalf("total decreased raising %s from %d to %d", g.Category, current.Cost, choice.Cost)
				}
			}
		}
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	engine := newTestEngine(t)
	sel := Selection{PackageID: "gold", RequestedPages: 9, Notes: "hello", Addons: map[catalog.Category]string{catalog.CategoryPriority: "yes"}}

	first, _ := engine.Compute(sel)
	second, _ := engine.Compute(sel)
	if first.Text(inr) != second.Text(inr) || first.Total != second.Total || first.Breakdown != second.Breakdown {
		t.Fatalf("compute is not deterministic: %+v vs %+v", first, second)
	}
}
