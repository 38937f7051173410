package submission

import (
	"encoding/json"
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/Ayush-gihub-12345/Web-app/internal/catalog"
	"github.com/Ayush-gihub-12345/Web-app/internal/quote"
)

var fixedNow = time.Date(2026, 10, 19, 14, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))

func newTestSerializer(t *testing.T) *Serializer {
	t.Helper()
	engine, err := quote.NewEngine(catalog.Default())
	if err != nil {
		t.Fatalf("NewEngine error: %v", err)
	}
	s, err := New(engine, Config{
		Source: "webpagewale.in",
		CC:     "contact@webpagewale.in",
		Strip:  []string{"calc_package", "calc_pages", "generate_quote"},
		Now:    func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return s
}

func fieldMap(t *testing.T, fields []Field) map[string]string {
	t.Helper()
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		if _, dup := out[f.Name]; dup {
			t.Fatalf("duplicate field %s", f.Name)
		}
		out[f.Name] = f.Value
	}
	return out
}

func TestFieldsWithoutQuote(t *testing.T) {
	s := newTestSerializer(t)
	out, err := s.Fields(Input{
		Form:      url.Values{"name": {"Asha"}, "email": {"asha@example.com"}},
		Selection: quote.Selection{PackageID: "bronze", RequestedPages: 4},
	})
	if err != nil {
		t.Fatalf("Fields error: %v", err)
	}
	if out.Quote != nil {
		t.Fatalf("quote must not be computed when not requested")
	}

	got := fieldMap(t, out.Fields)
	want := map[string]string{
		FieldSource:       "webpagewale.in",
		FieldSubmittedAt:  "2026-10-19T08:30:00.000Z",
		FieldTemplate:     "table",
		FieldCC:           "contact@webpagewale.in",
		FieldSubject:      "Website enquiry from website",
		FieldReplyTo:      "asha@example.com",
		FieldAutoresponse: "Thanks for contacting WebpageWale. We received your enquiry.",
		FieldQuoteTotal:   "",
		FieldBreakdown:    "",
		FieldQuoteData:    "",
		FieldChosenPlan:   "",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected fields:\n%+v\nwant:\n%+v", got, want)
	}

	var names []string
	for _, f := range out.Fields {
		names = append(names, f.Name)
	}
	if !reflect.DeepEqual(names, InjectedNames()) {
		t.Fatalf("unexpected order %v", names)
	}
}

func TestFieldsWithQuote(t *testing.T) {
	s := newTestSerializer(t)
	out, err := s.Fields(Input{
		Form: url.Values{"_template": {"box"}, "_cc": {"sales@example.com"}},
		Selection: quote.Selection{
			PackageID:      "bronze",
			RequestedPages: 7,
			QuoteRequested: true,
			Addons:         map[catalog.Category]string{catalog.CategoryEcommerce: "catalog"},
		},
	})
	if err != nil {
		t.Fatalf("Fields error: %v", err)
	}
	if out.Quote == nil || out.Quote.Total != 6249 {
		t.Fatalf("expected computed quote, got %+v", out.Quote)
	}

	got := fieldMap(t, out.Fields)
	if _, ok := got[FieldReplyTo]; ok {
		t.Fatalf("_replyto must be omitted without an email")
	}
	checks := map[string]string{
		FieldTemplate:     "box",
		FieldCC:           "sales@example.com",
		FieldSubject:      "Bronze plan enquiry: ₹6249",
		FieldAutoresponse: "Thanks for contacting WebpageWale. We received your enquiry. Estimated total ₹6249",
		FieldQuoteTotal:   "6249",
		FieldChosenPlan:   "Bronze",
		FieldBreakdown:    "Plan: Bronze — ₹2,999\nPages: 7 (included 4)\nExtra pages: ₹750\nE-commerce: ₹2,500\nEstimated total: ₹6,249",
	}
	for name, want := range checks {
		if got[name] != want {
			t.Errorf("%s: want %q, got %q", name, want, got[name])
		}
	}

	var data quote.Breakdown
	if err := json.Unmarshal([]byte(got[FieldQuoteData]), &data); err != nil {
		t.Fatalf("quote_data is not JSON: %v", err)
	}
	if data.Plan != "Bronze" || data.ExtraPages != 3 || data.Costs.EcomCost != 2500 || data.Costs.ExtraPagesCost != 750 {
		t.Fatalf("unexpected quote_data %+v", data)
	}
}

func TestFieldsUnknownPackage(t *testing.T) {
	s := newTestSerializer(t)
	_, err := s.Fields(Input{Selection: quote.Selection{PackageID: "platinum", RequestedPages: 1, QuoteRequested: true}})
	if err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	s := newTestSerializer(t)
	form := url.Values{
		"name":           {"Asha"},
		"email":          {"asha@example.com"},
		"message":        {"Need a site"},
		"calc_package":   {"gold"},
		"calc_pages":     {"10"},
		"generate_quote": {"on"},
	}
	sel := quote.Selection{PackageID: "gold", RequestedPages: 10, QuoteRequested: true}

	out, err := s.Fields(Input{Form: form, Selection: sel})
	if err != nil {
		t.Fatalf("Fields error: %v", err)
	}
	first := s.Apply(form, out.Fields)

	again, err := s.Fields(Input{Form: first, Selection: sel})
	if err != nil {
		t.Fatalf("Fields error: %v", err)
	}
	second := s.Apply(first, again.Fields)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("resubmission changed the form:\n%v\n%v", first, second)
	}
	for _, name := range InjectedNames() {
		if len(second[name]) != 1 {
			t.Errorf("%s: expected exactly one value, got %v", name, second[name])
		}
	}
	for _, name := range []string{"calc_package", "calc_pages", "generate_quote"} {
		if _, ok := second[name]; ok {
			t.Errorf("calculator control %s leaked into the outgoing form", name)
		}
	}
	if second.Get("name") != "Asha" || second.Get("message") != "Need a site" {
		t.Errorf("visitor fields were lost: %v", second)
	}
	if second.Get(FieldQuoteTotal) != "12999" {
		t.Errorf("unexpected total %q", second.Get(FieldQuoteTotal))
	}
	if form.Get(FieldSource) != "" {
		t.Errorf("Apply must not mutate its input")
	}
}

func TestApplyDropsStaleReplyTo(t *testing.T) {
	s := newTestSerializer(t)
	form := url.Values{FieldReplyTo: {"old@example.com"}, FieldQuoteTotal: {"1", "2"}}

	out, err := s.Fields(Input{Form: form, Selection: quote.Selection{PackageID: "bronze", RequestedPages: 4}})
	if err != nil {
		t.Fatalf("Fields error: %v", err)
	}
	got := s.Apply(form, out.Fields)
	if _, ok := got[FieldReplyTo]; ok {
		t.Fatalf("stale _replyto survived: %v", got[FieldReplyTo])
	}
	if v := got[FieldQuoteTotal]; len(v) != 1 || v[0] != "" {
		t.Fatalf("quote_total should be a single empty value, got %v", v)
	}
}

func TestOrdered(t *testing.T) {
	values := url.Values{
		FieldSubject: {"s"},
		"message":    {"m"},
		FieldSource:  {"src"},
		"email":      {"e"},
	}
	got := Ordered(values)
	want := []Field{{"email", "e"}, {"message", "m"}, {FieldSource, "src"}, {FieldSubject, "s"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order %+v", got)
	}
}
