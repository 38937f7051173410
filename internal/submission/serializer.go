package submission

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Ayush-gihub-12345/Web-app/internal/format"
	"github.com/Ayush-gihub-12345/Web-app/internal/quote"
)

// Outgoing field names understood by the relay endpoint.
const (
	FieldSource       = "_source"
	FieldSubmittedAt  = "_submitted_at"
	FieldTemplate     = "_template"
	FieldCC           = "_cc"
	FieldSubject      = "_subject"
	FieldReplyTo      = "_replyto"
	FieldAutoresponse = "_autoresponse"
	FieldQuoteTotal   = "quote_total"
	FieldBreakdown    = "quote_breakdown"
	FieldQuoteData    = "quote_data"
	FieldChosenPlan   = "chosen_plan"

	// FieldEmail is the contact form's own address field mirrored into _replyto.
	FieldEmail = "email"
)

const (
	defaultTemplate = "table"
	plainSubject    = "Website enquiry from website"
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

var injectedNames = []string{
	FieldSource,
	FieldSubmittedAt,
	FieldTemplate,
	FieldCC,
	FieldSubject,
	FieldReplyTo,
	FieldAutoresponse,
	FieldQuoteTotal,
	FieldBreakdown,
	FieldQuoteData,
	FieldChosenPlan,
}

// InjectedNames lists every name the serializer may add, in output order.
func InjectedNames() []string {
	return append([]string(nil), injectedNames...)
}

// Field is one outgoing name/value pair.
type Field struct {
	Name  string
	Value string
}

// Config holds the site metadata stamped on every submission.
type Config struct {
	Source          string
	Brand           string
	CC              string
	DefaultTemplate string
	// Strip names are removed from the outgoing form, e.g. calculator controls.
	Strip []string
	Now   func() time.Time
}

// Serializer turns a contact form plus the calculator state into relay fields.
type Serializer struct {
	engine *quote.Engine
	money  format.Money
	cfg    Config
}

// New builds a Serializer. Empty config values take the site defaults.
func New(engine *quote.Engine, cfg Config) (*Serializer, error) {
	if engine == nil {
		return nil, fmt.Errorf("submission: engine is required")
	}
	if cfg.DefaultTemplate == "" {
		cfg.DefaultTemplate = defaultTemplate
	}
	if cfg.Brand == "" {
		cfg.Brand = "WebpageWale"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.Strip = append([]string(nil), cfg.Strip...)
	cur := engine.Catalog().Currency()
	return &Serializer{engine: engine, money: format.NewMoney(cur.Symbol, cur.Locale), cfg: cfg}, nil
}

// Input is the state at submission time.
type Input struct {
	Form      url.Values
	Selection quote.Selection
}

// Output is the computed field set plus the quote it was built from, if any.
type Output struct {
	Fields []Field
	Quote  *quote.Result
}

// Fields computes the outgoing metadata and quote fields. It performs no I/O. The quote
// is computed only when the selection requests one; otherwise every quote field is
// present with an empty value.
func (s *Serializer) Fields(in Input) (Output, error) {
	var res *quote.Result
	if in.Selection.QuoteRequested {
		r, err := s.engine.Compute(in.Selection)
		if err != nil {
			return Output{}, err
		}
		res = &r
	}

	fields := []Field{
		{FieldSource, s.cfg.Source},
		{FieldSubmittedAt, s.cfg.Now().UTC().Format(timestampLayout)},
		{FieldTemplate, formValueOr(in.Form, FieldTemplate, s.cfg.DefaultTemplate)},
		{FieldCC, formValueOr(in.Form, FieldCC, s.cfg.CC)},
		{FieldSubject, s.subject(res)},
	}
	if email := strings.TrimSpace(in.Form.Get(FieldEmail)); email != "" {
		fields = append(fields, Field{FieldReplyTo, email})
	}
	fields = append(fields, Field{FieldAutoresponse, s.autoresponse(res)})

	if res == nil {
		return Output{Fields: append(fields,
			Field{FieldQuoteTotal, ""},
			Field{FieldBreakdown, ""},
			Field{FieldQuoteData, ""},
			Field{FieldChosenPlan, ""},
		)}, nil
	}

	data, err := res.StructuredJSON()
	if err != nil {
		return Output{}, err
	}
	fields = append(fields,
		Field{FieldQuoteTotal, strconv.FormatInt(res.Total, 10)},
		Field{FieldBreakdown, res.Text(s.money)},
		Field{FieldQuoteData, data},
		Field{FieldChosenPlan, res.Plan},
	)
	return Output{Fields: fields, Quote: res}, nil
}

// Money returns the formatter used for the breakdown text.
func (s *Serializer) Money() format.Money { return s.money }

// Apply returns a copy of form with earlier injected fields and stripped controls removed
// and each field set exactly once. Applying the same fields twice yields the same form.
func (s *Serializer) Apply(form url.Values, fields []Field) url.Values {
	out := make(url.Values, len(form)+len(fields))
	for k, v := range form {
		out[k] = append([]string(nil), v...)
	}
	for _, name := range injectedNames {
		out.Del(name)
	}
	for _, name := range s.cfg.Strip {
		out.Del(name)
	}
	for _, f := range fields {
		out.Set(f.Name, f.Value)
	}
	return out
}

// Ordered flattens values for rendering: the visitor's own fields sorted by name first,
// then injected fields in their fixed order.
func Ordered(values url.Values) []Field {
	injected := make(map[string]bool, len(injectedNames))
	for _, name := range injectedNames {
		injected[name] = true
	}

	own := make([]string, 0, len(values))
	for name := range values {
		if !injected[name] {
			own = append(own, name)
		}
	}
	sort.Strings(own)

	var out []Field
	for _, name := range own {
		for _, v := range values[name] {
			out = append(out, Field{name, v})
		}
	}
	for _, name := range injectedNames {
		for _, v := range values[name] {
			out = append(out, Field{name, v})
		}
	}
	return out
}

// Subject and autoresponse carry the raw total behind the currency glyph, without grouping.
func (s *Serializer) subject(res *quote.Result) string {
	if res == nil {
		return plainSubject
	}
	return fmt.Sprintf("%s plan enquiry: %s%d", res.Plan, s.money.Symbol, res.Total)
}

func (s *Serializer) autoresponse(res *quote.Result) string {
	msg := fmt.Sprintf("Thanks for contacting %s. We received your enquiry.", s.cfg.Brand)
	if res == nil {
		return msg
	}
	return fmt.Sprintf("%s Estimated total %s%d", msg, s.money.Symbol, res.Total)
}

func formValueOr(form url.Values, key, fallback string) string {
	if values, ok := form[key]; ok && len(values) > 0 {
		return values[0]
	}
	return fallback
}
