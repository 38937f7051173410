package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultDocument []byte

// rawAmount keeps the scalar text so malformed values can be coerced instead of
// aborting the whole decode.
type rawAmount struct {
	text string
	set  bool
}

func (a *rawAmount) UnmarshalYAML(node *yaml.Node) error {
	a.text = node.Value
	a.set = true
	return nil
}

func (a rawAmount) MarshalYAML() (any, error) {
	if n, ok := parseAmount(a.text); ok {
		return n, nil
	}
	return a.text, nil
}

func amount(n int64) rawAmount {
	return rawAmount{text: strconv.FormatInt(n, 10), set: true}
}

type document struct {
	Currency struct {
		Symbol string `yaml:"symbol"`
		Locale string `yaml:"locale"`
	} `yaml:"currency"`
	ExtraPageCost rawAmount         `yaml:"extra_page_cost"`
	Packages      []packageDocument `yaml:"packages"`
	Addons        []groupDocument   `yaml:"addons"`
}

type packageDocument struct {
	ID            string    `yaml:"id"`
	Label         string    `yaml:"label"`
	Tagline       string    `yaml:"tagline,omitempty"`
	Description   string    `yaml:"description,omitempty"`
	Price         rawAmount `yaml:"price"`
	IncludedPages rawAmount `yaml:"included_pages"`
}

type groupDocument struct {
	Category  string           `yaml:"category"`
	Label     string           `yaml:"label"`
	LineLabel string           `yaml:"line_label,omitempty"`
	Choices   []choiceDocument `yaml:"choices"`
}

type choiceDocument struct {
	ID    string    `yaml:"id"`
	Label string    `yaml:"label"`
	Cost  rawAmount `yaml:"cost"`
}

// Default returns the catalog shipped with the binary.
func Default() *Catalog {
	c, _, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded catalog invalid: %v", err))
	}
	return c
}

// Load reads a YAML catalog from disk.
func Load(path string) (*Catalog, []Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog and runs Validate. Malformed amounts are coerced to 0 and
// reported; a catalog with fatal issues is rejected with *ValidationError.
func Parse(data []byte) (*Catalog, []Issue, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("decode catalog: %w", err)
	}

	var issues []Issue
	packages := make([]Package, 0, len(doc.Packages))
	for i, p := range doc.Packages {
		path := fmt.Sprintf("packages[%d]", i)
		packages = append(packages, Package{
			ID:            strings.TrimSpace(p.ID),
			Label:         strings.TrimSpace(p.Label),
			Tagline:       strings.TrimSpace(p.Tagline),
			Description:   strings.TrimSpace(p.Description),
			Price:         coerceAmount(p.Price.text, path+".price", &issues),
			IncludedPages: int(coerceAmount(p.IncludedPages.text, path+".included_pages", &issues)),
		})
	}

	groups := make([]AddonGroup, 0, len(doc.Addons))
	for i, g := range doc.Addons {
		cat := Category(strings.ToLower(strings.TrimSpace(g.Category)))
		if !cat.Valid() {
			issues = append(issues, Issue{Path: fmt.Sprintf("addons[%d].category", i), Message: fmt.Sprintf("unknown category %q ignored", g.Category)})
			continue
		}
		group := AddonGroup{Category: cat, Label: strings.TrimSpace(g.Label), LineLabel: strings.TrimSpace(g.LineLabel)}
		if group.LineLabel == "" {
			group.LineLabel = group.Label
		}
		for j, ch := range g.Choices {
			path := fmt.Sprintf("addons.%s.choices[%d].cost", cat, j)
			group.Choices = append(group.Choices, Choice{
				ID:    strings.TrimSpace(ch.ID),
				Label: strings.TrimSpace(ch.Label),
				Cost:  coerceAmount(ch.Cost.text, path, &issues),
			})
		}
		groups = append(groups, group)
	}

	opts := []Option{WithCurrency(Currency{Symbol: doc.Currency.Symbol, Locale: doc.Currency.Locale})}
	if doc.ExtraPageCost.set {
		opts = append(opts, WithExtraPageCost(coerceAmount(doc.ExtraPageCost.text, "extra_page_cost", &issues)))
	}

	c := New(packages, groups, opts...)
	issues = append(issues, c.Validate()...)
	if HasFatal(issues) {
		return nil, issues, &ValidationError{Issues: issues}
	}
	return c, issues, nil
}

// Encode renders c in the YAML layout Parse reads.
func Encode(c *Catalog) ([]byte, error) {
	var doc document
	cur := c.Currency()
	doc.Currency.Symbol = cur.Symbol
	doc.Currency.Locale = cur.Locale
	doc.ExtraPageCost = amount(c.ExtraPageCost())
	for _, p := range c.Packages() {
		doc.Packages = append(doc.Packages, packageDocument{
			ID:            p.ID,
			Label:         p.Label,
			Tagline:       p.Tagline,
			Description:   p.Description,
			Price:         amount(p.Price),
			IncludedPages: amount(int64(p.IncludedPages)),
		})
	}
	for _, g := range c.Groups() {
		gd := groupDocument{Category: string(g.Category), Label: g.Label}
		if g.LineLabel != g.Label {
			gd.LineLabel = g.LineLabel
		}
		for _, ch := range g.Choices {
			gd.Choices = append(gd.Choices, choiceDocument{ID: ch.ID, Label: ch.Label, Cost: amount(ch.Cost)})
		}
		doc.Addons = append(doc.Addons, gd)
	}
	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return out, nil
}
