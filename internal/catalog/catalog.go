package catalog

import (
	"strings"
)

// Category identifies one add-on group. The set is fixed; catalogs only vary the choices.
type Category string

const (
	CategoryEcommerce   Category = "ecommerce"
	CategoryBooking     Category = "booking"
	CategoryPayments    Category = "payments"
	CategoryDomain      Category = "domain"
	CategoryMaintenance Category = "maintenance"
	CategoryPriority    Category = "priority"
)

// DefaultExtraPageCost is charged for every page above a package's allowance.
const DefaultExtraPageCost int64 = 250

var categories = []Category{
	CategoryEcommerce,
	CategoryBooking,
	CategoryPayments,
	CategoryDomain,
	CategoryMaintenance,
	CategoryPriority,
}

// Categories lists the add-on categories in display and breakdown order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// MarkupID returns the id attribute of the select element carrying this category.
func (c Category) MarkupID() string {
	if c == CategoryEcommerce {
		return "calc-ecom"
	}
	return "calc-" + string(c)
}

// Package is one selectable service tier.
type Package struct {
	ID            string
	Label         string
	Tagline       string
	Description   string
	Price         int64
	IncludedPages int
}

// Choice is one option within an add-on group.
type Choice struct {
	ID    string
	Label string
	Cost  int64
}

// AddonGroup holds the choices of a single category.
type AddonGroup struct {
	Category  Category
	Label     string
	LineLabel string
	Choices   []Choice
}

// DefaultChoice returns the first zero-cost choice, or the first choice when none is free.
func (g AddonGroup) DefaultChoice() Choice {
	for _, c := range g.Choices {
		if c.Cost == 0 {
			return c
		}
	}
	if len(g.Choices) > 0 {
		return g.Choices[0]
	}
	return Choice{}
}

// Choice resolves a choice by id.
func (g AddonGroup) Choice(id string) (Choice, bool) {
	id = strings.TrimSpace(id)
	for _, c := range g.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// Currency controls how amounts are presented.
type Currency struct {
	Symbol string
	Locale string
}

// Catalog is the immutable pricing source of truth. It is safe for concurrent use.
type Catalog struct {
	packages      []Package
	groups        map[Category]AddonGroup
	extraPageCost int64
	currency      Currency
}

// Option customises catalog construction.
type Option func(*Catalog)

// WithExtraPageCost overrides the per-page surcharge.
func WithExtraPageCost(cost int64) Option {
	return func(c *Catalog) {
		c.extraPageCost = cost
	}
}

// WithCurrency overrides the currency presentation.
func WithCurrency(cur Currency) Option {
	return func(c *Catalog) {
		if strings.TrimSpace(cur.Symbol) != "" {
			c.currency.Symbol = cur.Symbol
		}
		if strings.TrimSpace(cur.Locale) != "" {
			c.currency.Locale = cur.Locale
		}
	}
}

// New builds a catalog from packages and groups. Inputs are copied.
func New(packages []Package, groups []AddonGroup, opts ...Option) *Catalog {
	c := &Catalog{
		packages:      append([]Package(nil), packages...),
		groups:        make(map[Category]AddonGroup, len(groups)),
		extraPageCost: DefaultExtraPageCost,
		currency:      Currency{Symbol: "₹", Locale: "en-IN"},
	}
	for _, g := range groups {
		g.Choices = append([]Choice(nil), g.Choices...)
		c.groups[g.Category] = g
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Packages returns the packages in catalog order.
func (c *Catalog) Packages() []Package {
	return append([]Package(nil), c.packages...)
}

// Package resolves a package by id.
func (c *Catalog) Package(id string) (Package, bool) {
	id = strings.TrimSpace(id)
	for _, p := range c.packages {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}

// FirstPackage returns the first package; ok is false for an empty catalog.
func (c *Catalog) FirstPackage() (Package, bool) {
	if len(c.packages) == 0 {
		return Package{}, false
	}
	return c.packages[0], true
}

// MatchPackage finds a package by a free-form name. An exact, case-insensitive id match
// across all packages wins over a label substring match; within each pass the first
// package in catalog order wins.
func (c *Catalog) MatchPackage(name string) (Package, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return Package{}, false
	}
	for _, p := range c.packages {
		if strings.ToLower(p.ID) == needle {
			return p, true
		}
	}
	for _, p := range c.packages {
		if strings.Contains(strings.ToLower(p.Label), needle) {
			return p, true
		}
	}
	return Package{}, false
}

// Group returns the add-on group for a category.
func (c *Catalog) Group(cat Category) (AddonGroup, bool) {
	g, ok := c.groups[cat]
	if !ok {
		return AddonGroup{}, false
	}
	g.Choices = append([]Choice(nil), g.Choices...)
	return g, true
}

// Groups returns all configured groups in category order.
func (c *Catalog) Groups() []AddonGroup {
	out := make([]AddonGroup, 0, len(c.groups))
	for _, cat := range categories {
		if g, ok := c.Group(cat); ok {
			out = append(out, g)
		}
	}
	return out
}

// ResolveChoice returns the chosen option, falling back to the group's default for unknown ids.
func (c *Catalog) ResolveChoice(cat Category, id string) Choice {
	g, ok := c.groups[cat]
	if !ok {
		return Choice{}
	}
	if choice, ok := g.Choice(id); ok {
		return choice
	}
	return g.DefaultChoice()
}

// ExtraPageCost is the surcharge per page above the included allowance.
func (c *Catalog) ExtraPageCost() int64 { return c.extraPageCost }

// Currency returns the presentation currency.
func (c *Catalog) Currency() Currency { return c.currency }
