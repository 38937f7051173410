package catalog

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PackageSelectID is the id of the select element listing packages.
const PackageSelectID = "calc-package"

// ErrNoPackageMarkup is returned when the markup has no package options at all.
var ErrNoPackageMarkup = errors.New("catalog: no package options in markup")

// FromMarkup reads a catalog from calculator markup: package options carry data-price
// and data-included-pages attributes, add-on options carry data-cost (or the cost as
// their value). Missing or malformed attributes are coerced to 0 and reported as issues.
// Add-on categories absent from the markup are taken from base when it is non-nil.
func FromMarkup(r io.Reader, base *Catalog) (*Catalog, []Issue, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parse catalog markup: %w", err)
	}

	options := doc.Find("select#" + PackageSelectID + " option")
	if options.Length() == 0 {
		return nil, nil, ErrNoPackageMarkup
	}

	var issues []Issue
	packages := make([]Package, 0, options.Length())
	options.Each(func(i int, opt *goquery.Selection) {
		path := fmt.Sprintf("#%s option[%d]", PackageSelectID, i)
		id, _ := opt.Attr("value")
		price, _ := opt.Attr("data-price")
		included, _ := opt.Attr("data-included-pages")
		packages = append(packages, Package{
			ID:            strings.TrimSpace(id),
			Label:         optionLabel(opt),
			Tagline:       strings.TrimSpace(opt.AttrOr("data-tagline", "")),
			Price:         coerceAmount(price, path+"[data-price]", &issues),
			IncludedPages: int(coerceAmount(included, path+"[data-included-pages]", &issues)),
		})
	})

	var groups []AddonGroup
	for _, cat := range categories {
		sel := doc.Find("select#" + cat.MarkupID())
		if sel.Length() == 0 {
			if base != nil {
				if g, ok := base.Group(cat); ok {
					groups = append(groups, g)
				}
			}
			continue
		}
		group := AddonGroup{Category: cat, Label: cat.defaultLabel(), LineLabel: cat.defaultLabel()}
		if base != nil {
			if g, ok := base.Group(cat); ok {
				group.Label, group.LineLabel = g.Label, g.LineLabel
			}
		}
		sel.Find("option").Each(func(i int, opt *goquery.Selection) {
			path := fmt.Sprintf("#%s option[%d]", cat.MarkupID(), i)
			value := strings.TrimSpace(opt.AttrOr("value", ""))
			rawCost, hasCost := opt.Attr("data-cost")
			if !hasCost {
				rawCost = value
			}
			group.Choices = append(group.Choices, Choice{
				ID:    value,
				Label: optionLabel(opt),
				Cost:  coerceAmount(rawCost, path+"[cost]", &issues),
			})
		})
		groups = append(groups, group)
	}

	var opts []Option
	if base != nil {
		opts = append(opts, WithExtraPageCost(base.ExtraPageCost()), WithCurrency(base.Currency()))
	}
	c := New(packages, groups, opts...)
	issues = append(issues, c.Validate()...)
	if HasFatal(issues) {
		return nil, issues, &ValidationError{Issues: issues}
	}
	return c, issues, nil
}

// optionLabel prefers an explicit data-label and otherwise takes the visible text up to
// the price suffix ("Bronze — ₹2,999 (4 pages)" reads as "Bronze").
func optionLabel(opt *goquery.Selection) string {
	if label := strings.TrimSpace(opt.AttrOr("data-label", "")); label != "" {
		return label
	}
	text := strings.TrimSpace(opt.Text())
	if i := strings.Index(text, " — "); i > 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

func (c Category) defaultLabel() string {
	switch c {
	case CategoryEcommerce:
		return "E-commerce"
	case CategoryDomain:
		return "Domain setup"
	default:
		s := string(c)
		return strings.ToUpper(s[:1]) + s[1:]
	}
}
