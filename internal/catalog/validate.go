package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Issue describes a catalog authoring defect found while loading or validating.
type Issue struct {
	Path    string
	Message string
	// Fatal issues make the catalog unusable; the rest were recovered by coercion.
	Fatal bool
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ValidationError is returned when a catalog has fatal issues.
type ValidationError struct {
	Issues []Issue
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Fatal {
			parts = append(parts, issue.String())
		}
	}
	return fmt.Sprintf("catalog validation failed: [%s]", strings.Join(parts, "; "))
}

// HasFatal reports whether any issue is fatal.
func HasFatal(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Fatal {
			return true
		}
	}
	return false
}

// ParseAmount converts externally supplied numeric text to an integer.
//
// Surrounding whitespace and locale grouping separators (",", "_", inner spaces) are
// ignored. Anything that is still not a clean base-10 integer yields fallback; it never
// fails. Catalog ingestion uses a fallback of 0.
func ParseAmount(raw string, fallback int64) int64 {
	n, ok := parseAmount(raw)
	if !ok {
		return fallback
	}
	return n
}

func parseAmount(raw string) (int64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ',', '_', ' ', '\t', '\u00a0':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// coerceAmount applies ParseAmount with a zero fallback and records an issue when the
// raw text was not clean.
func coerceAmount(raw, path string, issues *[]Issue) int64 {
	n, ok := parseAmount(raw)
	if !ok {
		*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("malformed amount %q coerced to 0", raw)})
		return 0
	}
	return n
}

// Validate runs the load-time checks over the catalog.
func (c *Catalog) Validate() []Issue {
	var issues []Issue
	if len(c.packages) == 0 {
		issues = append(issues, Issue{Path: "packages", Message: "no packages defined", Fatal: true})
	}
	seen := map[string]bool{}
	for i, p := range c.packages {
		path := fmt.Sprintf("packages[%d]", i)
		if strings.TrimSpace(p.ID) == "" {
			issues = append(issues, Issue{Path: path + ".id", Message: "empty id", Fatal: true})
		} else if seen[p.ID] {
			issues = append(issues, Issue{Path: path + ".id", Message: fmt.Sprintf("duplicate id %q", p.ID), Fatal: true})
		}
		seen[p.ID] = true
		if p.Price < 0 {
			issues = append(issues, Issue{Path: path + ".price", Message: "negative price"})
		}
		if p.IncludedPages < 0 {
			issues = append(issues, Issue{Path: path + ".included_pages", Message: "negative included pages"})
		}
		if strings.TrimSpace(p.Label) == "" {
			issues = append(issues, Issue{Path: path + ".label", Message: "empty label"})
		}
	}
	if c.extraPageCost < 0 {
		issues = append(issues, Issue{Path: "extra_page_cost", Message: "negative extra page cost"})
	}
	for _, cat := range categories {
		g, ok := c.groups[cat]
		if !ok {
			issues = append(issues, Issue{Path: "addons." + string(cat), Message: "category missing", Fatal: true})
			continue
		}
		issues = append(issues, validateGroup(g)...)
	}
	return issues
}

func validateGroup(g AddonGroup) []Issue {
	var issues []Issue
	base := "addons." + string(g.Category)
	if len(g.Choices) == 0 {
		return append(issues, Issue{Path: base, Message: "no choices", Fatal: true})
	}
	free := false
	seen := map[string]bool{}
	for i, choice := range g.Choices {
		path := fmt.Sprintf("%s.choices[%d]", base, i)
		if strings.TrimSpace(choice.ID) == "" {
			issues = append(issues, Issue{Path: path + ".id", Message: "empty id", Fatal: true})
		} else if seen[choice.ID] {
			issues = append(issues, Issue{Path: path + ".id", Message: fmt.Sprintf("duplicate id %q", choice.ID), Fatal: true})
		}
		seen[choice.ID] = true
		if choice.Cost < 0 {
			issues = append(issues, Issue{Path: path + ".cost", Message: "negative cost"})
		}
		if choice.Cost == 0 {
			free = true
		}
	}
	if !free {
		issues = append(issues, Issue{Path: base, Message: "no zero-cost choice"})
	}
	return issues
}
