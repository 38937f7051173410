package testutil

import (
	"bytes"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTML parses a rendered page or fragment for assertions.
func ParseHTML(t testing.TB, body []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// HiddenFields collects name/value pairs of hidden inputs under selector, in document order.
func HiddenFields(doc *goquery.Document, selector string) map[string][]string {
	out := make(map[string][]string)
	doc.Find(selector + ` input[type="hidden"]`).Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("name")
		if !ok {
			return
		}
		value, _ := s.Attr("value")
		out[name] = append(out[name], value)
	})
	return out
}
