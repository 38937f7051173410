package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ayush-gihub-12345/Web-app/internal/catalog"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("QUOTE_CATALOG_FILE", "")
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestQuoteCommand(t *testing.T) {
	out, _, err := execute(t, "quote", "--package", "bronze", "--pages", "7", "--addon", "ecommerce=catalog")
	require.NoError(t, err)
	require.Contains(t, out, "Total: ₹6,249")
	require.Contains(t, out, "Extra pages")
}

func TestQuoteCommandJSON(t *testing.T) {
	out, _, err := execute(t, "quote", "--package", "gold", "--pages", "10", "--json")
	require.NoError(t, err)

	var breakdown struct {
		Plan       string `json:"plan"`
		Pages      int    `json:"pages"`
		ExtraPages int    `json:"extraPages"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &breakdown))
	require.Equal(t, "Gold", breakdown.Plan)
	require.Equal(t, 10, breakdown.Pages)
	require.Equal(t, 4, breakdown.ExtraPages)
}

func TestQuoteCommandRejectsBadAddon(t *testing.T) {
	_, _, err := execute(t, "quote", "--addon", "hosting=yes")
	require.Error(t, err)
	require.Contains(t, err.Error(), "hosting=yes")
}

func TestCatalogValidate(t *testing.T) {
	base, err := catalog.Encode(catalog.Default())
	require.NoError(t, err)
	doc := strings.Replace(string(base), "price: 4999", "price: abc", 1)
	require.NotEqual(t, string(base), doc)

	out, stderr, err := execute(t, "catalog", "validate", writeFile(t, "catalog.yaml", doc))
	require.NoError(t, err)
	require.Contains(t, out, "ok: 3 packages, 6 add-on groups, 1 warnings")
	require.Contains(t, stderr, "warning: packages[1].price")

	_, _, err = execute(t, "catalog", "validate", "--strict", writeFile(t, "catalog.yaml", doc))
	require.EqualError(t, err, "catalog has 1 warnings")

	_, stderr, err = execute(t, "catalog", "validate", writeFile(t, "empty.yaml", "packages: []\n"))
	var vErr *catalog.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, stderr, "error: packages: no packages defined")
}

func TestCatalogImport(t *testing.T) {
	page := writeFile(t, "page.html", `<html><body>
<select id="calc-package">
  <option value="starter" data-price="1999" data-included-pages="2">Starter</option>
  <option value="pro" data-price="7999" data-included-pages="8">Pro</option>
</select>
<select id="calc-booking">
  <option value="none" data-cost="0">No</option>
  <option value="yes" data-cost="950">Yes</option>
</select>
</body></html>`)
	out, _, err := execute(t, "catalog", "import", page)
	require.NoError(t, err)

	cat, issues, err := catalog.Parse([]byte(out))
	require.NoError(t, err)
	require.Empty(t, issues)
	pro, ok := cat.Package("pro")
	require.True(t, ok)
	require.EqualValues(t, 7999, pro.Price)
	booking, ok := cat.Group(catalog.CategoryBooking)
	require.True(t, ok)
	require.EqualValues(t, 950, booking.Choices[1].Cost)
	_, ok = cat.Group(catalog.CategoryEcommerce)
	require.True(t, ok, "groups missing from the page come from the base catalog")
}

func TestCatalogExportToFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.yaml")
	_, _, err := execute(t, "catalog", "export", "-o", target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "currency:"))
}
