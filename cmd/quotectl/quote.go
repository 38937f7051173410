package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ayush-gihub-12345/Web-app/internal/calculator"
	"github.com/Ayush-gihub-12345/Web-app/internal/catalog"
	"github.com/Ayush-gihub-12345/Web-app/internal/quote"
)

type quoteOptions struct {
	pkg    string
	pages  int
	addons []string
	notes  string
	json   bool
}

func newQuoteCmd(root *rootOptions) *cobra.Command {
	opts := &quoteOptions{}
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute a quote for a package selection",
		Example: `  quotectl quote --package bronze --pages 7 --addon ecommerce=catalog
  quotectl quote --package gold --pages 10 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := root.load(cmd)
			if err != nil {
				return err
			}
			return runQuote(cmd, cat, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.pkg, "package", "p", "", "package id (first package when unknown)")
	cmd.Flags().IntVar(&opts.pages, "pages", 0, "requested pages (package default when 0)")
	cmd.Flags().StringArrayVar(&opts.addons, "addon", nil, "add-on choice as category=choice, repeatable")
	cmd.Flags().StringVar(&opts.notes, "notes", "", "free-form notes")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the structured breakdown as JSON")
	return cmd
}

func runQuote(cmd *cobra.Command, cat *catalog.Catalog, opts *quoteOptions) error {
	engine, err := quote.NewEngine(cat)
	if err != nil {
		return err
	}
	binding, err := calculator.New(engine)
	if err != nil {
		return err
	}

	form, err := opts.form()
	if err != nil {
		return err
	}
	panel, err := binding.Refresh(cmd.Context(), binding.ReadSelection(form))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.json {
		data, err := panel.Result.StructuredJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, data)
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n\nTotal: %s\n", panel.BreakdownText, panel.TotalText)
	return err
}

// form expresses the flags as the calculator's posted controls so the command prices
// exactly like the page does.
func (o *quoteOptions) form() (url.Values, error) {
	form := url.Values{}
	form.Set(calculator.FieldToggle, "on")
	form.Set(calculator.FieldPackage, o.pkg)
	if o.pages != 0 {
		form.Set(calculator.FieldPages, strconv.Itoa(o.pages))
	}
	form.Set(calculator.FieldNotes, o.notes)
	for _, raw := range o.addons {
		name, choice, ok := strings.Cut(raw, "=")
		cat := catalog.Category(strings.ToLower(strings.TrimSpace(name)))
		if !ok || !cat.Valid() {
			return nil, fmt.Errorf("invalid --addon %q: want category=choice with category one of %v", raw, catalog.Categories())
		}
		form.Set(calculator.AddonField(cat), strings.TrimSpace(choice))
	}
	return form, nil
}
