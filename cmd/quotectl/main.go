// Command quotectl prices selections and maintains catalog files from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ayush-gihub-12345/Web-app/internal/catalog"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	catalogFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "quotectl",
		Short:         "Price website packages and manage the pricing catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.catalogFile, "catalog", os.Getenv("QUOTE_CATALOG_FILE"), "catalog YAML file (embedded catalog when empty)")

	cmd.AddCommand(newQuoteCmd(opts), newCatalogCmd(opts))
	return cmd
}

func (o *rootOptions) load(cmd *cobra.Command) (*catalog.Catalog, error) {
	if o.catalogFile == "" {
		return catalog.Default(), nil
	}
	cat, issues, err := catalog.Load(o.catalogFile)
	printIssues(cmd, issues)
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func printIssues(cmd *cobra.Command, issues []catalog.Issue) {
	for _, issue := range issues {
		level := "warning"
		if issue.Fatal {
			level = "error"
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", level, issue)
	}
}
