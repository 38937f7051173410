package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ayush-gihub-12345/Web-app/internal/catalog"
)

func newCatalogCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and convert pricing catalogs",
	}
	cmd.AddCommand(newCatalogValidateCmd(), newCatalogImportCmd(root), newCatalogExportCmd(root))
	return cmd
}

func newCatalogValidateCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Report authoring defects in a catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, issues, err := catalog.Load(args[0])
			printIssues(cmd, issues)
			if err != nil {
				return err
			}
			if strict && len(issues) > 0 {
				return fmt.Errorf("catalog has %d warnings", len(issues))
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %d packages, %d add-on groups, %d warnings\n",
				len(cat.Packages()), len(cat.Groups()), len(issues))
			return err
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on recovered defects too")
	return cmd
}

func newCatalogImportCmd(root *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "import <html>",
		Short: "Build a catalog file from existing calculator markup",
		Long: "Reads the package and add-on selects from an HTML page and prints the equivalent\n" +
			"catalog YAML. Add-on groups missing from the page are taken from --catalog.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := root.load(cmd)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			cat, issues, err := catalog.FromMarkup(f, base)
			printIssues(cmd, issues)
			if err != nil {
				return err
			}
			return writeCatalog(cmd, cat, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write YAML to this file instead of stdout")
	return cmd
}

func newCatalogExportCmd(root *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the active catalog as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := root.load(cmd)
			if err != nil {
				return err
			}
			return writeCatalog(cmd, cat, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write YAML to this file instead of stdout")
	return cmd
}

func writeCatalog(cmd *cobra.Command, cat *catalog.Catalog, output string) error {
	data, err := catalog.Encode(cat)
	if err != nil {
		return err
	}
	if output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(output, data, 0o644)
}
