package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"ambigen.dev/pkg/ambigen/internal/controller"
	"ambigen.dev/pkg/ambigen/internal/domain"
)

// catalogCmd represents the catalog command.
var catalogCmd = newCatalogCmd()

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the ambiguity patterns and their variant spaces",
		Long: `List every pattern category and form in the generation catalog, together
with the number of distinct variants each form can produce.`,
		Args: cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return ui.DisplayCatalog(context.Background(), catalogRows())
		},
	}
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func catalogRows() []controller.CatalogRow {
	var rows []controller.CatalogRow

	for _, pattern := range domain.Catalog() {
		for _, form := range pattern.Forms {
			rows = append(rows, controller.CatalogRow{
				Pattern:   pattern.ID,
				Form:      form.Name,
				Space:     form.Space(),
				MultiFile: pattern.MultiFile,
			})
		}
	}

	return rows
}
