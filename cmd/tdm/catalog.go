package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/tdm-calculator/internal/catalog"
	"github.com/Veraticus/tdm-calculator/internal/cli"
	"github.com/Veraticus/tdm-calculator/internal/config"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the rule catalog",
	}

	cmd.AddCommand(catalogValidateCmd())
	cmd.AddCommand(catalogListCmd())

	return cmd
}

func catalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a rule catalog file",
		Long: `Parse a catalog and check its definitions and formula dependencies.
Without a file the configured catalog is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cat *catalog.Catalog
				err error
			)
			if len(args) == 1 {
				cat, err = catalog.Load(config.ExpandPath(args[0]))
			} else {
				cat, err = loadConfiguredCatalog()
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
				"Catalog %s is valid: %d rules, %d packages", cat.Version, len(cat.Rules), len(cat.Packages))))
			return nil
		},
	}
}

func catalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the rules of the configured catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := loadConfiguredCatalog()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(cat.Rules))
			for _, d := range cat.Rules {
				formula := ""
				if d.Formula != nil {
					formula = string(d.Formula.Kind)
				}
				rows = append(rows, []string{string(d.Code), d.Name, string(d.Category), string(d.DataType), formula})
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTable([]string{"Code", "Name", "Category", "Type", "Formula"}, rows))
			return nil
		},
	}
}

func loadConfiguredCatalog() (*catalog.Catalog, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return cfg.LoadCatalog()
}
