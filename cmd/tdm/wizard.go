package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tdm-calculator/internal/tui"
	"github.com/Veraticus/tdm-calculator/internal/tui/themes"
	"github.com/Veraticus/tdm-calculator/internal/wizard"
)

func wizardCmd() *cobra.Command {
	var (
		page  int
		theme string
	)

	cmd := &cobra.Command{
		Use:   "wizard [project-id]",
		Short: "Open the interactive calculation wizard",
		Long: `Step through the calculation pages in the terminal. Without a project id
a new project is started; it is created on the first save.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			path := fmt.Sprintf("/calculation/%d", page)
			if len(args) == 1 {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				path = fmt.Sprintf("/calculation/%d/%d", page, id)
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if theme == "" {
				theme = a.cfg.Theme
			}
			th, err := themes.Lookup(theme)
			if err != nil {
				return err
			}

			cfg := tui.DefaultConfig()
			cfg.Theme = th
			cfg.Session = a.newSession()
			cfg.Catalog = a.catalog
			cfg.Router = wizard.NewMemoryRouter(path)
			cfg.Account = &a.cfg.Account
			cfg.ResultCodes = a.cfg.ResultCodes

			return tui.Run(ctx, cfg)
		},
	}

	cmd.Flags().IntVar(&page, "page", int(wizard.FirstPage), "page to open")
	cmd.Flags().StringVar(&theme, "theme", "", "color theme (default from wizard.theme)")

	return cmd
}
