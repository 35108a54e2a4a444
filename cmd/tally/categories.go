package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tally-fin/tally/internal/cli"
	"github.com/tally-fin/tally/internal/model"
)

func categoriesCmd() *cobra.Command {
	var txType string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List known categories",
		Long:  `Display the category directory, optionally restricted to one transaction type.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := initClient()
			if err != nil {
				return err
			}

			categories, err := client.Categories(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading categories: %w", err)
			}

			if txType != "" {
				categories = model.CategoriesForType(categories, model.TxType(txType))
			}

			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories found."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			for _, cat := range categories {
				icon := cat.Icon
				if icon == "" {
					icon = " "
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", icon, cat.Name, cli.SubtleStyle.Render(string(cat.Type)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", "", "restrict to one type (income, expense)")

	return cmd
}
