package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tally-fin/tally/internal/bus"
	"github.com/tally-fin/tally/internal/tui"
	"github.com/tally-fin/tally/internal/tui/themes"
)

func browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse transactions interactively",
		Long: `Open the interactive browser: a paginated transaction list with inline
editing and deletion, a quick-add form, and spending charts.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := initClient()
			if err != nil {
				return err
			}

			return tui.Run(cmd.Context(), tui.Config{
				Transactions: client,
				Aggregates:   client,
				Directory:    client,
				Bus:          bus.New(),
				Theme:        themes.GetTheme(viper.GetString("theme")),
			})
		},
	}

	cmd.Flags().String("theme", "", "color theme (default, catppuccin-mocha)")
	_ = viper.BindPFlag("theme", cmd.Flags().Lookup("theme"))

	return cmd
}
