package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tally-fin/tally/internal/cli"
	"github.com/tally-fin/tally/internal/model"
)

func addCmd() *cobra.Command {
	var (
		txType   string
		category string
		note     string
		date     string
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Add a single transaction",
		Long: `Record one transaction without opening the browser. The amount accepts a
comma or dot decimal separator.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := model.ParseAmount(args[0])
			if err != nil {
				return err
			}

			day, err := parseDateFlag("date", date)
			if err != nil {
				return err
			}

			draft := model.TransactionDraft{
				Type:     model.TxType(txType),
				Amount:   amount,
				Category: category,
				Note:     note,
				Date:     day,
			}
			if err := draft.Validate(); err != nil {
				return err
			}

			client, err := initClient()
			if err != nil {
				return err
			}

			created, err := client.CreateTransaction(cmd.Context(), draft)
			if err != nil {
				return fmt.Errorf("creating transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %.2f (%s) %s", created.Amount, created.Type, created.Category)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", "expense", "transaction type (income, expense)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category name")
	cmd.Flags().StringVarP(&note, "note", "n", "", "free-form note")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date (YYYY-MM-DD, default today)")

	return cmd
}
