package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tally-fin/tally/internal/cli"
	"github.com/tally-fin/tally/internal/model"
	"github.com/tally-fin/tally/internal/service"
)

func listCmd() *cobra.Command {
	var (
		txType   string
		start    string
		end      string
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long:  `Print one page of transactions matching the given filter.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if page < 1 {
				return fmt.Errorf("invalid page %d: must be at least 1", page)
			}
			if pageSize < 1 {
				return fmt.Errorf("invalid page-size %d: must be at least 1", pageSize)
			}
			typeFilter, err := parseTypeFlag(txType)
			if err != nil {
				return err
			}
			startDate, err := parseDateFlag("start", start)
			if err != nil {
				return err
			}
			endDate, err := parseDateFlag("end", end)
			if err != nil {
				return err
			}

			client, err := initClient()
			if err != nil {
				return err
			}

			result, err := client.ListTransactions(cmd.Context(), service.ListParams{
				Start:    startDate,
				End:      endDate,
				Type:     typeFilter,
				Page:     page,
				PageSize: pageSize,
			})
			if err != nil {
				return fmt.Errorf("listing transactions: %w", err)
			}

			if len(result.Items) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions match this filter."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				headerStyle.Render("Date"),
				headerStyle.Render("Type"),
				headerStyle.Render("Category"),
				headerStyle.Render("Amount"),
				headerStyle.Render("Note"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 10),
				strings.Repeat("-", 7),
				strings.Repeat("-", 16),
				strings.Repeat("-", 10),
				strings.Repeat("-", 24))

			for _, tx := range result.Items {
				date := ""
				if !tx.Date.IsZero() {
					date = tx.Date.Format("2006-01-02")
				}
				amount := fmt.Sprintf("%.2f", tx.Amount)
				if tx.Type == model.TypeIncome {
					amount = cli.SuccessStyle.Render("+" + amount)
				} else {
					amount = cli.ErrorStyle.Render("-" + amount)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", date, tx.Type, tx.Category, amount, tx.Note)
			}

			pages := (result.Total + pageSize - 1) / pageSize
			fmt.Fprintf(w, "\n%s\n", cli.SubtleStyle.Render(
				fmt.Sprintf("page %d/%d · %d total", result.Page, pages, result.Total)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", "all", "filter by type (income, expense, all)")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD, inclusive)")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", model.DefaultPageSize, "items per page")

	return cmd
}
