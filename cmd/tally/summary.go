package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tally-fin/tally/internal/aggregate"
	"github.com/tally-fin/tally/internal/cli"
	"github.com/tally-fin/tally/internal/model"
	"github.com/tally-fin/tally/internal/service"
)

func summaryCmd() *cobra.Command {
	var (
		txType string
		start  string
		end    string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals by category and date",
		Long: `Query the aggregate totals for one side of the ledger. The two queries run
concurrently; if one fails the other still prints.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			side := model.TxType(txType)
			if !side.Valid() {
				return fmt.Errorf("invalid type %q: expected income or expense", txType)
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

			ctrl := aggregate.NewController(client)
			ctrl.SetFilter(service.AggFilter{Start: startDate, End: endDate, Type: side})
			snap := ctrl.Load(cmd.Context())

			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Totals · %s", side)))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

			fmt.Fprintln(w, cli.BoldStyle.Render("By category"))
			if len(snap.ByCategory) == 0 {
				fmt.Fprintln(w, cli.SubtleStyle.Render("  (no data)"))
			}
			for _, row := range snap.ByCategory {
				fmt.Fprintf(w, "  %s\t%10.2f\n", row.Category, row.Total)
			}

			fmt.Fprintln(w)
			fmt.Fprintln(w, cli.BoldStyle.Render("By date"))
			if len(snap.ByDate) == 0 {
				fmt.Fprintln(w, cli.SubtleStyle.Render("  (no data)"))
			}
			for _, row := range snap.ByDate {
				fmt.Fprintf(w, "  %s\t%10.2f\n", row.Date, row.Total)
			}

			fmt.Fprintln(w)
			fmt.Fprintf(w, "%s\t%10.2f\n", cli.BoldStyle.Render("Overall"), snap.Overall)
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", "expense", "side of the ledger (income, expense)")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD, inclusive)")

	return cmd
}
