package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tally-fin/tally/internal/cli"
	"github.com/tally-fin/tally/internal/config"
)

func importCmd() *cobra.Command {
	var showText bool

	cmd := &cobra.Command{
		Use:   "import <receipt-image>",
		Short: "Import transactions from a receipt photo",
		Long: `Upload a receipt image for OCR parsing and review the candidate entries
one by one. Nothing is saved without confirmation; an interrupt keeps the
entries already accepted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ExpandPath(args[0])
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening receipt: %w", err)
			}
			defer func() { _ = f.Close() }()

			client, err := initClient()
			if err != nil {
				return err
			}

			interrupts := cli.NewInterruptHandler(os.Stdout)
			ctx := interrupts.HandleInterrupts(cmd.Context())

			fmt.Println(cli.FormatInfo("Uploading receipt for parsing..."))
			result, err := client.ParseReceipt(ctx, path, f)
			if err != nil {
				return fmt.Errorf("parsing receipt: %w", err)
			}

			if showText && result.Text != "" {
				fmt.Println(cli.RenderBox("Extracted text", result.Text))
			}

			// One-shot process, no mounted views to notify.
			reviewer := cli.NewReviewer(client, nil, os.Stdin, os.Stdout)
			stats, err := reviewer.Review(ctx, result)
			if err != nil {
				if errors.Is(err, cli.ErrInputCancelled) && interrupts.WasInterrupted() {
					return nil
				}
				return err
			}

			if stats.Accepted == 0 {
				fmt.Println(cli.FormatWarning("Nothing imported."))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showText, "show-text", false, "print the raw OCR text before reviewing")

	return cmd
}
