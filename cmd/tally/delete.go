package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tally-fin/tally/internal/cli"
)

func deleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Long:  `Delete one transaction by its identifier. Asks for confirmation unless --force is given.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			if !force {
				fmt.Print(cli.FormatPrompt(fmt.Sprintf("Delete transaction %s? This cannot be undone. [y/N]", id)))
				reader := cli.NewLineReader(os.Stdin)
				answer, err := reader.ReadLine(cmd.Context())
				if err != nil {
					return err
				}
				if strings.ToLower(answer) != "y" {
					fmt.Println(cli.FormatInfo("Kept."))
					return nil
				}
			}

			client, err := initClient()
			if err != nil {
				return err
			}

			if err := client.DeleteTransaction(cmd.Context(), id); err != nil {
				return fmt.Errorf("deleting transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Deleted " + id))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")

	return cmd
}
