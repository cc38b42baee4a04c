package subcmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(NewLookupCommand())
}

func NewLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <isbn-or-url>",
		Short: "Fetch book metadata by ISBN or catalog page URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), app.cfg.Timeout())
			defer cancel()

			meta, err := app.metadata.Fetch(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "title:  %s\n", meta.Title)
			fmt.Fprintf(cmd.OutOrStdout(), "author: %s\n", meta.Author())
			if meta.ISBN != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "isbn:   %s\n", meta.ISBN)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "source: %s\n", meta.Source)
			return nil
		},
	}
}
