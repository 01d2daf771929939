package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/ashureev/orderbot/internal/store"
	"github.com/spf13/cobra"
)

func newMenuCmd(opts *options) *cobra.Command {
	menuCmd := &cobra.Command{
		Use:   "menu",
		Short: "Manage menu items and prices",
	}

	menuCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List menu items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := opts.openStore()
			if err != nil {
				return err
			}
			defer repo.Close()

			items, err := repo.ListMenu(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPRICE")
			for _, item := range items {
				fmt.Fprintf(w, "%s\t%s\n", item.Name, item.Price)
			}
			return w.Flush()
		},
	})

	menuCmd.AddCommand(&cobra.Command{
		Use:   "load <file>",
		Short: "Load menu items from a YAML file",
		Long: `Load menu items from a YAML file of the form

  items:
    - name: pizza
      price: 8.00

Existing items with the same name are repriced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := opts.openStore()
			if err != nil {
				return err
			}
			defer repo.Close()

			n, err := store.LoadMenuFile(cmd.Context(), repo, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d menu items\n", n)
			return nil
		},
	})

	return menuCmd
}
