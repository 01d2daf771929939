package cli

import (
	"fmt"
	"strings"

	"github.com/ashureev/orderbot/internal/domain"
	"github.com/ashureev/orderbot/internal/order"
	"github.com/spf13/cobra"
)

func newTrackCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "track <order-id>",
		Short: "Show the tracking status of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := opts.openStore()
			if err != nil {
				return err
			}
			defer repo.Close()

			res, err := order.NewTracker(repo).Track(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !res.Found {
				return fmt.Errorf("order #%d not found", res.OrderID)
			}

			total, err := repo.GetTotalPrice(cmd.Context(), res.OrderID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order #%d: %s (total %s)\n", res.OrderID, res.Status, total)
			return nil
		},
	}
}

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status <order-id> <status>",
		Short: "Set the tracking status of an order",
		Example: `  orderctl status 42 "out for delivery"
  orderctl status 42 delivered`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := order.ParseOrderID(args[0])
			if err != nil {
				return err
			}
			status := strings.TrimSpace(args[1])
			if status == "" {
				return fmt.Errorf("status cannot be empty")
			}

			repo, err := opts.openStore()
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.UpdateTrackingStatus(cmd.Context(), id, domain.OrderStatus(status)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order #%d is now %s\n", id, status)
			return nil
		},
	}
}
