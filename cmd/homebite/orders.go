package main

import (
	"context"
	"fmt"
	"strconv"

	"homebite/client"
	"homebite/lifecycle"
	"homebite/models"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Place, pay and manage orders",
}

var (
	orderQuantity int
	orderAddress  string
)

var orderPlaceCmd = &cobra.Command{
	Use:   "place MEAL_ID",
	Short: "Order a meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commander, store, actor, err := connect()
		if err != nil {
			return err
		}
		ctx := context.Background()

		mealID, err := parseID(args[0])
		if err != nil {
			return err
		}
		meal, err := store.GetMeal(ctx, mealID)
		if err != nil {
			return err
		}

		address := orderAddress
		if address == "" {
			profile, err := store.Profile(ctx)
			if err != nil {
				return err
			}
			address = profile.Address
		}

		order, err := commander.PlaceOrder(ctx, actor, client.OrderDraft{
			MealID:        meal.ID,
			MealName:      meal.Name,
			Price:         meal.Price,
			Quantity:      orderQuantity,
			Address:       address,
			CustomerEmail: actor.Email,
			ChefID:        meal.ChefID,
			ChefName:      meal.Chef.Name,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Order #%d placed: %d × %s, total $%.2f\n",
			order.ID, order.Quantity, order.MealName, order.Total())
		return nil
	},
}

var orderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your orders (chefs see incoming orders with --incoming)",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, actor, err := connect()
		if err != nil {
			return err
		}
		ctx := context.Background()

		var orders []models.Order
		if incoming, _ := cmd.Flags().GetBool("incoming"); incoming {
			orders, err = store.ListChefOrders(ctx, actor.ID)
		} else {
			orders, err = store.ListCustomerOrders(ctx, actor.Email)
		}
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			fmt.Println("No orders yet.")
			return nil
		}
		for _, o := range orders {
			fmt.Printf("#%-4d %-24s qty %-3d $%-8.2f %-10s %s\n",
				o.ID, o.MealName, o.Quantity, o.Total(),
				statusBadge(o.OrderStatus), paymentBadge(o.PaymentStatus))
		}
		return nil
	},
}

// transitionCommand builds pay/cancel/accept/deliver from one template:
// fetch the order fresh, run the action through the command layer, print
// the refetched state.
func transitionCommand(use, short string, action lifecycle.Action) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ORDER_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			commander, store, actor, err := connect()
			if err != nil {
				return err
			}
			ctx := context.Background()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			order, err := store.GetOrder(ctx, id)
			if err != nil {
				return err
			}

			if action == lifecycle.ActionPay {
				redirect, err := commander.Pay(ctx, actor, order)
				if err != nil {
					return err
				}
				fmt.Println("Complete your payment at:")
				fmt.Println("  " + color.CyanString(redirect.URL))
				fmt.Println("Then run: homebite order reconcile " + redirect.SessionID)
				return nil
			}

			fresh, err := commander.AttemptTransition(ctx, actor, order, action)
			if err != nil {
				return err
			}
			fmt.Printf("Order #%d is now %s\n", fresh.ID, statusBadge(fresh.OrderStatus))
			return nil
		},
	}
}

var orderReconcileCmd = &cobra.Command{
	Use:   "reconcile [SESSION_ID]",
	Short: "Confirm a payment after returning from checkout",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commander, _, _, err := connect()
		if err != nil {
			return err
		}

		sessionID := ""
		if len(args) == 1 {
			sessionID = args[0]
		}
		receipt, err := commander.Reconcile(context.Background(), sessionID)
		if err != nil {
			if client.IsUnknownSession(err) {
				return fmt.Errorf("no pending checkout matches this session; the payment was not confirmed")
			}
			return err
		}
		if receipt == nil {
			fmt.Println("No payment session to confirm.")
			return nil
		}
		fmt.Printf("%s Order #%d paid. Transaction %s, tracking %s\n",
			color.GreenString("✔"), receipt.OrderID, receipt.TransactionID, receipt.TrackingID)
		return nil
	},
}

var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "Show your payment history",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, actor, err := connect()
		if err != nil {
			return err
		}
		payments, err := store.ListPayments(context.Background(), actor.Email)
		if err != nil {
			return err
		}
		if len(payments) == 0 {
			fmt.Println("No payments yet.")
			return nil
		}
		for _, p := range payments {
			fmt.Printf("%s  order #%-4d %-24s $%-8.2f %s\n",
				p.PaidAt.Format("2006-01-02 15:04"), p.OrderID, p.MealName, p.Amount, p.TransactionID)
		}
		return nil
	},
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}

func init() {
	orderPlaceCmd.Flags().IntVar(&orderQuantity, "qty", 1, "quantity to order")
	orderPlaceCmd.Flags().StringVar(&orderAddress, "address", "", "delivery address (default: profile address)")
	orderListCmd.Flags().Bool("incoming", false, "list orders addressed to you as a chef")

	orderCmd.AddCommand(
		orderPlaceCmd,
		orderListCmd,
		transitionCommand("pay", "Open a checkout session for a pending order", lifecycle.ActionPay),
		transitionCommand("cancel", "Cancel an unpaid order", lifecycle.ActionCancel),
		transitionCommand("accept", "Accept a pending order (chef)", lifecycle.ActionAccept),
		transitionCommand("deliver", "Mark an accepted order delivered (chef)", lifecycle.ActionDeliver),
		orderReconcileCmd,
	)
	rootCmd.AddCommand(orderCmd, paymentsCmd)
}
