// Command homebite is a terminal client for the HomeBite platform. It
// talks to the remote store through the client package, so every action
// goes through the same legality checks and refetch discipline the web
// client uses.
package main

import (
	"context"
	"fmt"
	"os"

	"homebite/client"
	"homebite/config"
	"homebite/models"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "homebite",
	Short: "Order homemade meals from local chefs",
	Long:  "homebite browses meals, places and pays for orders, and runs the chef and admin dashboards from the terminal.",
}

func main() {
	config.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

// connect builds a store from the saved session plus the active actor.
func connect() (*client.Commander, *client.HTTPStore, client.Actor, error) {
	sess, err := loadSession()
	if err != nil {
		return nil, nil, client.Actor{}, fmt.Errorf("not logged in, run `homebite login` first: %w", err)
	}
	store := client.NewHTTPStore(sess.BaseURL)
	store.Token = sess.Token

	// refresh the actor from the server: the local role is never
	// authoritative, an admin may have promoted or flagged us meanwhile
	user, err := store.Profile(context.Background())
	if err != nil {
		return nil, nil, client.Actor{}, err
	}
	actor := client.Actor{
		ID:     user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		Status: user.Status,
	}
	return client.NewCommander(store), store, actor, nil
}

func statusBadge(s models.OrderStatus) string {
	switch s {
	case models.OrderPending:
		return color.YellowString(string(s))
	case models.OrderAccepted, models.OrderPreparing:
		return color.BlueString(string(s))
	case models.OrderDelivered:
		return color.GreenString(string(s))
	default:
		return color.RedString(string(s))
	}
}

func paymentBadge(s models.PaymentStatus) string {
	if s == models.PaymentPaid {
		return color.GreenString(string(s))
	}
	return color.RedString(string(s))
}
