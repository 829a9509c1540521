package main

import (
	"context"
	"fmt"

	"homebite/lifecycle"
	"homebite/models"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var requestRoleCmd = &cobra.Command{
	Use:   "request-role chef|admin",
	Short: "Ask an admin to upgrade your role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commander, _, actor, err := connect()
		if err != nil {
			return err
		}
		req, err := commander.RequestRole(context.Background(), actor, models.UserRole(args[0]))
		if err != nil {
			return err
		}
		fmt.Printf("Request #%d for role %q submitted, awaiting admin review.\n", req.ID, req.RequestedRole)
		return nil
	},
}

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Review role requests (admin)",
}

var requestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List role requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := connect()
		if err != nil {
			return err
		}
		requests, err := store.ListRoleRequests(context.Background())
		if err != nil {
			return err
		}
		if len(requests) == 0 {
			fmt.Println("No role requests.")
			return nil
		}
		for _, r := range requests {
			fmt.Printf("#%-4d %-20s %-28s wants %-8s %s\n",
				r.ID, r.UserName, r.UserEmail, r.RequestedRole, requestBadge(r.Status))
		}
		return nil
	},
}

func resolveCommand(use, short string, decision lifecycle.Decision) *cobra.Command {
	return &cobra.Command{
		Use:   use + " REQUEST_ID",
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
			req, err := store.GetRoleRequest(ctx, id)
			if err != nil {
				return err
			}

			resolved, requester, err := commander.ResolveRoleRequest(ctx, actor, req, decision)
			if err != nil {
				return err
			}
			if decision == lifecycle.DecisionApprove {
				fmt.Printf("Request #%d approved, %s is now a %s.\n",
					resolved.ID, requester.Name, requester.Role)
			} else {
				fmt.Printf("Request #%d rejected, %s stays a %s.\n",
					resolved.ID, requester.Name, requester.Role)
			}
			return nil
		},
	}
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage accounts (admin)",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := connect()
		if err != nil {
			return err
		}
		users, err := store.ListUsers(context.Background())
		if err != nil {
			return err
		}
		for _, u := range users {
			status := string(u.Status)
			if u.Status == models.StatusFraud {
				status = color.RedString(status)
			}
			fmt.Printf("#%-4d %-20s %-28s %-8s %s\n", u.ID, u.Name, u.Email, u.Role, status)
		}
		return nil
	},
}

var usersFraudCmd = &cobra.Command{
	Use:   "fraud USER_ID",
	Short: "Mark an account as fraud",
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
		users, err := store.ListUsers(ctx)
		if err != nil {
			return err
		}
		var target *models.User
		for i := range users {
			if users[i].ID == id {
				target = &users[i]
				break
			}
		}
		if target == nil {
			return fmt.Errorf("no user with id %d", id)
		}

		user, err := commander.MarkFraud(ctx, actor, target)
		if err != nil {
			return err
		}
		fmt.Printf("%s is marked as %s. Their chef/admin powers are revoked.\n",
			user.Name, color.RedString(string(user.Status)))
		return nil
	},
}

func requestBadge(s models.RequestStatus) string {
	switch s {
	case models.RequestPending:
		return color.YellowString(string(s))
	case models.RequestApproved:
		return color.GreenString(string(s))
	default:
		return color.RedString(string(s))
	}
}

func init() {
	requestsCmd.AddCommand(
		requestsListCmd,
		resolveCommand("approve", "Approve a pending role request", lifecycle.DecisionApprove),
		resolveCommand("reject", "Reject a pending role request", lifecycle.DecisionReject),
	)
	usersCmd.AddCommand(usersListCmd, usersFraudCmd)
	rootCmd.AddCommand(requestRoleCmd, requestsCmd, usersCmd)
}
