package main

import (
	"context"
	"fmt"

	"homebite/client"
	"homebite/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
	loginServer   string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and save the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		base := loginServer
		if base == "" {
			base = config.GetEnv("HOMEBITE_API", "http://localhost:8080")
		}
		store := client.NewHTTPStore(base)
		user, err := store.Login(context.Background(), client.Credentials{
			Email:    loginEmail,
			Password: loginPassword,
		})
		if err != nil {
			return err
		}
		if err := saveSession(&Session{BaseURL: base, Token: store.Token, Email: user.Email}); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s (%s)\n", color.CyanString(user.Name), user.Role)
		return nil
	},
}

var (
	registerName     string
	registerEmail    string
	registerPassword string
	registerAddress  string
	registerServer   string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a customer account",
	RunE: func(cmd *cobra.Command, args []string) error {
		base := registerServer
		if base == "" {
			base = config.GetEnv("HOMEBITE_API", "http://localhost:8080")
		}
		store := client.NewHTTPStore(base)
		user, err := store.Register(context.Background(), client.RegisterInfo{
			Name:     registerName,
			Email:    registerEmail,
			Password: registerPassword,
			Address:  registerAddress,
		})
		if err != nil {
			return err
		}
		if err := saveSession(&Session{BaseURL: base, Token: store.Token, Email: user.Email}); err != nil {
			return err
		}
		fmt.Printf("Welcome, %s! You are registered as a customer.\n", color.CyanString(user.Name))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := clearSession(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account behind the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, actor, err := connect()
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s> role=%s status=%s (server %s)\n",
			actor.Name, actor.Email, actor.Role, actor.Status, store.BaseURL)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
	loginCmd.Flags().StringVar(&loginServer, "server", "", "API base URL (default $HOMEBITE_API)")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	registerCmd.Flags().StringVar(&registerName, "name", "", "display name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "account email")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "account password")
	registerCmd.Flags().StringVar(&registerAddress, "address", "", "delivery address")
	registerCmd.Flags().StringVar(&registerServer, "server", "", "API base URL (default $HOMEBITE_API)")
	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}
