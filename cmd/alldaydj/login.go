package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/steelegbr/alldaydj-sub000/store"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the cart library",
	Long:  `Authenticate against the backend and persist the issued token pair locally.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return runLogin(ctx)
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (prompted if omitted)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted if omitted)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(ctx context.Context) error {
	if loginUsername == "" || loginPassword == "" {
		if err := promptCredentials(&loginUsername, &loginPassword); err != nil {
			return err
		}
	}

	app := newAppContext()

	pair, err := app.client.Login(ctx, loginUsername, loginPassword)
	if err != nil {
		return err
	}

	status, err := app.controller.LoginUser(pair.Refresh, pair.Access)
	if err != nil {
		return err
	}

	// A fresh login clears any previously selected tenancy.
	_ = app.tokenStore.Remove(store.TenancyKey)

	fmt.Fprintf(os.Stdout, "Logged in as %s\n", loginUsername)
	fmt.Fprintln(os.Stdout, renderStatus(status))
	return nil
}

func promptCredentials(username, password *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("login aborted: %w", err)
	}
	return nil
}
