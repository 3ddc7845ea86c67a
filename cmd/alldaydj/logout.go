package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/steelegbr/alldaydj-sub000/store"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear stored tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newAppContext()

		if err := app.controller.LogOut(); err != nil {
			return err
		}
		_ = app.tokenStore.Remove(store.TenancyKey)

		fmt.Fprintln(os.Stdout, "Logged out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
