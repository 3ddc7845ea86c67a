package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	apperrors "github.com/steelegbr/alldaydj-sub000/internal/errors"
	"github.com/steelegbr/alldaydj-sub000/session"
	"github.com/steelegbr/alldaydj-sub000/store"
)

var tenancyCmd = &cobra.Command{
	Use:   "tenancy",
	Short: "List available tenancies",
	Long:  `List the tenancies the logged-in user may select. Requires an authenticated session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return runTenancyList(ctx)
	},
}

var tenancySetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Select the active tenancy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newAppContext()

		if app.controller.Status().Stage == session.StageUnauthenticated {
			return apperrors.ErrNotAuthenticated
		}

		if err := app.tokenStore.Set(store.TenancyKey, args[0]); err != nil {
			return err
		}
		status := app.controller.SelectTenancy(args[0])

		fmt.Fprintln(os.Stdout, renderStatus(status))
		return nil
	},
}

func init() {
	tenancyCmd.AddCommand(tenancySetCmd)
	rootCmd.AddCommand(tenancyCmd)
}

func runTenancyList(ctx context.Context) error {
	app := newAppContext()

	accessToken, err := ensureAccessToken(ctx, app)
	if err != nil {
		return err
	}

	tenancies, err := app.client.Tenancies(ctx, accessToken)
	if err != nil {
		return err
	}

	active := app.controller.Status().Tenant
	for _, tenancy := range tenancies {
		marker := "  "
		if tenancy.Name == active {
			marker = "* "
		}
		fmt.Fprintln(os.Stdout, marker+tenancy.Name)
	}
	return nil
}

// ensureAccessToken returns a live access token for a one-shot API call,
// refreshing it synchronously when only the refresh token is live.
func ensureAccessToken(ctx context.Context, app *appContext) (string, error) {
	status := app.controller.Status()

	switch status.Stage {
	case session.StageAuthenticated:
		return status.AccessToken, nil
	case session.StageAccessTokenRefreshNeeded:
		refresher := session.NewRefreshCoordinator(app.client, app.tokenStore, app.log)
		var result session.Status
		refresher.Refresh(ctx, status.RefreshToken, func(s session.Status) {
			result = s
		})
		if result.Stage != session.StageAuthenticated {
			return "", apperrors.ErrNotAuthenticated
		}
		app.controller.SetStatus(result.WithTenant(status.Tenant))
		return result.AccessToken, nil
	default:
		return "", apperrors.ErrNotAuthenticated
	}
}
