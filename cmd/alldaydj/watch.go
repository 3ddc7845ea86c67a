package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/steelegbr/alldaydj-sub000/session"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the session, refreshing the access token as needed",
	Long: `Run the session controller until interrupted. The controller re-checks the
stored tokens on the configured interval and refreshes the access token
whenever it lapses while the refresh token is still live.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return runWatch(ctx)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(ctx context.Context) error {
	app := newAppContext(session.WithOnChange(func(status session.Status) {
		fmt.Fprintln(os.Stdout, renderStatus(status))
		fmt.Fprintln(os.Stdout)
	}))

	displayAppName(app.cfg.GetAppName())

	app.controller.Start(ctx)
	defer app.controller.Close()

	<-ctx.Done()
	return nil
}

func displayAppName(appName string) {
	banner := figure.NewFigure(appName, "cybermedium", true)
	banner.Print()
	fmt.Println()
}
