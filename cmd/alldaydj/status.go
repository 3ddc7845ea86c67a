package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/steelegbr/alldaydj-sub000/session"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session status",
	Long:  `Display the authentication stage, token expiries and active tenancy of the local session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newAppContext()
		status := app.controller.Status()

		if jsonOutput {
			fmt.Fprintln(os.Stdout, formatStatusJSON(status))
			return nil
		}
		fmt.Fprintln(os.Stdout, renderStatus(status))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

var (
	labelStyle = lipgloss.NewStyle().Faint(true).Width(16)

	stageStyles = map[session.Stage]lipgloss.Style{
		session.StageUnauthenticated:          lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		session.StageAccessTokenRefreshNeeded: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		session.StageRefreshingAccessToken:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		session.StageAuthenticated:            lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	}
)

// renderStatus formats a status record for human readability.
func renderStatus(status session.Status) string {
	out := labelStyle.Render("Stage:") + renderStage(status.Stage)

	if !status.RefreshTokenExpiry.IsZero() {
		out += "\n" + labelStyle.Render("Refresh expires:") + status.RefreshTokenExpiry.Local().Format(time.RFC1123)
	}
	if !status.AccessTokenExpiry.IsZero() {
		out += "\n" + labelStyle.Render("Access expires:") + status.AccessTokenExpiry.Local().Format(time.RFC1123)
	}
	if status.Tenant != "" {
		out += "\n" + labelStyle.Render("Tenancy:") + status.Tenant
	}
	return out
}

func renderStage(stage session.Stage) string {
	style, ok := stageStyles[stage]
	if !ok {
		return string(stage)
	}
	return style.Render(string(stage))
}

// statusView is the JSON shape of a status record.
type statusView struct {
	Stage              string     `json:"stage"`
	Tenant             string     `json:"tenant,omitempty"`
	AccessTokenExpiry  *time.Time `json:"access_token_expiry,omitempty"`
	RefreshTokenExpiry *time.Time `json:"refresh_token_expiry,omitempty"`
}

func formatStatusJSON(status session.Status) string {
	view := statusView{
		Stage:  string(status.Stage),
		Tenant: status.Tenant,
	}
	if !status.AccessTokenExpiry.IsZero() {
		expiry := status.AccessTokenExpiry
		view.AccessTokenExpiry = &expiry
	}
	if !status.RefreshTokenExpiry.IsZero() {
		expiry := status.RefreshTokenExpiry
		view.RefreshTokenExpiry = &expiry
	}
	data, _ := json.MarshalIndent(view, "", "  ")
	return string(data)
}
