package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/agency-pulse/internal/cli"
	"github.com/Veraticus/agency-pulse/internal/config"
	"github.com/Veraticus/agency-pulse/internal/sheets"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in to Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2.

This command will:
1. Print a URL to open in your browser
2. Wait for Google to redirect back to a local callback
3. Save the token to sheets.token_file

Needed once for sheets:// sources and for "pulse compare push", unless a
service account key or refresh token is configured.`,
		RunE: runAuth,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().String("callback", "localhost:8080", "address of the local callback server")

	return cmd
}

func runAuth(cmd *cobra.Command, _ []string) error {
	sheetsConfig := config.LoadSheetsConfig()

	oauthConfig := sheets.OAuth2Config{
		ClientID:     sheetsConfig.ClientID,
		ClientSecret: sheetsConfig.ClientSecret,
		TokenFile:    sheetsConfig.TokenFile,
	}
	if v, _ := cmd.Flags().GetString("client-id"); v != "" {
		oauthConfig.ClientID = v
	}
	if v, _ := cmd.Flags().GetString("client-secret"); v != "" {
		oauthConfig.ClientSecret = v
	}
	oauthConfig.CallbackAddr, _ = cmd.Flags().GetString("callback")

	if _, err := sheets.AuthenticateOAuth2Interactive(cmd.Context(), oauthConfig); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Signed in to Google Sheets"))
	return nil
}
