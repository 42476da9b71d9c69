package sheets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/agency-pulse/internal/common"
)

// NewService creates a Sheets API client from whichever credentials the
// config holds: a service account key, a refresh token or a saved token file.
func NewService(ctx context.Context, config Config) (*sheets.Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	tokenSource, err := tokenSource(ctx, config)
	if err != nil {
		return nil, err
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

func tokenSource(ctx context.Context, config Config) (oauth2.TokenSource, error) {
	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, common.NewUserErrorWithHint("unable to read service account key",
				"Check sheets.service_account_path.", err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		return jwtConfig.TokenSource(ctx), nil
	}

	oauthConfig := OAuth2Config{ClientID: config.ClientID, ClientSecret: config.ClientSecret}.oauth()
	if config.RefreshToken != "" {
		return oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: config.RefreshToken, TokenType: "Bearer"}), nil
	}

	token, err := LoadToken(config.TokenFile)
	if err != nil {
		return nil, common.NewUserErrorWithHint("no saved Google token",
			"Run `pulse auth` to sign in.", err)
	}
	return &persistingSource{
		base: oauthConfig.TokenSource(ctx, token),
		path: config.TokenFile,
		last: token.AccessToken,
	}, nil
}
