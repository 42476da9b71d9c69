package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Veraticus/agency-pulse/internal/cli"
	"github.com/Veraticus/agency-pulse/internal/common"
	"github.com/Veraticus/agency-pulse/internal/config"
	"github.com/Veraticus/agency-pulse/internal/dashboard"
	"github.com/Veraticus/agency-pulse/internal/ingest"
	"github.com/Veraticus/agency-pulse/internal/model"
	"github.com/Veraticus/agency-pulse/internal/service"
	"github.com/Veraticus/agency-pulse/internal/sheets"
	"github.com/Veraticus/agency-pulse/internal/storage"
)

// errReported marks a failure that has already been shown to the user.
var errReported = errors.New("operation failed")

var envKeyReplacer = strings.NewReplacer(".", "_")

var printer = message.NewPrinter(language.English)

const hintStore = "Check database.path in your config, then run `pulse migrate`."

// app is everything a command needs to run dashboard operations.
type app struct {
	store *storage.SQLiteStorage
	svc   *dashboard.Service
	actor dashboard.Actor
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

// initStorage opens and migrates the database.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/pulse/pulse.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	cache := storage.NewDocumentCache(viper.GetDuration("cache.ttl"), nil)
	store, err := storage.NewSQLiteStorage(dbPath, storage.WithCache(cache))
	if err != nil {
		return nil, common.NewUserErrorWithHint("the database is unavailable", hintStore, err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, common.NewUserErrorWithHint("the database could not be prepared", hintStore,
			fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err))
	}
	return store, nil
}

// newFetcher builds the sheet fetcher. Sheets API access is optional; a
// fetcher without it still reads published CSV links and local files.
func newFetcher(ctx context.Context) *ingest.Fetcher {
	var values ingest.ValuesReader
	sheetsConfig := config.LoadSheetsConfig()
	if sheetsConfig.HasAuth() {
		srv, err := sheets.NewService(ctx, sheetsConfig)
		if err != nil {
			slog.Warn("Google Sheets API unavailable; sheets:// sources will fail", "error", err)
		} else {
			values = sheets.NewReader(srv)
		}
	}

	return ingest.NewFetcher(viper.GetDuration("fetch.timeout"), values, service.RetryOptions{
		MaxAttempts:  viper.GetInt("fetch.retry_attempts"),
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	})
}

// openApp opens the store and builds the dashboard service for the acting
// user. tweak, when set, adjusts the service config.
func openApp(cmd *cobra.Command, tweak func(*dashboard.Config)) (*app, error) {
	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return nil, err
	}

	cfg := dashboard.DefaultConfig()
	cfg.Agency = viper.GetString("agency.name")
	cfg.GoalSaveTimeout = viper.GetDuration("goals.save_timeout")
	if tweak != nil {
		tweak(&cfg)
	}
	svc := dashboard.NewWithConfig(store, newFetcher(ctx), cfg)

	actor, err := resolveActor(ctx, store, viper.GetString("actor"))
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return &app{store: store, svc: svc, actor: actor}, nil
}

// resolveActor looks up the acting user. An id with no user record acts as
// staff, which is enough to register and to file one's own goal.
func resolveActor(ctx context.Context, store service.UserStore, id string) (dashboard.Actor, error) {
	if id == "" {
		return dashboard.SystemActor, nil
	}
	user, err := store.GetUser(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		slog.Warn("Acting user is not registered; using staff access", "user", id)
		return dashboard.Actor{UserID: id, Role: model.RoleStaff}, nil
	}
	if err != nil {
		return dashboard.Actor{}, err
	}
	return dashboard.ActorFor(user), nil
}

func jsonOutput() bool {
	return viper.GetBool("output.json")
}

// show prints a result's warnings and failure. With --json the whole
// result is printed instead. render is called on success only.
func show[T any](cmd *cobra.Command, r dashboard.Result[T], render func(w io.Writer, data T)) error {
	out := cmd.OutOrStdout()
	if jsonOutput() {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		if !r.Success {
			return errReported
		}
		return nil
	}

	errOut := cmd.ErrOrStderr()
	for _, w := range r.Warnings {
		fmt.Fprintln(errOut, cli.FormatWarning(w))
	}
	if !r.Success {
		fmt.Fprintln(errOut, cli.FormatError(r.Error))
		if r.Hint != "" {
			fmt.Fprintln(errOut, cli.FormatHint(r.Hint))
		}
		return errReported
	}
	if render != nil {
		render(out, r.Data)
	}
	return nil
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.2f", v)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return cli.SubtleStyle.Render("never")
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}

// floatFlag reads a float flag, returning nil when it was not given.
func floatFlag(cmd *cobra.Command, name string) (*float64, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil //nolint:nilnil // absent flag
	}
	v, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// parseAmount reads a figure typed on the command line. Thousands
// separators and currency symbols are accepted as they are in sheets.
func parseAmount(s string) (float64, error) {
	v, ok := ingest.ParseNumber(s)
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a number", common.ErrInvalidInput, s)
	}
	return v, nil
}

func slogFor(component string) *slog.Logger {
	return slog.Default().With("component", component)
}
