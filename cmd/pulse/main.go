package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/agency-pulse/internal/cli"
	"github.com/Veraticus/agency-pulse/internal/common"
)

var (
	cfgFile string
	version = "dev"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pulse",
		Short: "📈 Sales-agency performance dashboard",
		Long: `agency-pulse keeps an insurance agency's leader and agent figures in one place.

It syncs the agency, leader and agent sheets, compares each unit's agent
targets with its leader's forecast, and collects strategic planning goals
along the organizational hierarchy.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/pulse/config.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.String("agency", "", "agency to operate on (overrides agency.name)")
	flags.String("as", "", "id of the acting user (default: local administrator)")
	flags.Bool("json", false, "print results as JSON")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", flags.Lookup("log-format"))
	_ = viper.BindPFlag("agency.name", flags.Lookup("agency"))
	_ = viper.BindPFlag("actor", flags.Lookup("as"))
	_ = viper.BindPFlag("output.json", flags.Lookup("json"))

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(authCmd())
	rootCmd.AddCommand(sourcesCmd())
	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(leadersCmd())
	rootCmd.AddCommand(agentsCmd())
	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(hierarchyCmd())
	rootCmd.AddCommand(goalsCmd())
	rootCmd.AddCommand(usersCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	interrupts := cli.NewInterruptHandler(os.Stderr)
	ctx := interrupts.HandleInterrupts(context.Background())

	err := newRootCmd().ExecuteContext(ctx)
	interrupts.Stop()

	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
			if hint := common.HintFor(err); hint != "" {
				fmt.Fprintln(os.Stderr, cli.FormatHint(hint))
			}
		}
		os.Exit(1)
	}
}

func setDefaults() {
	viper.SetDefault("database.path", "$HOME/.local/share/pulse/pulse.db")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
	viper.SetDefault("cache.ttl", 30*time.Second)
	viper.SetDefault("fetch.timeout", 30*time.Second)
	viper.SetDefault("fetch.retry_attempts", 1)
	viper.SetDefault("goals.save_timeout", 15*time.Second)
	viper.SetDefault("sheets.token_file", "$HOME/.config/pulse/token.json")
}

func initConfig(_ *cobra.Command, _ []string) error {
	setDefaults()

	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(fmt.Sprintf("%s/.config/pulse", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("PULSE")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	if err := common.SetupLogger(level, viper.GetString("logging.format")); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pulse %s\n", version)
		},
	}
}
