package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pokereports/pokereports/internal/config"
	"github.com/pokereports/pokereports/internal/i18n"
	"github.com/pokereports/pokereports/internal/logx"
	reports "github.com/pokereports/pokereports/sdk/go"
)

var (
	cfgFile  string
	apiURL   string
	typesURL string
	timeout  time.Duration
	lang     string
	verbose  bool

	closeLogger = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "pokereports",
	Short: "Pokémon reports - request, track and download type reports",
	Long: `pokereports is a command-line front end for the Pokémon report service.

Pick a type, request a sampled report, watch it complete, then download the
CSV or delete it. Run "pokereports session" for the interactive page.`,
	Version:       "dev",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, closer, err := logx.Init("pokereports", viper.GetBool(config.KeyVerbose))
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		closeLogger = closer
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLogger()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file path (default: ~/.config/pokereports/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&apiURL, "api-server", "s", config.DefaultAPIServer, "Report API base URL")
	rootCmd.PersistentFlags().StringVar(&typesURL, "types-url", config.DefaultTypesURL, "Type vocabulary URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Request timeout (0 = none)")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", config.DefaultLanguage, "Message language (en, es)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	// Bind to viper
	viper.BindPFlag(config.KeyAPIServer, rootCmd.PersistentFlags().Lookup("api-server"))
	viper.BindPFlag(config.KeyTypesURL, rootCmd.PersistentFlags().Lookup("types-url"))
	viper.BindPFlag(config.KeyTimeout, rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag(config.KeyLanguage, rootCmd.PersistentFlags().Lookup("lang"))
	viper.BindPFlag(config.KeyVerbose, rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home + "/.config/pokereports")
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read environment variables
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(config.EnvKeyReplacer)
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig returns the merged flag, env and file settings.
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// getAPIClient creates and returns an API client
func getAPIClient() (*reports.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	return reports.NewClient(
		cfg.APIServer,
		reports.WithTimeout(cfg.Timeout),
		reports.WithTypesURL(cfg.TypesURL),
		reports.WithLogger(slog.Default()),
	), nil
}

// getPrinter returns the message printer for the configured language.
func getPrinter() *i18n.Printer {
	return i18n.New(viper.GetString(config.KeyLanguage))
}

// getContext returns the command context, bounded by --timeout when set and
// carrying one request id for every service call the command makes.
func getContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, _ = logx.EnsureRequestID(ctx)
	if d := viper.GetDuration(config.KeyTimeout); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// ExecuteContext runs the root command with ctx, which is cancelled on
// interrupt by main.
func ExecuteContext(ctx context.Context, version, commit, date string) error {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built at: %s)", version, commit, date)
	return rootCmd.ExecuteContext(ctx)
}
