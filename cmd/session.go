package cmd

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pokereports/pokereports/internal/config"
	"github.com/pokereports/pokereports/internal/session"
)

var autoRefreshFlag time.Duration

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Open the interactive report page",
	Long: `Open an interactive page: choose a type and sample size, request reports,
and refresh, sort, download or delete them from the report table.

Create, refresh and delete run in the background; use "wait" to block until
they finish.`,
	Example: `  pokereports session
  pokereports session --auto-refresh 10s --lang es`,
	RunE: runSession,
}

func init() {
	sessionCmd.Flags().DurationVar(&autoRefreshFlag, "auto-refresh", 0, "Reload the list at this interval (0 = off)")
	rootCmd.AddCommand(sessionCmd)
}

func runSession(cmd *cobra.Command, args []string) error {
	client, err := getAPIClient()
	if err != nil {
		return err
	}

	s := session.New(session.Config{
		Reports:     client.Report,
		Types:       client.Type,
		In:          cmd.InOrStdin(),
		Out:         cmd.OutOrStdout(),
		Printer:     getPrinter(),
		Logger:      slog.Default(),
		AutoRefresh: autoRefreshFlag,
		DownloadDir: viper.GetString(config.KeyDownloadDir),
	})
	return s.Run(cmd.Context())
}
