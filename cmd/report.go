package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/pokereports/pokereports/internal/config"
	"github.com/pokereports/pokereports/internal/i18n"
	"github.com/pokereports/pokereports/internal/output"
	"github.com/pokereports/pokereports/internal/prompt"
	"github.com/pokereports/pokereports/internal/reportlist"
	"github.com/pokereports/pokereports/internal/selection"
	"github.com/pokereports/pokereports/internal/view"
	reports "github.com/pokereports/pokereports/sdk/go"
)

var outputFormat string

var reportCmd = &cobra.Command{
	Use:     "report",
	Aliases: []string{"reports"},
	Short:   "Manage reports",
	Long:    `Request, list, download and delete Pokémon type reports.`,
}

var (
	typeFlag       string
	sampleSizeFlag string
	waitFlag       bool
	quietFlag      bool
	ascFlag        bool
	fileFlag       string
	forceFlag      bool
)

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all reports",
	Example: `  # Newest first
  pokereports report list

  # Oldest first, as JSON
  pokereports report list --asc -o json

  # Export to a workbook
  pokereports report list -o xlsx --file reports.xlsx`,
	RunE: runReportList,
}

var reportCreateCmd = &cobra.Command{
	Use:   "create --type <type>",
	Short: "Request a new report",
	Example: `  # Every fire type
  pokereports report create --type fire

  # A sample of 25, waiting until it is ready
  pokereports report create --type water --sample-size 25 --wait`,
	RunE: runReportCreate,
}

var reportDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a report",
	Args:  cobra.ExactArgs(1),
	Example: `  # Delete with confirmation
  pokereports report delete <report-id>

  # Force delete without confirmation
  pokereports report delete <report-id> --force`,
	RunE: runReportDelete,
}

var reportDownloadCmd = &cobra.Command{
	Use:   "download <id> [local-path]",
	Short: "Download a completed report as CSV",
	Args:  cobra.RangeArgs(1, 2),
	Example: `  # Save to <download-dir>/<id>.csv
  pokereports report download <report-id>

  # Write to stdout
  pokereports report download <report-id> -`,
	RunE: runReportDownload,
}

var (
	pollIntervalFlag  time.Duration
	maxWaitFlag       time.Duration
	watchIntervalFlag time.Duration
)

var reportWaitCmd = &cobra.Command{
	Use:     "wait <id>",
	Short:   "Wait for a report to complete",
	Args:    cobra.ExactArgs(1),
	Example: `  pokereports report wait <report-id>`,
	RunE:    runReportWait,
}

var reportWatchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Refresh the report table until every report is completed",
	Example: `  pokereports report watch --interval 5s`,
	RunE:    runReportWatch,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportListCmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format (table, json, yaml, xlsx)")
	reportListCmd.Flags().BoolVar(&ascFlag, "asc", false, "Oldest first")
	reportListCmd.Flags().StringVar(&fileFlag, "file", "", "Write output to a file")
	reportCmd.AddCommand(reportListCmd)

	reportCreateCmd.Flags().StringVar(&typeFlag, "type", "", "Pokémon type (required)")
	reportCreateCmd.Flags().StringVar(&sampleSizeFlag, "sample-size", "", "Maximum number of records (positive integer)")
	reportCreateCmd.Flags().BoolVar(&waitFlag, "wait", false, "Wait for the report to complete")
	reportCreateCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Only print report ID")
	reportCreateCmd.MarkFlagRequired("type")
	reportCmd.AddCommand(reportCreateCmd)

	reportDeleteCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Skip confirmation")
	reportCmd.AddCommand(reportDeleteCmd)

	reportCmd.AddCommand(reportDownloadCmd)

	reportWaitCmd.Flags().DurationVar(&pollIntervalFlag, "poll-interval", 2*time.Second, "Poll interval")
	reportWaitCmd.Flags().DurationVar(&maxWaitFlag, "max-wait", 5*time.Minute, "Max wait time")
	reportCmd.AddCommand(reportWaitCmd)

	reportWatchCmd.Flags().DurationVar(&watchIntervalFlag, "interval", 5*time.Second, "Refresh interval")
	reportCmd.AddCommand(reportWatchCmd)
}

func runReportList(cmd *cobra.Command, args []string) error {
	client, err := getAPIClient()
	if err != nil {
		return err
	}
	ctx, cancel := getContext(cmd)
	defer cancel()

	items, err := client.Report.List(ctx)
	if err != nil {
		return err
	}

	dir := reportlist.Descending
	if ascFlag {
		dir = reportlist.Ascending
	}
	sorted := reportlist.Sort(items, dir)

	format := output.ParseFormat(formatOrDefault(outputFormat))
	var data any = sorted
	if format == output.FormatTable {
		data = view.Build(reportlist.Snapshot{Reports: sorted, Loaded: true, Direction: dir}, getPrinter())
	}
	return writeOutput(cmd, format, data, fileFlag)
}

func runReportCreate(cmd *cobra.Command, args []string) error {
	p := getPrinter()
	size, err := selection.ValidateSampleSize(sampleSizeFlag, p)
	if err != nil {
		return err
	}

	client, err := getAPIClient()
	if err != nil {
		return err
	}
	ctx, cancel := getContext(cmd)
	defer cancel()

	sync := reportlist.New(client.Report, reportlist.WithPrinter(p))
	outcome, err := sync.Create(ctx, typeFlag, size)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if quietFlag {
		fmt.Fprintln(out, outcome.Report.ReportID)
	} else {
		fmt.Fprintln(out, p.T(i18n.MsgReportCreated, strings.TrimSpace(typeFlag)))
		row := view.NewRow(*outcome.Report, false)
		fmt.Fprintf(out, "Report: %s\n", row.ReportID)
		fmt.Fprintf(out, "Status: %s\n", row.Status)
		if outcome.RefreshErr != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), p.T(i18n.MsgRefreshFailedAfter))
		}
	}

	if waitFlag {
		id := outcome.Report.ReportID
		if id == "" {
			return fmt.Errorf("cannot wait: the service did not return a report id")
		}
		report, err := client.Report.WaitForCompletion(ctx, id, 0, 0)
		if err != nil {
			return err
		}
		if !quietFlag {
			fmt.Fprintf(out, "Report %s is %s\n", report.ReportID, report.Status)
		}
	}
	return nil
}

func runReportDelete(cmd *cobra.Command, args []string) error {
	p := getPrinter()
	id := strings.TrimSpace(args[0])
	if id == "" {
		return reports.ErrReportIDRequired
	}

	if !forceFlag {
		if !prompt.IsInteractive(os.Stdin) {
			return prompt.ErrNotInteractive
		}
		if !prompt.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), prompt.DeleteDialog(p, id)) {
			fmt.Fprintln(cmd.OutOrStdout(), p.T(i18n.MsgCancelled))
			return nil
		}
	}

	client, err := getAPIClient()
	if err != nil {
		return err
	}
	ctx, cancel := getContext(cmd)
	defer cancel()

	if _, err := client.Report.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), p.T(i18n.MsgReportDeleted))
	return nil
}

func runReportDownload(cmd *cobra.Command, args []string) error {
	p := getPrinter()
	client, err := getAPIClient()
	if err != nil {
		return err
	}
	ctx, cancel := getContext(cmd)
	defer cancel()

	id := args[0]
	report, err := client.Report.Find(ctx, id)
	if err != nil {
		return err
	}
	if !report.IsCompleted() || report.URL == "" {
		return fmt.Errorf("%s: %w", p.T(i18n.MsgDownloadMissing), reports.ErrDownloadUnavailable)
	}

	if len(args) > 1 && args[1] == "-" {
		_, err := client.Report.Download(ctx, *report, cmd.OutOrStdout())
		return err
	}

	localPath := filepath.Join(viper.GetString(config.KeyDownloadDir), reports.DownloadFileName(id))
	if len(args) > 1 {
		localPath = args[1]
	}
	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}
	_, err = client.Report.Download(ctx, *report, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(localPath)
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), p.T(i18n.MsgDownloadSaved, id, localPath))
	return nil
}

func runReportWait(cmd *cobra.Command, args []string) error {
	client, err := getAPIClient()
	if err != nil {
		return err
	}
	ctx, cancel := getContext(cmd)
	defer cancel()

	fmt.Fprintf(cmd.OutOrStdout(), "Waiting for report %s to complete...\n", args[0])
	report, err := client.Report.WaitForCompletion(ctx, args[0], pollIntervalFlag, maxWaitFlag)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report %s is %s\n", report.ReportID, report.Status)
	return nil
}

func runReportWatch(cmd *cobra.Command, args []string) error {
	if watchIntervalFlag <= 0 {
		return fmt.Errorf("--interval must be positive")
	}
	client, err := getAPIClient()
	if err != nil {
		return err
	}
	p := getPrinter()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sync := reportlist.New(client.Report, reportlist.WithPrinter(p))
	formatter := &output.TableFormatter{}
	limiter := rate.NewLimiter(rate.Every(watchIntervalFlag), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			// Interrupted.
			return nil
		}
		items, err := sync.Refresh(ctx)
		if err := formatter.Write(cmd.OutOrStdout(), view.Build(sync.Snapshot(), p)); err != nil {
			return err
		}
		if err != nil {
			continue
		}
		if allCompleted(items) {
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}
}

func allCompleted(items []reports.Report) bool {
	if len(items) == 0 {
		return false
	}
	for _, r := range items {
		if !r.IsCompleted() {
			return false
		}
	}
	return true
}

func formatOrDefault(f string) string {
	if f != "" {
		return f
	}
	return viper.GetString(config.KeyOutput)
}

// writeOutput renders data in format to path, or to stdout when path is
// empty. Binary formats are never written to a terminal.
func writeOutput(cmd *cobra.Command, format output.Format, data any, path string) error {
	var w io.Writer = cmd.OutOrStdout()
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	} else if format.Binary() && prompt.IsInteractive(os.Stdout) {
		return errors.New("refusing to write a workbook to the terminal (use --file)")
	}

	if err := output.NewFormatter(format).Write(w, data); err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	}
	return nil
}
