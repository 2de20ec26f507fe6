// Package session runs the interactive report page in a terminal: a type
// selector, a sample-size field, a create action and the report table with
// its download and delete row actions.
package session

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/pokereports/pokereports/internal/i18n"
	"github.com/pokereports/pokereports/internal/lifecycle"
	"github.com/pokereports/pokereports/internal/logx"
	"github.com/pokereports/pokereports/internal/notify"
	"github.com/pokereports/pokereports/internal/output"
	"github.com/pokereports/pokereports/internal/prompt"
	"github.com/pokereports/pokereports/internal/reportlist"
	"github.com/pokereports/pokereports/internal/selection"
	"github.com/pokereports/pokereports/internal/view"
	reports "github.com/pokereports/pokereports/sdk/go"
)

const defaultQuitTimeout = 30 * time.Second

// ReportService is the report client the session drives.
type ReportService interface {
	reportlist.Service
	Download(ctx context.Context, report reports.Report, w io.Writer) (int64, error)
}

// TypeLister loads the type vocabulary.
type TypeLister interface {
	List(ctx context.Context) ([]string, error)
}

// Config configures a Session.
type Config struct {
	Reports ReportService
	Types   TypeLister

	In  io.Reader
	Out io.Writer

	Printer  *i18n.Printer
	Logger   *slog.Logger
	Notifier notify.Notifier

	// AutoRefresh reloads the list at most once per interval when > 0.
	AutoRefresh time.Duration
	// DownloadDir is where downloads go when no path is given.
	DownloadDir string
	// QuitTimeout bounds how long quit waits for running actions.
	QuitTimeout time.Duration
}

// Session is one interactive page.
type Session struct {
	cfg      Config
	printer  *i18n.Printer
	logger   *slog.Logger
	notifier notify.Notifier
	out      *lockedWriter
	input    *bufio.Scanner

	readerOnce sync.Once
	lines      chan inputLine

	list     *reportlist.Synchronizer
	sel      *selection.State
	drain    *lifecycle.DrainManager
	table    *output.TableFormatter
	types    atomic.Bool
	typesErr atomic.Value
	// creating is set from the moment create is accepted until its
	// workflow returns.
	creating atomic.Bool
}

type inputLine struct {
	text string
	err  error
}

// New creates a session. Nil printer, logger and notifier fall back to
// English, slog.Default and a notifier printing to Out.
func New(cfg Config) *Session {
	if cfg.Printer == nil {
		cfg.Printer = i18n.Default
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = "."
	}
	if cfg.QuitTimeout <= 0 {
		cfg.QuitTimeout = defaultQuitTimeout
	}

	out := &lockedWriter{w: cfg.Out}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.NewWriter(out, cfg.Logger)
	}

	s := &Session{
		cfg:      cfg,
		printer:  cfg.Printer,
		logger:   cfg.Logger.With("component", "session"),
		notifier: cfg.Notifier,
		out:      out,
		input:    bufio.NewScanner(cfg.In),
		lines:    make(chan inputLine),
		sel:      selection.New(cfg.Printer),
		drain:    lifecycle.NewDrainManager(),
		table:    &output.TableFormatter{},
	}
	s.list = reportlist.New(cfg.Reports,
		reportlist.WithPrinter(cfg.Printer),
		reportlist.WithLogger(cfg.Logger.With("component", "reportlist")),
	)
	s.typesErr.Store("")
	return s
}

// Synchronizer exposes the report list the session renders.
func (s *Session) Synchronizer() *reportlist.Synchronizer {
	return s.list
}

// Selection exposes the selected type and sample size.
func (s *Session) Selection() *selection.State {
	return s.sel
}

// Run loads the page, then reads commands until quit, end of input or ctx
// is cancelled. Running actions are given QuitTimeout to finish.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.start(ctx)
	if s.cfg.AutoRefresh > 0 {
		go s.autoRefresh(ctx, s.cfg.AutoRefresh)
	}

	s.printf("%s\n", helpText)
	for {
		s.printf("> ")
		line, err := s.readLine(ctx)
		if err != nil {
			break
		}
		quit, err := s.Execute(ctx, line)
		if err != nil {
			s.printf("Error: %v\n", err)
		}
		if quit || ctx.Err() != nil {
			break
		}
	}

	return s.Close()
}

// Close stops accepting actions and waits for the running ones.
func (s *Session) Close() error {
	s.drain.StartDraining()
	waitCtx, cancel := context.WithTimeout(context.Background(), s.cfg.QuitTimeout)
	defer cancel()
	if err := s.drain.Wait(waitCtx); err != nil {
		s.logger.Warn("quit before actions finished", "active", s.drain.Active())
		return err
	}
	return nil
}

// Wait blocks until every running action has finished.
func (s *Session) Wait(ctx context.Context) error {
	return s.drain.Wait(ctx)
}

// start loads the vocabulary and the report list concurrently.
func (s *Session) start(ctx context.Context) {
	s.types.Store(true)
	typesCtx := actionContext(ctx)
	s.spawn(func() {
		defer s.types.Store(false)
		s.loadTypes(typesCtx)
	})
	refreshCtx := actionContext(ctx)
	s.spawn(func() {
		_, _ = s.list.Refresh(refreshCtx)
	})
}

// actionContext gives one user action its own request id, shared by the
// log lines and the service calls it makes.
func actionContext(ctx context.Context) context.Context {
	return logx.WithRequestID(ctx, uuid.NewString())
}

func (s *Session) loadTypes(ctx context.Context) {
	if s.cfg.Types == nil {
		return
	}
	names, err := s.cfg.Types.List(ctx)
	if err != nil {
		logx.Logger(ctx, s.logger).Warn("failed to load types", "error", err)
		s.typesErr.Store(s.printer.T(i18n.MsgLoadTypesFailed))
		return
	}
	s.typesErr.Store("")
	s.sel.SetVocabulary(names)
}

// autoRefresh reloads the list on a rate limit, skipping a turn while a
// refresh is already running.
func (s *Session) autoRefresh(ctx context.Context, every time.Duration) {
	limiter := rate.NewLimiter(rate.Every(every), 1)
	// The first token is spent by the initial load.
	limiter.Allow()
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		if s.list.Snapshot().Loading {
			continue
		}
		refreshCtx := actionContext(ctx)
		if err := s.drain.Go(func() { _, _ = s.list.Refresh(refreshCtx) }); err != nil {
			return
		}
	}
}

func (s *Session) spawn(fn func()) bool {
	if err := s.drain.Go(fn); err != nil {
		s.logger.Debug("action rejected", "error", err)
		return false
	}
	return true
}

// readLine returns the next input line, or ctx.Err() as soon as ctx is done.
// Input is read by a single goroutine so a blocked read never holds up an
// interrupt. That goroutine is left behind when the session ends while it is
// still waiting on In.
func (s *Session) readLine(ctx context.Context) (string, error) {
	s.readerOnce.Do(func() {
		go s.readInput()
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		return line.text, line.err
	}
}

func (s *Session) readInput() {
	defer close(s.lines)
	for s.input.Scan() {
		s.lines <- inputLine{text: s.input.Text()}
	}
	if err := s.input.Err(); err != nil {
		s.lines <- inputLine{err: err}
	}
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// typesError returns the vocabulary load error shown in the banner.
func (s *Session) typesError() string {
	msg, _ := s.typesErr.Load().(string)
	return msg
}

// busy mirrors the disabled state of the create button.
func (s *Session) busy() bool {
	return s.types.Load() || s.creating.Load() || s.list.Snapshot().Busy()
}

// Render writes the current page: error banner, selection and table.
func (s *Session) Render() {
	snap := s.list.Snapshot()
	table := view.Build(snap, s.printer)
	if table.Error == "" {
		table.Error = s.typesError()
	}

	var buf bytes.Buffer
	raw, sizeErr := s.sel.SampleSize()
	selected := s.sel.Selected()
	if selected == "" {
		selected = "-"
	}
	fmt.Fprintf(&buf, "type: %s  sample size: %s", selected, orDash(raw))
	if sizeErr != "" {
		fmt.Fprintf(&buf, " (%s)", sizeErr)
	}
	buf.WriteString("\n")
	switch {
	case snap.Creating || s.creating.Load():
		fmt.Fprintf(&buf, "[%s]\n", s.printer.T(i18n.MsgCreating))
	case s.busy():
		fmt.Fprintf(&buf, "[%s]\n", s.printer.T(i18n.MsgLoading))
	}
	_ = s.table.Write(&buf, table)
	_, _ = s.out.Write(buf.Bytes())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Execute runs one command line. It returns true when the session should
// end.
func (s *Session) Execute(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "help", "?":
		s.printf("%s\n", helpText)
	case "quit", "exit", "q":
		return true, nil
	case "types":
		s.showTypes()
	case "type":
		s.printf("type: %s\n", orDash(s.sel.Select(strings.Join(args, " "))))
	case "size":
		s.setSize(args)
	case "create":
		s.create(ctx)
	case "refresh":
		s.refresh(ctx)
	case "sort":
		s.list.ToggleSort()
		s.Render()
	case "show", "ls":
		s.Render()
	case "delete", "rm":
		s.delete(ctx, strings.Join(args, " "))
	case "download":
		s.download(ctx, args)
	case "wait":
		if err := s.drain.Wait(ctx); err != nil {
			return false, err
		}
		s.Render()
	default:
		return false, fmt.Errorf("unknown command %q (type help)", name)
	}
	return false, nil
}

func (s *Session) showTypes() {
	if msg := s.typesError(); msg != "" {
		s.notifier.Error(msg)
		return
	}
	if s.types.Load() {
		s.printf("%s\n", s.printer.T(i18n.MsgLoading))
		return
	}
	var buf bytes.Buffer
	_ = s.table.Write(&buf, s.sel.Vocabulary())
	_, _ = s.out.Write(buf.Bytes())
}

func (s *Session) setSize(args []string) {
	raw := strings.Join(args, " ")
	if raw == "-" {
		raw = ""
	}
	if msg := s.sel.SetSampleSize(raw); msg != "" {
		s.printf("sample size: %s (%s)\n", raw, msg)
		return
	}
	s.printf("sample size: %s\n", orDash(raw))
}

func (s *Session) create(ctx context.Context) {
	if ok, reason := s.sel.CanCreate(s.busy()); !ok {
		s.notifier.Error(s.printer.T(i18n.MsgCreateDisabled, reason))
		return
	}
	pokemonType, size, err := s.sel.Request()
	if err != nil {
		var verr *reports.ValidationError
		if errors.As(err, &verr) {
			s.notifier.Error(verr.Message)
			return
		}
		s.notifier.Error(err.Error())
		return
	}

	if !s.creating.CompareAndSwap(false, true) {
		_, reason := s.sel.CanCreate(true)
		s.notifier.Error(s.printer.T(i18n.MsgCreateDisabled, reason))
		return
	}

	ctx = actionContext(ctx)
	started := s.spawn(func() {
		defer s.creating.Store(false)
		outcome, err := s.list.Create(ctx, pokemonType, size)
		if err != nil {
			s.notifier.Error(s.printer.T(i18n.MsgCreateFailed))
			return
		}
		s.notifier.Success(s.printer.T(i18n.MsgReportCreated, pokemonType))
		if outcome.RefreshErr != nil {
			s.notifier.Error(s.printer.T(i18n.MsgRefreshFailedAfter))
		}
	})
	if !started {
		s.creating.Store(false)
	}
}

func (s *Session) refresh(ctx context.Context) {
	ctx = actionContext(ctx)
	s.spawn(func() {
		if _, err := s.list.Refresh(ctx); err != nil {
			s.notifier.Error(s.printer.T(i18n.MsgRefreshFailed))
			return
		}
		s.notifier.Success(s.printer.T(i18n.MsgReportsRefreshed))
	})
}

func (s *Session) delete(ctx context.Context, id string) {
	id = strings.TrimSpace(id)
	if id == "" || id == reports.NotAvailable {
		s.notifier.Error(s.printer.T(i18n.MsgReportIDMissing))
		return
	}
	if _, ok := s.list.Find(id); !ok {
		s.notifier.Error(s.printer.T(i18n.MsgUnknownReport, id))
		return
	}
	if s.list.Snapshot().IsDeleting(id) {
		s.notifier.Error(s.printer.T(i18n.MsgDeleteInProgress, id))
		return
	}

	answer := func() (string, error) { return s.readLine(ctx) }
	if !prompt.DeleteDialog(s.printer, id).Ask(s.out, answer) {
		s.printf("%s\n", s.printer.T(i18n.MsgCancelled))
		return
	}

	ctx = actionContext(ctx)
	s.spawn(func() {
		if _, err := s.list.Delete(ctx, id); err != nil {
			if errors.Is(err, reportlist.ErrDeleteInProgress) {
				s.notifier.Error(s.printer.T(i18n.MsgDeleteInProgress, id))
				return
			}
			s.notifier.Error(s.printer.T(i18n.MsgDeleteFailed))
			return
		}
		s.notifier.Success(s.printer.T(i18n.MsgReportDeleted))
	})
}

func (s *Session) download(ctx context.Context, args []string) {
	if len(args) == 0 {
		s.notifier.Error(s.printer.T(i18n.MsgReportIDMissing))
		return
	}
	id := args[0]
	report, ok := s.list.Find(id)
	if !ok {
		s.notifier.Error(s.printer.T(i18n.MsgUnknownReport, id))
		return
	}
	if !report.IsCompleted() || report.URL == "" || report.URL == reports.NotAvailable {
		s.notifier.Error(s.printer.T(i18n.MsgDownloadMissing))
		return
	}

	path := filepath.Join(s.cfg.DownloadDir, reports.DownloadFileName(id))
	if len(args) > 1 {
		path = args[1]
	}

	ctx = actionContext(ctx)
	s.spawn(func() {
		if err := saveReport(ctx, s.cfg.Reports, report, path); err != nil {
			logx.Logger(ctx, s.logger).Warn("failed to download report", "report_id", id, "error", err)
			s.notifier.Error(s.printer.T(i18n.MsgDownloadFailed))
			return
		}
		s.notifier.Success(s.printer.T(i18n.MsgDownloadSaved, id, path))
	})
}

// saveReport downloads report into path, removing the file if the transfer
// fails.
func saveReport(ctx context.Context, svc ReportService, report reports.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	_, err = svc.Download(ctx, report, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

const helpText = `Commands:
  types                  list report types
  type <name|#>          select a type
  size <n|->             set the sample size (- clears it)
  create                 request a report for the selected type
  refresh                reload the report list
  sort                   toggle newest/oldest first
  show                   show the report table
  delete <id>            delete a report
  download <id> [path]   save a completed report as CSV
  wait                   wait for running actions
  help                   show this help
  quit                   leave the session`
