// Package reportlist owns the in-memory report list and the refresh, create
// and delete workflows that keep it in step with the report service.
package reportlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/pokereports/pokereports/internal/i18n"
	"github.com/pokereports/pokereports/internal/logx"
	reports "github.com/pokereports/pokereports/sdk/go"
)

// ErrDeleteInProgress is returned when a delete is requested for an id whose
// previous delete has not finished.
var ErrDeleteInProgress = errors.New("delete already in progress")

// Service is the part of the report client the synchronizer drives.
type Service interface {
	List(ctx context.Context) ([]reports.Report, error)
	Create(ctx context.Context, pokemonType string, sampleSize *int) (*reports.Report, error)
	Delete(ctx context.Context, id string) (map[string]any, error)
}

// Snapshot is a consistent copy of the synchronizer state.
type Snapshot struct {
	// Reports is sorted by Direction.
	Reports   []reports.Report
	Loading   bool
	Creating  bool
	Loaded    bool
	Error     string
	Deleting  []string
	Direction SortDirection
}

// Busy reports whether a refresh or create is running.
func (s Snapshot) Busy() bool {
	return s.Loading || s.Creating
}

// IsDeleting reports whether a delete for id is pending.
func (s Snapshot) IsDeleting(id string) bool {
	for _, d := range s.Deleting {
		if d == id {
			return true
		}
	}
	return false
}

// CreateOutcome is the result of the create workflow. The report was created
// whenever it is returned without error; RefreshErr only tells whether the
// follow-up refresh worked.
type CreateOutcome struct {
	Report     *reports.Report
	Reports    []reports.Report
	RefreshErr error
}

// DeleteOutcome is the result of the delete workflow.
type DeleteOutcome struct {
	ID         string
	Response   map[string]any
	Reports    []reports.Report
	RefreshErr error
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithPrinter sets the printer used for the user-facing error message.
func WithPrinter(p *i18n.Printer) Option {
	return func(s *Synchronizer) {
		s.printer = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = logger
	}
}

// WithDirection sets the initial sort direction.
func WithDirection(dir SortDirection) Option {
	return func(s *Synchronizer) {
		s.direction = dir
	}
}

// Synchronizer holds the authoritative local copy of the report list.
//
// Operations may be called from any goroutine and are not queued: when two
// refreshes overlap, whichever finishes last decides the list.
type Synchronizer struct {
	svc     Service
	printer *i18n.Printer
	logger  *slog.Logger

	mu        sync.Mutex
	reports   []reports.Report
	inflight  int
	creating  int
	loaded    bool
	errMsg    string
	deleting  map[string]struct{}
	direction SortDirection
	listeners map[int]func(Snapshot)
	nextID    int
}

// New creates a synchronizer over svc.
func New(svc Service, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		svc:       svc,
		printer:   i18n.Default,
		logger:    slog.Default(),
		deleting:  make(map[string]struct{}),
		listeners: make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn to be called with a fresh snapshot after every
// state change. The returned func removes the subscription.
func (s *Synchronizer) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// update applies fn under the lock and then notifies subscribers.
func (s *Synchronizer) update(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	listeners := make([]func(Snapshot), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

// Snapshot returns a copy of the current state.
func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Synchronizer) snapshotLocked() Snapshot {
	deleting := make([]string, 0, len(s.deleting))
	for id := range s.deleting {
		deleting = append(deleting, id)
	}
	sort.Strings(deleting)

	return Snapshot{
		Reports:   Sort(s.reports, s.direction),
		Loading:   s.inflight > 0,
		Creating:  s.creating > 0,
		Loaded:    s.loaded,
		Error:     s.errMsg,
		Deleting:  deleting,
		Direction: s.direction,
	}
}

// Reports returns the list in the order the service sent it.
func (s *Synchronizer) Reports() []reports.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]reports.Report, len(s.reports))
	copy(out, s.reports)
	return out
}

// Sorted returns a freshly sorted copy of the list.
func (s *Synchronizer) Sorted() []reports.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Sort(s.reports, s.direction)
}

// Direction returns the current sort direction.
func (s *Synchronizer) Direction() SortDirection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.direction
}

// ToggleSort flips the sort direction and returns the new one.
func (s *Synchronizer) ToggleSort() SortDirection {
	var dir SortDirection
	s.update(func() {
		s.direction = s.direction.Toggle()
		dir = s.direction
	})
	return dir
}

// Find returns the report with the given id from the local list.
func (s *Synchronizer) Find(id string) (reports.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reports {
		if r.ReportID == id {
			return r, true
		}
	}
	return reports.Report{}, false
}

// Refresh reloads the list from the service and replaces the local copy.
// On failure the user-facing error is kept in the state and the error is
// returned to the caller as well.
func (s *Synchronizer) Refresh(ctx context.Context) ([]reports.Report, error) {
	s.update(func() {
		s.inflight++
		s.errMsg = ""
	})

	items, err := s.svc.List(ctx)
	if err != nil {
		logx.Logger(ctx, s.logger).Warn("failed to load reports", "error", err)
		s.update(func() {
			s.inflight--
			s.errMsg = s.printer.T(i18n.MsgLoadReportsFailed)
		})
		return nil, fmt.Errorf("refresh reports: %w", err)
	}

	fresh := make([]reports.Report, len(items))
	copy(fresh, items)
	s.update(func() {
		s.inflight--
		s.loaded = true
		s.reports = fresh
	})
	logx.Logger(ctx, s.logger).Debug("reports refreshed", "count", len(fresh))
	return items, nil
}

// Create requests a new report and then refreshes the list so the new
// record shows up. No placeholder row is inserted.
func (s *Synchronizer) Create(ctx context.Context, pokemonType string, sampleSize *int) (*CreateOutcome, error) {
	pokemonType = strings.TrimSpace(pokemonType)
	if pokemonType == "" {
		return nil, &reports.ValidationError{Field: "type", Message: "type is required"}
	}
	if sampleSize != nil && *sampleSize <= 0 {
		return nil, &reports.ValidationError{Field: "sampleSize", Message: s.printer.T(i18n.MsgSampleSizeInvalid)}
	}

	s.update(func() { s.creating++ })
	defer s.update(func() { s.creating-- })

	logger := logx.Logger(ctx, s.logger)
	created, err := s.svc.Create(ctx, pokemonType, sampleSize)
	if err != nil {
		logger.Warn("failed to create report", "type", pokemonType, "error", err)
		return nil, fmt.Errorf("create report: %w", err)
	}
	if created == nil {
		created = &reports.Report{}
	}
	logger.Info("report requested", "type", pokemonType, "report_id", created.ReportID)

	outcome := &CreateOutcome{Report: created}
	outcome.Reports, outcome.RefreshErr = s.Refresh(ctx)
	return outcome, nil
}

// Delete removes a report on the service and refreshes the list. The record
// leaves the local list only through that refresh.
func (s *Synchronizer) Delete(ctx context.Context, id string) (*DeleteOutcome, error) {
	if strings.TrimSpace(id) == "" || id == reports.NotAvailable {
		return nil, reports.ErrReportIDRequired
	}

	var busy bool
	s.update(func() {
		if _, ok := s.deleting[id]; ok {
			busy = true
			return
		}
		s.deleting[id] = struct{}{}
	})
	if busy {
		return nil, fmt.Errorf("delete report %s: %w", id, ErrDeleteInProgress)
	}
	// The id stays pending until the follow-up refresh has finished.
	defer s.update(func() { delete(s.deleting, id) })

	logger := logx.Logger(ctx, s.logger)
	resp, err := s.svc.Delete(ctx, id)
	if err != nil {
		logger.Warn("failed to delete report", "report_id", id, "error", err)
		return nil, fmt.Errorf("delete report %s: %w", id, err)
	}
	logger.Info("report deleted", "report_id", id)

	outcome := &DeleteOutcome{ID: id, Response: resp}
	outcome.Reports, outcome.RefreshErr = s.Refresh(ctx)
	return outcome, nil
}
