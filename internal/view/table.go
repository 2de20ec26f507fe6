// Package view turns synchronizer snapshots into the report table shown to
// the user.
package view

import (
	"strings"

	"github.com/pokereports/pokereports/internal/i18n"
	"github.com/pokereports/pokereports/internal/reportlist"
	reports "github.com/pokereports/pokereports/sdk/go"
)

// Headers are the table column labels, in order.
var Headers = []string{"ReportId", "Status", "PokemonType", "Created", "Updated", "Action"}

// skeletonRows is the number of placeholder rows shown while loading.
const skeletonRows = 3

// Action is a row action.
type Action string

const (
	ActionDownload Action = "download"
	ActionDelete   Action = "delete"
)

// Row is one rendered report.
type Row struct {
	ReportID    string
	Status      string
	PokemonType string
	Created     string
	Updated     string
	URL         string

	// Completed drives the status badge and the download action.
	Completed bool
	// Deleting disables the delete action.
	Deleting bool
}

// Actions returns the actions available on the row. Delete is always listed;
// use Deleting to tell whether it is pending.
func (r Row) Actions() []Action {
	if r.Completed {
		return []Action{ActionDownload, ActionDelete}
	}
	return []Action{ActionDelete}
}

// Badge returns the status cell text.
func (r Row) Badge() string {
	if r.Completed {
		return "● " + r.Status
	}
	return "○ " + r.Status
}

// ActionLabel renders the action cell.
func (r Row) ActionLabel() string {
	parts := make([]string, 0, 2)
	for _, a := range r.Actions() {
		label := string(a)
		if a == ActionDelete && r.Deleting {
			label += "…"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}

// Cells returns the row as table cells, with missing values shown as N/A.
func (r Row) Cells() []string {
	return []string{r.ReportID, r.Badge(), r.PokemonType, r.Created, r.Updated, r.ActionLabel()}
}

// Table is the presentation model for one snapshot.
type Table struct {
	Caption   string
	SortLabel string
	Error     string

	// Loading replaces the body with skeleton rows.
	Loading bool
	// Empty is set when loaded and there are no reports; Message holds the
	// single row text.
	Empty   bool
	Message string

	Rows []Row
}

// Build creates the table for snap.
func Build(snap reportlist.Snapshot, p *i18n.Printer) Table {
	t := Table{
		Caption:   p.T(i18n.MsgCaption),
		SortLabel: SortLabel(snap.Direction, p),
		Error:     snap.Error,
		Loading:   snap.Loading,
	}
	if t.Loading {
		return t
	}
	if len(snap.Reports) == 0 {
		t.Empty = true
		t.Message = p.T(i18n.MsgNoReports)
		return t
	}

	t.Rows = make([]Row, 0, len(snap.Reports))
	for _, r := range snap.Reports {
		t.Rows = append(t.Rows, NewRow(r, snap.IsDeleting(r.ReportID)))
	}
	return t
}

// NewRow renders one report.
func NewRow(r reports.Report, deleting bool) Row {
	return Row{
		ReportID:    orNA(r.ReportID),
		Status:      orNA(r.Status),
		PokemonType: orNA(r.PokemonType),
		Created:     orNA(r.Created),
		Updated:     orNA(r.Updated),
		URL:         r.URL,
		Completed:   r.IsCompleted(),
		Deleting:    deleting,
	}
}

// Skeleton returns the placeholder rows shown while loading.
func Skeleton() [][]string {
	rows := make([][]string, skeletonRows)
	for i := range rows {
		row := make([]string, len(Headers))
		for j := range row {
			row[j] = "░░░░"
		}
		rows[i] = row
	}
	return rows
}

// SortLabel names the direction for the sort toggle.
func SortLabel(dir reportlist.SortDirection, p *i18n.Printer) string {
	if dir == reportlist.Ascending {
		return p.T(i18n.MsgOldestFirst)
	}
	return p.T(i18n.MsgNewestFirst)
}

// Records returns the rows as plain values (no badge or action decoration)
// for export formats.
func (t Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, []string{r.ReportID, r.Status, r.PokemonType, r.Created, r.Updated, r.URL})
	}
	return out
}

// RecordHeaders are the column names matching Records.
var RecordHeaders = []string{"reportId", "status", "pokemonType", "created", "updated", "url"}

func orNA(s string) string {
	if s == "" {
		return reports.NotAvailable
	}
	return s
}
