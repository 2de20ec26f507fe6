package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/pokereports/pokereports/internal/view"
	reports "github.com/pokereports/pokereports/sdk/go"
)

// TableFormatter formats output as a table
type TableFormatter struct {
	// Plain drops the caption, sort label and error banner.
	Plain bool
}

// Write outputs the data as a table. It understands view.Table, report
// values, string lists (one per row) and string maps.
func (f *TableFormatter) Write(w io.Writer, data any) error {
	switch v := data.(type) {
	case view.Table:
		return f.writeReportTable(w, v)
	case *view.Table:
		return f.writeReportTable(w, *v)
	case reports.Report:
		return f.writeReport(w, v)
	case *reports.Report:
		return f.writeReport(w, *v)
	case []string:
		if len(v) == 0 {
			fmt.Fprintln(w, "No items found")
			return nil
		}
		rows := make([][]string, len(v))
		for i, s := range v {
			rows[i] = []string{fmt.Sprintf("%d", i+1), s}
		}
		render(w, []string{"#", "NAME"}, rows)
		return nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		rows := make([][]string, len(keys))
		for i, k := range keys {
			rows[i] = []string{k, fmt.Sprintf("%v", v[k])}
		}
		render(w, []string{"KEY", "VALUE"}, rows)
		return nil
	default:
		_, err := fmt.Fprintf(w, "%v\n", data)
		return err
	}
}

func (f *TableFormatter) writeReportTable(w io.Writer, t view.Table) error {
	if !f.Plain {
		if t.Error != "" {
			fmt.Fprintf(w, "Error: %s\n\n", t.Error)
		}
		fmt.Fprintf(w, "Reports (%s)\n", t.SortLabel)
	}

	switch {
	case t.Loading:
		render(w, view.Headers, view.Skeleton())
	case t.Empty:
		render(w, view.Headers, nil)
		fmt.Fprintln(w, t.Message)
	default:
		rows := make([][]string, len(t.Rows))
		for i, r := range t.Rows {
			rows[i] = r.Cells()
		}
		render(w, view.Headers, rows)
	}

	if !f.Plain && t.Caption != "" {
		fmt.Fprintln(w, t.Caption)
	}
	return nil
}

func (f *TableFormatter) writeReport(w io.Writer, r reports.Report) error {
	row := view.NewRow(r, false)
	rows := [][]string{
		{"reportId", row.ReportID},
		{"status", row.Status},
		{"pokemonType", row.PokemonType},
		{"created", row.Created},
		{"updated", row.Updated},
	}
	if r.URL != "" {
		rows = append(rows, []string{"url", r.URL})
	}
	keys := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, []string{k, fmt.Sprintf("%v", r.Extra[k])})
	}
	render(w, []string{"FIELD", "VALUE"}, rows)
	return nil
}

func render(w io.Writer, headers []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(rows)
	table.Render()
}
