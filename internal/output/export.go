package output

import "github.com/pokereports/pokereports/internal/view"

// exportable maps presentation values onto the data they show so that
// structured formats never carry badges or action labels.
func exportable(data any) any {
	switch v := data.(type) {
	case view.Table:
		return tableRecords(v)
	case *view.Table:
		return tableRecords(*v)
	}
	return data
}

func tableRecords(t view.Table) []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, rec := range t.Records() {
		m := make(map[string]string, len(rec))
		for i, h := range view.RecordHeaders {
			m[h] = rec[i]
		}
		out = append(out, m)
	}
	return out
}
