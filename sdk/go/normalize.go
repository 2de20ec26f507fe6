package reports

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Envelope keys a list response may be wrapped in, in lookup order.
var listEnvelopeKeys = []string{"results", "data"}

// reportFields maps wire keys to the Report setters, in display order.
var reportFields = []struct {
	key string
	set func(*Report, string)
}{
	{"reportId", func(r *Report, v string) { r.ReportID = v }},
	{"status", func(r *Report, v string) { r.Status = v }},
	{"pokemonType", func(r *Report, v string) { r.PokemonType = v }},
	{"created", func(r *Report, v string) { r.Created = v }},
	{"updated", func(r *Report, v string) { r.Updated = v }},
	{"url", func(r *Report, v string) { r.URL = v }},
}

// decodeJSON decodes a body keeping numbers as their literal text.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// unwrapList extracts the item list from a bare array or from an object
// carrying it under one of the envelope keys. Anything else is an empty list.
func unwrapList(v any, keys []string) []any {
	switch t := v.(type) {
	case []any:
		return t
	case map[string]any:
		for _, k := range keys {
			if items, ok := t[k].([]any); ok {
				return items
			}
		}
	}
	return nil
}

// NormalizeReports converts a decoded list payload into reports. Entries that
// are not objects are dropped.
func NormalizeReports(v any, logger *slog.Logger) []Report {
	items := unwrapList(v, listEnvelopeKeys)
	out := make([]Report, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			if logger != nil {
				logger.Debug("skipping non-object report entry", "index", i, "type", fmt.Sprintf("%T", item))
			}
			continue
		}
		out = append(out, NormalizeReport(obj))
	}
	return out
}

// NormalizeReport maps one wire object onto Report. Keys are matched exactly
// first, then ignoring case, then ignoring case and '_'/'-' separators.
func NormalizeReport(obj map[string]any) Report {
	var r Report
	used := make(map[string]bool, len(reportFields))
	for _, f := range reportFields {
		key, ok := LookupKey(obj, f.key)
		if !ok {
			continue
		}
		used[key] = true
		f.set(&r, stringify(obj[key]))
	}
	for k, v := range obj {
		if used[k] {
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]any)
		}
		r.Extra[k] = v
	}
	return r
}

// LookupKey finds the key in obj that stands for name.
func LookupKey(obj map[string]any, name string) (string, bool) {
	if _, ok := obj[name]; ok {
		return name, true
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if strings.EqualFold(k, name) {
			return k, true
		}
	}
	folded := foldSeparators(name)
	for _, k := range keys {
		if foldSeparators(k) == folded {
			return k, true
		}
	}
	return "", false
}

// GetField returns the string value for name, or NotAvailable when missing.
func GetField(obj map[string]any, name string) string {
	key, ok := LookupKey(obj, name)
	if !ok || obj[key] == nil {
		return NotAvailable
	}
	return stringify(obj[key])
}

func foldSeparators(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer("_", "", "-", "").Replace(s)
}

// stringify renders a decoded JSON value as text. null becomes "".
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
