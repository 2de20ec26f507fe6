package reports

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

var typeEnvelopeKeys = []string{"results", "data", "types"}

// TypeService reads the vocabulary of report type names.
type TypeService struct {
	client *Client
}

// List returns the type names in the order the vocabulary endpoint sent
// them, without blanks or duplicates.
func (s *TypeService) List(ctx context.Context) ([]string, error) {
	const op = "list types"
	data, err := s.client.doBody(ctx, op, http.MethodGet, s.client.typesURL, nil)
	if err != nil {
		return nil, err
	}

	v, err := decodeJSON(data)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return NormalizeTypes(v), nil
}

// NormalizeTypes accepts ["fire", ...], [{"name": "fire"}, ...] or either
// wrapped under "results", "data" or "types".
func NormalizeTypes(v any) []string {
	items := unwrapList(v, typeEnvelopeKeys)
	seen := make(map[string]bool, len(items))
	names := make([]string, 0, len(items))
	for _, item := range items {
		var name string
		switch t := item.(type) {
		case string:
			name = t
		case map[string]any:
			if key, ok := LookupKey(t, "name"); ok {
				name = stringify(t[key])
			}
		}
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
