package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const reportsPath = "api/request"

// ReportService handles report operations.
type ReportService struct {
	client *Client
}

// List retrieves all reports. The service may answer with a bare array or
// wrap it under "results" or "data".
func (s *ReportService) List(ctx context.Context) ([]Report, error) {
	const op = "list reports"
	data, err := s.client.doBody(ctx, op, http.MethodGet, reportsPath, nil)
	if err != nil {
		return nil, err
	}

	v, err := decodeJSON(data)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return NormalizeReports(v, s.client.logger), nil
}

// Create asks the service to generate a report for pokemonType. A nil
// sampleSize leaves the size up to the service.
func (s *ReportService) Create(ctx context.Context, pokemonType string, sampleSize *int) (*Report, error) {
	const op = "create report"
	req := &CreateReportRequest{
		Type:       pokemonType,
		SampleSize: sampleSize,
	}
	data, err := s.client.doBody(ctx, op, http.MethodPost, reportsPath, req)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return &Report{}, nil
	}
	v, err := decodeJSON(data)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		// Shape is not validated; keep what can be kept.
		return &Report{Extra: map[string]any{"body": v}}, nil
	}
	r := NormalizeReport(obj)
	return &r, nil
}

// Delete removes a report. Some servers answer with no body, so a body that
// does not parse is returned as an empty result.
func (s *ReportService) Delete(ctx context.Context, id string) (map[string]any, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrReportIDRequired
	}

	data, err := s.client.doBody(ctx, "delete report", http.MethodDelete, s.client.buildPath("api", "request", id), nil)
	if err != nil {
		return nil, err
	}

	result := map[string]any{}
	if err := json.Unmarshal(data, &result); err != nil || result == nil {
		return map[string]any{}, nil
	}
	return result, nil
}

// Download streams the report file to w and returns the number of bytes
// written. The report must be completed and carry a url.
func (s *ReportService) Download(ctx context.Context, report Report, w io.Writer) (int64, error) {
	const op = "download report"
	if !report.IsCompleted() {
		return 0, &ValidationError{Field: "status", Message: fmt.Sprintf("report %s is not completed", displayID(report))}
	}
	target := strings.TrimSpace(report.URL)
	if target == "" || target == NotAvailable {
		return 0, ErrDownloadUnavailable
	}

	resp, err := s.client.doRequest(ctx, op, http.MethodGet, target, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, handleErrorResponse(op, resp)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &TransportError{Op: op, StatusCode: resp.StatusCode, Status: statusText(resp), Err: err}
	}
	return n, nil
}

// Find lists the reports and returns the one with the given id.
func (s *ReportService) Find(ctx context.Context, id string) (*Report, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrReportIDRequired
	}
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ReportID == id {
			return &items[i], nil
		}
	}
	return nil, &TransportError{
		Op:         "find report",
		StatusCode: http.StatusNotFound,
		Status:     http.StatusText(http.StatusNotFound),
		Detail:     fmt.Sprintf("report %s not in list", id),
	}
}

// WaitForCompletion polls until the report is completed.
// pollInterval is the time between checks (default 2s).
// timeout is the maximum wait time (default 5m).
func (s *ReportService) WaitForCompletion(ctx context.Context, id string, pollInterval, timeout time.Duration) (*Report, error) {
	if pollInterval == 0 {
		pollInterval = 2 * time.Second
	}
	if timeout == 0 {
		timeout = 5 * time.Minute
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		report, err := s.Find(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("timeout waiting for report %s to complete", id)
			}
			return nil, err
		}
		if report.IsCompleted() {
			return report, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("timeout waiting for report %s to complete", id)
		case <-ticker.C:
		}
	}
}

func displayID(r Report) string {
	if r.ReportID == "" {
		return NotAvailable
	}
	return r.ReportID
}
