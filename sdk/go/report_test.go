package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL), srv
}

func TestListAcceptsEveryEnvelope(t *testing.T) {
	cases := map[string]string{
		"array":   `[{"reportId":"1","status":"Completed","updated":"2024-01-02"}]`,
		"results": `{"results":[{"reportId":"1","status":"Completed","updated":"2024-01-02"}]}`,
		"data":    `{"data":[{"reportId":"1","status":"Completed","updated":"2024-01-02"}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/api/request", r.URL.Path)
				_, _ = io.WriteString(w, body)
			})

			items, err := client.Report.List(context.Background())
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, "1", items[0].ReportID)
			assert.Equal(t, "Completed", items[0].Status)
			assert.True(t, items[0].IsCompleted())
		})
	}
}

func TestListUnknownEnvelopeIsEmpty(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"items":[{"reportId":"1"}],"results":null}`)
	})

	items, err := client.Report.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListResultsTakesPrecedenceOverData(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"results":[{"reportId":"r"}],"data":[{"reportId":"d"}]}`)
	})

	items, err := client.Report.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "r", items[0].ReportID)
}

func TestListHTTPErrorCarriesStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":"maintenance"}`)
	})

	_, err := client.Report.List(context.Background())
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusServiceUnavailable, te.StatusCode)
	assert.Equal(t, "Service Unavailable", te.Status)
	assert.Equal(t, "maintenance", te.Detail)
	assert.Contains(t, err.Error(), "503 - Service Unavailable")
	assert.True(t, IsTransport(err))
	assert.False(t, IsValidation(err))
}

func TestListNotFoundMatchesSentinel(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.Report.List(context.Background())
	assert.True(t, IsNotFound(err))
	assert.False(t, IsBadRequest(err))
}

func TestListNetworkFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Report.List(context.Background())
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Zero(t, te.StatusCode)
	assert.NotNil(t, te.Unwrap())
}

func TestListUndecodableBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>oops</html>`)
	})

	_, err := client.Report.List(context.Background())
	assert.True(t, IsTransport(err))
}

func TestCreateSendsContractBody(t *testing.T) {
	var got map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/request", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"ReportID":"42","Status":"pending","pokemon_type":"fire"}`)
	})

	size := 25
	report, err := client.Report.Create(context.Background(), "fire", &size)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "fire", "sampleSize": float64(25)}, got)
	assert.Equal(t, "42", report.ReportID)
	assert.Equal(t, "pending", report.Status)
	assert.Equal(t, "fire", report.PokemonType)
}

func TestCreateOmitsUnspecifiedSampleSize(t *testing.T) {
	var raw []byte
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	})

	report, err := client.Report.Create(context.Background(), "water", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"water"}`, string(raw))
	assert.Equal(t, Report{}, *report)
}

func TestCreateFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := client.Report.Create(context.Background(), "fire", nil)
	assert.True(t, IsBadRequest(err))
	assert.Contains(t, err.Error(), "create report")
}

func TestDeleteBlankIDNeverCallsServer(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	for _, id := range []string{"", "   "} {
		_, err := client.Report.Delete(context.Background(), id)
		assert.ErrorIs(t, err, ErrReportIDRequired)
		assert.True(t, IsValidation(err))
	}
	assert.Zero(t, calls.Load())
}

func TestDeleteToleratesMissingBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/request/a%2Fb", r.URL.EscapedPath())
		w.WriteHeader(http.StatusOK)
	})

	result, err := client.Report.Delete(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestDeleteReturnsBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"deleted":true}`)
	})

	result, err := client.Report.Delete(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"deleted": true}, result)
}

func TestDeleteFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Report.Delete(context.Background(), "7")
	assert.ErrorIs(t, err, ErrInternal)
}

func TestDownloadResolvesRelativeURL(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/1.csv", r.URL.Path)
		_, _ = io.WriteString(w, "name,type\ncharmander,fire\n")
	})

	var buf bytes.Buffer
	n, err := client.Report.Download(context.Background(), Report{ReportID: "1", Status: "COMPLETED", URL: "/files/1.csv"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, "name,type\ncharmander,fire\n", buf.String())
}

func TestDownloadRequiresCompletedReportWithURL(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	_, err := client.Report.Download(context.Background(), Report{ReportID: "1", Status: "pending", URL: "x"}, io.Discard)
	assert.True(t, IsValidation(err))

	_, err = client.Report.Download(context.Background(), Report{ReportID: "1", Status: "completed"}, io.Discard)
	assert.ErrorIs(t, err, ErrDownloadUnavailable)
}

func TestWaitForCompletion(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		status := "pending"
		if calls.Add(1) >= 3 {
			status = "completed"
		}
		_ = json.NewEncoder(w).Encode([]map[string]string{{"reportId": "9", "status": status}})
	})

	report, err := client.Report.WaitForCompletion(context.Background(), "9", 5*time.Millisecond, time.Second)
	require.NoError(t, err)
	assert.True(t, report.IsCompleted())
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestWaitForCompletionMissingReport(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})

	_, err := client.Report.WaitForCompletion(context.Background(), "9", 5*time.Millisecond, time.Second)
	assert.True(t, IsNotFound(err))
}

func TestRequestIDFromContextIsForwarded(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-1", r.Header.Get(RequestIDHeader))
		_, _ = io.WriteString(w, `[]`)
	})

	_, err := client.Report.List(ContextWithRequestID(context.Background(), "req-1"))
	require.NoError(t, err)
}

func TestBaseURLWithPathPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/proxy/api/request", r.URL.Path)
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL + "/proxy/").Report.List(context.Background())
	require.NoError(t, err)
}
