package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokereports/pokereports/internal/logx"
	"github.com/pokereports/pokereports/internal/stubserver"
	reports "github.com/pokereports/pokereports/sdk/go"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func startStub(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(stubserver.New(stubserver.Config{Envelope: stubserver.EnvelopeResults}).Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestReportCommands(t *testing.T) {
	url := startStub(t)

	out, err := execute(t, "-s", url, "report", "create", "--type", "fire", "--sample-size", "2", "-q")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	out, err = execute(t, "-s", url, "report", "list", "-o", "json")
	require.NoError(t, err)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, id, listed[0]["reportId"])

	out, err = execute(t, "-s", url, "report", "list", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, id)

	target := filepath.Join(t.TempDir(), "report.csv")
	_, err = execute(t, "-s", url, "report", "download", id, target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "charmander")

	out, err = execute(t, "-s", url, "report", "delete", id, "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Report deleted successfully")

	_, err = execute(t, "-s", url, "report", "delete", id, "--force")
	assert.Error(t, err)
}

func TestReportCreateRejectsBadSampleSize(t *testing.T) {
	url := startStub(t)
	_, err := execute(t, "-s", url, "report", "create", "--type", "fire", "--sample-size", "1.5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a positive integer")
	sampleSizeFlag = ""
}

func TestTypesList(t *testing.T) {
	url := startStub(t)
	out, err := execute(t, "-s", url, "--types-url", url+"/api/types", "types", "list", "-o", "json")
	require.NoError(t, err)
	var names []string
	require.NoError(t, json.Unmarshal([]byte(out), &names))
	assert.Equal(t, stubserver.Types, names)
	outputFormat = ""
}

func TestAllCompleted(t *testing.T) {
	assert.False(t, allCompleted(nil))
	assert.False(t, allCompleted([]reports.Report{{Status: "completed"}, {Status: "pending"}}))
	assert.True(t, allCompleted([]reports.Report{{Status: "COMPLETED"}}))
}

func TestGetContextCarriesOneRequestID(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	ctx, cancel := getContext(cmd)
	defer cancel()
	assert.True(t, logx.IsUUIDv4(logx.RequestIDFromContext(ctx)))

	cmd.SetContext(logx.WithRequestID(context.Background(), "given"))
	ctx, cancel = getContext(cmd)
	defer cancel()
	assert.Equal(t, "given", logx.RequestIDFromContext(ctx))
}

func TestDownloadFileNameStaysInDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, reports.DownloadFileName("../../etc/x"))
	assert.Equal(t, dir, filepath.Dir(path))
}
