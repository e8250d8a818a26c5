//go:build database

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/casewatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestCasewatchWithMySQL tests the export history with a MySQL backend.
func TestCasewatchWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "casewatch",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/casewatch?parseTime=true", host, port.Port())
	exerciseHistory(t, []string{
		"CASEWATCH_HISTORY_BACKEND=mysql",
		"CASEWATCH_HISTORY_DB_CONNECT=" + connStr,
	})
}

// TestCasewatchWithPostgres tests the export history with a PostgreSQL backend.
func TestCasewatchWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	exerciseHistory(t, []string{
		"CASEWATCH_HISTORY_BACKEND=postgresql",
		"CASEWATCH_HISTORY_DB_CONNECT=" + connStr,
	})
}

// exerciseHistory clears the history, records two exports and checks status and parquet export.
func exerciseHistory(t *testing.T, env []string) {
	dir := t.TempDir()

	_, err := runCasewatch(t, "..", env, "history", "clear")
	require.NoError(t, err)

	_, err = runCasewatch(t, "..", env, "history", "migrate")
	require.NoError(t, err)

	_, err = runCasewatch(t, "..", env, "view", "investigation", "--output", "json", "--output-file", filepath.Join(dir, "view.json"))
	require.NoError(t, err)

	_, err = runCasewatch(t, "..", env, "export", "bundle", "screening", "--start", "Jan 22", "--chart-format", "svg", "--output-dir", dir)
	require.NoError(t, err)

	out, err := runCasewatch(t, "..", env, "history", "status", "--output", "json")
	require.NoError(t, err)
	var status schema.HistoryStatus
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, int64(7), status.TableSizes["casewatch_category_totals"])

	_, err = runCasewatch(t, "..", env, "history", "export", "--output-file", filepath.Join(dir, "history"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "history.export_runs.parquet"))
	assert.FileExists(t, filepath.Join(dir, "history.category_totals.parquet"))
}
