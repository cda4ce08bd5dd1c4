package main

import (
	"TxLedger/internal/testutil"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Golden(t *testing.T) {
	for _, name := range []string{"sample", "disputes"} {
		t.Run(name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, filepath.Join("testdata", name+".csv"))
			require.Equal(t, 0, code, stderr)
			assert.Empty(t, stderr, "default log level keeps stderr quiet")
			testutil.AssertGolden(t, name+".golden.csv", []byte(stdout))
		})
	}
}

func TestRun_MissingArgument(t *testing.T) {
	code, stdout, stderr := runCLI(t)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Usage: txledger <transactions.csv>")
}

func TestRun_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.csv")

	code, stdout, stderr := runCLI(t, path)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Failed to process '"+path+"'")
}

func TestRun_MalformedRow(t *testing.T) {
	code, stdout, stderr := runCLI(t, filepath.Join("testdata", "malformed.csv"))
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout, "no partial report on a fatal parse error")
	assert.Contains(t, stderr, "Failed to process 'testdata/malformed.csv'")
	assert.Contains(t, stderr, "line 3")
}

func TestRun_LenientAmounts(t *testing.T) {
	t.Setenv("TXLEDGER_LENIENT_AMOUNTS", "true")

	code, stdout, stderr := runCLI(t, filepath.Join("testdata", "malformed.csv"))
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "client,available,held,total,locked\n1,1.0000,0.0000,1.0000,false\n", stdout)
}

func TestRun_OutputPrecision(t *testing.T) {
	t.Setenv("TXLEDGER_OUTPUT_PRECISION", "2")

	code, stdout, _ := runCLI(t, filepath.Join("testdata", "sample.csv"))
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "1,1.50,0.00,1.50,false")
}

func TestRun_WritesMetricsFile(t *testing.T) {
	metricsPath := filepath.Join(t.TempDir(), "txledger.prom")
	t.Setenv("TXLEDGER_METRICS_FILE", metricsPath)

	code, _, stderr := runCLI(t, filepath.Join("testdata", "disputes.csv"))
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "txledger_input_rows_total 13")
	assert.Contains(t, text, `txledger_transactions_rejected_total{kind="dispute",reason="not_disputable"} 1`)
	assert.Contains(t, text, `txledger_transactions_rejected_total{kind="deposit",reason="account_locked"} 1`)
	assert.Contains(t, text, "txledger_locked_clients 1")
}

func TestRun_InfoLogsSummary(t *testing.T) {
	t.Setenv("TXLEDGER_LOG_LEVEL", "info")

	code, _, stderr := runCLI(t, filepath.Join("testdata", "sample.csv"))
	require.Equal(t, 0, code)
	assert.Contains(t, stderr, `"message":"processing complete"`)
	assert.Contains(t, stderr, `"run_id":`)
	assert.Contains(t, stderr, `"applied":4`)
	assert.Contains(t, stderr, `"rejected":1`)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 4, cfg.OutputPrecision)
	assert.Empty(t, cfg.MetricsFile)
	assert.False(t, cfg.LenientAmounts)

	t.Setenv("TXLEDGER_OUTPUT_PRECISION", "not-a-number")
	t.Setenv("TXLEDGER_LENIENT_AMOUNTS", "yes-please")
	cfg = DefaultConfig()
	assert.Equal(t, 4, cfg.OutputPrecision)
	assert.False(t, cfg.LenientAmounts)
}

func TestRun_LargeChargebackCompletes(t *testing.T) {
	path := testutil.WriteInput(t,
		"type,client,tx,amount",
		"deposit,1,1,100000000",
		"dispute,1,1,",
		"deposit,1,2,0.1",
		"chargeback,1,1,",
	)

	code, stdout, stderr := runCLI(t, path)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "client,available,held,total,locked\n1,0.1000,0.0000,0.1000,true\n", stdout)
	assert.Contains(t, stderr, `"message":"balance drift after apply"`)
	assert.Contains(t, stderr, `"line":5`)
}
