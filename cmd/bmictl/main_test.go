package main

import (
	"bytes"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-bmi/bmi"
)

func testConfig() config {
	return config{
		Hardware:  "lookahead",
		Budget:    1000,
		LogLevel:  "error",
		LogFormat: "text",
	}
}

func run(t *testing.T, cfg config, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(cfg)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestTargetInfo(t *testing.T) {
	out, _, err := run(t, testConfig(), "target-info")
	require.NoError(t, err)
	assert.Contains(t, out, "Format:     extended")
	assert.Contains(t, out, "Byte count: 12")
	assert.Contains(t, out, "Version:    0x31C80997")

	out, _, err = run(t, testConfig(), "target-info", "--legacy", "--hardware", "intstatus")
	require.NoError(t, err)
	assert.Contains(t, out, "Format:     legacy")
	assert.Contains(t, out, "Version:    0x20000188")
	assert.Contains(t, out, "Type:       1")
}

func TestExchange(t *testing.T) {
	out, _, err := run(t, testConfig(), "exchange", "04000000 00100000 2a000000", "--recv", "4")
	require.NoError(t, err)
	assert.Equal(t, "2a000000\n", out)

	out, _, err = run(t, testConfig(), "exchange", "0x05000000", "--pending-events")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, _, err = run(t, testConfig(), "exchange", "zz")
	assert.Error(t, err)
}

func TestMemoryCommands(t *testing.T) {
	out, _, err := run(t, testConfig(), "write-mem", "0x00400000", "deadbeef", "--read-back", "--conservative")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 4 bytes at 0x00400000")
	assert.Contains(t, out, "deadbeef")

	out, _, err = run(t, testConfig(), "read-mem", "0x00400000", "8")
	require.NoError(t, err)
	assert.Equal(t, "0000000000000000\n", out)

	_, _, err = run(t, testConfig(), "read-mem", "0x00400000", "0")
	assert.ErrorIs(t, err, bmi.ErrInvalidArgument)
}

func TestExecuteAndScratch(t *testing.T) {
	out, _, err := run(t, testConfig(), "execute", "0x00915000", "7")
	require.NoError(t, err)
	assert.Equal(t, "0x00000007\n", out)

	out, _, err = run(t, testConfig(), "scratch", "0xCAFEF00D")
	require.NoError(t, err)
	assert.Equal(t, "0xCAFEF00D\n", out)
}

func TestInvalidSettings(t *testing.T) {
	_, _, err := run(t, testConfig(), "target-info", "--hardware", "usb")
	assert.ErrorIs(t, err, bmi.ErrInvalidArgument)

	_, _, err = run(t, testConfig(), "target-info", "--log-level", "loud")
	assert.Error(t, err)

	_, _, err = run(t, testConfig(), "target-info", "--log-format", "xml")
	assert.Error(t, err)
}

func TestJSONLogging(t *testing.T) {
	_, stderr, err := run(t, testConfig(), "target-info", "--log-level", "debug", "--log-format", "json")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "{"), line)
	}
	assert.Contains(t, stderr, `"msg":"target info"`)
	assert.Contains(t, stderr, `"component":"bmi"`)
}

func TestTraceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bmi.sqlite3")
	_, _, err := run(t, testConfig(), "scratch", "1", "--trace", path)
	require.NoError(t, err)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM bus_transaction`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("BMICTL_HARDWARE", "intstatus")
	t.Setenv("BMICTL_LEGACY", "true")
	t.Setenv("BMICTL_BUDGET", "42")
	t.Setenv("BMICTL_CONSERVATIVE", "1")
	t.Setenv("BMICTL_PENDING_EVENTS", "not-a-bool")
	t.Setenv("BMICTL_LOG_FORMAT", "json")

	cfg := loadConfig()
	assert.Equal(t, "intstatus", cfg.Hardware)
	assert.True(t, cfg.Legacy)
	assert.Equal(t, 42, cfg.Budget)
	assert.True(t, cfg.Conservative)
	assert.False(t, cfg.PendingEvents)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	cfg := testConfig()
	cfg.Legacy = true

	out, _, err := run(t, cfg, "target-info")
	require.NoError(t, err)
	assert.Contains(t, out, "Format:     legacy")

	out, _, err = run(t, cfg, "target-info", "--legacy=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Format:     extended")
}
