package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/report"
)

const twoSquaresFixture = `Node 0
Node 1
Node 2
Node 3
Node 4
Node 5
Node 6
Node 7
Edge 0 1
Edge 1 2
Edge 2 3
Edge 3 0
Edge 4 5
Edge 1 4
Edge 5 6
Edge 6 7
Edge 7 4
`

// writeFixture stores content under name in a fresh temp dir and chdirs
// there so no stray config file is picked up
func writeFixture(t *testing.T, name, content string) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	t.Cleanup(func() { logging.SetDefaultLogger(nil) })
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_JSON(t *testing.T) {
	path := writeFixture(t, "squares.txt", twoSquaresFixture)

	code, stdout, stderr := runCLI(t, "run", path, "--format", "json", "-k", "1")
	require.Equal(t, exitOK, code, stderr)

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep))
	assert.Equal(t, "completed", rep.Status)
	assert.Equal(t, "squares.txt", rep.Source)
	assert.Equal(t, []report.Edge{{A: 1, B: 4}}, rep.Removed)
	require.Len(t, rep.Communities, 2)
	assert.Equal(t, []uint64{0, 1, 2, 3}, rep.Communities[0].Members)
	assert.Equal(t, []uint64{4, 5, 6, 7}, rep.Communities[1].Members)
}

func TestRun_TieSetFollowsDeclarationOrder(t *testing.T) {
	// Every edge of a 4-cycle ties, so one round removes all four
	path := writeFixture(t, "cycle.txt", "Node 9\nNode 2\nNode 7\nNode 4\nEdge 9 2\nEdge 2 7\nEdge 7 4\nEdge 4 9\n")

	code, stdout, stderr := runCLI(t, "run", path, "--format", "json")
	require.Equal(t, exitOK, code, stderr)

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep))
	assert.Equal(t, []report.Edge{{A: 2, B: 9}, {A: 4, B: 9}, {A: 2, B: 7}, {A: 4, B: 7}}, rep.Removed)

	code, stdout, _ = runCLI(t, "run", "--help")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "listed in the order their nodes\nwere declared in the fixture")
}

func TestRun_TextDefault(t *testing.T) {
	path := writeFixture(t, "squares.txt", twoSquaresFixture)

	code, stdout, stderr := runCLI(t, "run", path)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "[0 1 2 3]")
	assert.Contains(t, stdout, "1-4")
	// Default level is warn, so a clean run logs nothing
	assert.Empty(t, stderr)
}

func TestRun_Exhausted(t *testing.T) {
	path := writeFixture(t, "pair.txt", "Node 1\nNode 2\nEdge 1 2\n")

	code, stdout, stderr := runCLI(t, "run", path, "-k", "3", "--format", "yaml")
	assert.Equal(t, exitExhausted, code)
	assert.Contains(t, stdout, "status: exhausted")
	assert.Contains(t, stderr, "graph exhausted")
	assert.Contains(t, stderr, "after 1 of 3 rounds")
}

func TestRun_RemovalLimit(t *testing.T) {
	path := writeFixture(t, "squares.txt", twoSquaresFixture)

	code, _, stderr := runCLI(t, "run", path, "-k", "1", "--max-removals", "1", "--format", "json")
	assert.Equal(t, exitOK, code, stderr)

	code, _, stderr = runCLI(t, "run", path, "-k", "3", "--max-removals", "3", "--format", "json")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "edge removal limit reached")
}

func TestRun_MetricsDumpAndLogging(t *testing.T) {
	path := writeFixture(t, "squares.txt", twoSquaresFixture)

	code, _, stderr := runCLI(t, "run", path, "--metrics-dump", "--log-level", "debug", "--format", "json")
	require.Equal(t, exitOK, code, stderr)

	assert.Contains(t, stderr, `gn_runs_total{status="completed"} 1`)
	assert.Contains(t, stderr, "gn_edges_removed_total 1")
	assert.Contains(t, stderr, "girvan-newman started")
	assert.Contains(t, stderr, "fixture loaded")
	assert.Contains(t, stderr, `"edge":"2-5"`)
}

func TestRun_ConfigFileAndEnv(t *testing.T) {
	path := writeFixture(t, "squares.txt", twoSquaresFixture)
	require.NoError(t, os.WriteFile(".girvan-newman.yaml", []byte("rounds: 2\nformat: json\n"), 0o644))

	code, stdout, stderr := runCLI(t, "run", path)
	require.Equal(t, exitOK, code, stderr)

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep))
	assert.Equal(t, 2, rep.RoundsCompleted)
	assert.Len(t, rep.Communities, 8)

	// Flags beat the environment, which beats the file
	t.Setenv("GN_ROUNDS", "0")
	code, stdout, _ = runCLI(t, "run", path)
	require.Equal(t, exitOK, code)
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep))
	assert.Equal(t, 0, rep.RoundsCompleted)

	code, stdout, _ = runCLI(t, "run", path, "-k", "1")
	require.Equal(t, exitOK, code)
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep))
	assert.Equal(t, 1, rep.RoundsCompleted)
}

func TestRun_Errors(t *testing.T) {
	path := writeFixture(t, "bad.txt", "Node 1\nVertex 2\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"parse error", []string{"run", path}, "fixture line 2"},
		{"missing file", []string{"run", "missing.txt"}, "missing.txt"},
		{"bad rounds", []string{"run", path, "-k", "-1"}, "Rounds"},
		{"bad format", []string{"run", path, "--format", "xml"}, "Format"},
		{"no fixture", []string{"run"}, "accepts 1 arg"},
		{"explicit config missing", []string{"--config", "nope.yaml", "run", path}, "failed to read config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			assert.Equal(t, exitError, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestConvert(t *testing.T) {
	path := writeFixture(t, "squares.txt", twoSquaresFixture)
	out := filepath.Join(filepath.Dir(path), "squares.yaml.sz")

	code, stdout, stderr := runCLI(t, "convert", path, out)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "8 nodes, 9 edges")

	code, stdout, stderr = runCLI(t, "run", out, "--format", "json")
	require.Equal(t, exitOK, code, stderr)

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep))
	assert.Equal(t, []report.Edge{{A: 1, B: 4}}, rep.Removed)
}

func TestRootCmd_Registered(t *testing.T) {
	root := newRootCmd(&app{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}})

	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"run", "convert", "view"} {
		assert.Contains(t, names, want)
	}
}

func TestFormatLabels(t *testing.T) {
	assert.Equal(t, "", formatLabels(nil))
	assert.Equal(t, `{format="text",status="success"}`, formatLabels(map[string]string{"status": "success", "format": "text"}))
	assert.False(t, strings.Contains(formatLabels(map[string]string{"a": "b"}), " "))
}
