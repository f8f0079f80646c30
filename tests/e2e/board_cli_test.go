// Package e2e contains end-to-end integration tests for the crewboard CLI.
// These tests compile and run the binary as a black box, simulating real
// multi-agent board scenarios.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// testEnv holds the configuration for a single test environment.
type testEnv struct {
	binaryPath    string // Path to the compiled crewboard binary
	workspacePath string // Path to the isolated board workspace
	t             *testing.T
}

// newTestEnv creates a new isolated test environment.
// It compiles the binary and creates a temporary workspace.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	binDir, err := os.MkdirTemp("", "crewboard-e2e-bin-*")
	if err != nil {
		t.Fatalf("failed to create temp bin directory: %v", err)
	}
	workspaceDir, err := os.MkdirTemp("", "crewboard-e2e-workspace-*")
	if err != nil {
		os.RemoveAll(binDir)
		t.Fatalf("failed to create temp workspace directory: %v", err)
	}

	env := &testEnv{
		binaryPath:    filepath.Join(binDir, "crewboard"),
		workspacePath: workspaceDir,
		t:             t,
	}

	t.Cleanup(func() {
		os.RemoveAll(binDir)
		os.RemoveAll(workspaceDir)
	})

	env.compileBinary()
	return env
}

// compileBinary compiles the crewboard binary from the project root.
func (e *testEnv) compileBinary() {
	e.t.Helper()

	projectRoot, err := findProjectRoot()
	if err != nil {
		e.t.Fatalf("failed to find project root: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cmd := exec.CommandContext(ctx, "go", "build", "-o", e.binaryPath, ".")
	cmd.Dir = projectRoot
	cmd.Env = os.Environ()

	output, err := cmd.CombinedOutput()
	if err != nil {
		e.t.Fatalf("failed to compile crewboard binary:\n%s\nerror: %v", string(output), err)
	}
	if _, err := os.Stat(e.binaryPath); err != nil {
		e.t.Fatalf("binary not found after compilation: %v", err)
	}
}

// findProjectRoot walks up from the current directory to find go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find go.mod in any parent directory")
		}
		dir = parent
	}
}

// runCLI executes the crewboard CLI with the given arguments.
// Returns stdout, stderr, and error.
func (e *testEnv) runCLI(args ...string) (stdout, stderr string, err error) {
	e.t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.binaryPath, args...)
	cmd.Dir = e.workspacePath
	cmd.Env = os.Environ()

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	// Provide empty stdin to avoid blocking on prompts
	cmd.Stdin = strings.NewReader("\n\n\n")

	err = cmd.Run()
	return stdoutBuf.String(), stderrBuf.String(), err
}

// mustRunCLI runs the CLI and fails the test on a non-zero exit.
func (e *testEnv) mustRunCLI(args ...string) string {
	e.t.Helper()

	stdout, stderr, err := e.runCLI(args...)
	if err != nil {
		e.t.Fatalf("crewboard %s failed:\nstdout: %s\nstderr: %s\nerror: %v",
			strings.Join(args, " "), stdout, stderr, err)
	}
	return stdout
}

func TestTaskLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}
	env := newTestEnv(t)

	env.mustRunCLI("init", "--boss", "boss_kim")
	env.mustRunCLI("employee", "add", "dev_bob", "developer")
	env.mustRunCLI("employee", "add", "reviewer_rita", "reviewer")

	out := env.mustRunCLI("add", "Implement login", "--author", "boss_kim", "--executor", "dev_bob")
	if !strings.Contains(out, "T001") {
		t.Fatalf("expected first task id T001, got: %s", out)
	}

	env.mustRunCLI("status", "T001", "in_progress", "--as", "dev_bob")
	env.mustRunCLI("status", "T001", "in_review", "--as", "dev_bob")

	// The executor may not approve their own review.
	if _, _, err := env.runCLI("status", "T001", "done", "--as", "dev_bob"); err == nil {
		t.Error("executor approved own review, want failure")
	}
	env.mustRunCLI("status", "T001", "done", "--as", "reviewer_rita")

	// Terminal tasks refuse further transitions.
	if _, _, err := env.runCLI("status", "T001", "in_progress", "--as", "dev_bob"); err == nil {
		t.Error("transition out of done succeeded, want failure")
	}

	out = env.mustRunCLI("list", "--all", "--json")
	var rows []map[string]any
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("list --json produced invalid JSON: %v\n%s", err, out)
	}
	if len(rows) != 1 {
		t.Fatalf("list has %d tasks, want 1", len(rows))
	}
	if rows[0]["status"] != "done" {
		t.Errorf("task status = %v, want done", rows[0]["status"])
	}

	out = env.mustRunCLI("doctor")
	if !strings.Contains(out, "consistent") {
		t.Errorf("doctor output = %q, want consistency confirmation", out)
	}
}

func TestSprintFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}
	env := newTestEnv(t)

	env.mustRunCLI("init", "--boss", "boss_kim")
	env.mustRunCLI("employee", "add", "dev_bob", "developer")
	env.mustRunCLI("employee", "add", "reviewer_rita", "reviewer")

	env.mustRunCLI("backlog", "add", "Login page", "--author", "boss_kim", "--priority", "high")
	env.mustRunCLI("backlog", "add", "Search endpoint", "--author", "boss_kim")
	env.mustRunCLI("backlog", "toggle", "B001")
	env.mustRunCLI("backlog", "toggle", "B002")

	// Only the boss may create sprints.
	if _, _, err := env.runCLI("sprint", "create", "Auth sprint", "--as", "dev_bob"); err == nil {
		t.Error("non-boss created a sprint, want failure")
	}

	out := env.mustRunCLI("sprint", "create", "Auth sprint", "--goal", "Ship auth", "--as", "boss_kim")
	if !strings.Contains(out, "S001") {
		t.Fatalf("expected sprint id S001, got: %s", out)
	}
	if !strings.Contains(out, "promoted T001") || !strings.Contains(out, "promoted T002") {
		t.Fatalf("expected both backlog items promoted, got: %s", out)
	}

	// Promoted items are history and cannot be re-flagged.
	if _, _, err := env.runCLI("backlog", "toggle", "B001"); err == nil {
		t.Error("re-flagged a promoted backlog item, want failure")
	}

	// The sprint cannot complete while the finalize task is open.
	if _, _, err := env.runCLI("sprint", "complete", "S001", "--as", "boss_kim"); err == nil {
		t.Error("completed sprint with open finalize task, want failure")
	}

	// Promoted tasks start unassigned; nobody can move them until an
	// executor is assigned.
	if _, _, err := env.runCLI("status", "T001", "in_progress", "--as", "dev_bob"); err == nil {
		t.Error("unassigned promoted task was started, want failure")
	}

	for _, id := range []string{"T001", "T002"} {
		env.mustRunCLI("assign", id, "dev_bob")
		env.mustRunCLI("status", id, "in_progress", "--as", "dev_bob")
		env.mustRunCLI("status", id, "in_review", "--as", "dev_bob")
		env.mustRunCLI("status", id, "done", "--as", "reviewer_rita")
	}

	// T003 is the finalize task, executed by the boss who created the sprint.
	env.mustRunCLI("status", "T003", "in_progress", "--as", "boss_kim")
	env.mustRunCLI("status", "T003", "in_review", "--as", "boss_kim")
	env.mustRunCLI("status", "T003", "done", "--as", "reviewer_rita")

	out = env.mustRunCLI("sprint", "complete", "S001", "--as", "boss_kim")
	if !strings.Contains(out, "Completed S001") {
		t.Fatalf("unexpected sprint complete output: %s", out)
	}
}

func TestDependencyBlocking(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}
	env := newTestEnv(t)

	env.mustRunCLI("init", "--boss", "boss_kim")
	env.mustRunCLI("employee", "add", "dev_bob", "developer")

	env.mustRunCLI("add", "Design schema", "--author", "boss_kim", "--executor", "dev_bob")
	env.mustRunCLI("add", "Build API", "--author", "boss_kim", "--executor", "dev_bob")
	env.mustRunCLI("depend", "T002", "T001")

	// The reverse edge would close a cycle.
	if _, _, err := env.runCLI("depend", "T001", "T002"); err == nil {
		t.Error("cyclic dependency accepted, want failure")
	}

	out := env.mustRunCLI("get", "T002", "--json")
	var detail map[string]any
	if err := json.Unmarshal([]byte(out), &detail); err != nil {
		t.Fatalf("get --json produced invalid JSON: %v\n%s", err, out)
	}
	if detail["blocked"] != true {
		t.Errorf("T002 blocked = %v, want true", detail["blocked"])
	}
}

func TestDiscussionLog(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}
	env := newTestEnv(t)

	env.mustRunCLI("init", "--boss", "boss_kim")
	env.mustRunCLI("employee", "add", "dev_bob", "developer")
	env.mustRunCLI("add", "Spike caching", "--author", "boss_kim", "--executor", "dev_bob")

	env.mustRunCLI("discuss", "T001", "Considering redis vs LRU.", "--as", "dev_bob")
	env.mustRunCLI("discuss", "T001", "Prefer LRU for now.", "--as", "boss_kim")

	out := env.mustRunCLI("discuss", "T001", "--json")
	var entries []map[string]any
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("discuss --json produced invalid JSON: %v\n%s", err, out)
	}
	if len(entries) != 2 {
		t.Fatalf("discussion has %d entries, want 2", len(entries))
	}
	if entries[1]["author"] != "boss_kim" || entries[1]["role"] != "boss" {
		t.Errorf("second entry = %v (%v), want boss_kim (boss)", entries[1]["author"], entries[1]["role"])
	}

	// The log file itself is plain markdown on disk.
	logPath := filepath.Join(env.workspacePath, ".crewboard", "discussions", "T001.md")
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read discussion log: %v", err)
	}
	if !strings.Contains(string(data), "dev_bob (developer)") {
		t.Errorf("discussion log missing signed block header:\n%s", data)
	}
}
