// Package testutil provides test utilities and helpers for changelog tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	// changelogBinaryPath caches the built changelog binary path.
	changelogBinaryPath string
	changelogBuildOnce  sync.Once
	changelogBuildErr   error
)

// E2EEnv provides an isolated environment for E2E testing. It manages a
// temp working directory, HOME and config isolation, and environment
// sanitization so the surrounding machine's CHANGELOG_* variables and
// user config never leak into a test run.
type E2EEnv struct {
	t         *testing.T
	tempDir   string
	binDir    string
	cleanedUp bool
}

// CommandResult captures the result of running a changelog command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// NewE2EEnv creates a new E2E test environment with an isolated working
// directory and a freshly built changelog binary.
func NewE2EEnv(t *testing.T) *E2EEnv {
	t.Helper()

	env := &E2EEnv{t: t}
	env.setup()
	t.Cleanup(env.Cleanup)

	return env
}

func (e *E2EEnv) setup() {
	e.t.Helper()

	tempDir, err := os.MkdirTemp("", "e2e-test-*")
	if err != nil {
		e.t.Fatalf("creating temp directory: %v", err)
	}
	e.tempDir = tempDir

	e.binDir = filepath.Join(tempDir, "bin")
	if err := os.MkdirAll(e.binDir, 0o755); err != nil {
		e.t.Fatalf("creating bin directory: %v", err)
	}

	e.buildChangelog()
}

func (e *E2EEnv) buildChangelog() {
	e.t.Helper()

	// Build the changelog binary once per test session
	changelogBuildOnce.Do(func() {
		changelogBinaryPath, changelogBuildErr = e.doBuildChangelog()
	})

	if changelogBuildErr != nil {
		e.t.Fatalf("building changelog: %v", changelogBuildErr)
	}

	// Copy the binary into our bin directory so each environment is
	// self-contained even if the build cache is cleaned mid-run.
	link := filepath.Join(e.binDir, "changelog")
	content, err := os.ReadFile(changelogBinaryPath)
	if err != nil {
		e.t.Fatalf("reading changelog binary: %v", err)
	}
	if err := os.WriteFile(link, content, 0o755); err != nil {
		e.t.Fatalf("writing changelog binary: %v", err)
	}
}

func (e *E2EEnv) doBuildChangelog() (string, error) {
	// Get repo root
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("determining current file location")
	}
	repoRoot := filepath.Join(filepath.Dir(currentFile), "..", "..")

	tmpDir, err := os.MkdirTemp("", "changelog-build-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir for build: %w", err)
	}

	binaryPath := filepath.Join(tmpDir, "changelog")

	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/changelog")
	cmd.Dir = repoRoot
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("building changelog: %w\nOutput: %s", err, output)
	}

	return binaryPath, nil
}

// Run executes a changelog command in the isolated E2E environment with
// the temp directory as the working directory.
func (e *E2EEnv) Run(args ...string) CommandResult {
	return e.run(e.tempDir, nil, args)
}

// RunIn executes a changelog command with dir as the working directory.
func (e *E2EEnv) RunIn(dir string, args ...string) CommandResult {
	return e.run(dir, nil, args)
}

// RunWithEnv executes a changelog command with extra environment
// variables set on top of the isolated environment, e.g. a CHANGELOG_*
// override under test.
func (e *E2EEnv) RunWithEnv(extraEnv map[string]string, args ...string) CommandResult {
	extra := make([]string, 0, len(extraEnv))
	for key, value := range extraEnv {
		extra = append(extra, key+"="+value)
	}
	return e.run(e.tempDir, extra, args)
}

func (e *E2EEnv) run(dir string, extraEnv []string, args []string) CommandResult {
	e.t.Helper()

	start := time.Now()

	cmd := exec.Command(filepath.Join(e.binDir, "changelog"), args...)
	cmd.Dir = dir
	cmd.Env = append(e.buildIsolatedEnv(), extraEnv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := CommandResult{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
		}
	}

	return result
}

// buildIsolatedEnv returns the environment for a test run: HOME and the
// XDG config directory point into the temp directory, CHANGELOG_*
// overrides from the surrounding shell are stripped, and NO_COLOR keeps
// output assertions stable across terminals.
func (e *E2EEnv) buildIsolatedEnv() []string {
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + e.tempDir,
		"XDG_CONFIG_HOME=" + filepath.Join(e.tempDir, "xdg"),
		"NO_COLOR=1",
	}

	safeVars := []string{
		"TERM",
		"LANG",
		"LC_ALL",
		"TMPDIR",
		"TMP",
		"TEMP",
	}
	for _, key := range safeVars {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
		}
	}

	// CHANGELOG_* variables override every config file; none may leak in.
	return env
}

// HasConfigOverrideInEnv reports whether any CHANGELOG_* variable made it
// into the isolated environment. Used to verify sanitization.
func (e *E2EEnv) HasConfigOverrideInEnv() bool {
	for _, v := range e.buildIsolatedEnv() {
		if strings.HasPrefix(v, "CHANGELOG_") {
			return true
		}
	}
	return false
}

// TempDir returns the root temp directory for this test environment.
func (e *E2EEnv) TempDir() string {
	return e.tempDir
}

// BinDir returns the bin directory containing the changelog binary.
func (e *E2EEnv) BinDir() string {
	return e.binDir
}

// Path returns an absolute path inside the test working directory.
func (e *E2EEnv) Path(name string) string {
	return filepath.Join(e.tempDir, name)
}

// WriteFile writes a fixture file inside the test working directory,
// creating parent directories as needed, and returns its absolute path.
func (e *E2EEnv) WriteFile(name, content string) string {
	e.t.Helper()

	path := e.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.t.Fatalf("creating directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

// ReadFile reads a file from the test working directory.
func (e *E2EEnv) ReadFile(name string) string {
	e.t.Helper()

	data, err := os.ReadFile(e.Path(name))
	if err != nil {
		e.t.Fatalf("reading %s: %v", name, err)
	}
	return string(data)
}

// FileExists checks whether a file exists in the test working directory.
func (e *E2EEnv) FileExists(name string) bool {
	_, err := os.Stat(e.Path(name))
	return err == nil
}

// WriteProjectConfig writes .changelog/config.yml in the test working
// directory so a run picks it up as the project-level configuration.
func (e *E2EEnv) WriteProjectConfig(content string) string {
	e.t.Helper()
	return e.WriteFile(filepath.Join(".changelog", "config.yml"), content)
}

// Cleanup removes the temp directory. Registered via t.Cleanup.
func (e *E2EEnv) Cleanup() {
	if e.cleanedUp {
		return
	}
	e.cleanedUp = true

	if e.tempDir != "" {
		if err := os.RemoveAll(e.tempDir); err != nil {
			e.t.Logf("note: could not remove temp directory: %v", err)
		}
	}
}

// InitGitRepo initializes a git repository with an origin remote in the
// temp directory, for exercising repo_url: auto link detection.
func (e *E2EEnv) InitGitRepo(remoteURL string) {
	e.t.Helper()

	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = e.tempDir
		if output, err := cmd.CombinedOutput(); err != nil {
			e.t.Fatalf("git %s failed: %v\nOutput: %s", strings.Join(args, " "), err, output)
		}
	}

	run("init")
	run("config", "user.email", "test@test.com")
	run("config", "user.name", "Test")
	if remoteURL != "" {
		run("remote", "add", "origin", remoteURL)
	}
}
