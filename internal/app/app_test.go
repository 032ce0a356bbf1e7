package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/provision/internal/errors"
	"github.com/agbru/provision/internal/logging"
	"github.com/agbru/provision/internal/pkgmgr"
)

type fakeInstaller struct {
	mu           sync.Mutex
	availableErr error
	present      map[string]bool
	failing      map[string]bool
	installed    []string
	probed       []string
}

func (f *fakeInstaller) Available(context.Context) error { return f.availableErr }

func (f *fakeInstaller) Probe(_ context.Context, id string) (pkgmgr.Presence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probed = append(f.probed, id)
	if f.present[id] {
		return pkgmgr.Present, nil
	}
	return pkgmgr.Absent, nil
}

func (f *fakeInstaller) Install(_ context.Context, id string) (pkgmgr.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.installed = append(f.installed, id)
	if f.failing[id] {
		return pkgmgr.Result{ExitCode: 1, Output: "boom"}, nil
	}
	return pkgmgr.Result{ExitCode: 0}, nil
}

func (f *fakeInstaller) SuccessMarkers() []string { return nil }

func (f *fakeInstaller) installedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := append([]string(nil), f.installed...)
	sort.Strings(ids)
	return ids
}

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

type harness struct {
	app       *Application
	installer *fakeInstaller
	out       *bytes.Buffer
	errOut    *bytes.Buffer
}

func newHarness(t *testing.T, env map[string]string, opts ...AppOption) *harness {
	t.Helper()
	if env == nil {
		env = map[string]string{}
	}
	env["NO_COLOR"] = "1"
	h := &harness{installer: &fakeInstaller{}, out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	base := []AppOption{
		WithEnv(envMap(env)),
		WithTerminalCheck(func(io.Writer) bool { return false }),
		WithInstallerFactory(func(pkgmgr.Manager, bool, logging.Logger) Installer { return h.installer }),
	}
	h.app = New(h.out, h.errOut, append(base, opts...)...)
	return h
}

func (h *harness) run(args ...string) int {
	return h.app.Execute(context.Background(), append(args, "--env-file", ""))
}

func TestVersionCommand(t *testing.T) {
	h := newHarness(t, nil)
	code := h.run("version")
	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.Contains(t, h.out.String(), "provision "+Version)
	assert.Contains(t, h.out.String(), "commit:")
}

func TestListCommand(t *testing.T) {
	h := newHarness(t, nil)
	code := h.run("list", "core")
	require.Equal(t, apperrors.ExitSuccess, code, h.errOut.String())

	out := h.out.String()
	assert.Contains(t, out, "core (4)")
	assert.Contains(t, out, "Git.Git")
	assert.NotContains(t, out, "development")
	assert.Empty(t, h.installer.probed, "list without --check must not probe")
}

func TestListCommandCheck(t *testing.T) {
	h := newHarness(t, nil)
	h.installer.present = map[string]bool{"Git.Git": true}

	code := h.run("list", "core", "--check")
	require.Equal(t, apperrors.ExitSuccess, code, h.errOut.String())
	assert.Contains(t, h.out.String(), "[present]")
	assert.Contains(t, h.out.String(), "[absent]")
	assert.Len(t, h.installer.probed, 4)
}

func TestListCommandCheckEnvironmentError(t *testing.T) {
	h := newHarness(t, nil)
	h.installer.availableErr = apperrors.EnvironmentError{Manager: "apt", Cause: errors.New("not found")}

	code := h.run("list", "--check")
	assert.Equal(t, apperrors.ExitErrorEnvironment, code)
	assert.Empty(t, h.installer.probed)
}

func TestListUnknownCategory(t *testing.T) {
	h := newHarness(t, nil)
	code := h.run("list", "nope")
	assert.Equal(t, apperrors.ExitErrorConfig, code)
	assert.Contains(t, h.errOut.String(), "unknown categories: nope")
}

func TestInstallSkipsPresentItems(t *testing.T) {
	h := newHarness(t, nil)
	h.installer.present = map[string]bool{"Git.Git": true}

	dir := t.TempDir()
	reportPath := filepath.Join(dir, "report.txt")
	metricsPath := filepath.Join(dir, "provision.prom")

	code := h.run("install", "core", "--report", reportPath, "--metrics-file", metricsPath)
	require.Equal(t, apperrors.ExitSuccess, code, h.errOut.String())

	assert.Equal(t, []string{"7zip.7zip", "Microsoft.PowerShell", "Microsoft.WindowsTerminal"}, h.installer.installedIDs())
	assert.Contains(t, h.out.String(), "Global Status: Success.")

	report, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), "Git.Git")

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "provision_jobs_total")
}

func TestInstallFailureExitCode(t *testing.T) {
	h := newHarness(t, nil)
	h.installer.failing = map[string]bool{"jqlang.jq": true}

	code := h.run("install", "utility", "--mode", "parallel", "--concurrency", "2")
	assert.Equal(t, apperrors.ExitErrorGeneric, code)
	assert.Contains(t, h.out.String(), "Global Status: Failure. 1 item(s)")
	assert.Len(t, h.installer.installedIDs(), 5)
}

func TestInstallEnvironmentError(t *testing.T) {
	h := newHarness(t, nil)
	h.installer.availableErr = apperrors.EnvironmentError{Manager: "apt", Cause: errors.New("must be run as root")}

	code := h.run("install")
	assert.Equal(t, apperrors.ExitErrorEnvironment, code)
	assert.Empty(t, h.installer.probed)
	assert.Empty(t, h.installer.installedIDs())
	assert.Contains(t, h.out.String(), "Run aborted")
}

func TestInstallQuiet(t *testing.T) {
	h := newHarness(t, nil)
	code := h.run("install", "core", "-q")
	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.Empty(t, h.out.String())
}

func TestInstallConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"bad mode flag", []string{"install", "--mode", "bogus"}, nil},
		{"bad mode env", []string{"install"}, map[string]string{"PROVISION_MODE": "bogus"}},
		{"unknown flag", []string{"install", "--nope"}, nil},
		{"tui and quiet", []string{"install", "--tui", "--quiet"}, nil},
		{"missing catalog", []string{"install", "--catalog", "/does/not/exist.yaml"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.env)
			code := h.run(tt.args...)
			assert.Equal(t, apperrors.ExitErrorConfig, code, h.errOut.String())
			assert.Empty(t, h.installer.installedIDs())
		})
	}
}

func TestEnvOverridesAndFlagPriority(t *testing.T) {
	h := newHarness(t, map[string]string{"PROVISION_MODE": "parallel", "PROVISION_CONCURRENCY": "3"})
	code := h.run("install", "core", "--concurrency", "2")
	require.Equal(t, apperrors.ExitSuccess, code, h.errOut.String())
	assert.Equal(t, "parallel", h.app.Config.Mode)
	assert.Equal(t, 2, h.app.Config.Concurrency)
}

func TestInstallInteractive(t *testing.T) {
	var offered []string
	prompt := func(_ context.Context, available []string) ([]string, error) {
		offered = available
		return []string{"utility"}, nil
	}
	h := newHarness(t, nil, WithCategoryPrompt(prompt))

	code := h.run("install", "-i")
	require.Equal(t, apperrors.ExitSuccess, code, h.errOut.String())
	assert.Equal(t, []string{"core", "development", "infrastructure", "utility"}, offered)
	assert.Len(t, h.installer.installedIDs(), 5)
	assert.Contains(t, h.installer.installedIDs(), "jqlang.jq")
}

func TestInstallInteractiveAborted(t *testing.T) {
	prompt := func(context.Context, []string) ([]string, error) {
		return nil, context.Canceled
	}
	h := newHarness(t, nil, WithCategoryPrompt(prompt))

	code := h.run("install", "-i")
	assert.Equal(t, apperrors.ExitErrorCanceled, code)
	assert.Empty(t, h.installer.installedIDs())
}

func TestCompleteCategories(t *testing.T) {
	h := newHarness(t, nil)
	got, _ := h.app.completeCategories(nil, nil, "in")
	assert.Equal(t, []string{"infrastructure"}, got)
}

func TestRequireOne(t *testing.T) {
	assert.ErrorIs(t, requireOne(nil), errNoCategory)
	assert.NoError(t, requireOne([]string{"core"}))
}
