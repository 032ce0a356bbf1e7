package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/provision/internal/catalog"
	"github.com/agbru/provision/internal/config"
	"github.com/agbru/provision/internal/orchestration"
	"github.com/agbru/provision/internal/pkgmgr"
	"github.com/agbru/provision/internal/progress"
	"github.com/agbru/provision/internal/ui"
)

func sampleReport() *orchestration.Report {
	t0 := time.Unix(0, 0)
	return &orchestration.Report{
		Stats:      orchestration.RunStatistics{Installed: 1, Skipped: 1, Failed: 1},
		NotStarted: 1,
		Elapsed:    3 * time.Second,
		Jobs: []orchestration.InstallJob{
			{Index: 0, Item: catalog.Item{ID: "Git.Git", Name: "Git"}, State: progress.Succeeded, StartedAt: t0, FinishedAt: t0.Add(2 * time.Second)},
			{Index: 1, Item: catalog.Item{ID: "Python.Python.3.12", Name: "Python"}, State: progress.SkippedAlreadyInstalled},
			{Index: 2, Item: catalog.Item{ID: "Docker.DockerDesktop"}, State: progress.Failed, StartedAt: t0, FinishedAt: t0.Add(time.Second), Err: errors.New("exit code 1")},
			{Index: 3, Item: catalog.Item{ID: "Vim.Vim"}, State: progress.Pending},
		},
	}
}

func TestPresentSummary(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	CLIResultPresenter{Theme: ui.NoColorTheme()}.PresentSummary(sampleReport(), &buf)
	out := buf.String()

	for _, want := range []string{
		"Installation Summary",
		"Git", "2s", "already installed", "not started",
		"Installed: 1  Skipped: 1  Failed: 1  Not started: 1",
		"Failures:", "Docker.DockerDesktop: exit code 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	// Columns line up on the visible text.
	lines := strings.Split(out, "\n")
	var gitLine, pyLine string
	for _, l := range lines {
		if strings.HasPrefix(l, "Git ") {
			gitLine = l
		}
		if strings.HasPrefix(l, "Python ") {
			pyLine = l
		}
	}
	if strings.Index(gitLine, "Git.Git") != strings.Index(pyLine, "Python.Python") {
		t.Errorf("identifier column misaligned:\n%q\n%q", gitLine, pyLine)
	}
}

func TestPresentSummaryColored(t *testing.T) {
	t.Parallel()
	dark := ui.DarkTheme()
	var buf bytes.Buffer
	CLIResultPresenter{Theme: dark}.PresentSummary(sampleReport(), &buf)
	if !strings.Contains(buf.String(), dark.Success) {
		t.Error("expected success color in colored summary")
	}
}

func TestPrintExecutionConfigAndMode(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Manager = "winget"
	cfg.Mode = "parallel"
	cfg.Concurrency = 3
	cfg.Force = true
	var buf bytes.Buffer
	PrintExecutionConfig(cfg, 12, ui.NoColorTheme(), &buf)
	PrintExecutionMode(cfg, ui.NoColorTheme(), &buf)
	out := buf.String()
	for _, want := range []string{"Installing 12 items with winget", "parallel (3 workers)", "Reinstalling", "Starting Installation"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteReportToFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "report.txt")
	if err := WriteReportToFile(sampleReport(), path, ReportMeta{Manager: "winget", Mode: "parallel"}); err != nil {
		t.Fatalf("WriteReportToFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	for _, want := range []string{"# Manager: winget", "# Mode: parallel", "Installed: 1 Skipped: 1 Failed: 1 NotStarted: 1", "Docker.DockerDesktop\tfailed\t1s\texit code 1", "Vim.Vim\tpending"} {
		if !strings.Contains(content, want) {
			t.Errorf("report missing %q:\n%s", want, content)
		}
	}

	if err := WriteReportToFile(sampleReport(), "", ReportMeta{}); err != nil {
		t.Errorf("empty path should be a no-op, got %v", err)
	}
}

func TestDisplayCatalog(t *testing.T) {
	t.Parallel()
	cats := []catalog.Category{
		{Name: "core", Items: []catalog.Item{{ID: "Git.Git", Name: "Git"}, {ID: "Vim.Vim"}}},
		{Name: "utility", Items: []catalog.Item{{ID: "7zip.7zip", Name: "7-Zip"}}},
	}
	var plain bytes.Buffer
	DisplayCatalog(&plain, ui.NoColorTheme(), cats, nil)
	if !strings.Contains(plain.String(), "core (2)") || strings.Contains(plain.String(), "[") {
		t.Errorf("unexpected listing:\n%s", plain.String())
	}

	var checked bytes.Buffer
	DisplayCatalog(&checked, ui.NoColorTheme(), cats, map[string]pkgmgr.Presence{"Git.Git": pkgmgr.Present, "Vim.Vim": pkgmgr.Absent})
	out := checked.String()
	for _, want := range []string{"Git Git.Git [present]", "Vim.Vim Vim.Vim [absent]", "7-Zip 7zip.7zip [unknown]"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q:\n%s", want, out)
		}
	}
}
