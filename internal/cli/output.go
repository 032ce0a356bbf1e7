// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayCatalog].
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Examples: [FormatUpdateLine], [FormatSpinnerSuffix].
//
//   - Write* functions write data to files on the filesystem.
//     They handle file creation, directory setup, and error handling.
//     Examples: [WriteReportToFile].

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/provision/internal/catalog"
	"github.com/agbru/provision/internal/orchestration"
	"github.com/agbru/provision/internal/pkgmgr"
	"github.com/agbru/provision/internal/ui"
)

// ReportMeta describes the run a report file belongs to.
type ReportMeta struct {
	Manager string
	Mode    string
	Force   bool
}

// WriteReportToFile writes a plain-text report of a run.
//
// Parameters:
//   - report: The run report.
//   - path: The destination file; parent directories are created.
//   - meta: Run parameters recorded in the header.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteReportToFile(report *orchestration.Report, path string, meta ReportMeta) error {
	if path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "# Provisioning Report\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Manager: %s\n", meta.Manager)
	fmt.Fprintf(file, "# Mode: %s\n", meta.Mode)
	fmt.Fprintf(file, "# Force: %t\n", meta.Force)
	fmt.Fprintf(file, "# Elapsed: %s\n", report.Elapsed)
	fmt.Fprintf(file, "# Installed: %d Skipped: %d Failed: %d NotStarted: %d\n",
		report.Stats.Installed, report.Stats.Skipped, report.Stats.Failed, report.NotStarted)
	fmt.Fprintf(file, "\n")

	for _, j := range report.Jobs {
		fmt.Fprintf(file, "%s\t%s\t%s", j.Item.ID, j.State, j.Duration())
		if j.Err != nil {
			fmt.Fprintf(file, "\t%v", j.Err)
		}
		fmt.Fprintln(file)
	}
	return file.Close()
}

// DisplayCatalog lists the given categories. When presence is non-nil each
// item is annotated with its probe result.
//
// Parameters:
//   - out: The output writer.
//   - theme: The color theme.
//   - categories: The categories to list, in display order.
//   - presence: Probe results keyed by item ID, or nil.
func DisplayCatalog(out io.Writer, theme ui.Theme, categories []catalog.Category, presence map[string]pkgmgr.Presence) {
	for i, cat := range categories {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s (%d)\n", theme.Paint(theme.Bold, cat.Name), len(cat.Items))
		for _, item := range cat.Items {
			fmt.Fprintf(out, "  %s %s", theme.Paint(theme.Primary, item.DisplayName()), theme.Paint(theme.Secondary, item.ID))
			if presence != nil {
				p := presence[item.ID]
				color := theme.Warning
				switch p {
				case pkgmgr.Present:
					color = theme.Success
				case pkgmgr.Absent:
					color = theme.Secondary
				}
				fmt.Fprintf(out, " [%s]", theme.Paint(color, p.String()))
			}
			fmt.Fprintln(out)
		}
	}
}
