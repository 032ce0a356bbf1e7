package orchestration

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/provision/internal/catalog"
	apperrors "github.com/agbru/provision/internal/errors"
)

// AllCategories is the category name that selects the whole catalog.
const AllCategories = "all"

// SelectItems resolves category names against the catalog. No names, or the
// name "all", selects every item. Unknown names are rejected so a typo on
// the command line does not silently install nothing.
func SelectItems(cat *catalog.Catalog, names []string) ([]catalog.Item, error) {
	if len(names) == 0 {
		return cat.All(), nil
	}
	var unknown []string
	for _, name := range names {
		if strings.EqualFold(name, AllCategories) {
			return cat.All(), nil
		}
		if !cat.Has(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return nil, apperrors.NewConfigError("unknown categories: %s (available: %s)",
			strings.Join(unknown, ", "), strings.Join(cat.Categories(), ", "))
	}
	return cat.Select(names...), nil
}

// AnalyzeReport presents the report and maps the run outcome to an exit code.
//
// Parameters:
//   - report: The report returned by Run. May be nil when err is set.
//   - runErr: The error returned by Run.
//   - presenter: Renders the summary table.
//   - out: The writer for the summary.
//
// Returns:
//   - int: The process exit code.
func AnalyzeReport(report *Report, runErr error, presenter ResultPresenter, out io.Writer) int {
	var failed uint
	if report != nil {
		if len(report.Jobs) > 0 {
			presenter.PresentSummary(report, out)
		}
		failed = report.Stats.Failed
	}
	code := apperrors.ExitCodeFor(runErr, failed)
	switch {
	case runErr != nil && apperrors.IsContextError(runErr):
		fmt.Fprintf(out, "\nRun interrupted: %v\n", runErr)
	case runErr != nil:
		fmt.Fprintf(out, "\nRun aborted: %v\n", runErr)
	case failed > 0:
		fmt.Fprintf(out, "\nGlobal Status: Failure. %d item(s) could not be installed.\n", failed)
	default:
		fmt.Fprintf(out, "\nGlobal Status: Success.\n")
	}
	return code
}
