package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	apperrors "github.com/agbru/provision/internal/errors"
)

// promptCategories shows a multi-select form of the catalog categories.
// Aborting the form cancels the command.
func promptCategories(ctx context.Context, available []string) ([]string, error) {
	options := make([]huh.Option[string], len(available))
	for i, name := range available {
		options[i] = huh.NewOption(name, name)
	}

	var chosen []string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Categories").
				Description("Space to toggle, enter to confirm").
				Options(options...).
				Value(&chosen).
				Validate(requireOne),
		).Title("What should be installed?"),
	).RunWithContext(ctx)

	if errors.Is(err, huh.ErrUserAborted) {
		return nil, fmt.Errorf("category selection: %w", context.Canceled)
	}
	if err != nil {
		return nil, apperrors.WrapError(err, "category selection")
	}
	return chosen, nil
}

var errNoCategory = errors.New("select at least one category")

func requireOne(chosen []string) error {
	if len(chosen) == 0 {
		return errNoCategory
	}
	return nil
}
