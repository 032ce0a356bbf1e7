package app

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/provision/internal/catalog"
	"github.com/agbru/provision/internal/cli"
	"github.com/agbru/provision/internal/logging"
	"github.com/agbru/provision/internal/orchestration"
	"github.com/agbru/provision/internal/pkgmgr"
)

// probeConcurrency bounds the presence probes of list --check.
const probeConcurrency = 8

// runList prints the selected categories, optionally with the presence of
// every item.
func (a *Application) runList(ctx context.Context, check bool) error {
	cat, err := a.loadCatalog()
	if err != nil {
		return err
	}
	// Validates the names the same way install does.
	if _, err := orchestration.SelectItems(cat, a.Config.Categories); err != nil {
		return err
	}
	categories := selectedCategories(cat, a.Config.Categories)

	var presence map[string]pkgmgr.Presence
	if check {
		manager, _ := pkgmgr.Lookup(a.Config.Manager)
		installer := a.newInstaller(manager, false, a.logger)
		if err := installer.Available(ctx); err != nil {
			return err
		}
		presence = probeAll(ctx, installer, categories, a.logger)
	}

	cli.DisplayCatalog(a.Out, a.theme, categories, presence)
	return nil
}

func selectedCategories(cat *catalog.Catalog, names []string) []catalog.Category {
	if len(names) == 0 {
		names = cat.Categories()
	}
	for _, n := range names {
		if strings.EqualFold(n, orchestration.AllCategories) {
			names = cat.Categories()
			break
		}
	}
	seen := make(map[string]bool, len(names))
	var out []catalog.Category
	for _, n := range names {
		c, ok := cat.Category(n)
		if !ok || seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		out = append(out, c)
	}
	return out
}

// probeAll probes every item with a bounded pool. Probe failures are
// recorded as Unknown.
func probeAll(ctx context.Context, installer orchestration.Installer, categories []catalog.Category, logger logging.Logger) map[string]pkgmgr.Presence {
	var ids []string
	for _, c := range categories {
		for _, it := range c.Items {
			ids = append(ids, it.ID)
		}
	}
	results := make([]pkgmgr.Presence, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(probeConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			p, err := installer.Probe(gctx, id)
			if err != nil {
				logger.Warn("presence probe failed", logging.String("item", id), logging.Err(err))
				p = pkgmgr.Unknown
			}
			results[i] = p
			return nil
		})
	}
	_ = g.Wait()

	presence := make(map[string]pkgmgr.Presence, len(ids))
	for i, id := range ids {
		presence[id] = results[i]
	}
	return presence
}
