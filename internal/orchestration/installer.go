//go:generate mockgen -source=installer.go -destination=mocks/mock_installer.go -package=mocks

package orchestration

import (
	"context"

	"github.com/agbru/provision/internal/pkgmgr"
)

// Installer is the external package manager the orchestrator drives.
// *pkgmgr.Client is the production implementation.
type Installer interface {
	// Available reports whether the package manager can be used at all.
	// It is called once per run, before anything is probed or installed.
	Available(ctx context.Context) error
	// Probe reports whether id is already installed. Unknown or an error
	// means the probe itself failed.
	Probe(ctx context.Context, id string) (pkgmgr.Presence, error)
	// Install performs one install attempt. A non-zero exit code is data;
	// the error is set only when the attempt could not run.
	Install(ctx context.Context, id string) (pkgmgr.Result, error)
}

var _ Installer = (*pkgmgr.Client)(nil)
