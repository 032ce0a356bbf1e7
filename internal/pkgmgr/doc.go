// Package pkgmgr drives an external package manager (winget, Homebrew, apt)
// through its command-line interface. It is the Installer collaborator of the
// orchestration package: it checks that the manager is usable, probes whether
// an item is already installed, and runs a single install attempt.
package pkgmgr
