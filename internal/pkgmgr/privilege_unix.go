//go:build unix

package pkgmgr

import "golang.org/x/sys/unix"

// effectiveUID returns the effective user id and true on platforms that have one.
func effectiveUID() (int, bool) {
	return unix.Geteuid(), true
}
