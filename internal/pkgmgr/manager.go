package pkgmgr

import (
	"sort"
	"strings"
)

// IDPlaceholder is replaced by the item identifier in command templates.
const IDPlaceholder = "{id}"

// RootPolicy states how a package manager reacts to running as root.
type RootPolicy int

const (
	// RootAny means the effective user does not matter.
	RootAny RootPolicy = iota
	// RootRequired means installs fail unless running as root.
	RootRequired
	// RootRefused means the manager refuses to run as root.
	RootRefused
)

// Manager describes how to drive one package manager.
type Manager struct {
	// Name identifies the profile on the command line.
	Name string
	// Probe is the presence check command, first element being the binary.
	Probe []string
	// PresentMarker, when set, must appear in successful probe output for the
	// item to count as present.
	PresentMarker string
	// Install is the install command, first element being the binary.
	Install []string
	// ForceFlag is appended to Install when reinstalling.
	ForceFlag string
	// SuccessMarkers are output fragments that identify a successful install
	// even when the exit code says otherwise.
	SuccessMarkers []string
	// Root is the privilege policy checked before any dispatch.
	Root RootPolicy
}

// Binaries returns the distinct executables the profile invokes.
func (m Manager) Binaries() []string {
	var bins []string
	for _, cmd := range [][]string{m.Install, m.Probe} {
		if len(cmd) == 0 {
			continue
		}
		dup := false
		for _, b := range bins {
			if b == cmd[0] {
				dup = true
			}
		}
		if !dup {
			bins = append(bins, cmd[0])
		}
	}
	return bins
}

// expand substitutes id into a command template.
func expand(template []string, id string) []string {
	out := make([]string, len(template))
	for i, arg := range template {
		out[i] = strings.ReplaceAll(arg, IDPlaceholder, id)
	}
	return out
}

var builtins = map[string]Manager{
	"winget": {
		Name:          "winget",
		Probe:         []string{"winget", "list", "--id", IDPlaceholder, "--exact", "--accept-source-agreements"},
		PresentMarker: IDPlaceholder,
		Install: []string{"winget", "install", "--id", IDPlaceholder, "--exact", "--silent",
			"--accept-package-agreements", "--accept-source-agreements"},
		ForceFlag:      "--force",
		SuccessMarkers: []string{"Successfully installed", "Found an existing package already installed"},
	},
	"brew": {
		Name:           "brew",
		Probe:          []string{"brew", "list", "--versions", IDPlaceholder},
		Install:        []string{"brew", "install", IDPlaceholder},
		ForceFlag:      "--force",
		SuccessMarkers: []string{"already installed"},
		Root:           RootRefused,
	},
	"apt": {
		Name:           "apt",
		Probe:          []string{"dpkg-query", "-W", "-f=${Status}", IDPlaceholder},
		PresentMarker:  "install ok installed",
		Install:        []string{"apt-get", "install", "-y", IDPlaceholder},
		ForceFlag:      "--reinstall",
		SuccessMarkers: []string{"is already the newest version"},
		Root:           RootRequired,
	},
}

// Lookup returns the built-in profile with the given name.
func Lookup(name string) (Manager, bool) {
	m, ok := builtins[name]
	return m, ok
}

// Names returns the built-in profile names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
