package pkgmgr

// Presence is the three-valued outcome of a presence probe.
type Presence int

const (
	// Unknown means the probe itself failed.
	Unknown Presence = iota
	// Absent means the package manager reports the item as not installed.
	Absent
	// Present means the item is installed.
	Present
)

func (p Presence) String() string {
	switch p {
	case Present:
		return "present"
	case Absent:
		return "absent"
	default:
		return "unknown"
	}
}

// Result is what a single install call produced.
type Result struct {
	// ExitCode is the process exit status, or -1 when it never ran.
	ExitCode int
	// Output is the combined stdout and stderr text.
	Output string
}
