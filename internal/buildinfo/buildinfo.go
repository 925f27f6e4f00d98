package buildinfo

import "fmt"

// Set at build time, e.g.
//
//	go build -ldflags "-X chronos/internal/buildinfo.Version=v0.3.0"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns a compact build identifier for the window title and logs.
func Short() string {
	switch {
	case Version != "" && Version != "dev":
		return Version
	case Commit != "" && Commit != "unknown":
		return Commit
	default:
		return "dev"
	}
}

// Long returns every known build field.
func Long() string {
	return fmt.Sprintf("chronos %s (commit %s, built %s)", Version, Commit, Date)
}
