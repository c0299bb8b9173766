package version

import (
	"fmt"
	"runtime"

	"github.com/felixgeelhaar/evolvedu/internal/ux"
)

var (
	// Version is the semantic version (set by ldflags during build)
	Version = "dev"
	// Commit is the git commit hash (set by ldflags during build)
	Commit = "unknown"
	// Date is the build date (set by ldflags during build)
	Date = "unknown"
)

// Info contains complete version information
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// GetInfo returns complete version information
func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

func (i Info) shortCommit() string {
	if len(i.Commit) > 8 {
		return i.Commit[:8]
	}
	return i.Commit
}

// String returns a formatted version string
func (i Info) String() string {
	return fmt.Sprintf("evolvedu %s (%s) built %s with %s for %s",
		i.Version, i.shortCommit(), i.Date, i.GoVersion, i.Platform)
}

// Short returns just the version number
func (i Info) Short() string {
	return i.Version
}

// UserAgent is the User-Agent header sent to the API.
func (i Info) UserAgent() string {
	return fmt.Sprintf("evolvedu/%s (%s)", i.Version, i.Platform)
}

// Text renders the info for text output.
func (i Info) Text() ux.Panel {
	p := ux.Panel{Title: "evolvedu " + i.Version}
	p.Add("Commit", i.shortCommit()).
		Add("Built", i.Date).
		Add("Go", i.GoVersion).
		Add("Platform", i.Platform)
	return p
}
