package version

import "github.com/fatih/color"

// Version information for the rpn CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = versionMajorColor.Sprint("0") + "." + versionMinorColor.Sprint("3") + "." + versionPatchColor.Sprint("0") + "-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Tagline is printed under the version in pretty output.
const Tagline = "a stack calculator with curried and composed functions"

// Info is the machine-readable form of the version data.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// Current returns the version data with colors stripped.
func Current() Info {
	return Info{
		Version:   stripANSI(Version),
		GitCommit: GitCommit,
		BuildDate: BuildDate,
	}
}

func stripANSI(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			// пропускаем CSI до финального байта
			for i < len(s) && (s[i] < 0x40 || s[i] > 0x7e || s[i] == '[') {
				i++
			}
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
