package version

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/evolvedu/internal/ux"
)

func TestGetInfo(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, Date
	t.Cleanup(func() {
		Version, Commit, Date = origVersion, origCommit, origDate
	})

	Version = "1.0.0"
	Commit = "abc123def456"
	Date = "2024-01-01T12:00:00Z"

	info := GetInfo()

	assert.Equal(t, "1.0.0", info.Version)
	assert.Equal(t, "abc123def456", info.Commit)
	assert.Equal(t, "2024-01-01T12:00:00Z", info.Date)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want []string // Substrings that should be present
	}{
		{
			name: "full version info",
			info: Info{
				Version:   "1.0.0",
				Commit:    "abc123def456",
				Date:      "2024-01-01T12:00:00Z",
				GoVersion: "go1.22.0",
				Platform:  "linux/amd64",
			},
			want: []string{"evolvedu", "1.0.0", "abc123de", "2024-01-01T12:00:00Z", "go1.22.0", "linux/amd64"},
		},
		{
			name: "short commit hash",
			info: Info{Version: "1.0.0", Commit: "abc123", Date: "2024-01-01", GoVersion: "go1.22.0", Platform: "darwin/arm64"},
			want: []string{"evolvedu", "1.0.0", "abc123", "darwin/arm64"},
		},
		{
			name: "dev version",
			info: Info{Version: "dev", Commit: "unknown", Date: "unknown"},
			want: []string{"evolvedu", "dev", "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.info.String()
			for _, substr := range tt.want {
				assert.Contains(t, got, substr)
			}
		})
	}

	assert.NotContains(t, Info{Commit: "abc123def456"}.String(), "abc123def456")
}

func TestInfoShort(t *testing.T) {
	assert.Equal(t, "2.1.0", Info{Version: "2.1.0", Commit: "x"}.Short())
}

func TestUserAgent(t *testing.T) {
	info := Info{Version: "1.2.3", Platform: "linux/amd64"}
	assert.Equal(t, "evolvedu/1.2.3 (linux/amd64)", info.UserAgent())
}

func TestInfoText(t *testing.T) {
	info := Info{Version: "1.2.3", Commit: "abc123def456", Date: "2025-01-02", GoVersion: "go1.24.6", Platform: "linux/amd64"}

	var buf bytes.Buffer
	f, err := ux.NewFormatter("text", &ux.FormatterOptions{Writer: &buf, NoColor: true})
	require.NoError(t, err)
	require.NoError(t, f.Format(info))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "evolvedu 1.2.3\n"))
	assert.Contains(t, out, "abc123de")
	assert.Contains(t, out, "linux/amd64")
}
