package update

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGitHub struct {
	tag      string
	assets   []string
	binary   string
	releases int
	status   int
}

func (f *fakeGitHub) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	var server string
	mux.HandleFunc("/repos/dusk-labs/dusk-warden/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		f.releases++
		if f.status != 0 {
			w.WriteHeader(f.status)
			return
		}
		server = "http://" + r.Host
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"tag_name": %q, "assets": [`, f.tag)
		for i, name := range f.assets {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"name": %q, "browser_download_url": %q}`, name, server+"/download/"+name)
		}
		fmt.Fprint(w, "]}")
	})
	mux.HandleFunc("/download/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, f.binary)
	})
	return mux
}

func newTestUpdater(t *testing.T, gh *fakeGitHub, current string) (*Updater, string) {
	t.Helper()

	srv := httptest.NewServer(gh.handler(t))
	t.Cleanup(srv.Close)

	exe := filepath.Join(t.TempDir(), "dusk-warden")
	require.NoError(t, os.WriteFile(exe, []byte("old-binary"), 0755))

	u := New(Config{
		APIURL:     srv.URL,
		Current:    current,
		GOOS:       "linux",
		GOARCH:     "amd64",
		Executable: func() (string, error) { return exe, nil },
		HTTPClient: srv.Client(),
	}, nil)
	return u, exe
}

func TestUpdater_InstallsNewRelease(t *testing.T) {
	t.Parallel()

	gh := &fakeGitHub{
		tag:    "v1.3.0",
		assets: []string{"dusk-warden-darwin-arm64", "dusk-warden-linux-amd64"},
		binary: "new-binary",
	}
	u, exe := newTestUpdater(t, gh, "v1.2.0")

	result, err := u.Update(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Updated)
	assert.Equal(t, "v1.2.0", result.Previous)
	assert.Equal(t, "v1.3.0", result.Latest)

	data, err := os.ReadFile(exe)
	require.NoError(t, err)
	assert.Equal(t, "new-binary", string(data))

	info, err := os.Stat(exe)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(exe), ".dusk-warden-update-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestUpdater_AlreadyCurrent(t *testing.T) {
	t.Parallel()

	gh := &fakeGitHub{tag: "v1.2.0", assets: []string{"dusk-warden-linux-amd64"}, binary: "new-binary"}
	u, exe := newTestUpdater(t, gh, "1.2.0")

	result, err := u.Update(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Updated)

	data, err := os.ReadFile(exe)
	require.NoError(t, err)
	assert.Equal(t, "old-binary", string(data))
}

func TestUpdater_VersionComparison(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		current string
		tag     string
		want    bool
	}{
		{name: "newer patch", current: "v1.2.0", tag: "v1.2.1", want: true},
		{name: "same without prefix", current: "1.2.0", tag: "v1.2.0", want: false},
		{name: "running ahead of release", current: "v1.3.0-rc.1", tag: "v1.2.9", want: false},
		{name: "prerelease to final", current: "v1.3.0-rc.1", tag: "v1.3.0", want: true},
		{name: "dev build", current: "dev", tag: "v0.1.0", want: true},
		{name: "unparseable tag", current: "v1.0.0", tag: "nightly", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, isNewer(tt.tag, tt.current))
		})
	}
}

func TestUpdater_DevBuildTakesRelease(t *testing.T) {
	t.Parallel()

	gh := &fakeGitHub{tag: "v0.4.0", assets: []string{"dusk-warden-linux-amd64"}, binary: "release-binary"}
	u, exe := newTestUpdater(t, gh, "dev")

	result, err := u.Update(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Updated)

	data, err := os.ReadFile(exe)
	require.NoError(t, err)
	assert.Equal(t, "release-binary", string(data))
}

func TestUpdater_MissingPlatformAsset(t *testing.T) {
	t.Parallel()

	gh := &fakeGitHub{tag: "v1.3.0", assets: []string{"dusk-warden-windows-amd64.exe"}}
	u, _ := newTestUpdater(t, gh, "v1.2.0")

	_, err := u.Update(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no build for linux/amd64")
}

func TestUpdater_ReleaseLookupFailure(t *testing.T) {
	t.Parallel()

	gh := &fakeGitHub{status: http.StatusForbidden}
	u, _ := newTestUpdater(t, gh, "v1.2.0")

	_, err := u.Update(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.Equal(t, 1, gh.releases)
}

func TestUpdater_AssetName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "dusk-warden-linux-arm64", New(Config{GOOS: "linux", GOARCH: "arm64"}, nil).AssetName())
	assert.Equal(t, "dusk-warden-windows-amd64.exe", New(Config{GOOS: "windows", GOARCH: "amd64"}, nil).AssetName())
}
