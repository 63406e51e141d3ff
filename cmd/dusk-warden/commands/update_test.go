package commands

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/dusk-labs/dusk-warden/internal/update"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReleaseServer(t *testing.T, tag string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/" + update.DefaultRepository + "/releases/latest":
			fmt.Fprintf(w, `{"tag_name": %q, "assets": [{"name": "dusk-warden-linux-amd64", "browser_download_url": %q}]}`,
				tag, srv.URL+"/download")
		case "/download":
			fmt.Fprint(w, "fresh-binary")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func updateDeps(env *testEnv, srv *httptest.Server, exe string) {
	env.deps.Update = update.Config{
		APIURL:     srv.URL,
		GOOS:       "linux",
		GOARCH:     "amd64",
		HTTPClient: srv.Client(),
		Executable: func() (string, error) { return exe, nil },
	}
}

func TestUpdateCommand_AlreadyUpToDate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	exe := env.path("dusk-warden")
	require.NoError(t, os.WriteFile(exe, []byte("current-binary"), 0755))
	updateDeps(env, newReleaseServer(t, "v1.4.0"), exe)

	out, err := execute(t, NewUpdateCommand(env.cfg, env.deps, "v1.4.0"), "")
	require.NoError(t, err)
	assert.Equal(t, "Already up to date (v1.4.0)\n", out)

	data, err := os.ReadFile(exe)
	require.NoError(t, err)
	assert.Equal(t, "current-binary", string(data))
}

func TestUpdateCommand_ReplacesBinary(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	exe := env.path("dusk-warden")
	require.NoError(t, os.WriteFile(exe, []byte("current-binary"), 0755))
	updateDeps(env, newReleaseServer(t, "v1.5.0"), exe)

	out, err := execute(t, NewUpdateCommand(env.cfg, env.deps, "v1.4.0"), "")
	require.NoError(t, err)
	assert.Contains(t, out, "from v1.4.0 to v1.5.0")

	data, err := os.ReadFile(exe)
	require.NoError(t, err)
	assert.Equal(t, "fresh-binary", string(data))
}
