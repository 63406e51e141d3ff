package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dusk-labs/dusk-warden/internal/config"
	"github.com/dusk-labs/dusk-warden/internal/credentials"
	"github.com/dusk-labs/dusk-warden/tests/fakes"
	"github.com/dusk-labs/dusk-warden/tests/testutil"
	"github.com/spf13/cobra"
)

const testToken = "0.48b4774c-68ad-4b63-9c7b-8f0a2e3f5f7e.bws-test-token"

// testEnv bundles the collaborators a command test inspects.
type testEnv struct {
	builder  *testutil.TestConfigBuilder
	cfg      *config.Config
	deps     *Deps
	executor *testutil.MockCommandExecutor
	keychain *fakes.FakeKeychainClient
	logs     *testutil.TestLogger
}

// newTestEnv creates a temp dir holding a configuration with no mappings.
// The token is available from the environment.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	builder := testutil.NewTestConfig(t)
	logs := testutil.NewTestLogger(t, false)

	executor := testutil.NewMockCommandExecutor()
	executor.StrictMode = true
	keychain := fakes.NewFakeKeychainClient()

	return &testEnv{
		builder: builder,
		cfg: &config.Config{
			Path:   builder.Write(),
			Logger: logs.Logger,
		},
		deps: &Deps{
			Executor:  executor,
			Keychain:  keychain,
			LookupEnv: fakes.Env(map[string]string{credentials.EnvVar: testToken}),
		},
		executor: executor,
		keychain: keychain,
		logs:     logs,
	}
}

// writeConfig adds mappings to the configuration file.
func (e *testEnv) writeConfig(t *testing.T, mappings ...config.SecretMapping) {
	t.Helper()

	for _, m := range mappings {
		e.builder.WithMapping(m.Path, m.ID)
	}
	e.cfg.Path = e.builder.Write()
}

func (e *testEnv) path(name string) string {
	return e.builder.Path(name)
}

// execute runs cmd with args and returns what it printed to stdout.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	testutil.AssertNoSecretLeak(t, stdout.String()+stderr.String(), []string{testToken})
	return stdout.String(), err
}
