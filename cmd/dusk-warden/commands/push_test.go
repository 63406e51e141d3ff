package commands

import (
	"os"
	"testing"

	"github.com/dusk-labs/dusk-warden/internal/config"
	"github.com/dusk-labs/dusk-warden/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushCommand_UpdatesEveryMapping(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	apiPath, webPath := env.path("api.env"), env.path("web.env")
	env.writeConfig(t,
		config.SecretMapping{Path: apiPath, ID: "id-api"},
		config.SecretMapping{Path: webPath, ID: "id-web"},
	)
	require.NoError(t, os.WriteFile(apiPath, []byte("A=1"), 0600))
	require.NoError(t, os.WriteFile(webPath, []byte("B=2"), 0600))

	env.executor.AddJSONResponse("bws secret edit --value A=1 id-api", `{"object":"secret"}`)
	env.executor.AddJSONResponse("bws secret edit --value B=2 id-web", `{"object":"secret"}`)

	out, err := execute(t, NewPushCommand(env.cfg, env.deps), "")
	require.NoError(t, err)
	assert.Equal(t, "Pushed "+apiPath+"\nPushed "+webPath+"\n", out)

	calls := env.executor.GetCalls("bws")
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"secret", "edit", "--value", "A=1", "id-api"}, calls[0].Args)
	assert.Equal(t, []string{"secret", "edit", "--value", "B=2", "id-web"}, calls[1].Args)
}

func TestPushCommand_AccessDenied(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	first, second := env.path("one.env"), env.path("two.env")
	env.writeConfig(t,
		config.SecretMapping{Path: first, ID: "id-1"},
		config.SecretMapping{Path: second, ID: "id-2"},
	)
	require.NoError(t, os.WriteFile(first, []byte("one"), 0600))
	require.NoError(t, os.WriteFile(second, []byte("two"), 0600))

	env.executor.AddJSONResponse("bws secret edit --value one id-1", `{}`)
	env.executor.AddResponse("bws secret edit --value two id-2", testutil.BwsMockResponses{}.NotFound())

	out, err := execute(t, NewPushCommand(env.cfg, env.deps), "")
	require.Error(t, err)
	assert.Equal(t, "failed to push secret for "+second+": Secret id-2 not found or access denied. "+
		"Check that your service account token has write permissions.", err.Error())
	assert.Equal(t, "Pushed "+first+"\n", out)
}

func TestPushCommand_MissingFile(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	missing := env.path("missing.env")
	env.writeConfig(t, config.SecretMapping{Path: missing, ID: "id-1"})

	_, err := execute(t, NewPushCommand(env.cfg, env.deps), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read "+missing)
	assert.Equal(t, 0, env.executor.CallCount())
}

func TestPushCommand_DryRun(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	target := env.path(".env")
	env.writeConfig(t, config.SecretMapping{Path: target, ID: "id-1"})
	require.NoError(t, os.WriteFile(target, []byte("X=1"), 0600))

	out, err := execute(t, NewPushCommand(env.cfg, env.deps), "", "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, "Would push "+target+"\n", out)
	assert.Equal(t, 0, env.executor.CallCount())
}
