package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertFileContents verifies that a file exists and holds exactly expected.
//
// Example usage:
//
//	AssertFileContents(t, envPath, "DATABASE_URL=postgres://localhost/app\n")
func AssertFileContents(t *testing.T, path string, expected string) {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err, "Failed to read file %s", path)
	assert.Equal(t, expected, string(data), "File contents mismatch for %s", path)
}

// AssertFileMode verifies a file's permission bits.
func AssertFileMode(t *testing.T, path string, expected os.FileMode) {
	t.Helper()

	info, err := os.Stat(path)
	require.NoError(t, err, "Failed to stat file %s", path)
	assert.Equal(t, expected, info.Mode().Perm(), "File mode mismatch for %s", path)
}

// AssertNoSecretLeak verifies that none of the secret values appear in output.
//
// Example usage:
//
//	AssertNoSecretLeak(t, stdout+stderr, []string{token})
func AssertNoSecretLeak(t *testing.T, output string, secrets []string) {
	t.Helper()

	for _, secret := range secrets {
		assert.NotContains(t, output, secret,
			"Secret %q should never be printed, but appears in output", secret)
	}
}

// AssertErrorContains verifies that an error occurred and contains substr.
func AssertErrorContains(t *testing.T, err error, substr string) {
	t.Helper()

	require.Error(t, err, "Expected an error to occur")
	assert.Contains(t, err.Error(), substr, "Error message should contain %q", substr)
}
