package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movers-solution/movers/internal/access"
)

func runPolicy(t *testing.T, args ...string) (string, error) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("NAV_POLICY_FILE", "")

	cmd := NewPolicyCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writePolicy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPolicyShow_RoundTrips(t *testing.T) {
	out, err := runPolicy(t, "show")
	require.NoError(t, err)

	p, err := access.ParsePolicy([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, access.DefaultPolicy(), p)
}

func TestPolicyValidate(t *testing.T) {
	out, err := runPolicy(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "built-in policy is valid")

	good := writePolicy(t, "anonymous: [login, register]\nroles:\n  admin: [admin_dashboard]\n")
	out, err = runPolicy(t, "validate", "--file", good)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	bad := writePolicy(t, "anonymous: [admin_dashboard]\n")
	_, err = runPolicy(t, "validate", "--file", bad)
	assert.Error(t, err)

	_, err = runPolicy(t, "validate", "--file", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPolicyLinks(t *testing.T) {
	out, err := runPolicy(t, "links")
	require.NoError(t, err)

	assert.Contains(t, out, "(anonymous)")
	assert.Regexp(t, `\(anonymous\)\s+Login, Register\s+no`, out)
	assert.Regexp(t, `user\s+Admin Dashboard, Inventory, Quotes, Moves\s+yes`, out)
	assert.Regexp(t, `mover\s+Admin Dashboard, Quotes, Moves\s+yes`, out)
	assert.Regexp(t, `admin\s+Admin Dashboard\s+yes`, out)
}
