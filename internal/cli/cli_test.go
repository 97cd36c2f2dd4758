package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corops/cordash/internal/testutil"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestEntryID(t *testing.T) {
	tests := []struct {
		arg     string
		want    int64
		wantErr bool
	}{
		{arg: "7", want: 7},
		{arg: "0", wantErr: true},
		{arg: "-3", wantErr: true},
		{arg: "abc", wantErr: true},
	}

	for _, tt := range tests {
		got, err := entryID([]string{tt.arg})
		if tt.wantErr {
			assert.Error(t, err, tt.arg)
			continue
		}
		require.NoError(t, err, tt.arg)
		assert.Equal(t, tt.want, got)
	}
}

func TestCommandsRequireLogin(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	api := testutil.NewFakeAPI("ana", "s3cret")
	defer api.Close()

	err := run(t, "summary", "--server", api.URL())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestLoginStatusLogoutFlow(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	api := testutil.NewFakeAPI("ana", "s3cret")
	defer api.Close()

	require.NoError(t, run(t, "auth", "login", "-u", "ana", "-p", "s3cret", "--server", api.URL()))
	assert.Equal(t, 1, api.LoginCalls())

	sessionPath := filepath.Join(configHome, "cordash", "session.yaml")
	info, err := os.Stat(sessionPath)
	require.NoError(t, err, "login persists the session file")
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, run(t, "auth", "status", "--server", api.URL()))
	require.NoError(t, run(t, "summary", "--server", api.URL()))
	require.NoError(t, run(t, "social", "--latest", "--server", api.URL()))
	require.NoError(t, run(t, "downloads", "--total", "--server", api.URL()))

	require.NoError(t, run(t, "auth", "logout", "--server", api.URL()))
	err = run(t, "summary", "--server", api.URL())
	require.Error(t, err, "logged-out session no longer authorizes commands")
}

func TestManualEntryCommands(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	api := testutil.NewFakeAPI("ana", "s3cret")
	defer api.Close()

	require.NoError(t, run(t, "auth", "login", "-u", "ana", "-p", "s3cret", "--server", api.URL()))

	require.NoError(t, run(t, "manual", "add",
		"--platform", "instagram",
		"--name", "Seguidores",
		"--value", "15000",
		"--by", "Ana",
		"--server", api.URL()))
	entries := api.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Seguidores", entries[0].MetricName)

	require.NoError(t, run(t, "manual", "update", "1",
		"--platform", "threads",
		"--name", "Curtidas",
		"--value", "900",
		"--by", "Bruno",
		"--server", api.URL()))
	entries = api.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Curtidas", entries[0].MetricName)

	require.NoError(t, run(t, "manual", "list", "--server", api.URL()))

	require.NoError(t, run(t, "manual", "delete", "1", "--server", api.URL()))
	assert.Empty(t, api.Entries())
}

func TestInvalidManualInputFailsLocally(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	api := testutil.NewFakeAPI("ana", "s3cret")
	defer api.Close()

	require.NoError(t, run(t, "auth", "login", "-u", "ana", "-p", "s3cret", "--server", api.URL()))

	err := run(t, "manual", "add",
		"--platform", "myspace",
		"--name", "Seguidores",
		"--value", "10",
		"--by", "Ana",
		"--server", api.URL())
	require.Error(t, err)
	assert.Empty(t, api.Entries(), "invalid platform never reaches the backend")
}
