package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/corops/cordash/internal/auth"
	"github.com/corops/cordash/internal/backend"
	"github.com/corops/cordash/internal/session"
)

// fileConfig is the persisted CLI configuration.
type fileConfig struct {
	Server string `yaml:"server"`
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, applicationName)
}

// saveServer remembers the backend URL used on a successful login so later
// invocations don't need the flag.
func saveServer(url string) error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(fileConfig{Server: url})
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// newController builds the store, client and controller trio every command
// starts from, restoring any session persisted by a previous login.
func newController(ctx context.Context) (*auth.Controller, *backend.Client, error) {
	path, err := session.DefaultSessionPath()
	if err != nil {
		return nil, nil, err
	}
	store, err := session.NewFileStore(path)
	if err != nil {
		return nil, nil, err
	}

	client := backend.NewClient(serverURL())
	ctrl := auth.NewController(store, client)
	if err := ctrl.Restore(ctx); err != nil {
		return nil, nil, err
	}
	return ctrl, client, nil
}

// requireSession is newController plus the sign-in check.
func requireSession(ctx context.Context) (*auth.Controller, *backend.Client, error) {
	ctrl, client, err := newController(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !ctrl.Signed() {
		return nil, nil, fmt.Errorf("not logged in; run '%s auth login' first", applicationName)
	}
	return ctrl, client, nil
}
