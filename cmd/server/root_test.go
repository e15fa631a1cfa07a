package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}

	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "migrate")
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestServeCmd_Flags(t *testing.T) {
	cmd := NewServeCmd()

	for _, name := range []string{"port", "log-level", "environment", "database-url", "redis-url"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestServeCmd_RejectsArgs(t *testing.T) {
	_, err := executeRoot(t, "serve", "extra")
	require.Error(t, err)
}

func TestMigrateCmd_Args(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing command", args: []string{"migrate"}, wantErr: "accepts 1 arg(s)"},
		{name: "unknown command", args: []string{"migrate", "sideways"}, wantErr: `unknown migration command "sideways"`},
		{name: "too many", args: []string{"migrate", "up", "down"}, wantErr: "accepts 1 arg(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeRoot(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidMigrateCommand(t *testing.T) {
	for _, command := range migrateCommands {
		assert.NoError(t, validMigrateCommand(nil, []string{command}), command)
	}
	assert.Error(t, validMigrateCommand(nil, []string{"UP"}))
}
