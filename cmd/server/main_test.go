package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserAdd(t *testing.T) {
	t.Setenv("DASHBOARD_DATABASE_PATH", filepath.Join(t.TempDir(), "cli.db"))

	run := func(args ...string) (string, error) {
		root := newRootCmd()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs(args)
		err := root.Execute()
		return out.String(), err
	}

	out, err := run("user", "add", "--email", "Admin@Example.com", "--password", "hunter22", "--name", "Admin")
	require.NoError(t, err)
	assert.Contains(t, out, "created user admin@example.com")

	_, err = run("user", "add", "--email", "admin@example.com", "--password", "hunter22")
	assert.Error(t, err, "duplicate email")

	_, err = run("user", "add", "--email", "anonymous@example.com", "--password", "hunter22")
	assert.ErrorContains(t, err, "reserved")

	_, err = run("user", "add", "--email", "x@example.com", "--password", "123")
	assert.Error(t, err)
}
