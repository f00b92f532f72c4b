package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T, fn func() error) (stdout, stderr string, err error) {
	t.Helper()
	oldOut, oldErr := os.Stdout, os.Stderr
	defer func() {
		os.Stdout, os.Stderr = oldOut, oldErr
	}()

	outR, outW, _ := os.Pipe()
	errR, errW, _ := os.Pipe()
	os.Stdout, os.Stderr = outW, errW

	doneOut := make(chan struct{})
	var bufOut bytes.Buffer
	go func() { io.Copy(&bufOut, outR); close(doneOut) }()

	doneErr := make(chan struct{})
	var bufErr bytes.Buffer
	go func() { io.Copy(&bufErr, errR); close(doneErr) }()

	err = fn()
	outW.Close()
	errW.Close()
	<-doneOut
	<-doneErr
	stdout, stderr = bufOut.String(), bufErr.String()
	return
}

func writeSDL(t *testing.T, dir, name, sdl string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(sdl), 0644))
	return path
}

func TestHelp(t *testing.T) {
	out, _, err := captureOutput(t, func() error {
		return run([]string{"help", "validate"})
	})
	require.NoError(t, err)
	require.Contains(t, out, "validate FLAGS")
}

func TestComposeMergesSubgraphs(t *testing.T) {
	dir := t.TempDir()
	a := writeSDL(t, dir, "a.graphqls", `
		type Query { user: User }
		type User @key(fields: "id") { id: ID! name: String! }
	`)
	b := writeSDL(t, dir, "b.graphqls", `
		type Query { ping: String }
		type User @key(fields: "id") { id: ID! email: String! }
	`)

	out, _, err := captureOutput(t, func() error {
		return run([]string{"compose", "-subgraph", "a=" + a, "-subgraph", "b=" + b})
	})
	require.NoError(t, err)
	require.Contains(t, out, "type Query")
	require.Contains(t, out, "email: String!")
	require.NotContains(t, out, "@key")
}

func TestValidateSatisfiable(t *testing.T) {
	dir := t.TempDir()
	a := writeSDL(t, dir, "a.graphqls", `
		type Query { user: User }
		type User @key(fields: "id") { id: ID! name: String! }
	`)
	b := writeSDL(t, dir, "b.graphqls", `
		type Query { ping: String }
		type User @key(fields: "id") { id: ID! email: String! }
	`)

	out, _, err := captureOutput(t, func() error {
		return run([]string{"validate", "-subgraph", "a=" + a, "-subgraph", "b=" + b})
	})
	require.NoError(t, err)
	require.Contains(t, out, "supergraph is satisfiable")
}

func TestValidateReportsUnsatisfiable(t *testing.T) {
	dir := t.TempDir()
	a := writeSDL(t, dir, "a.graphqls", `
		type Query { user: User }
		type User @key(fields: "id") { id: ID! name: String! }
	`)
	// No @key on User here, so b's email field is unreachable.
	b := writeSDL(t, dir, "b.graphqls", `
		type Query { ping: String }
		type User { id: ID! email: String! }
	`)

	_, errOut, err := captureOutput(t, func() error {
		return run([]string{"validate", "-subgraph", "a=" + a, "-subgraph", "b=" + b})
	})
	require.Error(t, err)
	require.Contains(t, errOut, "SATISFIABILITY_ERROR")
	require.Contains(t, errOut, "cannot be satisfied by the subgraphs because")
}

func TestValidateManifest(t *testing.T) {
	dir := t.TempDir()
	writeSDL(t, dir, "a.graphqls", `
		type Query { status: String! }
	`)
	manifestPath := writeSDL(t, dir, "wiregraph.yaml", `
subgraphs:
  - name: a
    path: a.graphqls
`)

	out, _, err := captureOutput(t, func() error {
		return run([]string{"validate", "-config", manifestPath})
	})
	require.NoError(t, err)
	require.Contains(t, out, "supergraph is satisfiable")
}
