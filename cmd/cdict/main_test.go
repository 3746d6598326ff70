package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/milden6/numdawg"
)

const pokemon = "abra\nabsol\ncrobat\ngolbat\nkadabra\nmew\nmewtwo\nzubat\n"

func runWith(t *testing.T, args []string, stdin string) (string, error) {
	t.Helper()
	cfg, err := parseConfig(args, io.Discard)
	require.NoError(t, err)

	var out bytes.Buffer
	err = run(cfg, strings.NewReader(stdin), &out)
	return out.String(), err
}

func TestParseConfig(t *testing.T) {
	cfg, err := parseConfig(nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, &config{format: "text"}, cfg)

	cfg, err = parseConfig([]string{"-plain", "-check", "-format", "yaml", "-o", "out.dawg", "words.txt"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, &config{
		dictFile: "words.txt",
		format:   "yaml",
		plain:    true,
		check:    true,
		output:   "out.dawg",
	}, cfg)

	_, err = parseConfig([]string{"a.txt", "b.txt"}, io.Discard)
	assert.Error(t, err)

	_, err = parseConfig([]string{"-format", "xml"}, io.Discard)
	assert.Error(t, err)

	_, err = parseConfig([]string{"-nope"}, io.Discard)
	assert.Error(t, err)
}

func TestRunText(t *testing.T) {
	out, err := runWith(t, nil, pokemon)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "state 0\n"))
	assert.Contains(t, out, "final")
	assert.Contains(t, out, "'z' -> ")
}

func TestRunYAML(t *testing.T) {
	out, err := runWith(t, []string{"-format", "yaml"}, pokemon)
	require.NoError(t, err)

	var snap numdawg.Snapshot
	require.NoError(t, yaml.Unmarshal([]byte(out), &snap))
	assert.True(t, snap.Numbered)
	assert.Equal(t, 8, snap.Words)
	require.NotEmpty(t, snap.States)
	assert.Len(t, snap.States[0].Transitions, 6)
}

func TestRunPlain(t *testing.T) {
	out, err := runWith(t, []string{"-plain", "-format", "yaml"}, pokemon)
	require.NoError(t, err)

	var snap numdawg.Snapshot
	require.NoError(t, yaml.Unmarshal([]byte(out), &snap))
	assert.False(t, snap.Numbered)
}

func TestRunCRLF(t *testing.T) {
	out, err := runWith(t, nil, "a\r\nb\r\n")
	require.NoError(t, err)
	assert.NotContains(t, out, "\r")
}

func TestRunCheck(t *testing.T) {
	_, err := runWith(t, []string{"-check"}, "b\na\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = runWith(t, []string{"-check", "-sort"}, "b\na\n")
	assert.NoError(t, err)
}

func TestRunInvalidUTF8(t *testing.T) {
	_, err := runWith(t, nil, "abra\n\xfe\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = runWith(t, []string{"-sort"}, "\xff\nabra\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestRunSave(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "pokemon.dawg")
	_, err := runWith(t, []string{"-o", filename}, pokemon)
	require.NoError(t, err)

	a, err := numdawg.Load(filename)
	require.NoError(t, err)
	assert.Equal(t, 8, a.Rank("zubat"))
}

func TestRunDictFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(filename, []byte(pokemon), 0o644))

	fromFile, err := runWith(t, []string{filename}, "")
	require.NoError(t, err)
	fromStdin, err := runWith(t, nil, pokemon)
	require.NoError(t, err)
	assert.Equal(t, fromStdin, fromFile)

	_, err = runWith(t, []string{filepath.Join(t.TempDir(), "missing.txt")}, "")
	assert.Error(t, err)
}
