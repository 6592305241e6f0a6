package main

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/graph-guard/omap/pkg/cli"
	"github.com/stretchr/testify/require"
)

var testFS = fstest.MapFS{
	"base.yaml": {Data: []byte(
		"name: base\n" +
			"port: 8080\n" +
			"tags: [a, b]\n",
	)},
	"override.json": {Data: []byte(
		`{"port": 9090, "debug": true}`,
	)},
	"conf/omerge.yml": {Data: []byte(
		"inputs:\n" +
			"  - ../base.yaml\n" +
			"format: json\n" +
			"log-level: error\n",
	)},
	"dup.yaml": {Data: []byte("a: 1\na: 2\n")},
}

func runTest(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	t.Setenv(cli.EnvLogLevel, "error")
	var o, e bytes.Buffer
	code = run(&o, &e, append([]string{"omerge"}, args...), testFS)
	return code, o.String(), e.String()
}

func TestMerge(t *testing.T) {
	code, out, errOut := runTest(t, "merge", "base.yaml", "override.json")
	require.Equal(t, 0, code, errOut)
	require.Equal(t,
		"name: base\n"+
			"port: 9090\n"+
			"tags:\n"+
			"  - a\n"+
			"  - b\n"+
			"debug: true\n",
		out,
	)
}

func TestMergeJSON(t *testing.T) {
	code, out, errOut := runTest(t,
		"merge", "-format", "json", "override.json", "base.yaml",
	)
	require.Equal(t, 0, code, errOut)
	require.Equal(t,
		"{\n"+
			"  \"port\": 8080,\n"+
			"  \"debug\": true,\n"+
			"  \"name\": \"base\",\n"+
			"  \"tags\": [\n"+
			"    \"a\",\n"+
			"    \"b\"\n"+
			"  ]\n"+
			"}\n",
		out,
	)
}

func TestMergeStrict(t *testing.T) {
	code, out, errOut := runTest(t,
		"merge", "-strict", "base.yaml", "override.json",
	)
	require.Equal(t, 1, code)
	require.Equal(t, "", out)
	require.Contains(t, errOut, `duplicate key \"port\"`)

	code, _, errOut = runTest(t, "merge", "-strict", "dup.yaml")
	require.Equal(t, 1, code)
	require.Contains(t, errOut, `duplicate key \"a\"`)
}

func TestMergeConfig(t *testing.T) {
	code, out, errOut := runTest(t,
		"merge", "-config", "conf/omerge.yml", "override.json",
	)
	require.Equal(t, 0, code, errOut)
	require.Equal(t,
		"{\n"+
			"  \"name\": \"base\",\n"+
			"  \"port\": 9090,\n"+
			"  \"tags\": [\n"+
			"    \"a\",\n"+
			"    \"b\"\n"+
			"  ],\n"+
			"  \"debug\": true\n"+
			"}\n",
		out,
	)

	code, out, errOut = runTest(t, "merge", "-config", "missing.yml")
	require.Equal(t, 1, code)
	require.Equal(t, "", out)
	require.Contains(t, errOut, `"level":"error"`)
	require.Contains(t, errOut, `"file":"missing.yml"`)
	require.Contains(t, errOut, `"error":"missing missing.yml"`)
	require.Contains(t, errOut, `"message":"reading config"`)
}

func TestMergeMissingInput(t *testing.T) {
	code, out, errOut := runTest(t, "merge", "absent.yaml")
	require.Equal(t, 1, code)
	require.Equal(t, "", out)
	require.Contains(t, errOut, "absent.yaml")
}

func TestKeys(t *testing.T) {
	code, out, errOut := runTest(t, "keys", "base.yaml")
	require.Equal(t, 0, code, errOut)
	require.Equal(t,
		"1. name (scalar)\n"+
			"2. port (scalar)\n"+
			"3. tags (sequence)\n",
		out,
	)
}

func TestUsage(t *testing.T) {
	code, _, errOut := runTest(t, "help")
	require.Equal(t, 0, code)
	require.Contains(t, errOut, "usage: omerge <command> [flags]")

	code, _, _ = runTest(t, "unknown")
	require.Equal(t, 2, code)
}
