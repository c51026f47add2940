package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skdltmxn/idlib-go/internal/config"
	"github.com/skdltmxn/idlib-go/internal/records"
	"github.com/skdltmxn/idlib-go/internal/testutil"
	"github.com/skdltmxn/idlib-go/procmem"
)

type fixture struct {
	dump string
	root procmem.Address
}

func (f fixture) args(rest ...string) []string {
	return append([]string{
		"--dump", f.dump,
		"--base", testutil.DefaultBase.String(),
		"--log-pretty=false",
	}, rest...)
}

func newFixture(t *testing.T, r testutil.Root) fixture {
	t.Helper()
	b := testutil.NewBuilder(testutil.DefaultBase)
	root := b.Root(r)

	path := filepath.Join(t.TempDir(), "mem.bin")
	require.NoError(t, os.WriteFile(path, b.Region(), 0o600))
	return fixture{dump: path, root: root}
}

func gameFixture(t *testing.T) fixture {
	return newFixture(t, testutil.Root{
		Project: "Game",
		Classes: []testutil.Class{{
			Name: "Entity",
			Hash: 0x1111,
			Size: 16,
			Meta: "category=actor",
			Variables: []testutil.Field{
				{Type: "int", Name: "health", Offset: 8, Size: 4, Hash: 0x77, Comment: "hit points"},
			},
		}},
		Enums: []testutil.Enum{{
			Name:  "State",
			Hash:  0x2222,
			Width: records.EnumU8,
			Values: []testutil.EnumValue{
				{Name: "Idle", Value: 0, Hash: 1},
				{Name: "Run", Value: 1, Hash: 2},
			},
		}},
		Typedefs: []testutil.Typedef{{Name: "health_t", Type: "int", Size: 4}},
	})
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errb bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errb)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errb.String(), err
}

func readDocument(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var doc []map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestDump_WritesFile(t *testing.T) {
	f := gameFixture(t)
	out := filepath.Join(t.TempDir(), "idlib.json")

	_, stderr, err := run(t, f.args("dump", f.root.String(), "-o", out)...)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	doc := readDocument(t, data)
	require.Len(t, doc, 1)
	assert.Equal(t, "Game", doc[0]["project_name"])
	assert.Len(t, doc[0]["classes"], 1)
	assert.Len(t, doc[0]["enums"], 1)
	assert.Equal(t, []any{}, doc[0]["typedefs"], "typedefs are off by default")

	assert.Contains(t, stderr, "wrote reflection document")
	assert.Contains(t, stderr, `"xxh3"`)
}

func TestDump_Stdout(t *testing.T) {
	f := gameFixture(t)

	stdout, _, err := run(t, f.args("dump", "--typedefs", f.root.String(), "-o", "-")...)
	require.NoError(t, err)

	doc := readDocument(t, []byte(stdout))
	require.Len(t, doc, 1)
	assert.Len(t, doc[0]["typedefs"], 1)
}

func TestDump_ConfigFile(t *testing.T) {
	f := gameFixture(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "out.json")

	cfg := "dump: " + f.dump + "\n" +
		"base: \"" + testutil.DefaultBase.String() + "\"\n" +
		"roots: [\"" + f.root.String() + "\", \"" + f.root.String() + "\"]\n" +
		"output: " + out + "\n" +
		"typedefs: true\n" +
		"log: {level: warn, pretty: false}\n"
	cfgPath := filepath.Join(dir, "idlib.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	_, stderr, err := run(t, "--config", cfgPath, "dump")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "wrote reflection document", "info suppressed at warn")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	doc := readDocument(t, data)
	require.Len(t, doc, 2, "one element per root")
	assert.Len(t, doc[1]["typedefs"], 1)
}

func TestDump_FailFastAndKeepGoing(t *testing.T) {
	f := newFixture(t, testutil.Root{
		Project: "P",
		Classes: []testutil.Class{{Name: "A"}, {}, {Name: "C"}},
	})
	out := filepath.Join(t.TempDir(), "idlib.json")

	_, _, err := run(t, f.args("dump", f.root.String(), "-o", out)...)
	require.Error(t, err)
	assert.NoFileExists(t, out, "nothing written on failure")

	_, stderr, err := run(t, f.args("dump", "--keep-going", f.root.String(), "-o", out)...)
	require.NoError(t, err)
	assert.Contains(t, stderr, "skipping class")
	assert.Contains(t, stderr, `"component":"typeinfo"`, "decoder logs carry their component")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Len(t, readDocument(t, data)[0]["classes"], 2)
}

func TestDump_Errors(t *testing.T) {
	f := gameFixture(t)

	_, _, err := run(t, "dump", f.root.String())
	assert.ErrorIs(t, err, config.ErrInvalid, "no target")

	_, _, err = run(t, f.args("dump")...)
	assert.ErrorIs(t, err, config.ErrInvalid, "no roots")

	_, _, err = run(t, f.args("dump", testutil.Unmapped.String(), "-o", "-")...)
	assert.ErrorIs(t, err, procmem.ErrReadFailed)

	_, _, err = run(t, f.args("dump", "--string-window", "0", f.root.String())...)
	assert.Error(t, err)
}

func TestInfo(t *testing.T) {
	f := gameFixture(t)

	stdout, _, err := run(t, f.args("info", f.root.String())...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Dump: "+f.dump)
	assert.Contains(t, stdout, "Project: Game")
	assert.Contains(t, stdout, "Classes: 1 at")
	assert.Contains(t, stdout, "Enums: 1 at")
	assert.Contains(t, stdout, "Typedefs: 1 at")
}

func TestClasses(t *testing.T) {
	f := gameFixture(t)

	stdout, _, err := run(t, f.args("classes", f.root.String())...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Entity")
	assert.Contains(t, stdout, "Total: 1 classes")

	stdout, _, err = run(t, f.args("classes", "--filter", "zzz", f.root.String())...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Total: 0 classes")
}

func TestClasses_DashWritesStdout(t *testing.T) {
	f := gameFixture(t)
	dir := t.TempDir()
	// Equivalent of t.Chdir (Go 1.24+) for the Go 1.21 toolchain.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	stdout, _, err := run(t, f.args("classes", "-o", "-", f.root.String())...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Entity")
	assert.NoFileExists(t, filepath.Join(dir, "-"))
}

func TestEnums(t *testing.T) {
	f := gameFixture(t)
	out := filepath.Join(t.TempDir(), "enums.txt")

	_, _, err := run(t, f.args("enums", f.root.String(), "-o", out)...)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "State")
	assert.Contains(t, string(data), "u8")
	assert.Contains(t, string(data), "Total: 1 enums")
}

func TestLookup(t *testing.T) {
	f := gameFixture(t)

	stdout, _, err := run(t, f.args("lookup", f.root.String(), "Entity")...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Class:")
	assert.Contains(t, stdout, "MetaData: category=actor")
	assert.Contains(t, stdout, "int health")
	assert.Contains(t, stdout, "// hit points")

	stdout, _, err = run(t, f.args("lookup", f.root.String(), "State")...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Enum:")
	assert.Contains(t, stdout, "Idle = 0")

	stdout, _, err = run(t, f.args("lookup", f.root.String(), "Missing")...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No class or enum named 'Missing'")
}
