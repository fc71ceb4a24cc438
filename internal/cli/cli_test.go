package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/cardfile/pkg/types"
)

const sampleCards = "BEGIN:VCARD\n" +
	"VERSION:3.0\n" +
	"N:Doe;John;;;\n" +
	"FN:John Doe\n" +
	"TEL;TYPE=WORK:555-1111\n" +
	"TEL;TYPE=HOME:555-2222\n" +
	"END:VCARD\n" +
	"BEGIN:VCARD\n" +
	"VERSION:3.0\n" +
	"N:Smith;Ann;;;\n" +
	"FN:Ann Smith\n" +
	"TEL:555-3333\n" +
	"EMAIL:ann@example.com\n" +
	"END:VCARD\n"

// cliEnv is an isolated config and data directory pair.
type cliEnv struct {
	dir       string
	configDir string
	dataDir   string
}

type result struct {
	stdout string
	stderr string
	code   int
}

func newEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CARDFILE_LOG_LEVEL", "")
	return &cliEnv{
		dir:       dir,
		configDir: filepath.Join(dir, "config"),
		dataDir:   filepath.Join(dir, "data"),
	}
}

func (e *cliEnv) run(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	full := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...)
	code := run(context.Background(), root, full, &stderr)
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func (e *cliEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// imported returns an env holding the two sample contacts.
func imported(t *testing.T) *cliEnv {
	t.Helper()
	e := newEnv(t)
	res := e.run(t, "import", e.writeFile(t, "sample.vcf", sampleCards))
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "imported 2 contacts\n", res.stdout)
	return e
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	res := e.run(t, "version")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "cardfile v"+Version+"\nmodule: github.com/mesh-intelligence/cardfile\n", res.stdout)
}

func TestInit(t *testing.T) {
	e := newEnv(t)

	res := e.run(t, "init")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "cardfile initialized")

	data, err := os.ReadFile(filepath.Join(e.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: sqlite")
	assert.Contains(t, string(data), "sync: immediate")
	assert.FileExists(t, filepath.Join(e.dataDir, "contacts.jsonl"))

	// Running init again leaves an edited config alone.
	custom := "backend: sqlite\nlog_level: warn\n"
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte(custom), 0o644))
	res = e.run(t, "init")
	require.Equal(t, 0, res.code, res.stderr)
	data, err = os.ReadFile(filepath.Join(e.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}

func TestImportErrors(t *testing.T) {
	e := newEnv(t)
	vcf := e.writeFile(t, "a.vcf", sampleCards)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no file", args: []string{"import"}},
		{name: "missing file", args: []string{"import", filepath.Join(e.dir, "nope.vcf")}},
		{name: "file and qr", args: []string{"import", vcf, "--qr", vcf}},
		{name: "qr not a png", args: []string{"import", "--qr", vcf}},
		{name: "invalid utf8", args: []string{"import", e.writeFile(t, "bad.vcf", "FN:\xff\n")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.run(t, tt.args...)
			assert.Equal(t, exitUserError, res.code)
			assert.True(t, strings.HasPrefix(res.stderr, "Error: "), res.stderr)
		})
	}
}

func TestListPiped(t *testing.T) {
	e := imported(t)

	res := e.run(t, "list")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t,
		"0\tDoe\tJohn\tJohn Doe\t555-1111\t555-2222\n"+
			"1\tSmith\tAnn\tAnn Smith\t\t\n",
		res.stdout)

	res = e.run(t, "list", "--search", "SMI")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "1\tSmith\tAnn\tAnn Smith\t\t\n", res.stdout)
}

func TestListJSON(t *testing.T) {
	e := imported(t)

	res := e.run(t, "list", "--json")
	require.Equal(t, 0, res.code, res.stderr)

	var entries []types.Entry
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "555-3333", entries[1].Contact.Value(types.FieldTel))
	assert.Equal(t, "ann@example.com", entries[1].Contact.Extra["EMAIL"])
}

func TestShow(t *testing.T) {
	e := imported(t)

	res := e.run(t, "show", "1")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Regexp(t, `full_name:\s+Ann Smith\n`, res.stdout)
	assert.Regexp(t, `tel:\s+555-3333\n`, res.stdout)
	assert.Regexp(t, `EMAIL:\s+ann@example.com\n`, res.stdout)
	assert.NotContains(t, res.stdout, "tel_work")

	tests := []struct {
		name string
		arg  string
	}{
		{name: "out of range", arg: "5"},
		{name: "negative", arg: "-1"},
		{name: "not a number", arg: "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.run(t, "show", "--", tt.arg)
			assert.Equal(t, exitUserError, res.code)
		})
	}
}

func TestAddAndEdit(t *testing.T) {
	e := imported(t)

	res := e.run(t, "add", "--family", "Roe", "--full-name", "Jane Roe")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "added contact 2\n", res.stdout)

	res = e.run(t, "edit", "2", "--tel-home", "555-7777")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "updated contact 2\n", res.stdout)

	res = e.run(t, "show", "--json", "2")
	require.Equal(t, 0, res.code, res.stderr)
	var entry types.Entry
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &entry))
	assert.Equal(t, types.Contact{
		Family:   types.Str("Roe"),
		Given:    types.Str(""),
		FullName: types.Str("Jane Roe"),
		TelWork:  types.Str(""),
		TelHome:  types.Str("555-7777"),
	}, entry.Contact)

	// Editing keeps the unclassified telephone and pass-through fields.
	res = e.run(t, "edit", "1", "--given", "Anne")
	require.Equal(t, 0, res.code, res.stderr)
	res = e.run(t, "show", "--json", "1")
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &entry))
	assert.Equal(t, "Anne", entry.Contact.Value(types.FieldGiven))
	assert.Equal(t, "Smith", entry.Contact.Value(types.FieldFamily))
	assert.Equal(t, "555-3333", entry.Contact.Value(types.FieldTel))
	assert.Equal(t, "ann@example.com", entry.Contact.Extra["EMAIL"])

	res = e.run(t, "edit", "9", "--given", "X")
	assert.Equal(t, exitUserError, res.code)
}

func TestDelete(t *testing.T) {
	e := imported(t)

	res := e.run(t, "delete", "0")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "deleted contact 0\n", res.stdout)

	res = e.run(t, "list")
	assert.Equal(t, "0\tSmith\tAnn\tAnn Smith\t\t\n", res.stdout)

	res = e.run(t, "delete", "1")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "contact not found")
}

func TestExport(t *testing.T) {
	e := imported(t)

	res := e.run(t, "export", "csv")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t,
		"family,given,full_name,tel_work,tel_home\r\n"+
			"Doe,John,John Doe,555-1111,555-2222\r\n"+
			"Smith,Ann,Ann Smith,,\r\n",
		res.stdout)

	out := filepath.Join(e.dir, "out.vcf")
	res = e.run(t, "export", "vcf", "-o", out)
	require.Equal(t, 0, res.code, res.stderr)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t,
		"BEGIN:VCARD\nVERSION:3.0\nN:Doe;John;;;\nFN:John Doe\nTEL;TYPE=WORK:555-1111\nTEL;TYPE=HOME:555-2222\nEND:VCARD\n"+
			"BEGIN:VCARD\nVERSION:3.0\nN:Smith;Ann;;;\nFN:Ann Smith\nEND:VCARD\n",
		string(data))

	res = e.run(t, "export", "json")
	assert.Equal(t, exitUserError, res.code)
}

func TestQRRoundTrip(t *testing.T) {
	e := imported(t)
	png := filepath.Join(e.dir, "john.png")

	res := e.run(t, "qr", "0", "-o", png)
	require.Equal(t, 0, res.code, res.stderr)
	assert.FileExists(t, png)

	res = e.run(t, "import", "--qr", png)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "imported 1 contacts\n", res.stdout)

	res = e.run(t, "list")
	assert.Equal(t, "0\tDoe\tJohn\tJohn Doe\t555-1111\t555-2222\n", res.stdout)

	res = e.run(t, "qr", "0")
	assert.Equal(t, exitUserError, res.code, "missing -o")
	res = e.run(t, "qr", "0", "-o", png, "--size", "99999")
	assert.Equal(t, exitUserError, res.code)
}

func TestLint(t *testing.T) {
	e := newEnv(t)

	res := e.run(t, "lint", e.writeFile(t, "good.vcf", sampleCards))
	assert.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, ": ok")

	res = e.run(t, "lint", e.writeFile(t, "nofn.vcf", "BEGIN:VCARD\nVERSION:3.0\nN:Doe;;;;\nEND:VCARD\n"))
	assert.Equal(t, exitUserError, res.code)
	assert.Equal(t, "card 0: missing FN\n", res.stdout)

	res = e.run(t, "lint", filepath.Join(e.dir, "missing.vcf"))
	assert.Equal(t, exitUserError, res.code)
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{name: "unknown backend", config: "backend: postgres\n"},
		{name: "unknown sync", config: "sync: sometimes\n"},
		{name: "bad log level", config: "log_level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			require.NoError(t, os.MkdirAll(e.configDir, 0o755))
			require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte(tt.config), 0o644))

			res := e.run(t, "list")
			assert.Equal(t, exitUserError, res.code, res.stderr)
		})
	}
}

func TestOnCloseSync(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte("sync: on_close\n"), 0o644))

	res := e.run(t, "add", "--full-name", "Deferred")
	require.Equal(t, 0, res.code, res.stderr)

	data, err := os.ReadFile(filepath.Join(e.dataDir, "contacts.jsonl"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Deferred")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(errors.New("plain")))
	assert.Equal(t, exitUserError, exitCode(userError("bad %s", "input")))
	assert.Equal(t, exitSysError, exitCode(sysError("disk: %w", os.ErrPermission)))
	assert.ErrorIs(t, sysError("disk: %w", os.ErrPermission), os.ErrPermission)
}
