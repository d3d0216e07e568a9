package expect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dl/linematch/internal/capture"
	"github.com/dl/linematch/internal/options"
	"github.com/dl/linematch/internal/pattern"
	"github.com/dl/linematch/internal/report"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newRunner() *Runner {
	return NewRunner(capture.NewFileReader(), options.Set{}, report.PlainStyles(), nil)
}

func TestLoad_Decode(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "expect.yaml", `
options: {flavor: glob}
streams: {status: status.txt}
expect:
  - name: scalar
    match: "build *"
    count: 1
  - block: ["a", {re2: "b+"}]
    context: 0
`)
	f, err := Load(path)
	require.NoError(t, err)
	require.Len(t, f.Expect, 2)

	kind, pats, err := f.Expect[0].Assertion()
	require.NoError(t, err)
	assert.Equal(t, KindMatch, kind)
	assert.Equal(t, []string{"build *"}, pats.Display())
	require.NotNil(t, f.Expect[0].Count)
	assert.Equal(t, 1, *f.Expect[0].Count)

	kind, pats, err = f.Expect[1].Assertion()
	require.NoError(t, err)
	assert.Equal(t, KindBlock, kind)
	assert.Equal(t, []string{"a", "b+"}, pats.Display())
	require.NotNil(t, f.Expect[1].Context)
	assert.Zero(t, *f.Expect[1].Context)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, dir, "empty.yaml", "streams: {status: s.txt}\n"))
	assert.ErrorContains(t, err, "no expect entries")

	_, err = Load(writeFile(t, dir, "bad.yaml", "expect:\n  - match: {nope: x}\n"))
	assert.Error(t, err)
}

func TestExpectation_Assertion(t *testing.T) {
	var e Expectation
	_, _, err := e.Assertion()
	assert.ErrorIs(t, err, ErrNoAssertion)

	e.Match = Patterns{set: true, scalar: true, text: "x"}
	e.NoBlock = Patterns{set: true, scalar: true, text: "y"}
	_, _, err = e.Assertion()
	assert.ErrorIs(t, err, ErrManyAssertions)
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "status.txt", "building [html]...\n\n\nbuild succeeded.\n")
	writeFile(t, dir, "warning.txt", "WARNING: undefined label: foo\nWARNING: undefined label: bar\n")
	path := writeFile(t, dir, "expect.yaml", `
options: {flavor: glob}
streams: {status: status.txt, warning: warning.txt}
expect:
  - name: succeeded
    match: "build succeeded*"
  - stream: warning
    match: "*undefined label*"
    count: 2
  - stream: warning
    no_match: "*duplicate*"
  - name: compressed block
    block: ["building*", "", "build*"]
    options: {compress: true}
  - name: failing
    stream: warning
    match: "*undefined label*"
    count: 1
`)

	rep := newRunner().RunFile(path)
	require.NoError(t, rep.Err)
	require.Len(t, rep.Outcomes, 5)

	for _, o := range rep.Outcomes[:4] {
		assert.True(t, o.Passed, "expectation %d (%s): %s %v", o.Index, o.Name, o.Message, o.Err)
	}

	failed := rep.Outcomes[4]
	assert.False(t, failed.Passed)
	assert.NoError(t, failed.Err)
	assert.Equal(t, capture.Warning, failed.Stream)
	assert.Contains(t, failed.Message, "found 2 != 1 line matching")

	passed, nfailed := rep.Counts()
	assert.Equal(t, 4, passed)
	assert.Equal(t, 1, nfailed)
	assert.False(t, rep.Passed())
}

func TestRun_OptionsArePerExpectation(t *testing.T) {
	f := &File{
		Streams: map[string]string{"status": "status.txt"},
		Expect: []Expectation{
			{NoMatch: Patterns{set: true, scalar: true, text: "b"}, Options: map[string]any{"delete": "a"}},
			{Match: Patterns{set: true, scalar: true, text: "ab"}},
		},
	}
	dir := t.TempDir()
	writeFile(t, dir, "status.txt", "ab\n")

	outcomes, err := newRunner().Run(f, dir)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.False(t, outcomes[0].Passed, "delete turns ab into b")
	assert.True(t, outcomes[1].Passed, "the override does not leak")
}

func TestRun_ConfigErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "status.txt", "x\n")

	_, err := newRunner().Run(&File{Options: map[string]any{"colour": true}}, dir)
	var cerr *options.ConfigError
	assert.ErrorAs(t, err, &cerr)

	_, err = newRunner().Run(&File{Streams: map[string]string{"stderr": "status.txt"}}, dir)
	assert.ErrorContains(t, err, "unknown stream")

	outcomes, err := newRunner().Run(&File{
		Streams: map[string]string{"status": "status.txt"},
		Expect: []Expectation{
			{Match: Patterns{set: true, scalar: true, text: "x"}, Flavor: "sql"},
			{Match: Patterns{set: true, scalar: true, text: "x"}, Stream: "warning"},
			{Match: Patterns{set: true, scalar: true, text: "x"}, Options: map[string]any{"flavor": "sql"}},
		},
	}, dir)
	require.NoError(t, err)
	for _, o := range outcomes {
		assert.False(t, o.Passed)
		assert.Error(t, o.Err, "expectation %d", o.Index)
	}
	assert.ErrorIs(t, outcomes[0].Err, options.ErrUnknownFlavor)
	assert.ErrorIs(t, outcomes[2].Err, options.ErrUnknownFlavor)
}

func TestRunFile_LoadError(t *testing.T) {
	rep := newRunner().RunFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, rep.Err)
	assert.False(t, rep.Passed())
	assert.Empty(t, rep.Outcomes)
}

func TestRun_BaseOptions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "status.txt", "warn: x\n")
	f := &File{
		Streams: map[string]string{"status": "status.txt"},
		Expect:  []Expectation{{Match: Patterns{set: true, scalar: true, text: "warn:*"}}},
	}

	outcomes, err := newRunner().Run(f, dir)
	require.NoError(t, err)
	assert.False(t, outcomes[0].Passed, "exact by default")

	glob := NewRunner(capture.NewFileReader(), options.New(options.WithFlavor(pattern.Glob)), report.PlainStyles(), nil)
	outcomes, err = glob.Run(f, dir)
	require.NoError(t, err)
	assert.True(t, outcomes[0].Passed, "%s %v", outcomes[0].Message, outcomes[0].Err)

	f.Options = map[string]any{"flavor": "exact"}
	outcomes, err = glob.Run(f, dir)
	require.NoError(t, err)
	assert.False(t, outcomes[0].Passed, "file options override the base")
}

func TestRun_ReleasesPCRE(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "status.txt", "[1] building\n[2] build succeeded.\n")
	path := writeFile(t, dir, "expect.yaml", `
streams: {status: status.txt}
expect:
  - match: [{pcre: "build(?= succeeded)"}]
    options: {delete: {pcre: "^\\[\\d+\\] "}}
`)
	f, err := Load(path)
	require.NoError(t, err)
	held := f.Expect[0].Match.items
	require.Len(t, held, 1)

	deleted, err := pattern.PCRE(`^\[\d+\] `, false)
	require.NoError(t, err)
	f.Options = map[string]any{"delete": []pattern.Pattern{deleted}}

	outcomes, err := newRunner().Run(f, dir)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Passed, "%s %v", outcomes[0].Message, outcomes[0].Err)
	assert.False(t, deleted.Valid(), "file options are released after the run")
	assert.True(t, held[0].Valid(), "the file stays usable until closed")

	f.Close()
	assert.False(t, held[0].Valid())
}

func TestRunFile_PCRE(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "status.txt", "build succeeded.\n")
	path := writeFile(t, dir, "expect.yaml", `
options: {ignore: [{pcre: "^debug"}]}
streams: {status: status.txt}
expect:
  - match: [{pcre: "BUILD succ(?=eeded)", caseless: true}]
  - no_match: [{pcre: "fail(?!ed)"}]
`)
	rep := newRunner().RunFile(path)
	require.NoError(t, rep.Err)
	assert.True(t, rep.Passed(), "%+v", rep.Outcomes)
}
