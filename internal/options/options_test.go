package options

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dl/linematch/internal/pattern"
)

func TestGet_Defaults(t *testing.T) {
	tests := []struct {
		name string
		want any
	}{
		{NameColor, false},
		{NameCtrl, true},
		{NameStrip, StripWhitespace()},
		{NameStripLine, StripNothing()},
		{NameKeepEnds, false},
		{NameEmpty, true},
		{NameCompress, false},
		{NameUnique, false},
		{NameFlavor, pattern.Exact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Get(Set{}, tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGet_UnknownOption(t *testing.T) {
	_, err := Get(New(Color(true)), "colour")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownOption)

	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "colour", cerr.Option)
}

func TestGetOr(t *testing.T) {
	s := New(Compress(true))
	assert.Equal(t, true, GetOr(s, NameCompress, false))
	assert.Equal(t, "fallback", GetOr(s, NameUnique, "fallback"))
	assert.Equal(t, 42, GetOr(s, "not-an-option", 42))
}

func TestSet_WithIsImmutable(t *testing.T) {
	base := New(Color(true))
	ext := base.With(Color(false), Unique(true))

	v, _ := base.Lookup(NameColor)
	assert.Equal(t, true, v)
	_, ok := base.Lookup(NameUnique)
	assert.False(t, ok)

	v, _ = ext.Lookup(NameColor)
	assert.Equal(t, false, v)
	assert.Equal(t, 2, ext.Len())
}

func TestSet_Merge(t *testing.T) {
	a := New(Color(true), Compress(true))
	b := New(Compress(false), WithFlavor(pattern.Glob))
	m := a.Merge(b)

	r, err := m.Resolve()
	require.NoError(t, err)
	assert.True(t, r.Color)
	assert.False(t, r.Compress)
	assert.Equal(t, pattern.Glob, r.Flavor)
}

func TestResolve_Defaults(t *testing.T) {
	r, err := Set{}.Resolve()
	require.NoError(t, err)
	assert.False(t, r.Color)
	assert.True(t, r.Ctrl)
	assert.True(t, r.Strip.Enabled())
	assert.False(t, r.StripLine.Enabled())
	assert.True(t, r.Empty)
	assert.Nil(t, r.Delete)
	assert.Nil(t, r.Ignore)
	assert.Equal(t, pattern.Exact, r.Flavor)
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		set  Set
		want error
	}{
		{"unknown option", New(Option{name: "bogus", value: 1}), ErrUnknownOption},
		{"unknown flavor", New(WithFlavor("fuzzy")), ErrUnknownFlavor},
		{"zero delete pattern", New(Delete(pattern.Pattern{})), ErrInvalidDelete},
		{"wrong type", New(Option{name: NameColor, value: "yes"}), ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.set.Resolve()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			var cerr *ConfigError
			assert.ErrorAs(t, err, &cerr)
		})
	}
}

func TestStripChars_Apply(t *testing.T) {
	tests := []struct {
		name  string
		strip StripChars
		input string
		want  string
	}{
		{"whitespace", StripWhitespace(), " \t hi \n", "hi"},
		{"nothing", StripNothing(), "  hi  ", "  hi  "},
		{"set", StripSet("-="), "=-hi-=", "hi"},
		{"empty set", StripSet(""), " hi ", " hi "},
		{"separators", StripWhitespace(), "\x1chi\x1f", "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.strip.Apply(tt.input))
		})
	}
}

func TestParse(t *testing.T) {
	s, err := Parse(map[string]any{
		"strip":     "#",
		"stripline": nil,
		"empty":     false,
		"delete":    []any{"> ", map[string]any{"re2": `\d+`}},
		"flavor":    "fnmatch",
	})
	require.NoError(t, err)

	r, err := s.Resolve()
	require.NoError(t, err)
	assert.Equal(t, StripSet("#"), r.Strip)
	assert.Equal(t, StripWhitespace(), r.StripLine)
	assert.False(t, r.Empty)
	assert.Equal(t, pattern.Glob, r.Flavor)
	require.Len(t, r.Delete, 2)
	assert.Equal(t, pattern.KindLiteral, r.Delete[0].Kind())
	assert.Equal(t, pattern.KindRE2, r.Delete[1].Kind())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want error
	}{
		{"unknown", map[string]any{"colour": true}, ErrUnknownOption},
		{"bad bool", map[string]any{"unique": "yes"}, ErrInvalidValue},
		{"bad strip", map[string]any{"strip": 3}, ErrInvalidValue},
		{"bad delete", map[string]any{"delete": []any{1}}, ErrInvalidDelete},
		{"bad flavor", map[string]any{"flavor": "fuzzy"}, ErrUnknownFlavor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParse_IgnorePatterns(t *testing.T) {
	s, err := Parse(map[string]any{"ignore": []any{"*debug*"}, "flavor": "glob"})
	require.NoError(t, err)

	r, err := s.Resolve()
	require.NoError(t, err)
	require.NotNil(t, r.Ignore)
	assert.True(t, r.Ignore("some debug line"))
	assert.False(t, r.Ignore("some other line"))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	rules := filepath.Join(dir, "rules")
	require.NoError(t, os.WriteFile(rules, []byte("*.log\n!keep.log\n"), 0644))

	path := filepath.Join(dir, "opts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compress: true\nignore: {file: rules}\n"), 0644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	r, err := s.Resolve()
	require.NoError(t, err)
	assert.True(t, r.Compress)
	require.NotNil(t, r.Ignore)
	assert.True(t, r.Ignore("build.log"))
	assert.False(t, r.Ignore("keep.log"))
	assert.False(t, r.Ignore("build succeeded."))
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParse_IgnoreRules(t *testing.T) {
	s, err := Parse(map[string]any{"ignore": map[string]any{"rules": []any{"*.tmp", "# comment", "!keep.tmp"}}})
	require.NoError(t, err)

	r, err := s.Resolve()
	require.NoError(t, err)
	require.NotNil(t, r.Ignore)
	assert.True(t, r.Ignore("scratch.tmp"))
	assert.False(t, r.Ignore("keep.tmp"))
	assert.False(t, r.Ignore("   "))

	_, err = Parse(map[string]any{"ignore": map[string]any{"rules": []any{"*.tmp", 3}}})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestSet_Close(t *testing.T) {
	s, err := Parse(map[string]any{
		"delete": map[string]any{"pcre": `\d+(?=x)`},
		"ignore": []any{"plain", map[string]any{"pcre": `deb(?!ug)`}},
	})
	require.NoError(t, err)

	del, ok := s.Lookup(NameDelete)
	require.True(t, ok)
	ign, ok := s.Lookup(NameIgnore)
	require.True(t, ok)
	held := append(slices.Clone(del.([]pattern.Pattern)), ign.(IgnoreMatching)...)
	for _, p := range held {
		assert.True(t, p.Valid())
	}

	s.Close()
	assert.False(t, held[0].Valid())
	assert.True(t, held[1].Valid(), "literals have nothing to release")
	assert.False(t, held[2].Valid())
	assert.NotPanics(t, s.Close)
	assert.NotPanics(t, Set{}.Close)
}
