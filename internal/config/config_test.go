package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	linkerrs "git.home.luguber.info/inful/rstlinker/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "links.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
using:
  GH: https://github.com
rules:
  - pattern: '#(?P<issue>\d+)'
    template: '` + "`" + `#{issue} <{GH}/acme/widgets/issues/{issue}>` + "`" + `_'
  - literal: 'CVE-2024-0001'
    template: '` + "`" + `\0 <https://nvd.nist.gov/vuln/detail/\0>` + "`" + `_'
headings:
  pattern: '^(?P<version>\d+\.\d+)$'
  date_format: '%d %b %Y'
  tag_prefix: v
repository: /srv/repos/widgets
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Rules, 2)
	assert.Equal(t, "https://github.com", cfg.Using["GH"])
	assert.Equal(t, "v", cfg.Headings.TagPrefix)
	assert.Equal(t, "/srv/repos/widgets", cfg.Repository)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
rules:
  - pattern: '#(\d+)'
    template: 'issue \1'
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultHeadingPattern, cfg.Headings.Pattern)
	assert.Equal(t, DefaultDateFormat, cfg.Headings.DateFormat)
	assert.Equal(t, ".", cfg.Repository)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, linkerrs.CategoryConfig, linkerrs.GetCategory(err))
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "rules: [\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, linkerrs.CategoryConfig, linkerrs.GetCategory(err))
}

func TestLoad_InvalidRuleFailsEagerly(t *testing.T) {
	path := writeConfig(t, `
rules:
  - pattern: '#('
    template: 'x'
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, linkerrs.IsInvalidRule(err))
}

func TestLoad_TemplateReferencingGlobalVarValidates(t *testing.T) {
	// {GH} resolves through `using`, not through the matcher's groups.
	path := writeConfig(t, `
using:
  GH: https://github.com
rules:
  - pattern: 'gh-(\d+)'
    template: '{GH}/\1'
`)
	_, err := Load(path)
	require.NoError(t, err)
}

func TestLoad_InvalidHeadingPattern(t *testing.T) {
	path := writeConfig(t, `
rules: []
headings:
  pattern: '^(\d+$'
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, linkerrs.IsInvalidRule(err))
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("WIDGETS_FORGE", "https://forge.example.com")
	path := writeConfig(t, `
using:
  base: ${WIDGETS_FORGE}
rules:
  - pattern: '#(\d+)'
    template: '{base}/\1'
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://forge.example.com", cfg.Using["base"])
}
