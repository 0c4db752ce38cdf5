package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderCSS(t *testing.T) {
	out, err := run(t, "", "render", "testdata/menu.yaml")
	require.NoError(t, err)
	for _, s := range []string{
		"body {",
		"font-family: serif;",
		".menu {",
		"z-index: 3;",
		"margin: 1em;",
		".menu>li.item {",
		`background: url("img/bullet.png");`,
		"color: red !important;",
	} {
		assert.Contains(t, out, s)
	}
}

func TestRenderFromStdin(t *testing.T) {
	out, err := run(t, "properties: { color: blue }", "render", "--root-selector", ":root")
	require.NoError(t, err)
	assert.Contains(t, out, ":root {")
	assert.Contains(t, out, "color: blue;")
}

func TestRenderPoints(t *testing.T) {
	doc := "properties: { margin: { kind: Length, val: 16, unit: px }, padding: { kind: Length, val: 1, unit: em } }"
	out, err := run(t, doc, "render", "--units", "pt")
	require.NoError(t, err)
	assert.Contains(t, out, "margin: 12pt;")
	assert.Contains(t, out, "padding: 1em;")
	out, err = run(t, doc, "render")
	require.NoError(t, err)
	assert.Contains(t, out, "margin: 16px;")
	_, err = run(t, doc, "render", "--units", "furlong")
	assert.Error(t, err)
}

func TestRenderHTMLFromConfig(t *testing.T) {
	out, err := run(t, "", "--config", "testdata/html.yaml", "render", "testdata/menu.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "<html>")
	assert.Contains(t, out, `data-stypro=":root"`)
	assert.Contains(t, out, `data-stypro=".menu&gt;li.item"`)
	// flags override the configuration file
	out, err = run(t, "", "--config", "testdata/html.yaml", "render", "--format", "css", "testdata/menu.yaml")
	require.NoError(t, err)
	assert.NotContains(t, out, "<html>")
	assert.Contains(t, out, ":root {")
}

func TestRenderTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.rules")
	defer teardown()
	//
	out, err := run(t, "", "render", "--tree", "testdata/menu.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "<root>")
	assert.Contains(t, out, ".menu>li.item")
	assert.NotContains(t, out, "z-index")
}

func TestRenderErrors(t *testing.T) {
	_, err := run(t, "", "render", "--format", "pdf", "testdata/menu.yaml")
	assert.Error(t, err)
	_, err = run(t, "", "render", "testdata/missing.yaml")
	assert.Error(t, err)
	_, err = run(t, "", "--config", "testdata/missing.yaml", "version")
	assert.Error(t, err)
	_, err = run(t, "selector: body", "render")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "stypc v"))
}
