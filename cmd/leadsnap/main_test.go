package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"leadsnap-engine/internal/config"
	"leadsnap-engine/internal/pipeline"
	"leadsnap-engine/internal/scrape"
	"leadsnap-engine/internal/secrets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

const savedChat = `<html><body><div id="main">
<header><span title="Priya">Priya</span></header>
<div data-pre-plain-text="[8:00] Priya: "><span class="selectable-text">Can you redo our site?</span></div>
<div data-pre-plain-text="[8:05] Priya: "><span class="selectable-text">Budget ₹50,000</span></div>
</div></body></html>`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	keyring.MockInit()
	t.Setenv(secrets.EnvOpenAIKey, "")
	t.Setenv(config.EnvDataDir, "")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestScrapeOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Scrape.MaxMessages = 5
	cfg.Scrape.MaxRowChars = 200
	cfg.Scrape.NameMinLen = 3
	cfg.Scrape.PlaceholderTexts = []string{"search"}

	o := scrapeOptions(cfg)
	assert.Equal(t, 5, o.Window)
	assert.Equal(t, 200, o.MaxRowChars)
	assert.Equal(t, 3, o.Names.MinLen)
	assert.Equal(t, 50, o.Names.MaxLen)
	assert.Equal(t, []string{"search"}, o.Names.Placeholders)
	assert.Equal(t, scrape.DefaultNameRules().TimestampLen, o.Names.TimestampLen)
}

func TestScrapeCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "chat.html")
	require.NoError(t, os.WriteFile(page, []byte(savedChat), 0o644))

	out, err := run(t, "scrape", "--data-dir", dir, "--html", page, "-o", "json")
	require.NoError(t, err)

	var resp scrape.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.True(t, resp.Success)
	assert.Equal(t, "Priya", resp.Data.ContactName)
	assert.Equal(t, []string{"Can you redo our site?", "Budget ₹50,000"}, resp.Data.Messages)
}

func TestSnapThenLeads_JSON(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "chat.html")
	require.NoError(t, os.WriteFile(page, []byte(savedChat), 0o644))

	out, err := run(t, "snap", "--data-dir", dir, "--html", page, "-o", "json")
	require.NoError(t, err)
	var card pipeline.LeadCard
	require.NoError(t, json.Unmarshal([]byte(out[strings.Index(out, "{"):]), &card))
	assert.Equal(t, "Priya", card.Name)
	assert.Equal(t, "Cold", card.Status)
	assert.Equal(t, "Configure OpenAI API key", card.NextStep)

	out, err = run(t, "leads", "--data-dir", dir, "-o", "json")
	require.NoError(t, err)
	var view pipeline.DashboardView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "~ 1 Active Leads", view.Headline)
	require.Len(t, view.Leads, 1)
	assert.Equal(t, "Priya", view.Leads[0].Name)
}

func TestLeads_EmptyDataDir(t *testing.T) {
	out, err := run(t, "leads", "--data-dir", t.TempDir(), "-o", "json")
	require.NoError(t, err)

	var view pipeline.DashboardView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "~ 0 Active Leads", view.Headline)
	assert.Empty(t, view.Leads)
}

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "config", "path", "--data-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, config.FileName), strings.TrimSpace(out))
	assert.FileExists(t, filepath.Join(dir, config.FileName))
}

func TestConfigValidate_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte("scrape:\n  max_messages: 50\n"), 0o644))

	_, err := run(t, "config", "validate", "--data-dir", dir)
	assert.ErrorIs(t, err, config.ErrInvalid)
}
