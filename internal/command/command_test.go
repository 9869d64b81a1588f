// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/staranto/whctlgo/internal/config"
	"github.com/staranto/whctlgo/internal/dataset"
	"github.com/staranto/whctlgo/internal/webhooks"
)

const fptSchema = `{
  "ping": {},
  "star": {
    "created": {
      "summaryHtml": "Someone starred a repository.",
      "bodyParameters": [
        {"name": "action", "type": "string"},
        {"name": "repository", "type": "object", "childParamsGroups": [{"name": "id"}]}
      ]
    },
    "deleted": {"bodyParameters": [{"name": "action"}]}
  }
}`

const ghesSchema = `{
  "ping": {},
  "star": {
    "created": {
      "summaryHtml": "Someone starred a repository.",
      "bodyParameters": [
        {"name": "action", "type": "string"}
      ]
    }
  }
}`

// setupDataRoot writes fpt and ghes-3.14 schemas under a temp data root and
// points WHCTL_CFG at an empty config.
func setupDataRoot(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	for version, doc := range map[string]string{"fpt": fptSchema, "ghes-3.14": ghesSchema} {
		dir := filepath.Join(root, version)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, webhooks.DefaultSchemaFilename), []byte(doc), 0o644))
	}

	cfg := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(cfg, []byte("data:\n  source: file\n"), 0o644))
	t.Setenv("WHCTL_CFG", cfg)
	t.Setenv("WHCTL_CACHE", "0")
	t.Setenv("NO_COLOR", "1")
	t.Cleanup(func() { config.Config = config.Type{} })

	return root
}

// run executes whctl with args against root and returns what it printed.
func run(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()

	full := append([]string{"whctl", "--data-root", root}, args...)
	app, err := InitApp(context.Background(), full)
	require.NoError(t, err)

	var buf bytes.Buffer
	app.Writer = &buf
	app.ErrWriter = &buf
	err = app.Run(context.Background(), full)
	return buf.String(), err
}

func mustDataset(t *testing.T, doc string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromDocument(gjson.Parse(doc))
	require.NoError(t, err)
	return ds
}

func TestLsRows(t *testing.T) {
	listing := []webhooks.InitialWebhook{
		{Name: "ping", ActionTypes: []string{}, Data: dataset.Detail{}},
		{Name: "star", ActionTypes: []string{"created", "deleted"}, Data: dataset.Detail{
			"bodyParameters": []any{map[string]any{"name": "action"}},
		}},
	}

	rows := lsRows(listing)
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]any{"name": "ping", "actions": 0, "default": "", "params": 0, "types": []string{}}, rows[0])
	assert.Equal(t, "created", rows[1]["default"])
	assert.Equal(t, 2, rows[1]["actions"])
	assert.Equal(t, 1, rows[1]["params"])
}

func TestGetRows(t *testing.T) {
	c, ok := mustDataset(t, fptSchema).Category("star")
	require.True(t, ok)

	rows := getRows(c)
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]any{"action": "created", "params": 2, "nested": 1, "summary": "Someone starred a repository."}, rows[0])
	assert.Equal(t, map[string]any{"action": "deleted", "params": 1, "nested": 0, "summary": ""}, rows[1])
}

func TestStatsRows(t *testing.T) {
	rows, actions, params := statsRows(mustDataset(t, fptSchema))
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]any{"category": "ping", "actions": 0, "params": 0}, rows[0])
	assert.Equal(t, map[string]any{"category": "star", "actions": 2, "params": 3}, rows[1])
	assert.Equal(t, 2, actions)
	assert.Equal(t, 3, params)
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name      string
		validator FlagValidatorType
		value     string
		wantErr   bool
	}{
		{"output text", OutputValidator, "text", false},
		{"output yaml", OutputValidator, "yaml", false},
		{"output bogus", OutputValidator, "xml", true},
		{"source file", SourceValidator, "file", false},
		{"source s3", SourceValidator, "s3", false},
		{"source bogus", SourceValidator, "http", true},
		{"failures cache", FailurePolicyValidator, "cache", false},
		{"failures retry", FailurePolicyValidator, "retry", false},
		{"failures bogus", FailurePolicyValidator, "never", true},
		{"jammed flag", JammedFlagValidator, "--output", true},
		{"not jammed", JammedFlagValidator, "-o", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FlagValidators(tt.value, tt.validator)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApp_Ls(t *testing.T) {
	root := setupDataRoot(t)

	out, err := run(t, root, "ls", "fpt", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `[
	  {"name": "ping", "actions": 0, "default": "", "params": 0, "types": []},
	  {"name": "star", "actions": 2, "default": "created", "params": 2, "types": ["created", "deleted"]}
	]`, out)

	out, err = run(t, root, "ls", "fpt", "-o", "json", "--attrs", "name:category:u")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"category": "PING"}, {"category": "STAR"}]`, out)

	out, err = run(t, root, "ls", "-o", "text", "--filter", "name=star")
	require.NoError(t, err)
	assert.Contains(t, out, "star")
	assert.NotContains(t, out, "ping")
}

func TestApp_LsUsage(t *testing.T) {
	root := setupDataRoot(t)

	_, err := run(t, root, "ls", "fpt", "ghes")
	assert.ErrorIs(t, err, ErrUsage)
}

func TestApp_Get(t *testing.T) {
	root := setupDataRoot(t)

	out, err := run(t, root, "get", "fpt", "star", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `[
	  {"action": "created", "params": 2, "nested": 1, "summary": "Someone starred a repository."},
	  {"action": "deleted", "params": 1, "nested": 0, "summary": ""}
	]`, out)

	out, err = run(t, root, "get", "fpt", "star", "deleted", "-o", "raw")
	require.NoError(t, err)
	assert.Equal(t, `{"bodyParameters":[{"name":"action"}]}`+"\n", out)

	_, err = run(t, root, "get", "fpt", "fork")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = run(t, root, "get", "fpt", "star", "edited")
	assert.ErrorIs(t, err, ErrActionNotFound)

	_, err = run(t, root, "get", "fpt")
	assert.ErrorIs(t, err, ErrUsage)
}

func TestApp_Dump(t *testing.T) {
	root := setupDataRoot(t)

	out, err := run(t, root, "dump", "ghes", "-o", "raw")
	require.NoError(t, err)
	assert.JSONEq(t, ghesSchema, out)
	assert.True(t, strings.HasPrefix(out, `{"ping"`), "category order is kept")

	out, err = run(t, root, "dump", "fpt", "--stats")
	require.NoError(t, err)
	assert.Contains(t, out, "fpt: 2 categories, 2 actions, 3 body parameters")
}

func TestApp_Diff(t *testing.T) {
	root := setupDataRoot(t)

	out, err := run(t, root, "diff", "fpt", "ghes", "ping")
	require.NoError(t, err)
	assert.Equal(t, "ping: no differences between fpt and ghes-3.14\n", out)

	out, err = run(t, root, "diff", "fpt", "ghes", "star", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "--- fpt/star\n+++ ghes-3.14/star\n")
	assert.Contains(t, out, "deleted")

	out, err = run(t, root, "diff", "fpt", "ghes", "star", "created", "--delta")
	require.NoError(t, err)
	assert.True(t, gjson.Valid(out), "delta output is JSON: %s", out)

	_, err = run(t, root, "diff", "fpt", "ghes", "fork")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestApp_UnknownSource(t *testing.T) {
	root := setupDataRoot(t)

	_, err := run(t, root, "--source", "http", "ls")
	assert.Error(t, err)
}

func TestApp_Completion(t *testing.T) {
	root := setupDataRoot(t)

	out, err := run(t, root, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "complete -F _whctl whctl")

	out, err = run(t, root, "completion", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "#compdef whctl")

	_, err = run(t, root, "completion", "fish")
	assert.ErrorIs(t, err, ErrUsage)
}
