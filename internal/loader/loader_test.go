// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package loader

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/whctlgo/internal/config"
)

func compress(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, body []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, body, 0o600))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name       string
		body       []byte
		compressed bool
		wantExists bool
		wantErr    error
	}{
		{name: "plain", body: []byte(`{"ping": {}}`), wantExists: true},
		{name: "blank", body: []byte(" \n"), wantExists: false},
		{name: "invalid json", body: []byte(`{"ping": `), wantErr: ErrMalformed},
		{name: "corrupt brotli", body: []byte("definitely not brotli"), compressed: true, wantErr: ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := decode("test.json", tt.body, tt.compressed)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorContains(t, err, "test.json")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExists, doc.Exists())
		})
	}
}

func TestFileLoader_PrefersCompressed(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "fpt", "schema.json")
	writeFile(t, p+".br", compress(t, `{"check_run": {"created": {}}}`))
	writeFile(t, p, []byte(`{"ping": {}}`))

	doc, err := NewFileLoader().Load(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, doc.Get("check_run").Exists())
	assert.False(t, doc.Get("ping").Exists())
}

func TestFileLoader_FallsBackToPlain(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "ghec", "schema.json")
	writeFile(t, p, []byte(`{"ping": {}}`))

	var l FileLoader
	doc, err := l.Load(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, doc.Get("ping").Exists())
}

func TestFileLoader_Missing(t *testing.T) {
	p := filepath.Join(t.TempDir(), "ghes-3.9", "schema.json")

	_, err := NewFileLoader().Load(context.Background(), p)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorContains(t, err, p)
}

func TestFileLoader_OtherErrorsDoNotFallBack(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "schema.json")
	require.NoError(t, os.MkdirAll(p+".br", 0o755))
	writeFile(t, p, []byte(`{"ping": {}}`))

	_, err := NewFileLoader().Load(context.Background(), p)
	require.Error(t, err)
	assert.NotErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorContains(t, err, p+".br")
}

func TestFileLoader_Malformed(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "schema.json")
	writeFile(t, p+".br", compress(t, `[1, 2`))

	_, err := NewFileLoader().Load(context.Background(), p)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestFileLoader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileLoader().Load(ctx, "whatever")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "default is file", cfg: Config{}},
		{name: "file", cfg: Config{Source: SourceFile}},
		{name: "s3 without bucket", cfg: Config{Source: SourceS3}, wantErr: "requires a bucket"},
		{name: "unknown", cfg: Config{Source: "ftp"}, wantErr: "unknown data source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(context.Background(), tt.cfg)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, &FileLoader{}, l)
		})
	}
}

func TestConfigFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "whctl.yaml")
	writeFile(t, file, []byte("data:\n  source: s3\ns3:\n  bucket: docs\n  prefix: webhooks\n  region: us-east-2\n"))
	t.Setenv("WHCTL_CFG", file)

	_, err := config.Load()
	require.NoError(t, err)
	t.Cleanup(func() { config.Config = config.Type{} })

	cfg := ConfigFromFile()
	assert.Equal(t, Config{Source: SourceS3, Bucket: "docs", Prefix: "webhooks", Region: "us-east-2"}, cfg)
}
