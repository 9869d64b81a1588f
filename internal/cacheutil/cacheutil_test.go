// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cacheutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(EnvDir, dir)
	t.Setenv(EnvEnabled, "")
	return dir
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"1", true},
		{"true", true},
		{"0", false},
		{"false", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(EnvEnabled, tt.value)
			assert.Equal(t, tt.want, Enabled())
		})
	}
}

func TestDir(t *testing.T) {
	dir := setupCache(t)
	got, ok := Dir()
	assert.True(t, ok)
	assert.Equal(t, dir, got)
}

func TestEncodeKey(t *testing.T) {
	a := EncodeKey("s3://docs/webhooks/fpt/schema.json.br")
	b := EncodeKey("s3://docs/webhooks/ghec/schema.json.br")

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, EncodeKey("s3://docs/webhooks/fpt/schema.json.br"))
}

func TestWriteRead_RoundTrip(t *testing.T) {
	setupCache(t)

	// Binary bodies must survive untouched.
	body := []byte{0x0b, 0x02, 0x80, ' ', '\n', 0x00, ' '}
	require.NoError(t, Write([]string{"s3"}, "s3://docs/fpt/schema.json.br", body))

	e, ok := Read([]string{"s3"}, "s3://docs/fpt/schema.json.br")
	require.True(t, ok)
	assert.Equal(t, body, e.Data)
	assert.Equal(t, "s3://docs/fpt/schema.json.br", e.Key)
	assert.Equal(t, EncodeKey(e.Key), e.EncodedKey)
	assert.Equal(t, filepath.Base(e.Path), e.EncodedKey)
	assert.False(t, e.ModTime.IsZero())

	_, ok = Read([]string{"s3"}, "s3://docs/ghec/schema.json.br")
	assert.False(t, ok)
	_, ok = Read([]string{"other"}, "s3://docs/fpt/schema.json.br")
	assert.False(t, ok)
}

func TestWriteRead_Disabled(t *testing.T) {
	dir := setupCache(t)
	t.Setenv(EnvEnabled, "false")

	require.NoError(t, Write([]string{"s3"}, "k", []byte("v")))
	_, ok := Read([]string{"s3"}, "k")
	assert.False(t, ok)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, usable, err := EnsureBaseDir()
	assert.NoError(t, err)
	assert.False(t, usable)
}

func TestEnsureBaseDir(t *testing.T) {
	dir := filepath.Join(setupCache(t), "nested", "whctl")
	t.Setenv(EnvDir, dir)

	got, usable, err := EnsureBaseDir()
	require.NoError(t, err)
	assert.True(t, usable)
	assert.Equal(t, dir, got)
	assert.DirExists(t, dir)
}

func TestPurge(t *testing.T) {
	setupCache(t)

	require.NoError(t, Write([]string{"s3"}, "old", []byte("old")))
	require.NoError(t, Write([]string{"s3"}, "new", []byte("new")))

	oldPath, ok := EntryPath([]string{"s3"}, "old")
	require.True(t, ok)
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, stale, stale))

	require.NoError(t, Purge(0), "disabled")
	_, ok = EntryPath([]string{"s3"}, "old")
	assert.True(t, ok)

	require.NoError(t, Purge(24))
	_, ok = EntryPath([]string{"s3"}, "old")
	assert.False(t, ok)
	_, ok = EntryPath([]string{"s3"}, "new")
	assert.True(t, ok)
}

func TestPurge_MissingDir(t *testing.T) {
	t.Setenv(EnvDir, filepath.Join(t.TempDir(), "absent"))
	assert.NoError(t, Purge(1))
}
