// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package loader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves objects from memory and records requested keys.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	errs    map[string]error
	keys    []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := *in.Key
	f.keys = append(f.keys, *in.Bucket+"/"+key)
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	body, ok := f.objects[key]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func noCache(t *testing.T) {
	t.Helper()
	t.Setenv("WHCTL_CACHE", "0")
}

func TestS3Loader_Key(t *testing.T) {
	assert.Equal(t, "webhooks/data/fpt/schema.json", NewS3Loader(nil, "b", "webhooks").Key("data/fpt/schema.json"))
	assert.Equal(t, "data/fpt/schema.json", NewS3Loader(nil, "b", "").Key("data/fpt/schema.json"))
}

func TestS3Loader_PrefersCompressed(t *testing.T) {
	noCache(t)
	f := &fakeS3{objects: map[string][]byte{
		"hooks/fpt/schema.json.br": compress(t, `{"star": {"created": {}}}`),
		"hooks/fpt/schema.json":    []byte(`{"ping": {}}`),
	}}

	doc, err := NewS3Loader(f, "docs", "hooks").Load(context.Background(), "fpt/schema.json")
	require.NoError(t, err)
	assert.True(t, doc.Get("star").Exists())
	assert.Equal(t, []string{"docs/hooks/fpt/schema.json.br"}, f.keys)
}

func TestS3Loader_FallsBackOnNoSuchKey(t *testing.T) {
	noCache(t)
	f := &fakeS3{objects: map[string][]byte{
		"fpt/schema.json": []byte(`{"ping": {}}`),
	}}

	doc, err := NewS3Loader(f, "docs", "").Load(context.Background(), "fpt/schema.json")
	require.NoError(t, err)
	assert.True(t, doc.Get("ping").Exists())
	assert.Equal(t, []string{"docs/fpt/schema.json.br", "docs/fpt/schema.json"}, f.keys)
}

func TestS3Loader_Missing(t *testing.T) {
	noCache(t)
	f := &fakeS3{}

	_, err := NewS3Loader(f, "docs", "").Load(context.Background(), "ghec/schema.json")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorContains(t, err, "s3://docs/ghec/schema.json")
}

func TestS3Loader_OtherErrorsDoNotFallBack(t *testing.T) {
	noCache(t)
	denied := errors.New("access denied")
	f := &fakeS3{
		objects: map[string][]byte{"fpt/schema.json": []byte(`{}`)},
		errs:    map[string]error{"fpt/schema.json.br": denied},
	}

	_, err := NewS3Loader(f, "docs", "").Load(context.Background(), "fpt/schema.json")
	assert.ErrorIs(t, err, denied)
	assert.Len(t, f.keys, 1)
}

func TestS3Loader_Malformed(t *testing.T) {
	noCache(t)
	f := &fakeS3{objects: map[string][]byte{"fpt/schema.json": []byte(`nope`)}}

	_, err := NewS3Loader(f, "docs", "").Load(context.Background(), "fpt/schema.json")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestS3Loader_UsesDiskCache(t *testing.T) {
	t.Setenv("WHCTL_CACHE", "")
	t.Setenv("WHCTL_CACHE_DIR", t.TempDir())

	body := compress(t, `{"fork": {}}`)
	first := &fakeS3{objects: map[string][]byte{"fpt/schema.json.br": body}}
	doc, err := NewS3Loader(first, "docs", "").Load(context.Background(), "fpt/schema.json")
	require.NoError(t, err)
	assert.True(t, doc.Get("fork").Exists())
	assert.Len(t, first.keys, 1)

	// A second run is served from disk.
	second := &fakeS3{}
	doc, err = NewS3Loader(second, "docs", "").Load(context.Background(), "fpt/schema.json")
	require.NoError(t, err)
	assert.True(t, doc.Get("fork").Exists())
	assert.Empty(t, second.keys)
}
