// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/tidwall/gjson"

	"github.com/staranto/whctlgo/internal/cacheutil"
)

// GetObjectAPI is the slice of the S3 client the loader uses.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Loader reads documents from a bucket. Object keys are the document path,
// in slash form, beneath Prefix. Fetched bodies are kept in the disk cache.
type S3Loader struct {
	client GetObjectAPI
	bucket string
	prefix string
}

// NewS3Loader returns an S3Loader for bucket.
func NewS3Loader(client GetObjectAPI, bucket, prefix string) *S3Loader {
	return &S3Loader{client: client, bucket: bucket, prefix: prefix}
}

// Key returns the object key of a document path.
func (l *S3Loader) Key(p string) string {
	return path.Join(l.prefix, filepath.ToSlash(p))
}

// Load fetches <key>.br and, only when that object does not exist, <key>.
func (l *S3Loader) Load(ctx context.Context, p string) (gjson.Result, error) {
	key := l.Key(p)

	compressed := key + CompressedSuffix
	body, err := l.fetch(ctx, compressed)
	if err == nil {
		return decode(l.url(compressed), body, true)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return gjson.Result{}, err
	}

	log.Debugf("%s not found, falling back to %s", l.url(compressed), l.url(key))

	body, err = l.fetch(ctx, key)
	if err != nil {
		return gjson.Result{}, err
	}
	return decode(l.url(key), body, false)
}

func (l *S3Loader) url(key string) string {
	return "s3://" + l.bucket + "/" + key
}

// fetch returns the object body, from the disk cache when present. A missing
// object is reported as fs.ErrNotExist.
func (l *S3Loader) fetch(ctx context.Context, key string) ([]byte, error) {
	url := l.url(key)
	subdirs := []string{"s3", l.bucket}

	if entry, ok := cacheutil.Read(subdirs, url); ok {
		return entry.Data, nil
	}

	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: awsv2.String(l.bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("object not found: %s: %w", url, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to get S3 object %s: %w", url, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body %s: %w", url, err)
	}

	if err := cacheutil.Write(subdirs, url, body); err != nil {
		log.WithError(err).Warnf("failed to cache %s", url)
	}

	return body, nil
}
