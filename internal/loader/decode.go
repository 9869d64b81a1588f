// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"

	"github.com/staranto/whctlgo/internal/dataset"
)

// CompressedSuffix is appended to a path to name its brotli compressed form.
const CompressedSuffix = ".br"

// ErrMalformed is returned, wrapped with the offending path, when a body is
// not valid JSON or cannot be decompressed.
var ErrMalformed = dataset.ErrMalformed

// Loader returns the parsed document stored at path.
type Loader interface {
	Load(ctx context.Context, path string) (gjson.Result, error)
}

// decode turns a raw body into a document. A blank body has no value and
// yields the zero gjson.Result.
func decode(name string, body []byte, compressed bool) (gjson.Result, error) {
	raw := len(body)

	if compressed {
		var err error
		body, err = io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
		if err != nil {
			return gjson.Result{}, fmt.Errorf("%w: failed to decompress %s: %w", ErrMalformed, name, err)
		}
		log.Debugf("decompressed %s: %s -> %s", name, humanize.Bytes(uint64(raw)), humanize.Bytes(uint64(len(body))))
	} else {
		log.Debugf("read %s: %s", name, humanize.Bytes(uint64(raw)))
	}

	if len(bytes.TrimSpace(body)) == 0 {
		log.Debugf("%s is empty", name)
		return gjson.Result{}, nil
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%w: %s is not valid JSON", ErrMalformed, name)
	}

	return gjson.ParseBytes(body), nil
}
