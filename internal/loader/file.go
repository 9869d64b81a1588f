// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
)

// FileLoader reads documents from the local filesystem. Relative paths are
// resolved against the working directory. The zero value is ready to use.
type FileLoader struct {
	readFile func(string) ([]byte, error)
}

// NewFileLoader returns a FileLoader backed by os.ReadFile.
func NewFileLoader() *FileLoader {
	return &FileLoader{readFile: os.ReadFile}
}

// Load reads <path>.br and, only when that does not exist, <path>. Other
// read errors are returned without trying the fallback.
func (l *FileLoader) Load(ctx context.Context, path string) (gjson.Result, error) {
	if err := ctx.Err(); err != nil {
		return gjson.Result{}, err
	}

	readFile := l.readFile
	if readFile == nil {
		readFile = os.ReadFile
	}

	compressed := path + CompressedSuffix
	body, err := readFile(compressed)
	if err == nil {
		return decode(compressed, body, true)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return gjson.Result{}, fmt.Errorf("failed to read %s: %w", compressed, err)
	}

	log.Debugf("%s not found, falling back to %s", compressed, path)

	body, err = readFile(path)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return decode(path, body, false)
}
