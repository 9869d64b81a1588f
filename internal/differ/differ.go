// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"

	"github.com/apex/log"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// Format names how a difference is rendered.
type Format string

const (
	// Ascii is the unified, line oriented rendering.
	Ascii Format = "ascii"
	// Delta is the jsondiffpatch delta document.
	Delta Format = "delta"
)

type options struct {
	format    Format
	color     bool
	showIndex bool
}

// Option customizes Compare.
type Option func(*options)

// WithFormat selects the rendering. Defaults to Ascii.
func WithFormat(f Format) Option {
	return func(o *options) { o.format = f }
}

// WithColor colors additions and deletions in Ascii output.
func WithColor(color bool) Option {
	return func(o *options) { o.color = color }
}

// WithArrayIndex prints array indexes in Ascii output.
func WithArrayIndex(show bool) Option {
	return func(o *options) { o.showIndex = show }
}

// Result is the outcome of Compare. Text is empty when the documents are
// equal.
type Result struct {
	Modified bool
	Text     string
}

// Compare diffs two JSON objects. A nil or empty side is treated as {}.
func Compare(left, right []byte, opts ...Option) (Result, error) {
	o := options{format: Ascii}
	for _, opt := range opts {
		opt(&o)
	}

	left, right = orEmpty(left), orEmpty(right)

	d, err := gojsondiff.New().Compare(left, right)
	if err != nil {
		return Result{}, fmt.Errorf("failed to compare documents: %w", err)
	}
	if !d.Modified() {
		log.Debug("documents are equal")
		return Result{}, nil
	}
	log.Debugf("documents differ: %d top level deltas", len(d.Deltas()))

	var text string
	switch o.format {
	case Delta:
		text, err = formatter.NewDeltaFormatter().Format(d)
	case Ascii, "":
		var leftDoc map[string]interface{}
		if err := json.Unmarshal(left, &leftDoc); err != nil {
			return Result{}, fmt.Errorf("failed to parse left document: %w", err)
		}
		text, err = formatter.NewAsciiFormatter(leftDoc, formatter.AsciiFormatterConfig{
			ShowArrayIndex: o.showIndex,
			Coloring:       o.color,
		}).Format(d)
	default:
		return Result{}, fmt.Errorf("unknown diff format %q", o.format)
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to format diff: %w", err)
	}

	return Result{Modified: true, Text: text}, nil
}

func orEmpty(b []byte) []byte {
	if len(b) == 0 || string(b) == "null" {
		return []byte("{}")
	}
	return b
}
