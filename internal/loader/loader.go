// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"context"
	"fmt"

	"github.com/apex/log"

	"github.com/staranto/whctlgo/internal/aws"
	"github.com/staranto/whctlgo/internal/config"
)

// Sources accepted by New.
const (
	SourceFile = "file"
	SourceS3   = "s3"
)

// Config selects and parameterizes a loader.
type Config struct {
	Source   string
	Bucket   string
	Prefix   string
	Region   string
	Profile  string
	Endpoint string
}

// ConfigFromFile reads the loader settings from the config file. Missing keys
// default to the file source.
func ConfigFromFile() Config {
	get := func(key, def string) string {
		v, _ := config.GetString(key, def)
		return v
	}

	return Config{
		Source:   get("data.source", SourceFile),
		Bucket:   get("s3.bucket", ""),
		Prefix:   get("s3.prefix", ""),
		Region:   get("s3.region", ""),
		Profile:  get("s3.profile", ""),
		Endpoint: get("s3.endpoint", ""),
	}
}

// New builds the loader cfg names.
func New(ctx context.Context, cfg Config) (Loader, error) {
	switch cfg.Source {
	case "", SourceFile:
		log.Debug("using file loader")
		return NewFileLoader(), nil

	case SourceS3:
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("s3 source requires a bucket (s3.bucket)")
		}
		client, err := aws.NewS3Client(ctx,
			aws.WithProfile(cfg.Profile),
			aws.WithRegion(cfg.Region),
			aws.WithEndpoint(cfg.Endpoint),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 client: %w", err)
		}
		log.Debugf("using s3 loader: s3://%s/%s", cfg.Bucket, cfg.Prefix)
		return NewS3Loader(client, cfg.Bucket, cfg.Prefix), nil

	default:
		return nil, fmt.Errorf("unknown data source %q (want %s or %s)", cfg.Source, SourceFile, SourceS3)
	}
}
