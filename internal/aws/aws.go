// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"fmt"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// options holds optional overrides for AWS config loading.
type options struct {
	profile     string
	region      string
	endpoint    string
	maxAttempts int
}

// Option customizes how AWS config is loaded and the S3 client is built.
// With no options the shell environment and shared config chain apply
// (AWS_PROFILE, ~/.aws/config, ~/.aws/credentials, IMDS).
type Option func(*options)

// WithProfile sets the shared config profile.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion sets the region override.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithEndpoint points the S3 client at an S3 compatible store. Path style
// addressing is used whenever an endpoint is set.
func WithEndpoint(endpoint string) Option {
	return func(o *options) { o.endpoint = endpoint }
}

// WithMaxAttempts caps the attempts of the standard retryer. Values below 1
// keep the SDK default.
func WithMaxAttempts(n int) Option {
	return func(o *options) { o.maxAttempts = n }
}

func apply(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// LoadConfig loads AWS SDK v2 config honoring the profile, region and retry
// overrides.
func LoadConfig(ctx context.Context, opts ...Option) (awsv2.Config, error) {
	o := apply(opts)

	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	if o.maxAttempts > 0 {
		loadOpts = append(loadOpts, config.WithRetryer(func() awsv2.Retryer {
			return retry.AddWithMaxAttempts(retry.NewStandard(), o.maxAttempts)
		}))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return awsv2.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}
	return cfg, nil
}

// NewS3Client loads config and constructs an S3 client from it.
func NewS3Client(ctx context.Context, opts ...Option) (*s3v2.Client, error) {
	o := apply(opts)

	cfg, err := LoadConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	log.Debugf("s3 client: profile=%q region=%q endpoint=%q", o.profile, cfg.Region, o.endpoint)

	return s3v2.NewFromConfig(cfg, func(so *s3v2.Options) {
		if o.endpoint != "" {
			so.BaseEndpoint = awsv2.String(o.endpoint)
			so.UsePathStyle = true
		}
	}), nil
}
