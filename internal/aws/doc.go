// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package aws builds AWS SDK v2 config and S3 clients for the S3 schema
// loader.
package aws
