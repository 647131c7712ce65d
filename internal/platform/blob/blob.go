// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package blob stores uploaded images behind a small key-value interface.

Two drivers exist:

  - fs: files under a local directory that the web server exposes as static assets.
  - s3: objects in an S3-compatible bucket (AWS S3, Cloudflare R2, MinIO).

Keys are relative, slash-separated paths such as "0192f1c4-...-flyer.png".
Mapping a key to its public URL is the caller's concern.
*/
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// Driver identifies a concrete blob storage backend implementation.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
)

var (
	// ErrExists is returned by Put when the key is already taken.
	ErrExists = errors.New("blob: key already exists")

	// ErrInvalidKey is returned for empty, absolute or traversing keys.
	ErrInvalidKey = errors.New("blob: invalid key")
)

// Store is the storage surface the upload service needs.
type Store interface {
	// Put writes r under key. Existing keys are never overwritten.
	Put(ctx context.Context, key string, r io.Reader, contentType string) error

	// Delete removes key and reports whether it existed.
	Delete(ctx context.Context, key string) (bool, error)

	// Exists reports whether key is stored.
	Exists(ctx context.Context, key string) (bool, error)

	Driver() Driver
}

// CleanKey validates a key and returns its canonical form.
func CleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return clean, nil
}

// # Factory

// Config selects and configures a driver.
type Config struct {
	// Root is the filesystem directory for the fs driver.
	Root string

	// Bucket selects the s3 driver when non-empty.
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// Open returns the S3 store when a bucket is configured, the filesystem store otherwise.
func Open(ctx context.Context, cfg Config) (Store, error) {
	if cfg.Bucket != "" {
		return NewS3(ctx, S3Config{
			Bucket:          cfg.Bucket,
			Region:          cfg.Region,
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			PathStyle:       cfg.Endpoint != "",
		})
	}
	return NewFilesystem(cfg.Root)
}
