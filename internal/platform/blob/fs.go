// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FilesystemStore keeps blobs as plain files under a root directory.
type FilesystemStore struct {
	root string
}

// NewFilesystem returns a store rooted at root, creating the directory if needed.
func NewFilesystem(root string) (*FilesystemStore, error) {
	if root == "" {
		return nil, fmt.Errorf("blob: filesystem root required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob: create root %s: %w", root, err)
	}
	return &FilesystemStore{root: root}, nil
}

func (store *FilesystemStore) Driver() Driver { return DriverFilesystem }

func (store *FilesystemStore) pathFor(key string) (string, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(store.root, filepath.FromSlash(clean)), nil
}

// Put streams r into a temp file and links it into place, so a reader never
// sees a partial image and an existing key is never replaced.
func (store *FilesystemStore) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	dataPath, err := store.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return fmt.Errorf("blob: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dataPath), ".upload-*")
	if err != nil {
		return fmt.Errorf("blob: create temp: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("blob: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("blob: close %s: %w", key, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// os.Link fails when dataPath exists, which gives create-only semantics.
	if err := os.Link(tmp.Name(), dataPath); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrExists, key)
		}
		return fmt.Errorf("blob: place %s: %w", key, err)
	}
	return nil
}

func (store *FilesystemStore) Delete(ctx context.Context, key string) (bool, error) {
	dataPath, err := store.pathFor(key)
	if err != nil {
		return false, err
	}
	if err := os.Remove(dataPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("blob: delete %s: %w", key, err)
	}
	return true, nil
}

func (store *FilesystemStore) Exists(ctx context.Context, key string) (bool, error) {
	dataPath, err := store.pathFor(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(dataPath)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("blob: stat %s: %w", key, err)
	}
}
