// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package ocreval

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalConn is a simple implementation of the Storer interface
// that doesn't rely on any "cloud" services, instead keeping each
// bucket as a directory on the local machine. This is particularly
// useful for testing.
type LocalConn struct {
	// these should be set before running Init(), or left to defaults
	Dir    string
	Logger *slog.Logger
}

// Init creates the storage directory if needed
func (a *LocalConn) Init() error {
	if a.Dir == "" {
		a.Dir = filepath.Join(os.TempDir(), "ocreval")
	}
	err := os.MkdirAll(filepath.Join(a.Dir, storageReports), 0700)
	if err != nil {
		return fmt.Errorf("Error creating storage directory: %w", err)
	}

	if a.Logger == nil {
		a.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return nil
}

func (a *LocalConn) ReportsStorageId() string {
	return storageReports
}

func prefixwalker(dirpath string, prefix string, list *[]ObjMeta) filepath.WalkFunc {
	return func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		n, err := filepath.Rel(dirpath, path)
		if err != nil {
			return err
		}
		n = filepath.ToSlash(n)
		if !strings.HasPrefix(n, prefix) {
			return nil
		}
		*list = append(*list, ObjMeta{Name: n, Date: info.ModTime()})
		return nil
	}
}

func (a *LocalConn) ListObjects(bucket string, prefix string) ([]string, error) {
	var names []string
	list, err := a.ListObjectsWithMeta(bucket, prefix)
	if err != nil {
		return names, err
	}
	for _, v := range list {
		names = append(names, v.Name)
	}
	return names, nil
}

func (a *LocalConn) ListObjectsWithMeta(bucket string, prefix string) ([]ObjMeta, error) {
	var list []ObjMeta
	dir := filepath.Join(a.Dir, bucket)
	err := filepath.Walk(dir, prefixwalker(dir, prefix, &list))
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, err
}

// CreateBucket creates the directory for a bucket
func (a *LocalConn) CreateBucket(name string) error {
	return os.MkdirAll(filepath.Join(a.Dir, name), 0700)
}

// Download just copies the file from Dir/bucket/key to path
func (a *LocalConn) Download(bucket string, key string, path string) error {
	fin, err := os.Open(filepath.Join(a.Dir, bucket, filepath.FromSlash(key)))
	if err != nil {
		return err
	}
	defer fin.Close()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, fin)
	return err
}

// Upload just copies the file from path to Dir/bucket/key
func (a *LocalConn) Upload(bucket string, key string, path string) error {
	dest := filepath.Join(a.Dir, bucket, filepath.FromSlash(key))
	err := os.MkdirAll(filepath.Dir(dest), 0700)
	if err != nil {
		return fmt.Errorf("Error creating storage directory: %w", err)
	}

	fin, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fin.Close()

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, fin)
	return err
}
