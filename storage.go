// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package ocreval

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Storer is somewhere that reports and their summaries can be
// kept, organised into buckets of named objects.
type Storer interface {
	Init() error
	ReportsStorageId() string
	ListObjects(bucket string, prefix string) ([]string, error)
	ListObjectsWithMeta(bucket string, prefix string) ([]ObjMeta, error)
	CreateBucket(name string) error
	Download(bucket string, key string, path string) error
	Upload(bucket string, key string, path string) error
}

// ObjMeta is the name and modification time of a stored object.
type ObjMeta struct {
	Name string
	Date time.Time
}

const s3Scheme = "s3://"

// ParseS3URL splits a URL of the form s3://bucket/key. It returns
// false if u is not an s3 URL.
func ParseS3URL(u string) (bucket, key string, ok bool) {
	if !strings.HasPrefix(u, s3Scheme) {
		return "", "", false
	}
	bucket, key, _ = strings.Cut(strings.TrimPrefix(u, s3Scheme), "/")
	return bucket, key, bucket != ""
}

// UploadFiles uploads each file to bucket, named by prefix and the
// file's base name. It returns the keys uploaded to.
func UploadFiles(conn Storer, bucket, prefix string, paths []string) ([]string, error) {
	var keys []string
	for _, p := range paths {
		key := path.Join(prefix, filepath.Base(p))
		err := conn.Upload(bucket, key, p)
		if err != nil {
			return keys, fmt.Errorf("Failed to upload %s to %s: %w", p, key, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// DownloadPrefix downloads every object in bucket beginning with
// prefix into dir, returning the local paths ordered by name. If
// several objects share a base name, such as the same engine's
// report from different runs, only the most recently modified is
// downloaded.
func DownloadPrefix(conn Storer, bucket, prefix, dir string) ([]string, error) {
	objs, err := conn.ListObjectsWithMeta(bucket, prefix)
	if err != nil {
		return nil, fmt.Errorf("Failed to list %s in %s: %w", prefix, bucket, err)
	}

	latest := make(map[string]ObjMeta)
	for _, o := range objs {
		b := path.Base(o.Name)
		if cur, ok := latest[b]; ok && !o.Date.After(cur.Date) {
			continue
		}
		latest[b] = o
	}
	var names []string
	for b := range latest {
		names = append(names, b)
	}
	sort.Strings(names)

	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, b := range names {
		p := filepath.Join(dir, b)
		err = conn.Download(bucket, latest[b].Name, p)
		if err != nil {
			return paths, fmt.Errorf("Failed to download %s: %w", latest[b].Name, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// Fetch returns a local path for a report, downloading it to dir
// first if it is an s3:// URL.
func Fetch(conn Storer, u, dir string) (string, error) {
	bucket, key, ok := ParseS3URL(u)
	if !ok {
		return u, nil
	}
	if conn == nil {
		return "", fmt.Errorf("no storage configured to fetch %s", u)
	}
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, bucket+"-"+strings.ReplaceAll(key, "/", "-"))
	err = conn.Download(bucket, key, p)
	if err != nil {
		return "", fmt.Errorf("Failed to download %s: %w", u, err)
	}
	return p, nil
}
