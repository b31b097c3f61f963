// Package minio provides a MinIO-backed implementation of cache.Store, for
// deployments that want schema metadata to survive process restarts or be
// shared across replicas. Each cache key maps to one object in a bucket.
//
// Usage:
//
//	store, err := minio.New(ctx, &minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	    Bucket:    "dialectdb-cache",
//	})
//	if err != nil { ... }
//	schemaCache := cache.New(store, "schema", true, log)
package minio

import (
	"bytes"
	"context"
	"io"

	"github.com/larkbyte/dialectdb/internal/errs"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds the settings needed to reach a MinIO (or S3-compatible)
// endpoint and the bucket cache entries live in.
type Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
}

// Store is a MinIO implementation of cache.Store.
// It is safe for concurrent use by multiple goroutines.
type Store struct {
	client *miniogo.Client
	bucket string
}

// New connects to MinIO using cfg and returns a Store. It verifies the
// bucket exists before returning, so a misconfigured cache fails at startup
// rather than degrading silently on every lookup.
func New(ctx context.Context, cfg *Config) (*Store, error) {
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConfiguration, "failed to create minio client", err)
	}

	s := &Store{client: client, bucket: cfg.Bucket}

	ok, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, mapError(err, "failed to reach minio")
	}
	if !ok {
		return nil, errs.Newf(errs.ErrKindConfiguration, "cache bucket %q does not exist", cfg.Bucket)
	}

	return s, nil
}

// --- cache.Store implementation ---

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, false, mapError(err, "failed to get cache object")
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		mapped := mapError(err, "failed to read cache object")
		if errs.IsNotFound(mapped) {
			return nil, false, nil
		}
		return nil, false, mapped
	}
	return data, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key,
		bytes.NewReader(value), int64(len(value)),
		miniogo.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return mapError(err, "failed to put cache object")
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, miniogo.RemoveObjectOptions{})
	if err != nil {
		mapped := mapError(err, "failed to remove cache object")
		if errs.IsNotFound(mapped) {
			return nil
		}
		return mapped
	}
	return nil
}
