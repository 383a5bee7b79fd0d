// Package core defines the storage abstraction for hackathon and
// submission media (images) referenced by the ledger's image fields.
package core

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver identifies a concrete media storage backend implementation.
type Driver string

const (
	// DriverFilesystem represents the local filesystem implementation.
	DriverFilesystem Driver = "fs" // local filesystem (default, dev)
	// DriverS3 represents an S3 / MinIO compatible implementation.
	DriverS3 Driver = "s3" // S3 / MinIO compatible
	// DriverMemory represents an in-memory implementation typically used in tests.
	DriverMemory Driver = "memory" // in-memory (tests)
)

// SignedURLOptions holds options for generating a pre-signed fetch URL.
type SignedURLOptions struct {
	Expiry time.Duration // default 15m
}

// Info describes a stored media object.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size_bytes"`
	ContentType  string    `json:"content_type,omitempty"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"last_modified"`
	URL          string    `json:"url,omitempty"`
}

// Store provides a thin S3-like abstraction for image payloads. Keys are
// namespaced by the caller (hackathons/<id>, submissions/<id>); a key is
// written once and never overwritten, matching the append-mostly ledger.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Delete(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	PresignURL(ctx context.Context, key string, opts SignedURLOptions) (string, error)
	Driver() Driver
}

// ErrUnsupported is returned when an optional capability is not available.
var ErrUnsupported = errors.New("media: unsupported operation")

// ErrExists is returned by Put when the key is already written; keys are
// write-once.
var ErrExists = errors.New("media: object already exists")

// ErrInvalidKey is returned for empty, absolute, or traversing keys.
var ErrInvalidKey = errors.New("media: invalid key")
