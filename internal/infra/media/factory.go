// Package media selects and constructs a media storage backend.
package media

import (
	"context"
	"fmt"
	"os"

	"hackledger/internal/infra/media/core"
	mediafs "hackledger/internal/infra/media/fs"
	mediamem "hackledger/internal/infra/media/memory"
	medias3 "hackledger/internal/infra/media/s3"
)

// Store is the backend abstraction for image payloads.
type Store = core.Store

// Info describes a stored media object.
type Info = core.Info

// SignedURLOptions holds options for generating a pre-signed fetch URL.
type SignedURLOptions = core.SignedURLOptions

// Sentinel errors re-exported for transport-layer status mapping.
var (
	ErrUnsupported = core.ErrUnsupported
	ErrExists      = core.ErrExists
	ErrInvalidKey  = core.ErrInvalidKey
)

// Open selects a media Store implementation using environment variables.
//
//	HACKLEDGER_MEDIA_DRIVER: fs|s3|memory (default fs)
//	HACKLEDGER_MEDIA_FS_ROOT: directory root when driver=fs (default ./mediadata)
//	(S3 specific variables documented in s3/store.go)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("HACKLEDGER_MEDIA_DRIVER")
	if driver == "" {
		driver = string(core.DriverFilesystem)
	}
	switch core.Driver(driver) {
	case core.DriverFilesystem:
		return mediafs.New(os.Getenv("HACKLEDGER_MEDIA_FS_ROOT"))
	case core.DriverS3:
		return medias3.OpenFromEnv(ctx)
	case core.DriverMemory:
		return mediamem.New(), nil
	default:
		return nil, fmt.Errorf("unknown media driver %s", driver)
	}
}
