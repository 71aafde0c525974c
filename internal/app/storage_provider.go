package app

import (
	"errors"
	"fmt"

	"github.com/yungbote/scool-backend/internal/platform/gcp"
	"github.com/yungbote/scool-backend/internal/platform/logger"
)

var newBucketService = gcp.NewBucketService

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode         StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingEmulatorHost StorageProviderBootstrapErrorCode = "missing_emulator_host"
	StorageProviderBootstrapErrorInvalidEmulatorHost StorageProviderBootstrapErrorCode = "invalid_emulator_host"
	StorageProviderBootstrapErrorMissingBucket       StorageProviderBootstrapErrorCode = "missing_bucket"
	StorageProviderBootstrapErrorInvalidPublicURL    StorageProviderBootstrapErrorCode = "invalid_public_url"
	StorageProviderBootstrapErrorConnectFailed       StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code         StorageProviderBootstrapErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf(
		"object storage bootstrap failed (code=%s mode=%q emulator_host=%q): %v",
		e.Code,
		e.Mode,
		e.EmulatorHost,
		e.Cause,
	)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func storageConfig(cfg Config) (gcp.StorageConfig, error) {
	mode, err := gcp.ParseObjectStorageMode(cfg.ObjectStorageMode, cfg.StorageEmulatorHost)
	if err != nil {
		return gcp.StorageConfig{Mode: gcp.ObjectStorageMode(cfg.ObjectStorageMode)}, err
	}
	return gcp.StorageConfig{
		Mode:          mode,
		Bucket:        cfg.MediaBucket,
		CDNDomain:     cfg.MediaCDNDomain,
		EmulatorHost:  cfg.StorageEmulatorHost,
		PublicBaseURL: cfg.PublicBaseURL,
		Credentials:   cfg.GCPCredentials,
	}, nil
}

// resolveBucketService opens the media bucket and turns config and dial
// failures into a StorageProviderBootstrapError with a stable code.
func resolveBucketService(log *logger.Logger, cfg Config) (gcp.BucketService, error) {
	storageCfg, err := storageConfig(cfg)
	if err != nil {
		classified := classifyStorageProviderBootstrapError(storageCfg, err)
		log.Error("Object storage provider selection failed", "mode", cfg.ObjectStorageMode, "error", classified)
		return nil, classified
	}

	log.Info(
		"Selecting object storage provider",
		"mode", storageCfg.Mode,
		"bucket", storageCfg.Bucket,
		"emulator_host", storageCfg.EmulatorHost,
	)

	bucket, err := newBucketService(log, storageCfg)
	if err != nil {
		classified := classifyStorageProviderBootstrapError(storageCfg, err)
		log.Error(
			"Object storage provider bootstrap failed",
			"mode", storageCfg.Mode,
			"emulator_host", storageCfg.EmulatorHost,
			"error_code", storageProviderBootstrapErrorCode(classified),
			"error", classified,
		)
		return nil, classified
	}
	return bucket, nil
}

func classifyStorageProviderBootstrapError(storageCfg gcp.StorageConfig, err error) error {
	code := StorageProviderBootstrapErrorConnectFailed
	var cfgErr *gcp.StorageConfigError
	if errors.As(err, &cfgErr) {
		switch cfgErr.Field {
		case "OBJECT_STORAGE_MODE":
			code = StorageProviderBootstrapErrorInvalidMode
		case "STORAGE_EMULATOR_HOST":
			if cfgErr.Value == "" {
				code = StorageProviderBootstrapErrorMissingEmulatorHost
			} else {
				code = StorageProviderBootstrapErrorInvalidEmulatorHost
			}
		case "MEDIA_GCS_BUCKET_NAME":
			code = StorageProviderBootstrapErrorMissingBucket
		case "OBJECT_STORAGE_PUBLIC_BASE_URL":
			code = StorageProviderBootstrapErrorInvalidPublicURL
		}
	}
	return &StorageProviderBootstrapError{
		Code:         code,
		Mode:         string(storageCfg.Mode),
		EmulatorHost: storageCfg.EmulatorHost,
		Cause:        err,
	}
}

func storageProviderBootstrapErrorCode(err error) StorageProviderBootstrapErrorCode {
	var bootstrapErr *StorageProviderBootstrapError
	if errors.As(err, &bootstrapErr) && bootstrapErr.Code != "" {
		return bootstrapErr.Code
	}
	return StorageProviderBootstrapErrorConnectFailed
}
