package gcp

import (
	"fmt"
	"net/url"
	"strings"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
	// ObjectStorageModeMemory keeps objects in process. Local development and tests only.
	ObjectStorageModeMemory ObjectStorageMode = "memory"
)

// StorageConfig describes the single media bucket the service writes photos,
// certificates and dialog attachments into.
type StorageConfig struct {
	Mode          ObjectStorageMode
	Bucket        string
	CDNDomain     string
	EmulatorHost  string
	PublicBaseURL string
	// Credentials is inline service account JSON or a key file path.
	Credentials string
}

func ParseObjectStorageMode(raw string, emulatorHost string) (ObjectStorageMode, error) {
	mode := ObjectStorageMode(strings.ToLower(strings.TrimSpace(raw)))
	switch mode {
	case "":
		if strings.TrimSpace(emulatorHost) != "" {
			return ObjectStorageModeGCSEmulator, nil
		}
		return ObjectStorageModeGCS, nil
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator, ObjectStorageModeMemory:
		return mode, nil
	default:
		return "", &StorageConfigError{Field: "OBJECT_STORAGE_MODE", Value: raw}
	}
}

type StorageConfigError struct {
	Field string
	Value string
	Cause error
}

func (e *StorageConfigError) Error() string {
	if e == nil {
		return "invalid object storage config"
	}
	if e.Value == "" {
		return fmt.Sprintf("object storage: %s is required", e.Field)
	}
	return fmt.Sprintf("object storage: invalid %s=%q", e.Field, e.Value)
}

func (e *StorageConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func (cfg StorageConfig) Validate() error {
	switch cfg.Mode {
	case ObjectStorageModeMemory:
		return validateAbsoluteURL("OBJECT_STORAGE_PUBLIC_BASE_URL", cfg.PublicBaseURL, true)
	case ObjectStorageModeGCS:
	case ObjectStorageModeGCSEmulator:
		if strings.TrimSpace(cfg.EmulatorHost) == "" {
			return &StorageConfigError{Field: "STORAGE_EMULATOR_HOST"}
		}
		if err := validateAbsoluteURL("STORAGE_EMULATOR_HOST", cfg.EmulatorHost, false); err != nil {
			return err
		}
	default:
		return &StorageConfigError{Field: "OBJECT_STORAGE_MODE", Value: string(cfg.Mode)}
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return &StorageConfigError{Field: "MEDIA_GCS_BUCKET_NAME"}
	}
	return validateAbsoluteURL("OBJECT_STORAGE_PUBLIC_BASE_URL", cfg.PublicBaseURL, true)
}

func validateAbsoluteURL(field, raw string, optional bool) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if optional {
			return nil
		}
		return &StorageConfigError{Field: field}
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &StorageConfigError{Field: field, Value: raw, Cause: err}
	}
	return nil
}
