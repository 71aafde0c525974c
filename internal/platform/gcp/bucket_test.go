package gcp

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
)

func TestPublicURL(t *testing.T) {
	cases := []struct {
		name string
		cfg  StorageConfig
		base string
		key  string
		want string
	}{
		{"empty key", StorageConfig{Mode: ObjectStorageModeGCS, Bucket: "media"}, "", "", ""},
		{"gcs default", StorageConfig{Mode: ObjectStorageModeGCS, Bucket: "media"}, "", "photo/1/a.png", "https://storage.googleapis.com/media/photo/1/a.png"},
		{"cdn wins", StorageConfig{Mode: ObjectStorageModeGCS, Bucket: "media", CDNDomain: "cdn.example.com"}, "http://x", "/photo/a.png", "https://cdn.example.com/photo/a.png"},
		{"public base", StorageConfig{Mode: ObjectStorageModeGCS, Bucket: "media"}, "http://localhost:4443", "a.png", "http://localhost:4443/media/a.png"},
		{"emulator", StorageConfig{Mode: ObjectStorageModeGCSEmulator, Bucket: "media"}, "http://fake-gcs:4443", "photo/1/a.png", "http://fake-gcs:4443/storage/v1/b/media/o/photo%2F1%2Fa.png?alt=media"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := publicURL(tc.cfg, tc.base, tc.key); got != tc.want {
				t.Fatalf("publicURL: want=%q got=%q", tc.want, got)
			}
		})
	}
}

func TestContentTypeForKey(t *testing.T) {
	if got := ContentTypeForKey("photo/1/X.JPG"); got != "image/jpeg" {
		t.Fatalf("jpg: want=image/jpeg got=%q", got)
	}
	if got := ContentTypeForKey("dialog/1/notes.pdf?v=2"); got != "application/pdf" {
		t.Fatalf("pdf: want=application/pdf got=%q", got)
	}
	if got := ContentTypeForKey("blob"); got != "" {
		t.Fatalf("unknown: want empty got=%q", got)
	}
}

func TestMemoryBucket(t *testing.T) {
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	b := NewMemoryBucket("http://media.local/")

	for _, k := range []string{"photo/1/a.png", "photo/1/b.png", "photo/2/c.png"} {
		if err := b.UploadFile(dbc, k, strings.NewReader("data:"+k)); err != nil {
			t.Fatalf("UploadFile %s: %v", k, err)
		}
	}
	rc, err := b.DownloadFile(ctx, "photo/1/a.png")
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "data:photo/1/a.png" {
		t.Fatalf("DownloadFile body: got=%q", body)
	}

	keys, _ := b.ListKeys(ctx, "photo/1/")
	if len(keys) != 2 || keys[0] != "photo/1/a.png" {
		t.Fatalf("ListKeys: got=%v", keys)
	}
	if err := b.DeletePrefix(ctx, "photo/1/"); err != nil {
		t.Fatalf("DeletePrefix: %v", err)
	}
	if b.Len() != 1 {
		t.Fatalf("Len after DeletePrefix: want=1 got=%d", b.Len())
	}
	if err := b.DeleteFile(dbc, "photo/1/a.png"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("DeleteFile missing: want ErrObjectNotFound got=%v", err)
	}
	if got := b.GetPublicURL("photo/2/c.png"); got != "http://media.local/photo/2/c.png" {
		t.Fatalf("GetPublicURL: got=%q", got)
	}
}

func TestNewBucketServiceMemoryMode(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	svc, err := NewBucketService(log, StorageConfig{Mode: ObjectStorageModeMemory})
	if err != nil {
		t.Fatalf("NewBucketService: %v", err)
	}
	if _, ok := svc.(*MemoryBucket); !ok {
		t.Fatalf("NewBucketService: want *MemoryBucket got=%T", svc)
	}
}
