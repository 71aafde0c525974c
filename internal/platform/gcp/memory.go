package gcp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/yungbote/scool-backend/internal/platform/dbctx"
)

// MemoryBucket is a BucketService holding objects in a map.
type MemoryBucket struct {
	mu      sync.RWMutex
	objects map[string][]byte
	base    string
}

func NewMemoryBucket(publicBaseURL string) *MemoryBucket {
	base := strings.TrimRight(strings.TrimSpace(publicBaseURL), "/")
	if base == "" {
		base = "memory://media"
	}
	return &MemoryBucket{objects: map[string][]byte{}, base: base}
}

func (m *MemoryBucket) UploadFile(dbc dbctx.Context, key string, file io.Reader) error {
	if err := ctxErr(dbc.Ctx); err != nil {
		return err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	m.mu.Lock()
	m.objects[strings.TrimLeft(key, "/")] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryBucket) DeleteFile(dbc dbctx.Context, key string) error {
	if err := ctxErr(dbc.Ctx); err != nil {
		return err
	}
	key = strings.TrimLeft(key, "/")
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return ErrObjectNotFound
	}
	delete(m.objects, key)
	return nil
}

func (m *MemoryBucket) DownloadFile(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	data, ok := m.Get(key)
	if !ok {
		return nil, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MemoryBucket) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := []string{}
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	m.mu.RUnlock()
	sort.Strings(out)
	return out, nil
}

func (m *MemoryBucket) DeletePrefix(ctx context.Context, prefix string) error {
	keys, err := m.ListKeys(ctx, prefix)
	if err != nil {
		return err
	}
	m.mu.Lock()
	for _, k := range keys {
		delete(m.objects, k)
	}
	m.mu.Unlock()
	return nil
}

func (m *MemoryBucket) GetPublicURL(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return ""
	}
	return m.base + "/" + key
}

// Get returns a copy of the stored object.
func (m *MemoryBucket) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[strings.TrimLeft(key, "/")]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

func (m *MemoryBucket) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

func ctxErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
