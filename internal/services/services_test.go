package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/scool-backend/internal/data/repos"
	"github.com/yungbote/scool-backend/internal/data/repos/testutil"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/gcp"
	"github.com/yungbote/scool-backend/internal/platform/logger"
	"github.com/yungbote/scool-backend/internal/realtime"
)

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (p *recordingPublisher) Publish(ctx context.Context, msg realtime.SSEMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) on(channel string) []realtime.SSEMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := []realtime.SSEMessage{}
	for _, m := range p.msgs {
		if m.Channel == channel {
			out = append(out, m)
		}
	}
	return out
}

type testEnv struct {
	ctx    context.Context
	dbc    dbctx.Context
	db     *gorm.DB
	log    *logger.Logger
	repos  repos.Set
	loader *Loader
	bucket *gcp.MemoryBucket
	pub    *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	r := repos.NewSet(db, log)
	ctx := context.Background()
	return &testEnv{
		ctx:    ctx,
		dbc:    dbctx.Context{Ctx: ctx},
		db:     db,
		log:    log,
		repos:  r,
		loader: NewLoader(r),
		bucket: gcp.NewMemoryBucket("https://cdn.test"),
		pub:    &recordingPublisher{},
	}
}

func wantCode(t *testing.T, what string, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: want code=%s got nil error", what, code)
	}
	if got := apierr.CodeOf(err); got != code {
		t.Fatalf("%s: want code=%s got=%s (%v)", what, code, got, err)
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func bytesReader(s string) io.Reader { return strings.NewReader(s) }
