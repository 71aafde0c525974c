package services

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"strings"
	"testing"

	"github.com/yungbote/scool-backend/internal/data/repos/testutil"
	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
)

func TestUploadPhotoDownscales(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPhotoService(env.db, env.log, env.repos, env.loader, env.bucket)
	_, owner := testutil.SeedProfile(t, env.ctx, env.db, types.RoleStudent, "owner")

	v, err := svc.UploadPhoto(env.dbc, owner.ID, pngBytes(t, 3840, 1280))
	if err != nil {
		t.Fatalf("UploadPhoto: %v", err)
	}
	if v.Image == nil || !strings.HasPrefix(*v.Image, "https://cdn.test/photo/") || !strings.HasSuffix(*v.Image, ".png") {
		t.Fatalf("image url: got=%v", v.Image)
	}
	key := strings.TrimPrefix(*v.Image, "https://cdn.test/")
	raw, ok := env.bucket.Get(key)
	if !ok {
		t.Fatalf("object %q not stored", key)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != MaxPhotoEdge || cfg.Height != 640 {
		t.Fatalf("stored size: want=%dx640 got=%dx%d", MaxPhotoEdge, cfg.Width, cfg.Height)
	}

	_, err = svc.UploadPhoto(env.dbc, owner.ID, []byte("definitely not an image"))
	wantCode(t, "garbage upload", err, apierr.CodeValidation)
	if env.bucket.Len() != 1 {
		t.Fatalf("bucket objects: want=1 got=%d", env.bucket.Len())
	}
}

func TestLikeAndDeletePhoto(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPhotoService(env.db, env.log, env.repos, env.loader, env.bucket)
	profiles := NewProfileService(env.db, env.log, env.repos, env.loader, env.bucket)
	_, owner := testutil.SeedProfile(t, env.ctx, env.db, types.RoleStudent, "owner")
	_, fan := testutil.SeedProfile(t, env.ctx, env.db, types.RoleTeacher, "fan")

	small, err := svc.UploadPhoto(env.dbc, owner.ID, pngBytes(t, 64, 48))
	if err != nil {
		t.Fatalf("UploadPhoto: %v", err)
	}
	liked, err := svc.LikePhoto(env.dbc, small.ID, fan.ID)
	if err != nil {
		t.Fatalf("LikePhoto: %v", err)
	}
	if len(liked.Likes) != 1 || liked.Likes[0].ID != fan.ID || liked.Likes[0].UserGroup != types.RoleTeacher.GroupLabel() {
		t.Fatalf("likes: got=%+v", liked.Likes)
	}
	if _, err := svc.LikePhoto(env.dbc, small.ID, fan.ID); err != nil {
		t.Fatalf("LikePhoto twice: %v", err)
	}
	unliked, err := svc.UnlikePhoto(env.dbc, small.ID, fan.ID)
	if err != nil || len(unliked.Likes) != 0 {
		t.Fatalf("UnlikePhoto: likes=%v err=%v", unliked.Likes, err)
	}

	if _, err := profiles.SetAvatar(env.dbc, fan.ID, &small.ID); err == nil {
		t.Fatalf("SetAvatar with someone else's photo: want error")
	}
	pv, err := profiles.SetAvatar(env.dbc, owner.ID, &small.ID)
	if err != nil {
		t.Fatalf("SetAvatar: %v", err)
	}
	if pv.Avatar == nil || pv.Avatar.Image == nil || *pv.Avatar.Image != *small.Image {
		t.Fatalf("avatar view: got=%+v", pv.Avatar)
	}

	wantCode(t, "delete by non-owner", svc.DeletePhoto(env.dbc, small.ID, fan.ID), apierr.CodeForbidden)
	if err := svc.DeletePhoto(env.dbc, small.ID, owner.ID); err != nil {
		t.Fatalf("DeletePhoto: %v", err)
	}
	rows, _ := env.repos.Profile.GetByIDs(env.dbc, []uint{owner.ID})
	if rows[0].AvatarID != nil {
		t.Fatalf("avatar not cleared: %v", *rows[0].AvatarID)
	}
	if env.bucket.Len() != 0 {
		t.Fatalf("bucket objects after delete: want=0 got=%d", env.bucket.Len())
	}
	list, _ := svc.ListPhotos(env.dbc, owner.ID)
	if len(list) != 0 {
		t.Fatalf("ListPhotos: want empty got=%d", len(list))
	}
	_, err = svc.LikePhoto(env.dbc, small.ID, fan.ID)
	wantCode(t, "like deleted photo", err, apierr.CodeNotFound)
}

// pngHeader returns a PNG holding only the signature and an RGBA IHDR chunk.
// It claims w x h pixels without carrying any image data.
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	chunk := make([]byte, 0, 17)
	chunk = append(chunk, "IHDR"...)
	chunk = binary.BigEndian.AppendUint32(chunk, w)
	chunk = binary.BigEndian.AppendUint32(chunk, h)
	chunk = append(chunk, 8, 6, 0, 0, 0)
	_ = binary.Write(&buf, binary.BigEndian, uint32(13))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestUploadPhotoRejectsOversizedDimensions(t *testing.T) {
	raw := pngHeader(20000, 20000)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil || format != "png" || cfg.Width != 20000 {
		t.Fatalf("header fixture: cfg=%+v format=%q err=%v", cfg, format, err)
	}
	if _, _, err := processUploadedPhoto(raw, MaxPhotoEdge); err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Fatalf("processUploadedPhoto: want pixel budget error got=%v", err)
	}

	env := newTestEnv(t)
	svc := NewPhotoService(env.db, env.log, env.repos, env.loader, env.bucket)
	_, owner := testutil.SeedProfile(t, env.ctx, env.db, types.RoleStudent, "big")
	_, err = svc.UploadPhoto(env.dbc, owner.ID, raw)
	wantCode(t, "oversized upload", err, apierr.CodeValidation)
	if env.bucket.Len() != 0 {
		t.Fatalf("bucket objects: want=0 got=%d", env.bucket.Len())
	}
}
