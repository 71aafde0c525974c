package services

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"time"

	_ "image/gif"

	"golang.org/x/image/draw"
	"gorm.io/gorm"

	"github.com/yungbote/scool-backend/internal/data/repos"
	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
	"github.com/yungbote/scool-backend/internal/views"
)

const MaxPhotoEdge = 1920

// MaxPhotoPixels bounds the decoded size of an upload; a small compressed
// file can still expand to gigabytes once decoded.
const MaxPhotoPixels = 40_000_000

type PhotoService interface {
	UploadPhoto(dbc dbctx.Context, ownerID uint, raw []byte) (views.PhotoView, error)
	ListPhotos(dbc dbctx.Context, ownerID uint) ([]views.PhotoView, error)
	LikePhoto(dbc dbctx.Context, photoID, profileID uint) (views.PhotoView, error)
	UnlikePhoto(dbc dbctx.Context, photoID, profileID uint) (views.PhotoView, error)
	DeletePhoto(dbc dbctx.Context, photoID, ownerID uint) error
}

type photoService struct {
	db     *gorm.DB
	log    *logger.Logger
	repos  repos.Set
	loader *Loader
	bucket ObjectStore
}

func NewPhotoService(db *gorm.DB, log *logger.Logger, r repos.Set, loader *Loader, bucket ObjectStore) PhotoService {
	return &photoService{
		db:     db,
		log:    log.With("service", "PhotoService"),
		repos:  r,
		loader: loader,
		bucket: bucket,
	}
}

func (s *photoService) UploadPhoto(dbc dbctx.Context, ownerID uint, raw []byte) (views.PhotoView, error) {
	if _, err := s.loader.Profile(dbc, ownerID); err != nil {
		return views.PhotoView{}, apierr.Map("load owner", err)
	}
	encoded, ext, err := processUploadedPhoto(raw, MaxPhotoEdge)
	if err != nil {
		return views.PhotoView{}, apierr.Validation("image: %v", err)
	}
	now := time.Now().UTC()
	key := fmt.Sprintf("photo/%d/%d.%s", ownerID, now.UnixNano(), ext)
	if err := s.bucket.UploadFile(dbc, key, bytes.NewReader(encoded)); err != nil {
		return views.PhotoView{}, fmt.Errorf("upload photo: %w", err)
	}
	photo := &types.Photo{ProfileID: ownerID, ImageKey: key, Date: now}
	if _, err := s.repos.Photo.Create(dbc, []*types.Photo{photo}); err != nil {
		deleteObjects(dbc.Ctx, s.bucket, s.log, []string{key})
		return views.PhotoView{}, apierr.Map("create photo", err)
	}
	s.log.Debug("Uploaded photo", "profile_id", ownerID, "key", key, "bytes", len(encoded))
	return s.render(dbc, photo)
}

func (s *photoService) ListPhotos(dbc dbctx.Context, ownerID uint) ([]views.PhotoView, error) {
	if _, err := s.loader.Profile(dbc, ownerID); err != nil {
		return nil, apierr.Map("load owner", err)
	}
	photos, err := s.repos.Photo.ListByOwner(dbc, ownerID)
	if err != nil {
		return nil, apierr.Map("list photos", err)
	}
	recs, err := s.loader.Photos(dbc, photos)
	if err != nil {
		return nil, apierr.Map("load likes", err)
	}
	out, err := views.NewPhotoViews(recs, s.bucket)
	return render("render photos", out, err)
}

func (s *photoService) LikePhoto(dbc dbctx.Context, photoID, profileID uint) (views.PhotoView, error) {
	photo, err := s.get(dbc, photoID)
	if err != nil {
		return views.PhotoView{}, err
	}
	if err := s.repos.PhotoLike.Add(dbc, photoID, profileID); err != nil {
		return views.PhotoView{}, apierr.Map("like photo", err)
	}
	return s.render(dbc, photo)
}

func (s *photoService) UnlikePhoto(dbc dbctx.Context, photoID, profileID uint) (views.PhotoView, error) {
	photo, err := s.get(dbc, photoID)
	if err != nil {
		return views.PhotoView{}, err
	}
	if err := s.repos.PhotoLike.Remove(dbc, photoID, profileID); err != nil {
		return views.PhotoView{}, apierr.Map("unlike photo", err)
	}
	return s.render(dbc, photo)
}

// DeletePhoto clears the avatar when it pointed at the photo. The stored
// object is removed after the rows are gone and failures there are ignored.
func (s *photoService) DeletePhoto(dbc dbctx.Context, photoID, ownerID uint) error {
	photo, err := s.get(dbc, photoID)
	if err != nil {
		return err
	}
	if photo.ProfileID != ownerID {
		return apierr.Forbidden("photo %d does not belong to profile %d", photoID, ownerID)
	}
	err = inTx(s.db, dbc, func(dbc dbctx.Context) error {
		ids := []uint{photoID}
		if err := s.repos.Profile.ClearAvatar(dbc, ids); err != nil {
			return err
		}
		if err := s.repos.PhotoLike.DeleteByPhotoIDs(dbc, ids); err != nil {
			return err
		}
		return s.repos.Photo.DeleteByIDs(dbc, ids)
	})
	if err != nil {
		return apierr.Map("delete photo", err)
	}
	deleteObjects(dbc.Ctx, s.bucket, s.log, []string{photo.ImageKey})
	return nil
}

func (s *photoService) get(dbc dbctx.Context, photoID uint) (*types.Photo, error) {
	photos, err := s.repos.Photo.GetByIDs(dbc, []uint{photoID})
	if err != nil {
		return nil, apierr.Map("load photo", err)
	}
	if len(photos) == 0 {
		return nil, apierr.NotFound("photo %d not found", photoID)
	}
	return photos[0], nil
}

func (s *photoService) render(dbc dbctx.Context, photo *types.Photo) (views.PhotoView, error) {
	recs, err := s.loader.Photos(dbc, []*types.Photo{photo})
	if err != nil {
		return views.PhotoView{}, apierr.Map("load likes", err)
	}
	v, err := views.NewPhotoView(recs[0], s.bucket)
	return render("render photo", v, err)
}

// processUploadedPhoto decodes png, jpeg or gif, shrinks the longest edge to
// maxEdge and re-encodes. JPEG stays JPEG; everything else becomes PNG.
func processUploadedPhoto(raw []byte, maxEdge int) ([]byte, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPhotoPixels {
		return nil, "", fmt.Errorf("%dx%d exceeds %d pixels", cfg.Width, cfg.Height, MaxPhotoPixels)
	}
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	img = downscale(img, maxEdge)

	var out bytes.Buffer
	if format == "jpeg" {
		if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: 88}); err != nil {
			return nil, "", fmt.Errorf("encode jpeg: %w", err)
		}
		return out.Bytes(), "jpg", nil
	}
	if err := png.Encode(&out, img); err != nil {
		return nil, "", fmt.Errorf("encode png: %w", err)
	}
	return out.Bytes(), "png", nil
}

func downscale(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return img
	}
	nw, nh := maxEdge, maxEdge
	if w >= h {
		nh = h * maxEdge / w
	} else {
		nw = w * maxEdge / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
