package views

import (
	"time"

	types "github.com/yungbote/scool-backend/internal/domain"
)

// PhotoRecord is a photo with the profiles that liked it.
type PhotoRecord struct {
	Photo *types.Photo
	Likes []ProfileRecord
}

type PhotoView struct {
	ID    uint          `json:"id"`
	Image *string       `json:"image"`
	Date  time.Time     `json:"date"`
	Likes []ProfileView `json:"likes"`
}

func NewPhotoView(rec PhotoRecord, urls URLResolver) (PhotoView, error) {
	if rec.Photo == nil {
		return PhotoView{}, missing("photo", 0, "row")
	}
	likes, err := NewProfileViews(rec.Likes, urls)
	if err != nil {
		return PhotoView{}, err
	}
	return PhotoView{
		ID:    rec.Photo.ID,
		Image: resolveURL(urls, rec.Photo.ImageKey),
		Date:  rec.Photo.Date.UTC(),
		Likes: likes,
	}, nil
}

func NewPhotoViews(recs []PhotoRecord, urls URLResolver) ([]PhotoView, error) {
	out := make([]PhotoView, 0, len(recs))
	for _, rec := range recs {
		v, err := NewPhotoView(rec, urls)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
