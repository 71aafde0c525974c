// Package views renders loaded entity graphs into the JSON representations
// served by the API, and declares the validated inbound payloads.
//
// Builders take records: a domain row plus the relations it must be rendered
// with. A builder whose required relation is missing fails with
// ErrMissingRelation instead of emitting a partial object.
package views

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const DateLayout = "2006-01-02"

var ErrMissingRelation = errors.New("required relation not loaded")

// URLResolver turns an object key into a public URL. gcp.BucketService satisfies it.
type URLResolver interface {
	GetPublicURL(key string) string
}

func missing(entity string, id uint, relation string) error {
	return fmt.Errorf("%w: %s %d %s", ErrMissingRelation, entity, id, relation)
}

func resolveURL(urls URLResolver, key string) *string {
	if strings.TrimSpace(key) == "" || urls == nil {
		return nil
	}
	u := urls.GetPublicURL(key)
	if u == "" {
		return nil
	}
	return &u
}

func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}

func formatDatePtr(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	s := FormatDate(*d)
	return &s
}

// ParseDate reads YYYY-MM-DD as a UTC calendar date.
func ParseDate(s string) (datatypes.Date, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return datatypes.Date{}, fmt.Errorf("invalid date %q: want %s", s, DateLayout)
	}
	return datatypes.Date(t), nil
}

func ids(in []uint) []uint {
	if in == nil {
		return []uint{}
	}
	return in
}
