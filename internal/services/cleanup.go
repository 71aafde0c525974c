package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yungbote/scool-backend/internal/data/repos"
	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/gcp"
	"github.com/yungbote/scool-backend/internal/platform/logger"
)

// ObjectStore is the part of gcp.BucketService the services write through.
type ObjectStore interface {
	UploadFile(dbc dbctx.Context, key string, file io.Reader) error
	DeleteFile(dbc dbctx.Context, key string) error
	GetPublicURL(key string) string
}

// accountCleanup removes a user and everything hanging off its profile.
// Foreign keys are not created by AutoMigrate, so every cascade lives here.
type accountCleanup struct {
	repos  repos.Set
	bucket ObjectStore
	log    *logger.Logger
}

// deleteUser runs inside the caller's transaction and returns the object keys
// to remove once it commits.
func (c *accountCleanup) deleteUser(dbc dbctx.Context, userID uint) ([]string, error) {
	users, err := c.repos.User.GetByIDs(dbc, []uint{userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user %d not found", userID)
	}
	profiles, err := c.repos.Profile.GetByUserIDs(dbc, []uint{userID})
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, p := range profiles {
		k, err := c.deleteProfile(dbc, p)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k...)
	}
	if err := c.repos.UserToken.DeleteByUserIDs(dbc, []uint{userID}); err != nil {
		return nil, fmt.Errorf("delete tokens: %w", err)
	}
	if err := c.repos.User.DeleteByIDs(dbc, []uint{userID}); err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return keys, nil
}

func (c *accountCleanup) deleteProfile(dbc dbctx.Context, p *types.Profile) ([]string, error) {
	ids := []uint{p.ID}
	var keys []string

	switch p.Role {
	case types.RoleTeacher:
		taught, err := c.repos.Group.List(dbc, repos.GroupFilter{TeacherID: p.ID})
		if err != nil {
			return nil, err
		}
		courses, err := c.repos.Course.CountByTeacher(dbc, p.ID)
		if err != nil {
			return nil, err
		}
		if len(taught) > 0 || courses > 0 {
			return nil, apierr.PreconditionFailed("%v: teacher %d still has %d groups and %d courses", errStillReferenced, p.ID, len(taught), courses)
		}
	case types.RoleEducationalManager:
		managed, err := c.repos.Group.List(dbc, repos.GroupFilter{ManagerID: p.ID})
		if err != nil {
			return nil, err
		}
		if err := deleteGroups(dbc, c.repos, managed); err != nil {
			return nil, err
		}
	}

	photos, err := c.repos.Photo.ListByOwner(dbc, p.ID)
	if err != nil {
		return nil, err
	}
	photoIDs := make([]uint, 0, len(photos))
	for _, ph := range photos {
		photoIDs = append(photoIDs, ph.ID)
		keys = append(keys, ph.ImageKey)
	}
	certs, err := c.repos.Certificate.ListByProfile(dbc, p.ID)
	if err != nil {
		return nil, err
	}
	for _, ct := range certs {
		if ct.ImageKey != "" {
			keys = append(keys, ct.ImageKey)
		}
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"avatars", func() error { return c.repos.Profile.ClearAvatar(dbc, photoIDs) }},
		{"photo likes", func() error { return c.repos.PhotoLike.DeleteByPhotoIDs(dbc, photoIDs) }},
		{"given likes", func() error { return c.repos.PhotoLike.DeleteByProfileIDs(dbc, ids) }},
		{"photos", func() error { return c.repos.Photo.DeleteByIDs(dbc, photoIDs) }},
		{"friends", func() error { return c.repos.Friend.DeleteByProfileIDs(dbc, ids) }},
		{"friend requests", func() error { return c.repos.FriendRequest.DeleteByProfileIDs(dbc, ids) }},
		{"followers", func() error { return c.repos.Follower.DeleteByProfileIDs(dbc, ids) }},
		{"memberships", func() error { return c.repos.GroupMember.DeleteByProfileIDs(dbc, ids) }},
		{"certificates", func() error { return c.repos.Certificate.DeleteByProfileIDs(dbc, ids) }},
		{"performance", func() error { return c.repos.Performance.DeleteByProfileIDs(dbc, ids) }},
		{"messages", func() error { return c.repos.Message.DeleteBySenderIDs(dbc, ids) }},
		{"dialog participation", func() error { return c.repos.Participant.DeleteByProfileIDs(dbc, ids) }},
		{"student", func() error { return c.repos.Student.DeleteByProfileIDs(dbc, ids) }},
		{"teacher", func() error { return c.repos.Teacher.DeleteByProfileIDs(dbc, ids) }},
		{"educational manager", func() error { return c.repos.EducationalManager.DeleteByProfileIDs(dbc, ids) }},
		{"profile", func() error { return c.repos.Profile.DeleteByIDs(dbc, ids) }},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return nil, fmt.Errorf("delete %s: %w", s.name, err)
		}
	}
	return keys, nil
}

// deleteGroups removes groups with their timetable entries and memberships.
func deleteGroups(dbc dbctx.Context, r repos.Set, groups []*types.Group) error {
	if len(groups) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	if err := r.Timetable.DeleteByGroupIDs(dbc, ids); err != nil {
		return fmt.Errorf("delete timetable: %w", err)
	}
	if err := r.GroupMember.DeleteByGroupIDs(dbc, ids); err != nil {
		return fmt.Errorf("delete memberships: %w", err)
	}
	if err := r.Group.DeleteByIDs(dbc, ids); err != nil {
		return fmt.Errorf("delete groups: %w", err)
	}
	return nil
}

// deleteObjects is best effort; a missing object is not worth a warning.
func (c *accountCleanup) deleteObjects(ctx context.Context, keys []string) {
	deleteObjects(ctx, c.bucket, c.log, keys)
}

func deleteObjects(ctx context.Context, bucket ObjectStore, log *logger.Logger, keys []string) {
	if bucket == nil {
		return
	}
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			continue
		}
		if err := bucket.DeleteFile(dbctx.Context{Ctx: ctx}, k); err != nil && !errors.Is(err, gcp.ErrObjectNotFound) {
			log.Warn("Failed to delete object (ignored)", "key", k, "error", err)
		}
	}
}
