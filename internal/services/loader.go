package services

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/scool-backend/internal/data/repos"
	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
	"github.com/yungbote/scool-backend/internal/platform/ctxutil"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/views"
)

// Loader assembles the records views are built from. Relations that cannot
// be found are left nil so the view builder reports them.
type Loader struct {
	repos repos.Set
}

func NewLoader(r repos.Set) *Loader {
	return &Loader{repos: r}
}

func (l *Loader) profileMap(dbc dbctx.Context, ids []uint) (map[uint]views.ProfileRecord, error) {
	out := map[uint]views.ProfileRecord{}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	profiles, err := l.repos.Profile.GetByIDs(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	userIDs := make([]uint, 0, len(profiles))
	avatarIDs := []uint{}
	for _, p := range profiles {
		userIDs = append(userIDs, p.UserID)
		if p.AvatarID != nil {
			avatarIDs = append(avatarIDs, *p.AvatarID)
		}
	}
	users, err := l.repos.User.GetByIDs(dbc, userIDs)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	userByID := make(map[uint]*types.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}
	photoByID := map[uint]*types.Photo{}
	if len(avatarIDs) > 0 {
		photos, err := l.repos.Photo.GetByIDs(dbc, avatarIDs)
		if err != nil {
			return nil, fmt.Errorf("load avatars: %w", err)
		}
		for _, ph := range photos {
			photoByID[ph.ID] = ph
		}
	}
	for _, p := range profiles {
		rec := views.ProfileRecord{Profile: p, User: userByID[p.UserID]}
		if p.AvatarID != nil {
			rec.Avatar = photoByID[*p.AvatarID]
		}
		out[p.ID] = rec
	}
	return out, nil
}

// Profiles returns records in the order of ids, skipping unknown ids.
func (l *Loader) Profiles(dbc dbctx.Context, ids []uint) ([]views.ProfileRecord, error) {
	m, err := l.profileMap(dbc, ids)
	if err != nil {
		return nil, err
	}
	out := make([]views.ProfileRecord, 0, len(ids))
	for _, id := range uniqueIDs(ids) {
		if rec, ok := m[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Profile loads one profile or fails with not_found.
func (l *Loader) Profile(dbc dbctx.Context, id uint) (views.ProfileRecord, error) {
	m, err := l.profileMap(dbc, []uint{id})
	if err != nil {
		return views.ProfileRecord{}, err
	}
	rec, ok := m[id]
	if !ok {
		return views.ProfileRecord{}, apierr.NotFound("profile %d not found", id)
	}
	return rec, nil
}

func (l *Loader) Relations(dbc dbctx.Context, profileID uint) (views.Relations, error) {
	var rel views.Relations
	var err error
	if rel.Friends, err = l.repos.Friend.ListFriendIDs(dbc, profileID); err != nil {
		return rel, fmt.Errorf("list friends: %w", err)
	}
	if rel.RequestsIn, err = l.repos.FriendRequest.ListIncomingIDs(dbc, profileID); err != nil {
		return rel, fmt.Errorf("list incoming requests: %w", err)
	}
	if rel.RequestsOut, err = l.repos.FriendRequest.ListOutgoingIDs(dbc, profileID); err != nil {
		return rel, fmt.Errorf("list outgoing requests: %w", err)
	}
	if rel.Followers, err = l.repos.Follower.ListFollowerIDs(dbc, profileID); err != nil {
		return rel, fmt.Errorf("list followers: %w", err)
	}
	return rel, nil
}

func (l *Loader) Photos(dbc dbctx.Context, photos []*types.Photo) ([]views.PhotoRecord, error) {
	out := make([]views.PhotoRecord, 0, len(photos))
	if len(photos) == 0 {
		return out, nil
	}
	photoIDs := make([]uint, 0, len(photos))
	for _, p := range photos {
		photoIDs = append(photoIDs, p.ID)
	}
	likes, err := l.repos.PhotoLike.ListByPhotoIDs(dbc, photoIDs)
	if err != nil {
		return nil, fmt.Errorf("load likes: %w", err)
	}
	likerIDs := make([]uint, 0, len(likes))
	for _, lk := range likes {
		likerIDs = append(likerIDs, lk.ProfileID)
	}
	likers, err := l.profileMap(dbc, likerIDs)
	if err != nil {
		return nil, err
	}
	byPhoto := map[uint][]views.ProfileRecord{}
	for _, lk := range likes {
		if rec, ok := likers[lk.ProfileID]; ok {
			byPhoto[lk.PhotoID] = append(byPhoto[lk.PhotoID], rec)
		}
	}
	for _, p := range photos {
		out = append(out, views.PhotoRecord{Photo: p, Likes: byPhoto[p.ID]})
	}
	return out, nil
}

func (l *Loader) Groups(dbc dbctx.Context, groups []*types.Group) ([]views.GroupRecord, error) {
	out := make([]views.GroupRecord, 0, len(groups))
	if len(groups) == 0 {
		return out, nil
	}
	ids := make([]uint, 0, len(groups)*2)
	for _, g := range groups {
		ids = append(ids, g.TeacherID, g.ManagerID)
	}
	people, err := l.profileMap(dbc, ids)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		rec := views.GroupRecord{Group: g}
		if t, ok := people[g.TeacherID]; ok {
			rec.Teacher = &t
		}
		if m, ok := people[g.ManagerID]; ok {
			rec.Manager = &m
		}
		out = append(out, rec)
	}
	return out, nil
}

func (l *Loader) Courses(dbc dbctx.Context, courses []*types.Course) ([]views.CourseRecord, error) {
	out := make([]views.CourseRecord, 0, len(courses))
	if len(courses) == 0 {
		return out, nil
	}
	catIDs := make([]uint, 0, len(courses))
	teacherIDs := make([]uint, 0, len(courses))
	for _, c := range courses {
		catIDs = append(catIDs, c.CategoryID)
		teacherIDs = append(teacherIDs, c.TeacherID)
	}
	cats, err := l.repos.Category.GetByIDs(dbc, uniqueIDs(catIDs))
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	catByID := make(map[uint]*types.Category, len(cats))
	for _, c := range cats {
		catByID[c.ID] = c
	}
	teachers, err := l.profileMap(dbc, teacherIDs)
	if err != nil {
		return nil, err
	}
	for _, c := range courses {
		rec := views.CourseRecord{Course: c, Category: catByID[c.CategoryID]}
		if t, ok := teachers[c.TeacherID]; ok {
			rec.Teacher = &t
		}
		out = append(out, rec)
	}
	return out, nil
}

func (l *Loader) courseMap(dbc dbctx.Context, ids []uint) (map[uint]views.CourseRecord, error) {
	out := map[uint]views.CourseRecord{}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	courses, err := l.repos.Course.GetByIDs(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	recs, err := l.Courses(dbc, courses)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		out[rec.Course.ID] = rec
	}
	return out, nil
}

func (l *Loader) Lessons(dbc dbctx.Context, lessons []*types.Lesson) ([]views.LessonRecord, error) {
	out := make([]views.LessonRecord, 0, len(lessons))
	if len(lessons) == 0 {
		return out, nil
	}
	courseIDs := make([]uint, 0, len(lessons))
	for _, ls := range lessons {
		courseIDs = append(courseIDs, ls.CourseID)
	}
	courses, err := l.courseMap(dbc, courseIDs)
	if err != nil {
		return nil, err
	}
	for _, ls := range lessons {
		rec := views.LessonRecord{Lesson: ls}
		if c, ok := courses[ls.CourseID]; ok {
			rec.Course = &c
		}
		out = append(out, rec)
	}
	return out, nil
}

func (l *Loader) Timetables(dbc dbctx.Context, rows []*types.Timetable) ([]views.TimetableRecord, error) {
	out := make([]views.TimetableRecord, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	lessonIDs := make([]uint, 0, len(rows))
	groupIDs := make([]uint, 0, len(rows))
	for _, t := range rows {
		lessonIDs = append(lessonIDs, t.LessonID)
		groupIDs = append(groupIDs, t.GroupID)
	}
	lessons, err := l.repos.Lesson.GetByIDs(dbc, uniqueIDs(lessonIDs))
	if err != nil {
		return nil, fmt.Errorf("load lessons: %w", err)
	}
	lessonRecs, err := l.Lessons(dbc, lessons)
	if err != nil {
		return nil, err
	}
	lessonByID := make(map[uint]views.LessonRecord, len(lessonRecs))
	for _, rec := range lessonRecs {
		lessonByID[rec.Lesson.ID] = rec
	}
	groups, err := l.repos.Group.GetByIDs(dbc, uniqueIDs(groupIDs))
	if err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}
	groupRecs, err := l.Groups(dbc, groups)
	if err != nil {
		return nil, err
	}
	groupByID := make(map[uint]views.GroupRecord, len(groupRecs))
	for _, rec := range groupRecs {
		groupByID[rec.Group.ID] = rec
	}
	for _, t := range rows {
		rec := views.TimetableRecord{Timetable: t}
		if ls, ok := lessonByID[t.LessonID]; ok {
			rec.Lesson = &ls
		}
		if g, ok := groupByID[t.GroupID]; ok {
			rec.Group = &g
		}
		out = append(out, rec)
	}
	return out, nil
}

func (l *Loader) Certificates(dbc dbctx.Context, rows []*types.Certificate) ([]views.CertificateRecord, error) {
	out := make([]views.CertificateRecord, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	profileIDs := make([]uint, 0, len(rows))
	courseIDs := make([]uint, 0, len(rows))
	for _, c := range rows {
		profileIDs = append(profileIDs, c.ProfileID)
		courseIDs = append(courseIDs, c.CourseID)
	}
	people, err := l.profileMap(dbc, profileIDs)
	if err != nil {
		return nil, err
	}
	courses, err := l.courseMap(dbc, courseIDs)
	if err != nil {
		return nil, err
	}
	rels := map[uint]views.Relations{}
	for _, id := range uniqueIDs(profileIDs) {
		rel, err := l.Relations(dbc, id)
		if err != nil {
			return nil, err
		}
		rels[id] = rel
	}
	for _, c := range rows {
		rec := views.CertificateRecord{Certificate: c, Relations: rels[c.ProfileID]}
		if p, ok := people[c.ProfileID]; ok {
			rec.Profile = &p
		}
		if cr, ok := courses[c.CourseID]; ok {
			rec.Course = &cr
		}
		out = append(out, rec)
	}
	return out, nil
}

func (l *Loader) Dialogs(dbc dbctx.Context, dialogs []*types.Dialog) ([]views.DialogRecord, error) {
	out := make([]views.DialogRecord, 0, len(dialogs))
	if len(dialogs) == 0 {
		return out, nil
	}
	ids := make([]uint, 0, len(dialogs))
	for _, d := range dialogs {
		ids = append(ids, d.ID)
	}
	parts, err := l.repos.Participant.ListByDialogIDs(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}
	profileIDs := make([]uint, 0, len(parts))
	for _, p := range parts {
		profileIDs = append(profileIDs, p.ProfileID)
	}
	people, err := l.profileMap(dbc, profileIDs)
	if err != nil {
		return nil, err
	}
	byDialog := map[uint][]views.ProfileRecord{}
	for _, p := range parts {
		if rec, ok := people[p.ProfileID]; ok {
			byDialog[p.DialogID] = append(byDialog[p.DialogID], rec)
		}
	}
	for _, d := range dialogs {
		out = append(out, views.DialogRecord{Dialog: d, Participants: byDialog[d.ID]})
	}
	return out, nil
}

func (l *Loader) Attachments(dbc dbctx.Context, rows []*types.DialogAttachment) ([]views.AttachmentRecord, error) {
	out := make([]views.AttachmentRecord, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	dialogIDs := make([]uint, 0, len(rows))
	for _, a := range rows {
		dialogIDs = append(dialogIDs, a.DialogID)
	}
	dialogs, err := l.repos.Dialog.GetByIDs(dbc, uniqueIDs(dialogIDs))
	if err != nil {
		return nil, fmt.Errorf("load dialogs: %w", err)
	}
	recs, err := l.Dialogs(dbc, dialogs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]views.DialogRecord, len(recs))
	for _, rec := range recs {
		byID[rec.Dialog.ID] = rec
	}
	for _, a := range rows {
		rec := views.AttachmentRecord{Attachment: a}
		if d, ok := byID[a.DialogID]; ok {
			rec.Dialog = &d
		}
		out = append(out, rec)
	}
	return out, nil
}

func (l *Loader) Messages(dbc dbctx.Context, msgs []*types.Message) ([]views.MessageRecord, error) {
	out := make([]views.MessageRecord, 0, len(msgs))
	if len(msgs) == 0 {
		return out, nil
	}
	senderIDs := make([]uint, 0, len(msgs))
	attIDs := []uint{}
	for _, m := range msgs {
		senderIDs = append(senderIDs, m.FromUserID)
		if m.AttachmentID != nil {
			attIDs = append(attIDs, *m.AttachmentID)
		}
	}
	senders, err := l.profileMap(dbc, senderIDs)
	if err != nil {
		return nil, err
	}
	attByID := map[uint]views.AttachmentRecord{}
	if len(attIDs) > 0 {
		atts, err := l.repos.Attachment.GetByIDs(dbc, uniqueIDs(attIDs))
		if err != nil {
			return nil, fmt.Errorf("load attachments: %w", err)
		}
		recs, err := l.Attachments(dbc, atts)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			attByID[rec.Attachment.ID] = rec
		}
	}
	for _, m := range msgs {
		rec := views.MessageRecord{Message: m}
		if s, ok := senders[m.FromUserID]; ok {
			rec.From = &s
		}
		if m.AttachmentID != nil {
			if a, ok := attByID[*m.AttachmentID]; ok {
				rec.Attachment = &a
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// Detail loads the role detail record. The lists are fetched concurrently on
// the primary handle, so dbc must not carry a transaction.
func (l *Loader) Detail(dbc dbctx.Context, profileID uint) (views.DetailRecord, error) {
	base, err := l.Profile(dbc, profileID)
	if err != nil {
		return views.DetailRecord{}, err
	}
	rec := views.DetailRecord{ProfileRecord: base}

	g, gctx := errgroup.WithContext(ctxutil.Default(dbc.Ctx))
	sub := dbctx.Context{Ctx: gctx}

	g.Go(func() error {
		switch base.Profile.Role {
		case types.RoleStudent:
			rows, err := l.repos.Student.GetByProfileIDs(sub, []uint{profileID})
			if err != nil {
				return fmt.Errorf("load student: %w", err)
			}
			if len(rows) > 0 {
				rec.Student = rows[0]
			}
		case types.RoleTeacher:
			rows, err := l.repos.Teacher.GetByProfileIDs(sub, []uint{profileID})
			if err != nil {
				return fmt.Errorf("load teacher: %w", err)
			}
			if len(rows) > 0 {
				rec.Teacher = rows[0]
			}
		case types.RoleEducationalManager:
			rows, err := l.repos.EducationalManager.GetByProfileIDs(sub, []uint{profileID})
			if err != nil {
				return fmt.Errorf("load educational manager: %w", err)
			}
			if len(rows) > 0 {
				rec.Manager = rows[0]
			}
		}
		return nil
	})
	g.Go(func() error {
		if base.Profile.Role == types.RoleEducationalManager {
			return nil
		}
		groupIDs, err := l.repos.GroupMember.ListGroupIDsByProfile(sub, profileID)
		if err != nil {
			return fmt.Errorf("list memberships: %w", err)
		}
		if base.Profile.Role == types.RoleTeacher {
			taught, err := l.repos.Group.List(sub, repos.GroupFilter{TeacherID: profileID})
			if err != nil {
				return fmt.Errorf("list taught groups: %w", err)
			}
			for _, tg := range taught {
				groupIDs = append(groupIDs, tg.ID)
			}
		}
		groups, err := l.repos.Group.GetByIDs(sub, uniqueIDs(groupIDs))
		if err != nil {
			return fmt.Errorf("load groups: %w", err)
		}
		rec.Groups, err = l.Groups(sub, groups)
		return err
	})
	g.Go(func() error {
		photos, err := l.repos.Photo.ListByOwner(sub, profileID)
		if err != nil {
			return fmt.Errorf("list photos: %w", err)
		}
		rec.Photos, err = l.Photos(sub, photos)
		return err
	})
	g.Go(func() error {
		rel, err := l.Relations(sub, profileID)
		if err != nil {
			return err
		}
		if rec.Friends, err = l.Profiles(sub, rel.Friends); err != nil {
			return err
		}
		if rec.RequestsIn, err = l.Profiles(sub, rel.RequestsIn); err != nil {
			return err
		}
		rec.RequestsOut, err = l.Profiles(sub, rel.RequestsOut)
		return err
	})
	if err := g.Wait(); err != nil {
		return views.DetailRecord{}, err
	}
	return rec, nil
}
