package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/scool-backend/internal/data/repos"
	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
	"github.com/yungbote/scool-backend/internal/views"
)

type GroupService interface {
	CreateGroup(dbc dbctx.Context, in views.GroupInput) (views.GroupView, error)
	GetGroup(dbc dbctx.Context, id uint) (views.GroupView, error)
	ListGroups(dbc dbctx.Context, filter repos.GroupFilter) ([]views.GroupView, error)
	AddMember(dbc dbctx.Context, groupID, profileID uint) error
	RemoveMember(dbc dbctx.Context, groupID, profileID uint) error
	DeleteGroup(dbc dbctx.Context, id uint) error
	// ListRoster returns the students of a group.
	ListRoster(dbc dbctx.Context, groupID uint) ([]views.ProfileView, error)
}

type groupService struct {
	db     *gorm.DB
	log    *logger.Logger
	repos  repos.Set
	loader *Loader
	urls   views.URLResolver
}

func NewGroupService(db *gorm.DB, log *logger.Logger, r repos.Set, loader *Loader, urls views.URLResolver) GroupService {
	return &groupService{
		db:     db,
		log:    log.With("service", "GroupService"),
		repos:  r,
		loader: loader,
		urls:   urls,
	}
}

func (s *groupService) CreateGroup(dbc dbctx.Context, in views.GroupInput) (views.GroupView, error) {
	if err := views.Validate(in); err != nil {
		return views.GroupView{}, err
	}
	if err := expectRole(dbc, s.repos, in.TeacherID, types.RoleTeacher, "teacher"); err != nil {
		return views.GroupView{}, err
	}
	if err := expectRole(dbc, s.repos, in.ManagerID, types.RoleEducationalManager, "manager"); err != nil {
		return views.GroupView{}, err
	}
	g := &types.Group{Name: strings.TrimSpace(in.Name), TeacherID: in.TeacherID, ManagerID: in.ManagerID}
	if _, err := s.repos.Group.Create(dbc, []*types.Group{g}); err != nil {
		return views.GroupView{}, apierr.Map("create group", err)
	}
	s.log.Info("Created group", "group_id", g.ID, "teacher_id", g.TeacherID, "manager_id", g.ManagerID)
	return s.renderGroup(dbc, g)
}

func (s *groupService) GetGroup(dbc dbctx.Context, id uint) (views.GroupView, error) {
	g, err := s.group(dbc, id)
	if err != nil {
		return views.GroupView{}, err
	}
	return s.renderGroup(dbc, g)
}

func (s *groupService) ListGroups(dbc dbctx.Context, filter repos.GroupFilter) ([]views.GroupView, error) {
	rows, err := s.repos.Group.List(dbc, filter)
	if err != nil {
		return nil, apierr.Map("list groups", err)
	}
	recs, err := s.loader.Groups(dbc, rows)
	if err != nil {
		return nil, apierr.Map("load groups", err)
	}
	out, err := views.NewGroupViews(recs, s.urls)
	return render("render groups", out, err)
}

func (s *groupService) AddMember(dbc dbctx.Context, groupID, profileID uint) error {
	if _, err := s.group(dbc, groupID); err != nil {
		return err
	}
	if _, err := s.loader.Profile(dbc, profileID); err != nil {
		return apierr.Map("load member", err)
	}
	return apierr.Map("add member", s.repos.GroupMember.Add(dbc, groupID, profileID))
}

func (s *groupService) RemoveMember(dbc dbctx.Context, groupID, profileID uint) error {
	n, err := s.repos.GroupMember.Remove(dbc, groupID, profileID)
	if err != nil {
		return apierr.Map("remove member", err)
	}
	if n == 0 {
		return apierr.NotFound("profile %d is not a member of group %d", profileID, groupID)
	}
	return nil
}

func (s *groupService) DeleteGroup(dbc dbctx.Context, id uint) error {
	g, err := s.group(dbc, id)
	if err != nil {
		return err
	}
	err = inTx(s.db, dbc, func(dbc dbctx.Context) error {
		return deleteGroups(dbc, s.repos, []*types.Group{g})
	})
	if err != nil {
		return apierr.Map("delete group", err)
	}
	s.log.Info("Deleted group", "group_id", id)
	return nil
}

func (s *groupService) ListRoster(dbc dbctx.Context, groupID uint) ([]views.ProfileView, error) {
	if _, err := s.group(dbc, groupID); err != nil {
		return nil, err
	}
	ids, err := s.repos.GroupMember.ListProfileIDsByGroup(dbc, groupID)
	if err != nil {
		return nil, apierr.Map("list members", err)
	}
	recs, err := s.loader.Profiles(dbc, ids)
	if err != nil {
		return nil, apierr.Map("load members", err)
	}
	students := recs[:0]
	for _, rec := range recs {
		if rec.Profile.Role == types.RoleStudent {
			students = append(students, rec)
		}
	}
	out, err := views.NewProfileViews(students, s.urls)
	return render("render roster", out, err)
}

func (s *groupService) group(dbc dbctx.Context, id uint) (*types.Group, error) {
	rows, err := s.repos.Group.GetByIDs(dbc, []uint{id})
	if err != nil {
		return nil, apierr.Map("load group", err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound("group %d not found", id)
	}
	return rows[0], nil
}

func (s *groupService) renderGroup(dbc dbctx.Context, g *types.Group) (views.GroupView, error) {
	recs, err := s.loader.Groups(dbc, []*types.Group{g})
	if err != nil {
		return views.GroupView{}, apierr.Map("load group", err)
	}
	v, err := views.NewGroupView(recs[0], s.urls)
	return render("render group", v, err)
}
