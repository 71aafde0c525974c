package services

import (
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/scool-backend/internal/data/repos"
	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
	"github.com/yungbote/scool-backend/internal/views"
)

// TimetableQuery narrows ListTimetable. Dates are YYYY-MM-DD and inclusive.
type TimetableQuery struct {
	GroupID uint
	From    string
	To      string
}

type TimetableService interface {
	CreateTimetable(dbc dbctx.Context, in views.TimetableCreateInput) (Created[views.TimetableView], error)
	ListTimetable(dbc dbctx.Context, q TimetableQuery) ([]views.TimetableView, error)
	FinishLesson(dbc dbctx.Context, id uint) (views.TimetableView, error)
}

type timetableService struct {
	db     *gorm.DB
	log    *logger.Logger
	repos  repos.Set
	loader *Loader
	urls   views.URLResolver
}

func NewTimetableService(db *gorm.DB, log *logger.Logger, r repos.Set, loader *Loader, urls views.URLResolver) TimetableService {
	return &timetableService{
		db:     db,
		log:    log.With("service", "TimetableService"),
		repos:  r,
		loader: loader,
		urls:   urls,
	}
}

func (s *timetableService) CreateTimetable(dbc dbctx.Context, in views.TimetableCreateInput) (Created[views.TimetableView], error) {
	if err := views.Validate(in); err != nil {
		return Created[views.TimetableView]{}, err
	}
	date, err := views.ParseDate(in.Date)
	if err != nil {
		return Created[views.TimetableView]{}, apierr.Validation("date: %v", err)
	}
	lessons, err := s.repos.Lesson.GetByIDs(dbc, []uint{in.LessonID})
	if err != nil {
		return Created[views.TimetableView]{}, apierr.Map("load lesson", err)
	}
	if len(lessons) == 0 {
		return Created[views.TimetableView]{}, apierr.NotFound("lesson %d not found", in.LessonID)
	}
	groups, err := s.repos.Group.GetByIDs(dbc, []uint{in.GroupID})
	if err != nil {
		return Created[views.TimetableView]{}, apierr.Map("load group", err)
	}
	if len(groups) == 0 {
		return Created[views.TimetableView]{}, apierr.NotFound("group %d not found", in.GroupID)
	}

	row := &types.Timetable{Date: date, LessonID: in.LessonID, GroupID: in.GroupID}
	err = inTx(s.db, dbc, func(dbc dbctx.Context) error {
		same, err := s.repos.Timetable.List(dbc, repos.TimetableFilter{GroupIDs: []uint{in.GroupID}, From: &date, To: &date})
		if err != nil {
			return err
		}
		for _, t := range same {
			if t.LessonID == in.LessonID {
				return apierr.Conflict("lesson %d is already scheduled for group %d on %s", in.LessonID, in.GroupID, in.Date)
			}
		}
		_, err = s.repos.Timetable.Create(dbc, []*types.Timetable{row})
		return err
	})
	if err != nil {
		return Created[views.TimetableView]{}, apierr.Map("create timetable", err)
	}
	v, err := s.renderOne(dbc, row)
	if err != nil {
		return Created[views.TimetableView]{}, err
	}
	return Created[views.TimetableView]{ID: row.ID, View: v}, nil
}

func (s *timetableService) ListTimetable(dbc dbctx.Context, q TimetableQuery) ([]views.TimetableView, error) {
	filter := repos.TimetableFilter{}
	if q.GroupID != 0 {
		filter.GroupIDs = []uint{q.GroupID}
	}
	var err error
	if filter.From, err = optionalDate("from", q.From); err != nil {
		return nil, err
	}
	if filter.To, err = optionalDate("to", q.To); err != nil {
		return nil, err
	}
	rows, err := s.repos.Timetable.List(dbc, filter)
	if err != nil {
		return nil, apierr.Map("list timetable", err)
	}
	recs, err := s.loader.Timetables(dbc, rows)
	if err != nil {
		return nil, apierr.Map("load timetable", err)
	}
	out, err := views.NewTimetableViews(recs, s.urls)
	return render("render timetable", out, err)
}

// FinishLesson marks a scheduled lesson as held. Finishing twice is a no-op.
func (s *timetableService) FinishLesson(dbc dbctx.Context, id uint) (views.TimetableView, error) {
	rows, err := s.repos.Timetable.GetByIDs(dbc, []uint{id})
	if err != nil {
		return views.TimetableView{}, apierr.Map("load timetable", err)
	}
	if len(rows) == 0 {
		return views.TimetableView{}, apierr.NotFound("timetable entry %d not found", id)
	}
	row := rows[0]
	if !row.IsFinished {
		if err := s.repos.Timetable.UpdateFields(dbc, id, map[string]interface{}{"is_finished": true}); err != nil {
			return views.TimetableView{}, apierr.Map("finish lesson", err)
		}
		row.IsFinished = true
	}
	return s.renderOne(dbc, row)
}

func (s *timetableService) renderOne(dbc dbctx.Context, row *types.Timetable) (views.TimetableView, error) {
	recs, err := s.loader.Timetables(dbc, []*types.Timetable{row})
	if err != nil {
		return views.TimetableView{}, apierr.Map("load timetable", err)
	}
	v, err := views.NewTimetableView(recs[0], s.urls)
	return render("render timetable", v, err)
}

func optionalDate(field, raw string) (*datatypes.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := views.ParseDate(raw)
	if err != nil {
		return nil, apierr.Validation("%s: %v", field, err)
	}
	return &d, nil
}
