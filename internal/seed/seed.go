// Package seed loads a YAML catalog of staff accounts, categories, courses and
// lessons and writes whatever is missing. Running it twice is a no-op apart
// from refreshing course and lesson texts.
package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/scool-backend/internal/data/repos"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
	"github.com/yungbote/scool-backend/internal/services"
	"github.com/yungbote/scool-backend/internal/views"
)

type Catalog struct {
	Staff      []Staff    `yaml:"staff"`
	Categories []Category `yaml:"categories"`
}

type Staff struct {
	Username             string `yaml:"username"`
	Password             string `yaml:"password"`
	Email                string `yaml:"email"`
	FirstName            string `yaml:"first_name"`
	LastName             string `yaml:"last_name"`
	MiddleName           string `yaml:"middle_name"`
	Gender               string `yaml:"gender"`
	Role                 string `yaml:"role"`
	Education            string `yaml:"education"`
	ProfessionalActivity string `yaml:"professional_activity"`
	ManagementScope      string `yaml:"management_scope"`
}

type Category struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Courses     []Course `yaml:"courses"`
}

type Course struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Teacher     string   `yaml:"teacher"` // username
	Lessons     []Lesson `yaml:"lessons"`
}

type Lesson struct {
	Number      int    `yaml:"number"`
	Theme       string `yaml:"theme"`
	Description string `yaml:"description"`
	VideoURL    string `yaml:"video_url"`
	Homework    string `yaml:"homework"`
	Materials   any    `yaml:"materials"`
}

type Result struct {
	StaffCreated      int
	CategoriesCreated int
	CoursesCreated    int
	CoursesUpdated    int
	LessonsCreated    int
	LessonsUpdated    int
}

func Parse(raw []byte) (Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(raw, &cat); err != nil {
		return Catalog{}, fmt.Errorf("parse seed catalog: %w", err)
	}
	return cat, nil
}

func Load(path string) (Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read seed catalog: %w", err)
	}
	return Parse(raw)
}

type Seeder struct {
	log      *logger.Logger
	repos    repos.Set
	profiles services.ProfileService
	catalog  services.CatalogService
}

func NewSeeder(log *logger.Logger, r repos.Set, profiles services.ProfileService, catalog services.CatalogService) *Seeder {
	return &Seeder{log: log.With("component", "Seeder"), repos: r, profiles: profiles, catalog: catalog}
}

// Apply writes staff first so courses can reference teachers by username.
func (s *Seeder) Apply(dbc dbctx.Context, cat Catalog) (Result, error) {
	var res Result
	for _, st := range cat.Staff {
		created, err := s.staff(dbc, st)
		if err != nil {
			return res, fmt.Errorf("staff %q: %w", st.Username, err)
		}
		if created {
			res.StaffCreated++
		}
	}
	for _, c := range cat.Categories {
		if err := s.category(dbc, c, &res); err != nil {
			return res, fmt.Errorf("category %q: %w", c.Name, err)
		}
	}
	s.log.Info("Seed applied",
		"staff_created", res.StaffCreated,
		"categories_created", res.CategoriesCreated,
		"courses_created", res.CoursesCreated,
		"lessons_created", res.LessonsCreated,
	)
	return res, nil
}

func (s *Seeder) staff(dbc dbctx.Context, st Staff) (bool, error) {
	existing, err := s.repos.User.GetByUsername(dbc, st.Username)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	_, err = s.profiles.CreateStaff(dbc, views.StaffInput{
		RegistrationInput: views.RegistrationInput{
			Username:  st.Username,
			Password:  st.Password,
			Email:     st.Email,
			FirstName: st.FirstName,
			LastName:  st.LastName,
			Profile:   views.ProfileCreateInput{MiddleName: st.MiddleName, Gender: st.Gender},
		},
		Role:                 st.Role,
		Education:            st.Education,
		ProfessionalActivity: st.ProfessionalActivity,
		ManagementScope:      st.ManagementScope,
	})
	return err == nil, err
}

func (s *Seeder) category(dbc dbctx.Context, c Category, res *Result) error {
	name := strings.TrimSpace(c.Name)
	row, err := s.repos.Category.GetByName(dbc, name)
	if err != nil {
		return err
	}
	categoryID := uint(0)
	if row != nil {
		categoryID = row.ID
	} else {
		v, err := s.catalog.CreateCategory(dbc, views.CategoryInput{Name: name, Description: c.Description})
		if err != nil {
			return err
		}
		categoryID = v.ID
		res.CategoriesCreated++
	}
	for _, course := range c.Courses {
		if err := s.course(dbc, categoryID, course, res); err != nil {
			return fmt.Errorf("course %q: %w", course.Name, err)
		}
	}
	return nil
}

func (s *Seeder) teacherProfileID(dbc dbctx.Context, username string) (uint, error) {
	u, err := s.repos.User.GetByUsername(dbc, username)
	if err != nil {
		return 0, err
	}
	if u == nil {
		return 0, fmt.Errorf("teacher %q not found", username)
	}
	profiles, err := s.repos.Profile.GetByUserIDs(dbc, []uint{u.ID})
	if err != nil {
		return 0, err
	}
	if len(profiles) == 0 {
		return 0, fmt.Errorf("teacher %q has no profile", username)
	}
	return profiles[0].ID, nil
}

func (s *Seeder) course(dbc dbctx.Context, categoryID uint, c Course, res *Result) error {
	teacherID, err := s.teacherProfileID(dbc, c.Teacher)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(c.Name)
	row, err := s.repos.Course.GetByName(dbc, categoryID, name)
	if err != nil {
		return err
	}
	courseID := uint(0)
	if row != nil {
		courseID = row.ID
		updates := map[string]interface{}{}
		if row.Description != c.Description {
			updates["description"] = c.Description
		}
		if row.TeacherID != teacherID {
			updates["teacher_id"] = teacherID
		}
		if len(updates) > 0 {
			if err := s.repos.Course.UpdateFields(dbc, row.ID, updates); err != nil {
				return err
			}
			res.CoursesUpdated++
		}
	} else {
		v, err := s.catalog.CreateCourse(dbc, views.CourseInput{
			Name:        name,
			Description: c.Description,
			CategoryID:  categoryID,
			TeacherID:   teacherID,
		})
		if err != nil {
			return err
		}
		courseID = v.ID
		res.CoursesCreated++
	}
	for _, l := range c.Lessons {
		if err := s.lesson(dbc, courseID, l, res); err != nil {
			return fmt.Errorf("lesson %d: %w", l.Number, err)
		}
	}
	return nil
}

func (s *Seeder) lesson(dbc dbctx.Context, courseID uint, l Lesson, res *Result) error {
	var materials json.RawMessage
	if l.Materials != nil {
		raw, err := json.Marshal(l.Materials)
		if err != nil {
			return fmt.Errorf("encode materials: %w", err)
		}
		materials = raw
	}
	row, err := s.repos.Lesson.GetByNumber(dbc, courseID, l.Number)
	if err != nil {
		return err
	}
	if row == nil {
		_, err := s.catalog.CreateLesson(dbc, views.LessonInput{
			CourseID:     courseID,
			Theme:        l.Theme,
			LessonNumber: l.Number,
			Description:  l.Description,
			VideoURL:     l.VideoURL,
			Homework:     l.Homework,
			Materials:    materials,
		})
		if err != nil {
			return err
		}
		res.LessonsCreated++
		return nil
	}
	updates := map[string]interface{}{}
	if row.Theme != l.Theme {
		updates["theme"] = l.Theme
	}
	if row.Description != l.Description {
		updates["description"] = l.Description
	}
	if row.VideoURL != l.VideoURL {
		updates["video_url"] = l.VideoURL
	}
	if row.Homework != l.Homework {
		updates["homework"] = l.Homework
	}
	if materials != nil && string(row.Materials) != string(materials) {
		updates["materials"] = materials
	}
	if len(updates) == 0 {
		return nil
	}
	res.LessonsUpdated++
	return s.repos.Lesson.UpdateFields(dbc, row.ID, updates)
}
