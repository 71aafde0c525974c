package views

import (
	"gorm.io/datatypes"

	types "github.com/yungbote/scool-backend/internal/domain"
)

type GroupRecord struct {
	Group   *types.Group
	Teacher *ProfileRecord
	Manager *ProfileRecord
}

type GroupView struct {
	ID      uint                   `json:"id"`
	Name    string                 `json:"name"`
	Teacher ProfileView            `json:"teacher"`
	Manager EducationalManagerView `json:"manager"`
}

func NewGroupView(rec GroupRecord, urls URLResolver) (GroupView, error) {
	if rec.Group == nil {
		return GroupView{}, missing("group", 0, "row")
	}
	if rec.Teacher == nil {
		return GroupView{}, missing("group", rec.Group.ID, "teacher")
	}
	if rec.Manager == nil {
		return GroupView{}, missing("group", rec.Group.ID, "manager")
	}
	teacher, err := NewProfileView(*rec.Teacher, urls)
	if err != nil {
		return GroupView{}, err
	}
	manager, err := NewEducationalManagerView(*rec.Manager)
	if err != nil {
		return GroupView{}, err
	}
	return GroupView{ID: rec.Group.ID, Name: rec.Group.Name, Teacher: teacher, Manager: manager}, nil
}

func NewGroupViews(recs []GroupRecord, urls URLResolver) ([]GroupView, error) {
	out := make([]GroupView, 0, len(recs))
	for _, rec := range recs {
		v, err := NewGroupView(rec, urls)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type CategoryView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func NewCategoryView(c *types.Category) CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name, Description: c.Description}
}

type CourseRecord struct {
	Course   *types.Course
	Category *types.Category
	Teacher  *ProfileRecord
}

type CourseView struct {
	ID          uint         `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Category    CategoryView `json:"category"`
	Teacher     ProfileView  `json:"teacher"`
}

func NewCourseView(rec CourseRecord, urls URLResolver) (CourseView, error) {
	if rec.Course == nil {
		return CourseView{}, missing("course", 0, "row")
	}
	if rec.Category == nil {
		return CourseView{}, missing("course", rec.Course.ID, "category")
	}
	if rec.Teacher == nil {
		return CourseView{}, missing("course", rec.Course.ID, "teacher")
	}
	teacher, err := NewProfileView(*rec.Teacher, urls)
	if err != nil {
		return CourseView{}, err
	}
	return CourseView{
		ID:          rec.Course.ID,
		Name:        rec.Course.Name,
		Description: rec.Course.Description,
		Category:    NewCategoryView(rec.Category),
		Teacher:     teacher,
	}, nil
}

func NewCourseViews(recs []CourseRecord, urls URLResolver) ([]CourseView, error) {
	out := make([]CourseView, 0, len(recs))
	for _, rec := range recs {
		v, err := NewCourseView(rec, urls)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type LessonRecord struct {
	Lesson *types.Lesson
	Course *CourseRecord
}

type LessonView struct {
	ID           uint       `json:"id"`
	Course       CourseView `json:"course"`
	Theme        string     `json:"theme"`
	LessonNumber int        `json:"lesson_number"`
}

type LessonDetailView struct {
	ID           uint           `json:"id"`
	Course       CourseView     `json:"course"`
	Theme        string         `json:"theme"`
	LessonNumber int            `json:"lesson_number"`
	Description  string         `json:"description"`
	VideoURL     string         `json:"video_url"`
	Homework     string         `json:"homework"`
	Materials    datatypes.JSON `json:"materials"`
}

func lessonCourse(rec LessonRecord, urls URLResolver) (CourseView, error) {
	if rec.Lesson == nil {
		return CourseView{}, missing("lesson", 0, "row")
	}
	if rec.Course == nil {
		return CourseView{}, missing("lesson", rec.Lesson.ID, "course")
	}
	return NewCourseView(*rec.Course, urls)
}

func NewLessonView(rec LessonRecord, urls URLResolver) (LessonView, error) {
	course, err := lessonCourse(rec, urls)
	if err != nil {
		return LessonView{}, err
	}
	return LessonView{
		ID:           rec.Lesson.ID,
		Course:       course,
		Theme:        rec.Lesson.Theme,
		LessonNumber: rec.Lesson.LessonNumber,
	}, nil
}

func NewLessonViews(recs []LessonRecord, urls URLResolver) ([]LessonView, error) {
	out := make([]LessonView, 0, len(recs))
	for _, rec := range recs {
		v, err := NewLessonView(rec, urls)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// NewLessonDetailView renders materials as stored; an empty column renders as [].
func NewLessonDetailView(rec LessonRecord, urls URLResolver) (LessonDetailView, error) {
	course, err := lessonCourse(rec, urls)
	if err != nil {
		return LessonDetailView{}, err
	}
	l := rec.Lesson
	materials := l.Materials
	if len(materials) == 0 {
		materials = datatypes.JSON("[]")
	}
	return LessonDetailView{
		ID:           l.ID,
		Course:       course,
		Theme:        l.Theme,
		LessonNumber: l.LessonNumber,
		Description:  l.Description,
		VideoURL:     l.VideoURL,
		Homework:     l.Homework,
		Materials:    materials,
	}, nil
}

type TimetableRecord struct {
	Timetable *types.Timetable
	Lesson    *LessonRecord
	Group     *GroupRecord
}

type TimetableView struct {
	Date       string     `json:"date"`
	Lesson     LessonView `json:"lesson"`
	Group      GroupView  `json:"group"`
	IsFinished bool       `json:"is_finished"`
}

func NewTimetableView(rec TimetableRecord, urls URLResolver) (TimetableView, error) {
	if rec.Timetable == nil {
		return TimetableView{}, missing("timetable", 0, "row")
	}
	if rec.Lesson == nil {
		return TimetableView{}, missing("timetable", rec.Timetable.ID, "lesson")
	}
	if rec.Group == nil {
		return TimetableView{}, missing("timetable", rec.Timetable.ID, "group")
	}
	lesson, err := NewLessonView(*rec.Lesson, urls)
	if err != nil {
		return TimetableView{}, err
	}
	group, err := NewGroupView(*rec.Group, urls)
	if err != nil {
		return TimetableView{}, err
	}
	return TimetableView{
		Date:       FormatDate(rec.Timetable.Date),
		Lesson:     lesson,
		Group:      group,
		IsFinished: rec.Timetable.IsFinished,
	}, nil
}

func NewTimetableViews(recs []TimetableRecord, urls URLResolver) ([]TimetableView, error) {
	out := make([]TimetableView, 0, len(recs))
	for _, rec := range recs {
		v, err := NewTimetableView(rec, urls)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type CertificateRecord struct {
	Certificate *types.Certificate
	Profile     *ProfileRecord
	Relations   Relations
	Course      *CourseRecord
}

type CertificateView struct {
	Profile ProfileBaseView `json:"profile"`
	Course  CourseView      `json:"course"`
	Image   *string         `json:"image"`
	Date    string          `json:"date"`
}

func NewCertificateView(rec CertificateRecord, urls URLResolver) (CertificateView, error) {
	if rec.Certificate == nil {
		return CertificateView{}, missing("certificate", 0, "row")
	}
	if rec.Profile == nil {
		return CertificateView{}, missing("certificate", rec.Certificate.ID, "profile")
	}
	if rec.Course == nil {
		return CertificateView{}, missing("certificate", rec.Certificate.ID, "course")
	}
	profile, err := NewProfileBaseView(*rec.Profile, rec.Relations)
	if err != nil {
		return CertificateView{}, err
	}
	course, err := NewCourseView(*rec.Course, urls)
	if err != nil {
		return CertificateView{}, err
	}
	return CertificateView{
		Profile: profile,
		Course:  course,
		Image:   resolveURL(urls, rec.Certificate.ImageKey),
		Date:    FormatDate(rec.Certificate.Date),
	}, nil
}

func NewCertificateViews(recs []CertificateRecord, urls URLResolver) ([]CertificateView, error) {
	out := make([]CertificateView, 0, len(recs))
	for _, rec := range recs {
		v, err := NewCertificateView(rec, urls)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type AcademicPerformanceView struct {
	Student          uint   `json:"student"`
	Lesson           uint   `json:"lesson"`
	Teacher          uint   `json:"teacher"`
	Date             string `json:"date"`
	HomeworkGrade    *int   `json:"homework_grade"`
	ClassworkGrade   *int   `json:"classwork_grade"`
	TestGrade        *int   `json:"test_grade"`
	ExaminationGrade *int   `json:"examination_grade"`
	Late             bool   `json:"late"`
	Absent           bool   `json:"absent"`
}

func NewAcademicPerformanceView(p *types.AcademicPerformance) AcademicPerformanceView {
	return AcademicPerformanceView{
		Student:          p.StudentID,
		Lesson:           p.LessonID,
		Teacher:          p.TeacherID,
		Date:             FormatDate(p.Date),
		HomeworkGrade:    p.HomeworkGrade,
		ClassworkGrade:   p.ClassworkGrade,
		TestGrade:        p.TestGrade,
		ExaminationGrade: p.ExaminationGrade,
		Late:             p.Late,
		Absent:           p.Absent,
	}
}

func NewAcademicPerformanceViews(rows []*types.AcademicPerformance) []AcademicPerformanceView {
	out := make([]AcademicPerformanceView, 0, len(rows))
	for _, p := range rows {
		out = append(out, NewAcademicPerformanceView(p))
	}
	return out
}
