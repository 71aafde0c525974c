package academic

import (
	"time"

	"gorm.io/datatypes"
)

// Timetable schedules a lesson for a group on a date. The triple is unique.
type Timetable struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Date       datatypes.Date `gorm:"not null;uniqueIndex:idx_timetable_slot;column:date" json:"date"`
	LessonID   uint           `gorm:"not null;uniqueIndex:idx_timetable_slot;column:lesson_id" json:"lesson_id"`
	GroupID    uint           `gorm:"not null;uniqueIndex:idx_timetable_slot;index;column:group_id" json:"group_id"`
	IsFinished bool           `gorm:"not null;default:false;column:is_finished" json:"is_finished"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
}

func (Timetable) TableName() string { return "timetable" }

type Certificate struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProfileID uint           `gorm:"not null;uniqueIndex:idx_certificate_profile_course;column:profile_id" json:"profile_id"`
	CourseID  uint           `gorm:"not null;uniqueIndex:idx_certificate_profile_course;index;column:course_id" json:"course_id"`
	ImageKey  string         `gorm:"column:image_key" json:"image_key"`
	Date      datatypes.Date `gorm:"not null;column:date" json:"date"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
}

func (Certificate) TableName() string { return "certificate" }

const (
	MinGrade = 1
	MaxGrade = 5
)

// AcademicPerformance is one grading event of a student for a lesson.
type AcademicPerformance struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	StudentID        uint           `gorm:"not null;index;column:student_id" json:"student_id"`
	LessonID         uint           `gorm:"not null;index;column:lesson_id" json:"lesson_id"`
	TeacherID        uint           `gorm:"not null;index;column:teacher_id" json:"teacher_id"`
	Date             datatypes.Date `gorm:"not null;column:date" json:"date"`
	HomeworkGrade    *int           `gorm:"column:homework_grade" json:"homework_grade"`
	ClassworkGrade   *int           `gorm:"column:classwork_grade" json:"classwork_grade"`
	TestGrade        *int           `gorm:"column:test_grade" json:"test_grade"`
	ExaminationGrade *int           `gorm:"column:examination_grade" json:"examination_grade"`
	Late             bool           `gorm:"not null;default:false;column:late" json:"late"`
	Absent           bool           `gorm:"not null;default:false;column:absent" json:"absent"`
	CreatedAt        time.Time      `gorm:"not null" json:"created_at"`
}

func (AcademicPerformance) TableName() string { return "academic_performance" }
