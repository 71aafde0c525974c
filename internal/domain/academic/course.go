package academic

import (
	"time"

	"gorm.io/datatypes"
)

type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null;uniqueIndex;column:name" json:"name"`
	Description string `gorm:"type:text;column:description" json:"description"`
}

func (Category) TableName() string { return "category" }

type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:200;not null;column:name" json:"name"`
	Description string    `gorm:"type:text;column:description" json:"description"`
	CategoryID  uint      `gorm:"not null;index;column:category_id" json:"category_id"`
	TeacherID   uint      `gorm:"not null;index;column:teacher_id" json:"teacher_id"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Course) TableName() string { return "course" }

type Lesson struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CourseID     uint           `gorm:"not null;uniqueIndex:idx_lesson_course_number;column:course_id" json:"course_id"`
	LessonNumber int            `gorm:"not null;uniqueIndex:idx_lesson_course_number;column:lesson_number" json:"lesson_number"`
	Theme        string         `gorm:"size:200;not null;column:theme" json:"theme"`
	Description  string         `gorm:"type:text;column:description" json:"description"`
	VideoURL     string         `gorm:"column:video_url" json:"video_url"`
	Homework     string         `gorm:"type:text;column:homework" json:"homework"`
	Materials    datatypes.JSON `gorm:"column:materials" json:"materials"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
}

func (Lesson) TableName() string { return "lesson" }
