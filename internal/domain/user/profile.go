package user

import (
	"time"

	"gorm.io/datatypes"
)

type Role string

const (
	RoleStudent            Role = "student"
	RoleTeacher            Role = "teacher"
	RoleEducationalManager Role = "educational_manager"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleEducationalManager:
		return true
	default:
		return false
	}
}

// GroupLabel is the user_group name shown for the role.
func (r Role) GroupLabel() string {
	switch r {
	case RoleStudent:
		return "Студент"
	case RoleTeacher:
		return "Преподаватель"
	case RoleEducationalManager:
		return "Менеджер учебного процесса"
	default:
		return ""
	}
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool { return g == GenderMale || g == GenderFemale }

// Profile extends a User. Exactly one of Student, Teacher or
// EducationalManager exists per profile, matching Role.
type Profile struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"uniqueIndex;not null;column:user_id" json:"user_id"`
	Role           Role            `gorm:"size:32;not null;index;column:role" json:"role"`
	Gender         Gender          `gorm:"size:16;column:gender" json:"gender"`
	DateOfBirthday *datatypes.Date `gorm:"column:date_of_birthday" json:"date_of_birthday"`
	MiddleName     string          `gorm:"size:50;column:middle_name" json:"middle_name"`
	Phone          string          `gorm:"size:32;column:phone" json:"phone"`
	AvatarID       *uint           `gorm:"index;column:avatar_id" json:"avatar_id"`
	CreatedAt      time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null" json:"updated_at"`
}

func (Profile) TableName() string { return "profile" }

type Student struct {
	ProfileID uint   `gorm:"primaryKey;autoIncrement:false;column:profile_id" json:"profile_id"`
	Hobbies   string `gorm:"type:text;column:hobbies" json:"hobbies"`
	Dream     string `gorm:"type:text;column:dream" json:"dream"`
}

func (Student) TableName() string { return "student" }

type Teacher struct {
	ProfileID            uint   `gorm:"primaryKey;autoIncrement:false;column:profile_id" json:"profile_id"`
	Education            string `gorm:"type:text;column:education" json:"education"`
	ProfessionalActivity string `gorm:"type:text;column:professional_activity" json:"professional_activity"`
}

func (Teacher) TableName() string { return "teacher" }

type EducationalManager struct {
	ProfileID       uint   `gorm:"primaryKey;autoIncrement:false;column:profile_id" json:"profile_id"`
	ManagementScope string `gorm:"type:text;column:management_scope" json:"management_scope"`
}

func (EducationalManager) TableName() string { return "educational_manager" }
