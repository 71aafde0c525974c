package views

import (
	"encoding/json"

	types "github.com/yungbote/scool-backend/internal/domain"
)

type ProfileCreateInput struct {
	MiddleName     string `json:"middle_name" validate:"max=50"`
	Gender         string `json:"gender" validate:"omitempty,oneof=male female"`
	Phone          string `json:"phone" validate:"max=32"`
	DateOfBirthday string `json:"date_of_birthday" validate:"omitempty,datetime=2006-01-02"`
}

type RegistrationInput struct {
	Username  string             `json:"username" validate:"required,max=50"`
	LastName  string             `json:"last_name" validate:"required,max=50"`
	FirstName string             `json:"first_name" validate:"required,max=50"`
	Password  string             `json:"password" validate:"required,max=50"`
	Email     string             `json:"email" validate:"required,email"`
	Profile   ProfileCreateInput `json:"profile"`
}

type RegistrationView struct {
	Username  string             `json:"username"`
	LastName  string             `json:"last_name"`
	FirstName string             `json:"first_name"`
	Email     string             `json:"email"`
	Profile   ProfileCreateInput `json:"profile"`
}

func NewRegistrationView(u *types.User, p *types.Profile) RegistrationView {
	v := RegistrationView{
		Username:  u.Username,
		LastName:  u.LastName,
		FirstName: u.FirstName,
		Email:     u.Email,
		Profile: ProfileCreateInput{
			MiddleName: p.MiddleName,
			Gender:     string(p.Gender),
			Phone:      p.Phone,
		},
	}
	if p.DateOfBirthday != nil {
		v.Profile.DateOfBirthday = FormatDate(*p.DateOfBirthday)
	}
	return v
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// StaffInput creates a teacher or educational manager account.
type StaffInput struct {
	RegistrationInput
	Role                 string `json:"role" validate:"required,oneof=teacher educational_manager"`
	Education            string `json:"education"`
	ProfessionalActivity string `json:"professional_activity"`
	ManagementScope      string `json:"management_scope"`
}

// ProfileUpdateInput is a partial update; nil fields are left unchanged.
// Role fields apply only to the matching role.
type ProfileUpdateInput struct {
	FirstName            *string `json:"first_name" validate:"omitempty,max=50"`
	LastName             *string `json:"last_name" validate:"omitempty,max=50"`
	Email                *string `json:"email" validate:"omitempty,email"`
	MiddleName           *string `json:"middle_name" validate:"omitempty,max=50"`
	Gender               *string `json:"gender" validate:"omitempty,oneof=male female"`
	Phone                *string `json:"phone" validate:"omitempty,max=32"`
	DateOfBirthday       *string `json:"date_of_birthday" validate:"omitempty,datetime=2006-01-02"`
	Hobbies              *string `json:"hobbies"`
	Dream                *string `json:"dream"`
	Education            *string `json:"education"`
	ProfessionalActivity *string `json:"professional_activity"`
	ManagementScope      *string `json:"management_scope"`
}

type AvatarInput struct {
	PhotoID *uint `json:"photo_id"`
}

type FriendRequestInput struct {
	To uint `json:"to" validate:"required"`
}

type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type CourseInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
	CategoryID  uint   `json:"category" validate:"required"`
	TeacherID   uint   `json:"teacher" validate:"required"`
}

type LessonInput struct {
	CourseID     uint            `json:"course" validate:"required"`
	Theme        string          `json:"theme" validate:"required,max=200"`
	LessonNumber int             `json:"lesson_number" validate:"required,min=1"`
	Description  string          `json:"description"`
	VideoURL     string          `json:"video_url" validate:"omitempty,url"`
	Homework     string          `json:"homework"`
	Materials    json.RawMessage `json:"materials"`
}

type GroupInput struct {
	Name      string `json:"name" validate:"required,max=100"`
	TeacherID uint   `json:"teacher" validate:"required"`
	ManagerID uint   `json:"manager" validate:"required"`
}

type TimetableCreateInput struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	LessonID uint   `json:"lesson" validate:"required"`
	GroupID  uint   `json:"group" validate:"required"`
}

type CertificateInput struct {
	ProfileID uint `json:"profile" validate:"required"`
	CourseID  uint `json:"course" validate:"required"`
}

type AcademicPerformanceInput struct {
	StudentID        uint   `json:"student" validate:"required"`
	LessonID         uint   `json:"lesson" validate:"required"`
	TeacherID        uint   `json:"teacher"`
	Date             string `json:"date" validate:"required,datetime=2006-01-02"`
	HomeworkGrade    *int   `json:"homework_grade" validate:"omitempty,min=1,max=5"`
	ClassworkGrade   *int   `json:"classwork_grade" validate:"omitempty,min=1,max=5"`
	TestGrade        *int   `json:"test_grade" validate:"omitempty,min=1,max=5"`
	ExaminationGrade *int   `json:"examination_grade" validate:"omitempty,min=1,max=5"`
	Late             bool   `json:"late"`
	Absent           bool   `json:"absent"`
}

type CreateDialogInput struct {
	Participants []uint `json:"participants" validate:"required,min=1,dive,required"`
	Name         string `json:"name" validate:"max=100"`
}

// MessageInput carries ids. Dialog and FromUser are filled from the route and caller.
type MessageInput struct {
	Dialog     uint   `json:"dialog"`
	FromUser   uint   `json:"from_user"`
	Attachment *uint  `json:"attachment"`
	Text       string `json:"text" validate:"required_without=Attachment,max=4000"`
}
