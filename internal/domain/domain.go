package domain

import (
	"github.com/yungbote/scool-backend/internal/domain/academic"
	"github.com/yungbote/scool-backend/internal/domain/auth"
	"github.com/yungbote/scool-backend/internal/domain/media"
	"github.com/yungbote/scool-backend/internal/domain/messaging"
	"github.com/yungbote/scool-backend/internal/domain/user"
)

type (
	User               = user.User
	Profile            = user.Profile
	Student            = user.Student
	Teacher            = user.Teacher
	EducationalManager = user.EducationalManager
	ProfileFriend      = user.ProfileFriend
	FriendRequest      = user.FriendRequest
	ProfileFollower    = user.ProfileFollower
	Role               = user.Role
	Gender             = user.Gender

	UserToken = auth.UserToken

	Photo     = media.Photo
	PhotoLike = media.PhotoLike

	Group               = academic.Group
	GroupMember         = academic.GroupMember
	Category            = academic.Category
	Course              = academic.Course
	Lesson              = academic.Lesson
	Timetable           = academic.Timetable
	Certificate         = academic.Certificate
	AcademicPerformance = academic.AcademicPerformance

	Dialog            = messaging.Dialog
	DialogParticipant = messaging.DialogParticipant
	Message           = messaging.Message
	DialogAttachment  = messaging.DialogAttachment
)

const (
	RoleStudent            = user.RoleStudent
	RoleTeacher            = user.RoleTeacher
	RoleEducationalManager = user.RoleEducationalManager

	GenderMale   = user.GenderMale
	GenderFemale = user.GenderFemale
)

// Models lists every persisted entity in migration order.
func Models() []any {
	return []any{
		&User{},
		&UserToken{},
		&Profile{},
		&Student{},
		&Teacher{},
		&EducationalManager{},
		&ProfileFriend{},
		&FriendRequest{},
		&ProfileFollower{},
		&Photo{},
		&PhotoLike{},
		&Category{},
		&Course{},
		&Lesson{},
		&Group{},
		&GroupMember{},
		&Timetable{},
		&Certificate{},
		&AcademicPerformance{},
		&Dialog{},
		&DialogParticipant{},
		&Message{},
		&DialogAttachment{},
	}
}
