package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/scool-backend/internal/data/repos/academic"
	"github.com/yungbote/scool-backend/internal/data/repos/auth"
	"github.com/yungbote/scool-backend/internal/data/repos/media"
	"github.com/yungbote/scool-backend/internal/data/repos/messaging"
	"github.com/yungbote/scool-backend/internal/data/repos/social"
	"github.com/yungbote/scool-backend/internal/data/repos/user"
	"github.com/yungbote/scool-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo
type ProfileRepo = user.ProfileRepo
type ProfileFilter = user.ProfileFilter
type StudentRepo = user.StudentRepo
type TeacherRepo = user.TeacherRepo
type EducationalManagerRepo = user.EducationalManagerRepo

type FriendRepo = social.FriendRepo
type FriendRequestRepo = social.FriendRequestRepo
type FollowerRepo = social.FollowerRepo

type PhotoRepo = media.PhotoRepo
type PhotoLikeRepo = media.PhotoLikeRepo

type GroupRepo = academic.GroupRepo
type GroupFilter = academic.GroupFilter
type GroupMemberRepo = academic.GroupMemberRepo
type CategoryRepo = academic.CategoryRepo
type CourseRepo = academic.CourseRepo
type LessonRepo = academic.LessonRepo
type TimetableRepo = academic.TimetableRepo
type TimetableFilter = academic.TimetableFilter
type CertificateRepo = academic.CertificateRepo
type PerformanceRepo = academic.PerformanceRepo
type PerformanceFilter = academic.PerformanceFilter

type DialogRepo = messaging.DialogRepo
type ParticipantRepo = messaging.ParticipantRepo
type MessageRepo = messaging.MessageRepo
type MessagePage = messaging.MessagePage
type AttachmentRepo = messaging.AttachmentRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}
func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return user.NewProfileRepo(db, baseLog)
}
func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
	return user.NewStudentRepo(db, baseLog)
}
func NewTeacherRepo(db *gorm.DB, baseLog *logger.Logger) TeacherRepo {
	return user.NewTeacherRepo(db, baseLog)
}
func NewEducationalManagerRepo(db *gorm.DB, baseLog *logger.Logger) EducationalManagerRepo {
	return user.NewEducationalManagerRepo(db, baseLog)
}

func NewFriendRepo(db *gorm.DB, baseLog *logger.Logger) FriendRepo {
	return social.NewFriendRepo(db, baseLog)
}
func NewFriendRequestRepo(db *gorm.DB, baseLog *logger.Logger) FriendRequestRepo {
	return social.NewFriendRequestRepo(db, baseLog)
}
func NewFollowerRepo(db *gorm.DB, baseLog *logger.Logger) FollowerRepo {
	return social.NewFollowerRepo(db, baseLog)
}

func NewPhotoRepo(db *gorm.DB, baseLog *logger.Logger) PhotoRepo { return media.NewPhotoRepo(db, baseLog) }
func NewPhotoLikeRepo(db *gorm.DB, baseLog *logger.Logger) PhotoLikeRepo {
	return media.NewPhotoLikeRepo(db, baseLog)
}

func NewGroupRepo(db *gorm.DB, baseLog *logger.Logger) GroupRepo {
	return academic.NewGroupRepo(db, baseLog)
}
func NewGroupMemberRepo(db *gorm.DB, baseLog *logger.Logger) GroupMemberRepo {
	return academic.NewGroupMemberRepo(db, baseLog)
}
func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return academic.NewCategoryRepo(db, baseLog)
}
func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return academic.NewCourseRepo(db, baseLog)
}
func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return academic.NewLessonRepo(db, baseLog)
}
func NewTimetableRepo(db *gorm.DB, baseLog *logger.Logger) TimetableRepo {
	return academic.NewTimetableRepo(db, baseLog)
}
func NewCertificateRepo(db *gorm.DB, baseLog *logger.Logger) CertificateRepo {
	return academic.NewCertificateRepo(db, baseLog)
}
func NewPerformanceRepo(db *gorm.DB, baseLog *logger.Logger) PerformanceRepo {
	return academic.NewPerformanceRepo(db, baseLog)
}

func NewDialogRepo(db *gorm.DB, baseLog *logger.Logger) DialogRepo {
	return messaging.NewDialogRepo(db, baseLog)
}
func NewParticipantRepo(db *gorm.DB, baseLog *logger.Logger) ParticipantRepo {
	return messaging.NewParticipantRepo(db, baseLog)
}
func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
	return messaging.NewMessageRepo(db, baseLog)
}
func NewAttachmentRepo(db *gorm.DB, baseLog *logger.Logger) AttachmentRepo {
	return messaging.NewAttachmentRepo(db, baseLog)
}

// Set bundles every repository over one database handle.
type Set struct {
	User               UserRepo
	UserToken          UserTokenRepo
	Profile            ProfileRepo
	Student            StudentRepo
	Teacher            TeacherRepo
	EducationalManager EducationalManagerRepo

	Friend        FriendRepo
	FriendRequest FriendRequestRepo
	Follower      FollowerRepo

	Photo     PhotoRepo
	PhotoLike PhotoLikeRepo

	Group       GroupRepo
	GroupMember GroupMemberRepo
	Category    CategoryRepo
	Course      CourseRepo
	Lesson      LessonRepo
	Timetable   TimetableRepo
	Certificate CertificateRepo
	Performance PerformanceRepo

	Dialog      DialogRepo
	Participant ParticipantRepo
	Message     MessageRepo
	Attachment  AttachmentRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		User:               NewUserRepo(db, baseLog),
		UserToken:          NewUserTokenRepo(db, baseLog),
		Profile:            NewProfileRepo(db, baseLog),
		Student:            NewStudentRepo(db, baseLog),
		Teacher:            NewTeacherRepo(db, baseLog),
		EducationalManager: NewEducationalManagerRepo(db, baseLog),

		Friend:        NewFriendRepo(db, baseLog),
		FriendRequest: NewFriendRequestRepo(db, baseLog),
		Follower:      NewFollowerRepo(db, baseLog),

		Photo:     NewPhotoRepo(db, baseLog),
		PhotoLike: NewPhotoLikeRepo(db, baseLog),

		Group:       NewGroupRepo(db, baseLog),
		GroupMember: NewGroupMemberRepo(db, baseLog),
		Category:    NewCategoryRepo(db, baseLog),
		Course:      NewCourseRepo(db, baseLog),
		Lesson:      NewLessonRepo(db, baseLog),
		Timetable:   NewTimetableRepo(db, baseLog),
		Certificate: NewCertificateRepo(db, baseLog),
		Performance: NewPerformanceRepo(db, baseLog),

		Dialog:      NewDialogRepo(db, baseLog),
		Participant: NewParticipantRepo(db, baseLog),
		Message:     NewMessageRepo(db, baseLog),
		Attachment:  NewAttachmentRepo(db, baseLog),
	}
}
