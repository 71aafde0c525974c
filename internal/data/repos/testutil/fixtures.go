package testutil

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/scool-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.User {
	tb.Helper()
	u := &types.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "pw",
		FirstName: "First " + username,
		LastName:  "Last " + username,
		IsActive:  true,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedProfile creates a user, its profile and the role row.
func SeedProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, role types.Role, username string) (*types.User, *types.Profile) {
	tb.Helper()
	u := SeedUser(tb, ctx, tx, username)
	dob := datatypes.Date(time.Date(2008, time.March, 14, 0, 0, 0, 0, time.UTC))
	p := &types.Profile{
		UserID:         u.ID,
		Role:           role,
		Gender:         types.GenderFemale,
		DateOfBirthday: &dob,
		MiddleName:     "M",
		Phone:          "+70000000000",
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	var roleRow any
	switch role {
	case types.RoleStudent:
		roleRow = &types.Student{ProfileID: p.ID, Hobbies: "chess", Dream: "astronaut"}
	case types.RoleTeacher:
		roleRow = &types.Teacher{ProfileID: p.ID, Education: "MSU", ProfessionalActivity: "math"}
	case types.RoleEducationalManager:
		roleRow = &types.EducationalManager{ProfileID: p.ID, ManagementScope: "school"}
	default:
		tb.Fatalf("seed profile: unknown role %q", role)
	}
	if err := tx.WithContext(ctx).Create(roleRow).Error; err != nil {
		tb.Fatalf("seed role row: %v", err)
	}
	return u, p
}

func SeedPhoto(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID uint, key string) *types.Photo {
	tb.Helper()
	ph := &types.Photo{ProfileID: ownerID, ImageKey: key, Date: time.Now().UTC()}
	if err := tx.WithContext(ctx).Create(ph).Error; err != nil {
		tb.Fatalf("seed photo: %v", err)
	}
	return ph
}

func SeedCategory(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Category {
	tb.Helper()
	c := &types.Category{Name: name, Description: name + " courses"}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return c
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, categoryID, teacherID uint, name string) *types.Course {
	tb.Helper()
	c := &types.Course{Name: name, Description: "about " + name, CategoryID: categoryID, TeacherID: teacherID}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uint, number int) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{
		CourseID:     courseID,
		LessonNumber: number,
		Theme:        "theme",
		Materials:    datatypes.JSON([]byte(`[]`)),
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedGroup(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, teacherID, managerID uint) *types.Group {
	tb.Helper()
	g := &types.Group{Name: name, TeacherID: teacherID, ManagerID: managerID}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed group: %v", err)
	}
	return g
}

func SeedDialog(tb testing.TB, ctx context.Context, tx *gorm.DB, isGroup bool, name string, participantIDs ...uint) *types.Dialog {
	tb.Helper()
	d := &types.Dialog{IsGroup: isGroup, Name: name}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed dialog: %v", err)
	}
	for _, pid := range participantIDs {
		if err := tx.WithContext(ctx).Create(&types.DialogParticipant{DialogID: d.ID, ProfileID: pid}).Error; err != nil {
			tb.Fatalf("seed dialog participant: %v", err)
		}
	}
	return d
}
