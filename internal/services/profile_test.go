package services

import (
	"testing"

	"github.com/yungbote/scool-backend/internal/data/repos"
	"github.com/yungbote/scool-backend/internal/data/repos/testutil"
	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
	"github.com/yungbote/scool-backend/internal/views"
)

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	svc := NewProfileService(env.db, env.log, env.repos, env.loader, env.bucket)
	_, student := testutil.SeedProfile(t, env.ctx, env.db, types.RoleStudent, "stud")

	first, dream, dob := " Masha ", "pilot", "2009-01-31"
	v, err := svc.UpdateProfile(env.dbc, student.ID, views.ProfileUpdateInput{
		FirstName:      &first,
		Dream:          &dream,
		DateOfBirthday: &dob,
		// Teacher fields are ignored for a student.
		Education: ptr("ignored"),
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if v.FirstName != "Masha" || v.LastName != "Last stud" {
		t.Fatalf("names: got first=%q last=%q", v.FirstName, v.LastName)
	}
	if v.DateOfBirthday == nil || *v.DateOfBirthday != dob {
		t.Fatalf("date_of_birthday: want=%s got=%v", dob, v.DateOfBirthday)
	}
	detail, err := svc.GetDetail(env.dbc, student.ID)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	sd, ok := detail.(views.StudentDetailView)
	if !ok {
		t.Fatalf("GetDetail: want StudentDetailView got=%T", detail)
	}
	if sd.Dream != "pilot" || sd.Hobbies != "chess" {
		t.Fatalf("student fields: dream=%q hobbies=%q", sd.Dream, sd.Hobbies)
	}

	bad := "not-an-email"
	_, err = svc.UpdateProfile(env.dbc, student.ID, views.ProfileUpdateInput{Email: &bad})
	wantCode(t, "bad email", err, apierr.CodeValidation)
	_, err = svc.UpdateProfile(env.dbc, 999, views.ProfileUpdateInput{FirstName: &first})
	wantCode(t, "missing profile", err, apierr.CodeNotFound)
}

func TestDetailByRole(t *testing.T) {
	env := newTestEnv(t)
	svc := NewProfileService(env.db, env.log, env.repos, env.loader, env.bucket)
	_, teacher := testutil.SeedProfile(t, env.ctx, env.db, types.RoleTeacher, "teach")
	_, manager := testutil.SeedProfile(t, env.ctx, env.db, types.RoleEducationalManager, "mgr")
	testutil.SeedGroup(t, env.ctx, env.db, "7A", teacher.ID, manager.ID)

	detail, err := svc.GetDetail(env.dbc, teacher.ID)
	if err != nil {
		t.Fatalf("GetDetail(teacher): %v", err)
	}
	td, ok := detail.(views.TeacherDetailView)
	if !ok {
		t.Fatalf("GetDetail(teacher): want TeacherDetailView got=%T", detail)
	}
	if td.Education != "MSU" || len(td.GroupList) != 1 || td.GroupList[0].Name != "7A" {
		t.Fatalf("teacher detail: got=%+v", td)
	}
	if td.UserGroup != types.RoleTeacher.GroupLabel() {
		t.Fatalf("user_group: want=%q got=%q", types.RoleTeacher.GroupLabel(), td.UserGroup)
	}

	detail, err = svc.GetDetail(env.dbc, manager.ID)
	if err != nil {
		t.Fatalf("GetDetail(manager): %v", err)
	}
	if _, ok := detail.(views.EducationalManagerDetailView); !ok {
		t.Fatalf("GetDetail(manager): want EducationalManagerDetailView got=%T", detail)
	}

	teachers, err := svc.ListProfiles(env.dbc, repos.ProfileFilter{Role: types.RoleTeacher})
	if err != nil || len(teachers) != 1 || teachers[0].ID != teacher.ID {
		t.Fatalf("ListProfiles(teacher): got=%+v err=%v", teachers, err)
	}
	_, err = svc.ListProfiles(env.dbc, repos.ProfileFilter{Role: "janitor"})
	wantCode(t, "unknown role filter", err, apierr.CodeValidation)
}

func TestCreateStaff(t *testing.T) {
	env := newTestEnv(t)
	svc := NewProfileService(env.db, env.log, env.repos, env.loader, env.bucket)

	in := views.StaffInput{
		RegistrationInput: views.RegistrationInput{
			Username:  "newteacher",
			FirstName: "Ivan",
			LastName:  "Petrov",
			Password:  "s3cret-pass",
			Email:     "ivan@example.com",
		},
		Role:      string(types.RoleTeacher),
		Education: "SPbU",
	}
	out, err := svc.CreateStaff(env.dbc, in)
	if err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}
	if out.Username != "newteacher" {
		t.Fatalf("username: want=newteacher got=%q", out.Username)
	}
	profiles, err := svc.ListProfiles(env.dbc, repos.ProfileFilter{Role: types.RoleTeacher})
	if err != nil || len(profiles) != 1 {
		t.Fatalf("teacher profiles: n=%d err=%v", len(profiles), err)
	}
	detail, err := svc.GetDetail(env.dbc, profiles[0].ID)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if td, ok := detail.(views.TeacherDetailView); !ok || td.Education != "SPbU" {
		t.Fatalf("staff detail: got=%+v", detail)
	}

	_, err = svc.CreateStaff(env.dbc, in)
	wantCode(t, "duplicate username", err, apierr.CodeValidation)

	in.Username, in.Role = "student2", string(types.RoleStudent)
	_, err = svc.CreateStaff(env.dbc, in)
	wantCode(t, "student through staff endpoint", err, apierr.CodeValidation)
}
