package services

import (
	"strings"
	"testing"
	"time"

	"github.com/yungbote/scool-backend/internal/data/repos"
	"github.com/yungbote/scool-backend/internal/data/repos/testutil"
	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
	"github.com/yungbote/scool-backend/internal/platform/ctxutil"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/views"
)

func newAuth(env *testEnv) AuthService {
	return NewAuthService(env.db, env.log, env.repos, env.bucket, "test-secret", time.Hour, 24*time.Hour)
}

func TestAuthSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuth(env)

	in := views.RegistrationInput{
		Username:  "alice",
		LastName:  "Smith",
		FirstName: "Alice",
		Password:  "s3cret-pass",
		Email:     "alice@example.com",
		Profile:   views.ProfileCreateInput{Gender: "female", DateOfBirthday: "2009-05-01"},
	}
	reg, err := auth.Register(env.dbc, in)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Username != "alice" || reg.Profile.DateOfBirthday != "2009-05-01" {
		t.Fatalf("Register view: got=%+v", reg)
	}
	stored, err := env.repos.User.GetByUsername(env.dbc, "alice")
	if err != nil || stored == nil {
		t.Fatalf("GetByUsername: user=%v err=%v", stored, err)
	}
	if stored.Password == in.Password {
		t.Fatalf("password stored in plaintext")
	}
	profiles, _ := env.repos.Profile.GetByUserIDs(env.dbc, []uint{stored.ID})
	if len(profiles) != 1 || profiles[0].Role != types.RoleStudent {
		t.Fatalf("profile: want one student got=%+v", profiles)
	}
	students, _ := env.repos.Student.GetByProfileIDs(env.dbc, []uint{profiles[0].ID})
	if len(students) != 1 {
		t.Fatalf("student row: want=1 got=%d", len(students))
	}

	_, err = auth.Register(env.dbc, in)
	wantCode(t, "Register duplicate", err, apierr.CodeValidation)

	_, err = auth.Login(env.dbc, views.LoginInput{Username: "alice", Password: "wrong"})
	wantCode(t, "Login wrong password", err, apierr.CodeUnauthorized)

	tokens, err := auth.Login(env.dbc, views.LoginInput{Username: "alice", Password: in.Password})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tokens.ExpiresIn != int64(time.Hour.Seconds()) {
		t.Fatalf("ExpiresIn: want=%d got=%d", int64(time.Hour.Seconds()), tokens.ExpiresIn)
	}
	ctx, err := auth.SetContextFromToken(env.ctx, tokens.AccessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID != stored.ID || rd.ProfileID != profiles[0].ID || rd.Role != string(types.RoleStudent) {
		t.Fatalf("request data: got=%+v", rd)
	}

	next, err := auth.Refresh(env.dbc, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	_, err = auth.SetContextFromToken(env.ctx, tokens.AccessToken)
	wantCode(t, "old access token after refresh", err, apierr.CodeUnauthorized)
	_, err = auth.Refresh(env.dbc, tokens.RefreshToken)
	wantCode(t, "reused refresh token", err, apierr.CodeUnauthorized)

	ctx, err = auth.SetContextFromToken(env.ctx, next.AccessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken(next): %v", err)
	}
	if err := auth.Logout(dbctx.Context{Ctx: ctx}); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	_, err = auth.SetContextFromToken(env.ctx, next.AccessToken)
	wantCode(t, "access token after logout", err, apierr.CodeUnauthorized)

	_, err = auth.SetContextFromToken(env.ctx, "not-a-jwt")
	wantCode(t, "garbage token", err, apierr.CodeUnauthorized)
}

func TestRegisterLongMultibytePassword(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuth(env)

	// 50 characters, 100 bytes in UTF-8: past bcrypt's 72 byte limit.
	password := strings.Repeat("ж", 50)
	_, err := auth.Register(env.dbc, views.RegistrationInput{
		Username:  "zhenya",
		LastName:  "Ivanova",
		FirstName: "Zhenya",
		Password:  password,
		Email:     "zhenya@example.com",
		Profile:   views.ProfileCreateInput{Gender: "female"},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := auth.Login(env.dbc, views.LoginInput{Username: "zhenya", Password: password}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	// Only the full password matches, not its first 72 bytes.
	_, err = auth.Login(env.dbc, views.LoginInput{Username: "zhenya", Password: strings.Repeat("ж", 36)})
	wantCode(t, "Login truncated password", err, apierr.CodeUnauthorized)
	_, err = auth.Login(env.dbc, views.LoginInput{Username: "zhenya", Password: strings.Repeat("ж", 49) + "ф"})
	wantCode(t, "Login different tail", err, apierr.CodeUnauthorized)
}

func TestPasswordKey(t *testing.T) {
	short := "secret-pw"
	if got := string(passwordKey(short)); got != short {
		t.Fatalf("passwordKey(short): want=%q got=%q", short, got)
	}
	long := strings.Repeat("ж", 50)
	got := passwordKey(long)
	if len(got) > bcryptMaxBytes || string(got) == long {
		t.Fatalf("passwordKey(long): want digest within %d bytes got=%d", bcryptMaxBytes, len(got))
	}
	if string(passwordKey(long)) != string(got) {
		t.Fatalf("passwordKey: want stable output")
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuth(env)
	_, err := auth.Register(env.dbc, views.RegistrationInput{
		Username:  "bob",
		LastName:  "B",
		FirstName: "Bob",
		Password:  "pw",
		Email:     "not-an-email",
	})
	wantCode(t, "bad email", err, apierr.CodeValidation)
	exists, _ := env.repos.User.UsernameExists(env.dbc, "bob")
	if exists {
		t.Fatalf("user created despite validation failure")
	}
}

func TestDeleteUserCascades(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuth(env)
	ctx := env.ctx

	studentUser, student := testutil.SeedProfile(t, ctx, env.db, types.RoleStudent, "stud")
	_, friend := testutil.SeedProfile(t, ctx, env.db, types.RoleStudent, "friend")
	teacherUser, teacher := testutil.SeedProfile(t, ctx, env.db, types.RoleTeacher, "teach")
	managerUser, manager := testutil.SeedProfile(t, ctx, env.db, types.RoleEducationalManager, "mgr")

	photo := testutil.SeedPhoto(t, ctx, env.db, student.ID, "photo/stud/1.png")
	if err := env.bucket.UploadFile(env.dbc, photo.ImageKey, bytesReader("img")); err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if err := env.repos.Profile.UpdateFields(env.dbc, student.ID, map[string]interface{}{"avatar_id": photo.ID}); err != nil {
		t.Fatalf("set avatar: %v", err)
	}
	if err := env.repos.Friend.AddPair(env.dbc, student.ID, friend.ID); err != nil {
		t.Fatalf("AddPair: %v", err)
	}
	dialog := testutil.SeedDialog(t, ctx, env.db, false, "", student.ID, friend.ID)
	if _, err := env.repos.Message.Create(env.dbc, []*types.Message{{DialogID: dialog.ID, FromUserID: student.ID, Text: "hi", DateAndTime: time.Now()}}); err != nil {
		t.Fatalf("Message.Create: %v", err)
	}

	cat := testutil.SeedCategory(t, ctx, env.db, "Math")
	course := testutil.SeedCourse(t, ctx, env.db, cat.ID, teacher.ID, "Algebra")
	group := testutil.SeedGroup(t, ctx, env.db, "7A", teacher.ID, manager.ID)
	if err := env.repos.GroupMember.Add(env.dbc, group.ID, student.ID); err != nil {
		t.Fatalf("GroupMember.Add: %v", err)
	}

	err := auth.DeleteUser(env.dbc, teacherUser.ID)
	wantCode(t, "delete referenced teacher", err, apierr.CodePreconditionFailed)

	if err := auth.DeleteUser(env.dbc, studentUser.ID); err != nil {
		t.Fatalf("DeleteUser(student): %v", err)
	}
	if _, ok := env.bucket.Get(photo.ImageKey); ok {
		t.Fatalf("photo object still stored")
	}
	friends, _ := env.repos.Friend.ListFriendIDs(env.dbc, friend.ID)
	if len(friends) != 0 {
		t.Fatalf("friend rows: want=0 got=%v", friends)
	}
	msgs, _ := env.repos.Message.ListByDialog(env.dbc, dialog.ID, repos.MessagePage{Limit: 10})
	if len(msgs) != 0 {
		t.Fatalf("messages: want=0 got=%d", len(msgs))
	}
	members, _ := env.repos.GroupMember.ListProfileIDsByGroup(env.dbc, group.ID)
	if len(members) != 0 {
		t.Fatalf("memberships: want=0 got=%v", members)
	}

	if err := auth.DeleteUser(env.dbc, managerUser.ID); err != nil {
		t.Fatalf("DeleteUser(manager): %v", err)
	}
	groups, _ := env.repos.Group.GetByIDs(env.dbc, []uint{group.ID})
	if len(groups) != 0 {
		t.Fatalf("managed group survived: %+v", groups)
	}

	err = auth.DeleteUser(env.dbc, teacherUser.ID)
	wantCode(t, "teacher still owns a course", err, apierr.CodePreconditionFailed)
	if n, _ := env.repos.Course.CountByTeacher(env.dbc, teacher.ID); n != 1 {
		t.Fatalf("course %d: want kept got count=%d", course.ID, n)
	}

	err = auth.DeleteUser(env.dbc, 9999)
	wantCode(t, "missing user", err, apierr.CodeNotFound)
}
