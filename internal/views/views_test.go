package views

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/datatypes"

	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
)

type fakeURLs struct{}

func (fakeURLs) GetPublicURL(key string) string {
	if key == "" {
		return ""
	}
	return "https://cdn.test/" + key
}

func profileRec(id uint, role types.Role, username string) ProfileRecord {
	return ProfileRecord{
		Profile: &types.Profile{ID: id, UserID: id + 100, Role: role, Gender: types.GenderFemale},
		User:    &types.User{ID: id + 100, Username: username, FirstName: "F" + username, LastName: "L" + username, Email: username + "@x.io"},
	}
}

func ptr[T any](v T) *T { return &v }

func TestProfileViewAvatar(t *testing.T) {
	rec := profileRec(1, types.RoleStudent, "ann")
	v, err := NewProfileView(rec, fakeURLs{})
	if err != nil {
		t.Fatalf("NewProfileView: %v", err)
	}
	if v.Avatar != nil {
		t.Fatalf("Avatar: want nil got=%+v", v.Avatar)
	}
	if v.UserGroup != "Студент" {
		t.Fatalf("UserGroup: want=Студент got=%q", v.UserGroup)
	}

	rec.Profile.AvatarID = ptr(uint(9))
	if _, err := NewProfileView(rec, fakeURLs{}); !errors.Is(err, ErrMissingRelation) {
		t.Fatalf("unloaded avatar: want ErrMissingRelation got=%v", err)
	}
	rec.Avatar = &types.Photo{ID: 9, ProfileID: 1, ImageKey: "photo/1/a.png"}
	v, err = NewProfileView(rec, fakeURLs{})
	if err != nil {
		t.Fatalf("NewProfileView with avatar: %v", err)
	}
	if v.Avatar == nil || v.Avatar.Image == nil || *v.Avatar.Image != "https://cdn.test/photo/1/a.png" {
		t.Fatalf("Avatar.Image: got=%+v", v.Avatar)
	}

	uv, err := NewUserView(rec, fakeURLs{})
	if err != nil {
		t.Fatalf("NewUserView: %v", err)
	}
	if uv.ProfileID != 1 || uv.Avatar == nil || *uv.Avatar != "https://cdn.test/photo/1/a.png" {
		t.Fatalf("UserView: got=%+v", uv)
	}
}

func TestProfileBaseViewJSON(t *testing.T) {
	rec := profileRec(3, types.RoleTeacher, "tom")
	dob := datatypes.Date(time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC))
	rec.Profile.DateOfBirthday = &dob
	rec.Profile.AvatarID = ptr(uint(5))

	v, err := NewProfileBaseView(rec, Relations{Friends: []uint{7}})
	if err != nil {
		t.Fatalf("NewProfileBaseView: %v", err)
	}
	raw, _ := json.Marshal(v)
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["date_of_birthday"] != "1990-04-02" {
		t.Fatalf("date_of_birthday: want=1990-04-02 got=%v", m["date_of_birthday"])
	}
	if m["avatar"] != float64(5) {
		t.Fatalf("avatar: want=5 got=%v", m["avatar"])
	}
	if m["user"] != float64(103) || m["username"] != "tom" {
		t.Fatalf("user fields: got user=%v username=%v", m["user"], m["username"])
	}
	if got, ok := m["followers"].([]any); !ok || len(got) != 0 {
		t.Fatalf("followers: want [] got=%v", m["followers"])
	}
}

func groupRec() GroupRecord {
	teacher := profileRec(2, types.RoleTeacher, "teach")
	manager := profileRec(4, types.RoleEducationalManager, "boss")
	return GroupRecord{
		Group:   &types.Group{ID: 11, Name: "G1", TeacherID: 2, ManagerID: 4},
		Teacher: &teacher,
		Manager: &manager,
	}
}

func TestGroupViewRequiresRelations(t *testing.T) {
	rec := groupRec()
	v, err := NewGroupView(rec, fakeURLs{})
	if err != nil {
		t.Fatalf("NewGroupView: %v", err)
	}
	if v.Teacher.ID != 2 || v.Manager.ID != 4 || v.Manager.UserGroup != "Менеджер учебного процесса" {
		t.Fatalf("GroupView: got=%+v", v)
	}

	rec.Manager = nil
	if _, err := NewGroupView(rec, fakeURLs{}); !errors.Is(err, ErrMissingRelation) {
		t.Fatalf("missing manager: want ErrMissingRelation got=%v", err)
	}
}

func courseRec() CourseRecord {
	teacher := profileRec(2, types.RoleTeacher, "teach")
	return CourseRecord{
		Course:   &types.Course{ID: 5, Name: "Go", CategoryID: 1, TeacherID: 2},
		Category: &types.Category{ID: 1, Name: "Programming"},
		Teacher:  &teacher,
	}
}

func TestLessonAndTimetableViews(t *testing.T) {
	course := courseRec()
	lesson := LessonRecord{Lesson: &types.Lesson{ID: 8, CourseID: 5, LessonNumber: 2, Theme: "Slices"}, Course: &course}

	d, err := NewLessonDetailView(lesson, fakeURLs{})
	if err != nil {
		t.Fatalf("NewLessonDetailView: %v", err)
	}
	if string(d.Materials) != "[]" {
		t.Fatalf("Materials: want=[] got=%s", d.Materials)
	}
	if d.Course.Category.Name != "Programming" {
		t.Fatalf("Course.Category: got=%+v", d.Course.Category)
	}

	if _, err := NewLessonView(LessonRecord{Lesson: lesson.Lesson}, fakeURLs{}); !errors.Is(err, ErrMissingRelation) {
		t.Fatalf("lesson without course: want ErrMissingRelation got=%v", err)
	}

	group := groupRec()
	tt := TimetableRecord{
		Timetable: &types.Timetable{ID: 1, Date: datatypes.Date(time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)), LessonID: 8, GroupID: 11},
		Lesson:    &lesson,
		Group:     &group,
	}
	tv, err := NewTimetableView(tt, fakeURLs{})
	if err != nil {
		t.Fatalf("NewTimetableView: %v", err)
	}
	if tv.Date != "2024-09-01" || tv.Lesson.LessonNumber != 2 || tv.Group.Name != "G1" {
		t.Fatalf("TimetableView: got=%+v", tv)
	}
}

func TestCertificateView(t *testing.T) {
	course := courseRec()
	student := profileRec(1, types.RoleStudent, "ann")
	rec := CertificateRecord{
		Certificate: &types.Certificate{ID: 1, ProfileID: 1, CourseID: 5, ImageKey: "certificate/1/5.png", Date: datatypes.Date(time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC))},
		Profile:     &student,
		Course:      &course,
	}
	v, err := NewCertificateView(rec, fakeURLs{})
	if err != nil {
		t.Fatalf("NewCertificateView: %v", err)
	}
	if v.Image == nil || *v.Image != "https://cdn.test/certificate/1/5.png" || v.Date != "2024-05-30" {
		t.Fatalf("CertificateView: got=%+v", v)
	}
	rec.Course = nil
	if _, err := NewCertificateView(rec, fakeURLs{}); !errors.Is(err, ErrMissingRelation) {
		t.Fatalf("missing course: want ErrMissingRelation got=%v", err)
	}
}

func TestDetailViewByRole(t *testing.T) {
	base := profileRec(1, types.RoleStudent, "ann")
	rec := DetailRecord{
		ProfileRecord: base,
		Student:       &types.Student{ProfileID: 1, Hobbies: "chess", Dream: "pilot"},
		Groups:        []GroupRecord{groupRec()},
		Photos:        []PhotoRecord{{Photo: &types.Photo{ID: 3, ProfileID: 1, ImageKey: "photo/1/x.png"}}},
		Friends:       []ProfileRecord{profileRec(6, types.RoleStudent, "bob")},
	}
	got, err := NewDetailView(rec, fakeURLs{})
	if err != nil {
		t.Fatalf("NewDetailView: %v", err)
	}
	sv, ok := got.(StudentDetailView)
	if !ok {
		t.Fatalf("NewDetailView: want StudentDetailView got=%T", got)
	}
	if sv.Hobbies != "chess" || len(sv.GroupList) != 1 || len(sv.Photos) != 1 || len(sv.Friends) != 1 {
		t.Fatalf("StudentDetailView: got=%+v", sv)
	}
	if sv.FriendRequestIn == nil || len(sv.FriendRequestIn) != 0 {
		t.Fatalf("FriendRequestIn: want empty slice got=%v", sv.FriendRequestIn)
	}

	rec.Student = nil
	if _, err := NewDetailView(rec, fakeURLs{}); !errors.Is(err, ErrMissingRelation) {
		t.Fatalf("missing student row: want ErrMissingRelation got=%v", err)
	}

	mgr := DetailRecord{
		ProfileRecord: profileRec(4, types.RoleEducationalManager, "boss"),
		Manager:       &types.EducationalManager{ProfileID: 4},
	}
	got, err = NewDetailView(mgr, fakeURLs{})
	if err != nil {
		t.Fatalf("NewDetailView manager: %v", err)
	}
	if _, ok := got.(EducationalManagerDetailView); !ok {
		t.Fatalf("manager detail: want EducationalManagerDetailView got=%T", got)
	}
}

func TestMessageViewAttachment(t *testing.T) {
	from := profileRec(1, types.RoleStudent, "ann")
	other := profileRec(2, types.RoleStudent, "bob")
	dialog := DialogRecord{Dialog: &types.Dialog{ID: 3}, Participants: []ProfileRecord{from, other}}
	att := AttachmentRecord{Attachment: &types.DialogAttachment{ID: 4, DialogID: 3, FileKey: "dialog/3/f.pdf"}, Dialog: &dialog}
	msg := &types.Message{ID: 10, DialogID: 3, FromUserID: 1, AttachmentID: ptr(uint(4)), Text: "hi", DateAndTime: time.Now()}

	if _, err := NewMessageView(MessageRecord{Message: msg, From: &from}, fakeURLs{}); !errors.Is(err, ErrMissingRelation) {
		t.Fatalf("unloaded attachment: want ErrMissingRelation got=%v", err)
	}
	v, err := NewMessageView(MessageRecord{Message: msg, From: &from, Attachment: &att}, fakeURLs{})
	if err != nil {
		t.Fatalf("NewMessageView: %v", err)
	}
	if v.Attachment == nil || v.Attachment.File == nil || *v.Attachment.File != "https://cdn.test/dialog/3/f.pdf" {
		t.Fatalf("Attachment: got=%+v", v.Attachment)
	}
	if len(v.Attachment.Dialog.Participants) != 2 {
		t.Fatalf("Attachment.Dialog.Participants: want=2 got=%d", len(v.Attachment.Dialog.Participants))
	}

	if got := DialogTitle(dialog, 1); got != "Fbob Lbob" {
		t.Fatalf("DialogTitle direct: want=%q got=%q", "Fbob Lbob", got)
	}
	group := DialogRecord{Dialog: &types.Dialog{ID: 5, IsGroup: true, Name: "Class"}}
	if got := DialogTitle(group, 1); got != "Class" {
		t.Fatalf("DialogTitle group: want=Class got=%q", got)
	}
}

func TestRegistrationViewOmitsPassword(t *testing.T) {
	u := &types.User{Username: "ann", FirstName: "A", LastName: "B", Email: "a@b.io", Password: "hash"}
	p := &types.Profile{Gender: types.GenderFemale, Phone: "123"}
	raw, _ := json.Marshal(NewRegistrationView(u, p))
	if strings.Contains(string(raw), "password") || strings.Contains(string(raw), "hash") {
		t.Fatalf("RegistrationView leaked password: %s", raw)
	}
	if !strings.Contains(string(raw), `"gender":"female"`) {
		t.Fatalf("RegistrationView profile: %s", raw)
	}
}

func TestValidate(t *testing.T) {
	ok := RegistrationInput{Username: "ann", LastName: "B", FirstName: "A", Password: "pw", Email: "a@b.io"}
	if err := Validate(ok); err != nil {
		t.Fatalf("Validate valid: %v", err)
	}

	bad := ok
	bad.Username = strings.Repeat("x", 51)
	bad.Email = "nope"
	bad.Profile.Gender = "other"
	err := Validate(bad)
	if !apierr.IsCode(err, apierr.CodeValidation) {
		t.Fatalf("Validate invalid: want validation code got=%v", err)
	}
	for _, want := range []string{"username", "email", "profile.gender"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("Validate message: want mention of %q got=%q", want, err.Error())
		}
	}

	grade := 6
	perf := AcademicPerformanceInput{StudentID: 1, LessonID: 2, Date: "2024-01-01", TestGrade: &grade}
	if err := Validate(perf); err == nil || !strings.Contains(err.Error(), "test_grade") {
		t.Fatalf("grade 6: want test_grade error got=%v", err)
	}
	grade = 5
	if err := Validate(perf); err != nil {
		t.Fatalf("grade 5: %v", err)
	}

	if err := Validate(MessageInput{}); err == nil {
		t.Fatalf("empty message: want error")
	}
	att := uint(3)
	if err := Validate(MessageInput{Attachment: &att}); err != nil {
		t.Fatalf("attachment-only message: %v", err)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if FormatDate(d) != "2024-02-29" || time.Time(d).Location() != time.UTC {
		t.Fatalf("ParseDate: got=%v", time.Time(d))
	}
	if _, err := ParseDate("29.02.2024"); err == nil {
		t.Fatalf("ParseDate bad layout: want error")
	}
}
