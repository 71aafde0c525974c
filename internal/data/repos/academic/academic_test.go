package academic

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/scool-backend/internal/data/repos/testutil"
	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
)

func day(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func ptr[T any](v T) *T { return &v }

func TestGroupRepoList(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	groups := NewGroupRepo(db, testutil.Logger(t))

	_, teacher := testutil.SeedProfile(t, ctx, db, types.RoleTeacher, "teacher")
	_, other := testutil.SeedProfile(t, ctx, db, types.RoleTeacher, "other")
	_, mgr := testutil.SeedProfile(t, ctx, db, types.RoleEducationalManager, "mgr")

	created, err := groups.Create(dbc, []*types.Group{
		{Name: "B-2", TeacherID: teacher.ID, ManagerID: mgr.ID},
		{Name: "A-1", TeacherID: teacher.ID, ManagerID: mgr.ID},
		{Name: "C-3", TeacherID: other.ID, ManagerID: mgr.ID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	mine, err := groups.List(dbc, GroupFilter{TeacherID: teacher.ID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(mine) != 2 || mine[0].Name != "A-1" || mine[1].Name != "B-2" {
		t.Fatalf("List by teacher: want [A-1 B-2] got=%+v", mine)
	}
	managed, _ := groups.List(dbc, GroupFilter{ManagerID: mgr.ID})
	if len(managed) != 3 {
		t.Fatalf("List by manager: want=3 got=%d", len(managed))
	}

	if err := groups.UpdateFields(dbc, created[2].ID, map[string]interface{}{"name": "D-4"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, _ := groups.GetByIDs(dbc, []uint{created[2].ID})
	if len(got) != 1 || got[0].Name != "D-4" {
		t.Fatalf("GetByIDs after update: got=%+v", got)
	}

	if err := groups.DeleteByIDs(dbc, []uint{created[0].ID}); err != nil {
		t.Fatalf("DeleteByIDs: %v", err)
	}
	if rest, _ := groups.List(dbc, GroupFilter{}); len(rest) != 2 {
		t.Fatalf("List after delete: want=2 got=%d", len(rest))
	}
}

func TestGroupMemberRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	members := NewGroupMemberRepo(db, testutil.Logger(t))

	_, teacher := testutil.SeedProfile(t, ctx, db, types.RoleTeacher, "teacher")
	_, mgr := testutil.SeedProfile(t, ctx, db, types.RoleEducationalManager, "mgr")
	_, s1 := testutil.SeedProfile(t, ctx, db, types.RoleStudent, "s1")
	_, s2 := testutil.SeedProfile(t, ctx, db, types.RoleStudent, "s2")
	g1 := testutil.SeedGroup(t, ctx, db, "g1", teacher.ID, mgr.ID)
	g2 := testutil.SeedGroup(t, ctx, db, "g2", teacher.ID, mgr.ID)

	for _, pair := range [][2]uint{{g1.ID, s1.ID}, {g1.ID, s2.ID}, {g2.ID, s1.ID}, {g1.ID, s1.ID}} {
		if err := members.Add(dbc, pair[0], pair[1]); err != nil {
			t.Fatalf("Add %v: %v", pair, err)
		}
	}

	roster, err := members.ListProfileIDsByGroup(dbc, g1.ID)
	if err != nil || len(roster) != 2 {
		t.Fatalf("ListProfileIDsByGroup: ids=%v err=%v", roster, err)
	}
	gids, _ := members.ListGroupIDsByProfile(dbc, s1.ID)
	if len(gids) != 2 || gids[0] != g1.ID || gids[1] != g2.ID {
		t.Fatalf("ListGroupIDsByProfile: want=[%d %d] got=%v", g1.ID, g2.ID, gids)
	}

	n, err := members.Remove(dbc, g1.ID, s2.ID)
	if err != nil || n != 1 {
		t.Fatalf("Remove: n=%d err=%v", n, err)
	}
	if n, _ := members.Remove(dbc, g1.ID, s2.ID); n != 0 {
		t.Fatalf("Remove twice: want=0 got=%d", n)
	}

	if err := members.DeleteByGroupIDs(dbc, []uint{g1.ID}); err != nil {
		t.Fatalf("DeleteByGroupIDs: %v", err)
	}
	gids, _ = members.ListGroupIDsByProfile(dbc, s1.ID)
	if len(gids) != 1 || gids[0] != g2.ID {
		t.Fatalf("after DeleteByGroupIDs: want=[%d] got=%v", g2.ID, gids)
	}
}

func TestCatalogRepos(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	log := testutil.Logger(t)
	categories := NewCategoryRepo(db, log)
	courses := NewCourseRepo(db, log)
	lessons := NewLessonRepo(db, log)

	_, teacher := testutil.SeedProfile(t, ctx, db, types.RoleTeacher, "teacher")
	cats, err := categories.Create(dbc, []*types.Category{{Name: "Science"}, {Name: "Art"}})
	if err != nil {
		t.Fatalf("Create categories: %v", err)
	}
	all, _ := categories.List(dbc)
	if len(all) != 2 || all[0].Name != "Art" {
		t.Fatalf("List categories: want Art first got=%+v", all)
	}
	if c, err := categories.GetByName(dbc, "Science"); err != nil || c == nil || c.ID != cats[0].ID {
		t.Fatalf("GetByName: row=%+v err=%v", c, err)
	}
	if c, err := categories.GetByName(dbc, "missing"); err != nil || c != nil {
		t.Fatalf("GetByName missing: want nil,nil got=%+v,%v", c, err)
	}

	testutil.SeedCourse(t, ctx, db, cats[0].ID, teacher.ID, "Physics")
	testutil.SeedCourse(t, ctx, db, cats[0].ID, teacher.ID, "Chemistry")
	testutil.SeedCourse(t, ctx, db, cats[1].ID, teacher.ID, "Drawing")

	science, err := courses.List(dbc, cats[0].ID)
	if err != nil || len(science) != 2 || science[0].Name != "Chemistry" {
		t.Fatalf("List courses by category: rows=%+v err=%v", science, err)
	}
	if everything, _ := courses.List(dbc, 0); len(everything) != 3 {
		t.Fatalf("List courses: want=3 got=%d", len(everything))
	}
	if n, err := courses.CountByTeacher(dbc, teacher.ID); err != nil || n != 3 {
		t.Fatalf("CountByTeacher: want=3 got=%d err=%v", n, err)
	}
	physics, _ := courses.GetByName(dbc, cats[0].ID, "Physics")
	if physics == nil {
		t.Fatalf("GetByName course: want row got nil")
	}

	testutil.SeedLesson(t, ctx, db, physics.ID, 2)
	testutil.SeedLesson(t, ctx, db, physics.ID, 1)
	if _, err := lessons.Create(dbc, []*types.Lesson{{CourseID: physics.ID, LessonNumber: 1, Theme: "dup"}}); err == nil {
		t.Fatalf("Create duplicate lesson number: want error")
	}
	ordered, _ := lessons.ListByCourse(dbc, physics.ID)
	if len(ordered) != 2 || ordered[0].LessonNumber != 1 || ordered[1].LessonNumber != 2 {
		t.Fatalf("ListByCourse: want [1 2] got=%+v", ordered)
	}
	if l, err := lessons.GetByNumber(dbc, physics.ID, 3); err != nil || l != nil {
		t.Fatalf("GetByNumber missing: want nil,nil got=%+v,%v", l, err)
	}
}

func TestTimetableRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	slots := NewTimetableRepo(db, testutil.Logger(t))

	_, teacher := testutil.SeedProfile(t, ctx, db, types.RoleTeacher, "teacher")
	_, mgr := testutil.SeedProfile(t, ctx, db, types.RoleEducationalManager, "mgr")
	cat := testutil.SeedCategory(t, ctx, db, "Science")
	course := testutil.SeedCourse(t, ctx, db, cat.ID, teacher.ID, "Physics")
	l1 := testutil.SeedLesson(t, ctx, db, course.ID, 1)
	l2 := testutil.SeedLesson(t, ctx, db, course.ID, 2)
	g1 := testutil.SeedGroup(t, ctx, db, "g1", teacher.ID, mgr.ID)
	g2 := testutil.SeedGroup(t, ctx, db, "g2", teacher.ID, mgr.ID)

	if _, err := slots.Create(dbc, []*types.Timetable{
		{Date: day(2026, 9, 3), LessonID: l2.ID, GroupID: g1.ID},
		{Date: day(2026, 9, 1), LessonID: l1.ID, GroupID: g1.ID},
		{Date: day(2026, 9, 1), LessonID: l1.ID, GroupID: g2.ID},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := slots.Create(dbc, []*types.Timetable{{Date: day(2026, 9, 1), LessonID: l1.ID, GroupID: g1.ID}}); err == nil {
		t.Fatalf("Create duplicate slot: want error")
	}

	g1Rows, err := slots.List(dbc, TimetableFilter{GroupIDs: []uint{g1.ID}})
	if err != nil || len(g1Rows) != 2 || g1Rows[0].LessonID != l1.ID {
		t.Fatalf("List by group: rows=%+v err=%v", g1Rows, err)
	}
	window, _ := slots.List(dbc, TimetableFilter{From: ptr(day(2026, 9, 2)), To: ptr(day(2026, 9, 30))})
	if len(window) != 1 || window[0].LessonID != l2.ID {
		t.Fatalf("List by window: want lesson %d got=%+v", l2.ID, window)
	}

	if err := slots.UpdateFields(dbc, g1Rows[0].ID, map[string]interface{}{"is_finished": true}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, _ := slots.GetByIDs(dbc, []uint{g1Rows[0].ID})
	if len(got) != 1 || !got[0].IsFinished {
		t.Fatalf("is_finished: want=true got=%+v", got)
	}

	if err := slots.DeleteByGroupIDs(dbc, []uint{g1.ID}); err != nil {
		t.Fatalf("DeleteByGroupIDs: %v", err)
	}
	if rest, _ := slots.List(dbc, TimetableFilter{}); len(rest) != 1 || rest[0].GroupID != g2.ID {
		t.Fatalf("after DeleteByGroupIDs: got=%+v", rest)
	}
}

func TestCertificateAndPerformanceRepos(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	log := testutil.Logger(t)
	certs := NewCertificateRepo(db, log)
	perf := NewPerformanceRepo(db, log)

	_, teacher := testutil.SeedProfile(t, ctx, db, types.RoleTeacher, "teacher")
	_, student := testutil.SeedProfile(t, ctx, db, types.RoleStudent, "student")
	cat := testutil.SeedCategory(t, ctx, db, "Science")
	physics := testutil.SeedCourse(t, ctx, db, cat.ID, teacher.ID, "Physics")
	chemistry := testutil.SeedCourse(t, ctx, db, cat.ID, teacher.ID, "Chemistry")
	pl := testutil.SeedLesson(t, ctx, db, physics.ID, 1)
	cl := testutil.SeedLesson(t, ctx, db, chemistry.ID, 1)

	if _, err := certs.Create(dbc, []*types.Certificate{{ProfileID: student.ID, CourseID: physics.ID, Date: day(2026, 6, 1)}}); err != nil {
		t.Fatalf("Create certificate: %v", err)
	}
	if _, err := certs.Create(dbc, []*types.Certificate{{ProfileID: student.ID, CourseID: physics.ID, Date: day(2026, 6, 2)}}); err == nil {
		t.Fatalf("Create duplicate certificate: want error")
	}
	list, _ := certs.ListByProfile(dbc, student.ID)
	if len(list) != 1 {
		t.Fatalf("ListByProfile: want=1 got=%d", len(list))
	}
	if err := certs.UpdateFields(dbc, list[0].ID, map[string]interface{}{"image_key": "certificate/1.png"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	if _, err := perf.Create(dbc, []*types.AcademicPerformance{
		{StudentID: student.ID, LessonID: pl.ID, TeacherID: teacher.ID, Date: day(2026, 9, 2), HomeworkGrade: ptr(5)},
		{StudentID: student.ID, LessonID: cl.ID, TeacherID: teacher.ID, Date: day(2026, 9, 1), Absent: true},
	}); err != nil {
		t.Fatalf("Create performance: %v", err)
	}
	rows, err := perf.List(dbc, PerformanceFilter{StudentID: student.ID})
	if err != nil || len(rows) != 2 || rows[0].LessonID != cl.ID {
		t.Fatalf("List by student: rows=%+v err=%v", rows, err)
	}
	physicsRows, _ := perf.List(dbc, PerformanceFilter{StudentID: student.ID, CourseID: physics.ID})
	if len(physicsRows) != 1 || physicsRows[0].HomeworkGrade == nil || *physicsRows[0].HomeworkGrade != 5 {
		t.Fatalf("List by course: got=%+v", physicsRows)
	}

	if err := perf.DeleteByProfileIDs(dbc, []uint{teacher.ID}); err != nil {
		t.Fatalf("DeleteByProfileIDs: %v", err)
	}
	if rest, _ := perf.List(dbc, PerformanceFilter{}); len(rest) != 0 {
		t.Fatalf("after DeleteByProfileIDs: want=0 got=%d", len(rest))
	}
	if err := certs.DeleteByProfileIDs(dbc, []uint{student.ID}); err != nil {
		t.Fatalf("certs DeleteByProfileIDs: %v", err)
	}
}
