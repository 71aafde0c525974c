package user

import "testing"

func TestRoleGroupLabel(t *testing.T) {
	cases := map[Role]string{
		RoleStudent:            "Студент",
		RoleTeacher:            "Преподаватель",
		RoleEducationalManager: "Менеджер учебного процесса",
		Role("admin"):          "",
	}
	for role, want := range cases {
		if got := role.GroupLabel(); got != want {
			t.Fatalf("GroupLabel(%q): want=%q got=%q", role, want, got)
		}
	}
	if Role("admin").Valid() {
		t.Fatalf("Valid: admin should not be a profile role")
	}
	if !GenderFemale.Valid() || Gender("x").Valid() {
		t.Fatalf("Gender.Valid: unexpected result")
	}
}
