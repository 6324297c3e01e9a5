package roles

import (
	"testing"
	"time"

	"github.com/stemsi/exstem-client/internal/authstore"
	"github.com/stemsi/exstem-client/internal/model"
)

func TestDashboardFor(t *testing.T) {
	tests := []struct {
		role model.Role
		want string
	}{
		{model.RoleStudent, "/dashboard"},
		{model.RoleTeacher, "/teacher/dashboard"},
		{model.RoleAdmin, "/admin/dashboard"},
		{"", "/dashboard"},
		{"JANITOR", "/dashboard"},
	}
	for _, tc := range tests {
		if got := DashboardFor(tc.role); got != tc.want {
			t.Errorf("DashboardFor(%q) = %q, want %q", tc.role, got, tc.want)
		}
	}
}

func TestGuard(t *testing.T) {
	now := time.Now()
	student := &authstore.Credentials{Token: "t", User: model.User{Role: model.RoleStudent}}
	teacher := &authstore.Credentials{Token: "t", User: model.User{Role: model.RoleTeacher}}
	noRole := &authstore.Credentials{Token: "t"}

	tests := []struct {
		name    string
		creds   *authstore.Credentials
		allowed []model.Role
		want    Decision
	}{
		{"signed out", nil, nil, Decision{RedirectTo: PathLogin}},
		{"empty token", &authstore.Credentials{}, []model.Role{model.RoleStudent}, Decision{RedirectTo: PathLogin}},
		{"any role", teacher, nil, Decision{Allow: true}},
		{"allowed", student, []model.Role{model.RoleStudent}, Decision{Allow: true}},
		{"teacher on student page", teacher, []model.Role{model.RoleStudent}, Decision{RedirectTo: PathTeacherDashboard}},
		{"unknown role", noRole, []model.Role{model.RoleAdmin}, Decision{Allow: true}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Guard(tc.creds, now, tc.allowed...); got != tc.want {
				t.Errorf("Guard = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestResultPath(t *testing.T) {
	if got := ResultPath(42); got != "/results/42" {
		t.Errorf("ResultPath = %q", got)
	}
}
