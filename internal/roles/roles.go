// Package roles maps accounts to the pages they may see.
package roles

import (
	"fmt"
	"time"

	"github.com/stemsi/exstem-client/internal/authstore"
	"github.com/stemsi/exstem-client/internal/model"
)

// Well-known destinations.
const (
	PathLogin            = "/login"
	PathStudentDashboard = "/dashboard"
	PathTeacherDashboard = "/teacher/dashboard"
	PathAdminDashboard   = "/admin/dashboard"
	PathExamList         = "/student/exams"
)

var dashboards = map[model.Role]string{
	model.RoleStudent: PathStudentDashboard,
	model.RoleTeacher: PathTeacherDashboard,
	model.RoleAdmin:   PathAdminDashboard,
}

// DashboardFor returns the landing page for role. Unknown roles land on
// the student dashboard.
func DashboardFor(role model.Role) string {
	if p, ok := dashboards[role]; ok {
		return p
	}
	return PathStudentDashboard
}

// ResultPath is the results view for a submitted attempt.
func ResultPath(resultID int64) string {
	return fmt.Sprintf("/results/%d", resultID)
}

// Decision is the outcome of a route guard.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Guard decides whether creds may open a page restricted to allowed.
// No allowed roles means any signed-in account may enter.
func Guard(creds *authstore.Credentials, now time.Time, allowed ...model.Role) Decision {
	if !creds.Authenticated(now) {
		return Decision{RedirectTo: PathLogin}
	}
	if len(allowed) == 0 || creds.User.Role == "" {
		return Decision{Allow: true}
	}
	for _, r := range allowed {
		if r == creds.User.Role {
			return Decision{Allow: true}
		}
	}
	return Decision{RedirectTo: DashboardFor(creds.User.Role)}
}
