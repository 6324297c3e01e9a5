package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-client/internal/authstore"
	"github.com/stemsi/exstem-client/internal/model"
	"github.com/stemsi/exstem-client/internal/response"
	"github.com/stemsi/exstem-client/internal/roles"
	"github.com/stemsi/exstem-client/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type nopAuthAPI struct{}

func (nopAuthAPI) Login(context.Context, string, string) (*model.AuthResponse, error) {
	return nil, nil
}

func (nopAuthAPI) Register(context.Context, *model.RegisterRequest) (*model.AuthResponse, error) {
	return nil, nil
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		creds      *authstore.Credentials
		wantStatus int
		wantCode   response.ErrCode
		wantDest   string
	}{
		{"signed out", nil, http.StatusUnauthorized, response.ErrNotSignedIn, roles.PathLogin},
		{"teacher on student page", &authstore.Credentials{Token: "t", User: model.User{Role: model.RoleTeacher}},
			http.StatusForbidden, response.ErrForbidden, roles.PathTeacherDashboard},
		{"student", &authstore.Credentials{Token: "t", User: model.User{Username: "s", Role: model.RoleStudent}},
			http.StatusOK, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := authstore.NewMemoryStore()
			if tt.creds != nil {
				_ = store.Save(context.Background(), tt.creds)
			}
			auth := service.NewAuthService(nopAuthAPI{}, store, zerolog.Nop())

			r := gin.New()
			r.GET("/p", RequireRole(auth, model.RoleStudent), func(c *gin.Context) {
				response.Success(c, http.StatusOK, GetCredentials(c).User.Username)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			var body response.Response
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if tt.wantCode == "" {
				if body.Data != "s" {
					t.Errorf("data = %v", body.Data)
				}
				return
			}
			if body.Error.Code != tt.wantCode || body.Error.Fields[FieldRedirectTo] != tt.wantDest {
				t.Errorf("error = %+v", body.Error)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	now := time.Unix(1000, 0)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.allow("a") || !rl.allow("a") {
		t.Fatal("first two requests must pass")
	}
	if rl.allow("a") {
		t.Fatal("third request must be limited")
	}
	if !rl.allow("b") {
		t.Fatal("other client must not be limited")
	}

	now = now.Add(time.Minute)
	if !rl.allow("a") {
		t.Fatal("bucket must refill after the interval")
	}
}

func TestNoStore(t *testing.T) {
	r := gin.New()
	r.GET("/x", NoStore(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q", got)
	}
}
