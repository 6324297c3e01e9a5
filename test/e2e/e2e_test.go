//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stemsi/exstem-client/internal/model"
)

// The flow expects a running agent wired to a live exam server on which
// the student account exists and at least one exam is available.
const (
	defaultAgentURL = "http://localhost:8090"
	defaultUsername = "e2e_student"
	defaultPassword = "password123"
)

var (
	agentURL  string
	username  string
	password  string
	examID    int64
	attemptID string
	resultID  int64
	client    = &http.Client{Timeout: 30 * time.Second}
)

func TestMain(m *testing.M) {
	// Load .env if present (ignore error)
	_ = godotenv.Load("../../.env")

	agentURL = envOr("E2E_AGENT_URL", defaultAgentURL)
	username = envOr("E2E_USERNAME", defaultUsername)
	password = envOr("E2E_PASSWORD", defaultPassword)

	os.Exit(m.Run())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	} `json:"error"`
}

func TestE2EFlow(t *testing.T) {
	// Step 1: Sign in through the agent
	t.Run("Login", func(t *testing.T) {
		env := mustCall(t, http.MethodPost, "/api/v1/auth/login", model.LoginRequest{Username: username, Password: password}, http.StatusOK)
		var data struct {
			User       model.User `json:"user"`
			RedirectTo string     `json:"redirect_to"`
		}
		decode(t, env.Data, &data)
		if data.User.Role != model.RoleStudent {
			t.Fatalf("role = %q, want STUDENT", data.User.Role)
		}
	})

	// Step 2: Pick the first available exam
	t.Run("ListExams", func(t *testing.T) {
		env := mustCall(t, http.MethodGet, "/api/v1/student/exams", nil, http.StatusOK)
		var data struct {
			Exams []model.ExamSummary `json:"exams"`
		}
		decode(t, env.Data, &data)
		if len(data.Exams) == 0 {
			t.Skip("no exam available for the e2e account")
		}
		examID = data.Exams[0].ID
	})

	if examID == 0 {
		t.Skip("nothing to take")
	}

	var firstQuestion int64
	// Step 3: Start an attempt
	t.Run("StartAttempt", func(t *testing.T) {
		env := mustCall(t, http.MethodPost, "/api/v1/student/attempts", map[string]int64{"exam_id": examID}, http.StatusCreated)
		var data struct {
			AttemptID string `json:"attempt_id"`
			Snapshot  struct {
				State   string          `json:"state"`
				Current *model.Question `json:"current"`
			} `json:"snapshot"`
		}
		decode(t, env.Data, &data)
		if data.Snapshot.State != "NOT_SUBMITTED" {
			t.Fatalf("state = %q", data.Snapshot.State)
		}
		attemptID = data.AttemptID
		if data.Snapshot.Current != nil {
			firstQuestion = data.Snapshot.Current.ID
		}
	})

	// Step 4: Answer the first question
	t.Run("Answer", func(t *testing.T) {
		if firstQuestion == 0 {
			t.Skip("exam has no questions")
		}
		path := fmt.Sprintf("/api/v1/student/attempts/%s/answers/%d", attemptID, firstQuestion)
		mustCall(t, http.MethodPut, path, map[string]string{"answer": "1"}, http.StatusOK)
	})

	// Step 5: Submit twice; the second call must not resubmit
	t.Run("Submit", func(t *testing.T) {
		path := "/api/v1/student/attempts/" + attemptID + "/submit"
		env := mustCall(t, http.MethodPost, path, nil, http.StatusOK)
		var data struct {
			RedirectTo string `json:"redirect_to"`
			Snapshot   struct {
				State    string `json:"state"`
				ResultID int64  `json:"result_id"`
			} `json:"snapshot"`
		}
		decode(t, env.Data, &data)
		if data.Snapshot.State != "SUBMITTED" || data.Snapshot.ResultID == 0 {
			t.Fatalf("snapshot = %+v", data.Snapshot)
		}
		resultID = data.Snapshot.ResultID
		if data.RedirectTo != fmt.Sprintf("/results/%d", resultID) {
			t.Errorf("redirect_to = %q", data.RedirectTo)
		}

		env = mustCall(t, http.MethodPost, path, nil, http.StatusOK)
		decode(t, env.Data, &data)
		if data.Snapshot.ResultID != resultID {
			t.Errorf("second submit changed result: %d", data.Snapshot.ResultID)
		}
	})

	// Step 6: Fetch the graded result
	t.Run("Result", func(t *testing.T) {
		mustCall(t, http.MethodGet, fmt.Sprintf("/api/v1/student/results/%d", resultID), nil, http.StatusOK)
	})

	// Step 7: Forget the attempt
	t.Run("Discard", func(t *testing.T) {
		mustCall(t, http.MethodDelete, "/api/v1/student/attempts/"+attemptID, nil, http.StatusOK)
		mustCall(t, http.MethodGet, "/api/v1/student/attempts/"+attemptID, nil, http.StatusNotFound)
	})
}

// ─── Helpers ────────────────────────────────────────────────────────

func mustCall(t *testing.T, method, path string, body interface{}, wantStatus int) envelope {
	t.Helper()
	resp, err := call(method, path, body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw := readBody(resp)
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: status %d: %s", method, path, resp.StatusCode, raw)
	}
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func call(method, path string, body interface{}) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, agentURL+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return client.Do(req)
}

func readBody(resp *http.Response) string {
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

func decode(t *testing.T, raw json.RawMessage, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}
