package websocket

import "github.com/stemsi/exstem-client/internal/attempt"

// ─── Actions (Client → Agent) ───────────────────────────────────────

type Action string

const (
	ActionAnswer  Action = "answer"
	ActionAdvance Action = "advance"
	ActionSubmit  Action = "submit"
	ActionPing    Action = "ping"
)

// RequestPayload is every message a client sends. Fields unused by the
// action are left empty.
type RequestPayload struct {
	Action     Action `json:"action"`
	QuestionID int64  `json:"q_id,omitempty"`
	Answer     string `json:"ans,omitempty"`
	Direction  string `json:"direction,omitempty"`
}

// ─── Events (Agent → Client) ────────────────────────────────────────

type Event string

const (
	EventLoaded   Event = "loaded"
	EventTick     Event = "tick"
	EventChanged  Event = "changed"
	EventState    Event = "state"
	EventNavigate Event = "navigate"
	EventSuccess  Event = "success"
	EventError    Event = "error"
	EventPong     Event = "pong"
)

// SnapshotResponse carries the attempt view after a change.
type SnapshotResponse struct {
	Event    Event            `json:"event"`
	Snapshot attempt.Snapshot `json:"snapshot"`
}

// TickResponse is the compact per-second clock update.
type TickResponse struct {
	Event            Event  `json:"event"`
	RemainingSeconds int    `json:"remaining_seconds"`
	ElapsedSeconds   int    `json:"elapsed_seconds"`
	Remaining        string `json:"remaining"`
}

// NavigateResponse tells the UI to move to another page.
type NavigateResponse struct {
	Event    Event  `json:"event"`
	To       string `json:"to"`
	ResultID int64  `json:"result_id,omitempty"`
}

type SuccessResponse struct {
	Event  Event  `json:"event"`
	Status string `json:"status"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
