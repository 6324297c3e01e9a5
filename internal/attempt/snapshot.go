package attempt

import "github.com/stemsi/exstem-client/internal/model"

// EventKind classifies attempt events.
type EventKind string

const (
	EventLoaded   EventKind = "loaded"
	EventTick     EventKind = "tick"
	EventChanged  EventKind = "changed"
	EventState    EventKind = "state"
	EventNavigate EventKind = "navigate"
)

// Event is published to the listener after every observable change.
type Event struct {
	Kind     EventKind
	Snapshot Snapshot
	ResultID int64
}

// Snapshot is a read-only view of an attempt at one instant.
type Snapshot struct {
	Loaded           bool            `json:"loaded"`
	ExamID           int64           `json:"exam_id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	State            State           `json:"state"`
	FailureReason    string          `json:"failure_reason,omitempty"`
	ResultID         int64           `json:"result_id,omitempty"`
	Running          bool            `json:"running"`
	ElapsedSeconds   int             `json:"elapsed_seconds"`
	RemainingSeconds int             `json:"remaining_seconds"`
	Remaining        string          `json:"remaining"`
	CurrentIndex     int             `json:"current_index"`
	QuestionCount    int             `json:"question_count"`
	Current          *model.Question `json:"current,omitempty"`
	Choices          []model.Choice  `json:"choices,omitempty"`
	CurrentAnswer    string          `json:"current_answer"`
	AnsweredCount    int             `json:"answered_count"`
	Progress         float64         `json:"progress"`
}

// Snapshot returns the current view of the attempt.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		State:            c.state,
		FailureReason:    c.failure,
		ResultID:         c.resultID,
		Running:          c.running,
		ElapsedSeconds:   c.elapsed,
		RemainingSeconds: c.remaining,
		Remaining:        FormatClock(c.remaining),
	}
	if c.exam == nil {
		return s
	}

	s.Loaded = true
	s.ExamID = c.examID
	s.Title = c.exam.Title
	s.Description = c.exam.Description
	s.QuestionCount = len(c.exam.Questions)
	s.AnsweredCount = c.answeredLocked()
	if s.QuestionCount > 0 {
		q := c.exam.Questions[c.current]
		s.CurrentIndex = c.current
		s.Current = &q
		s.Choices = q.Choices()
		s.CurrentAnswer = c.draft[q.ID]
		s.Progress = float64(s.AnsweredCount) / float64(s.QuestionCount) * 100
	}
	return s
}

// FormatRemaining renders the time left as HH:MM:SS.
func (c *Controller) FormatRemaining() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return FormatClock(c.remaining)
}
