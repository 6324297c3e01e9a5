package attempt

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-client/internal/model"
)

// Option configures a Controller.
type Option func(*Controller)

// WithNavigator sets the navigation collaborator.
func WithNavigator(nav Navigator) Option {
	return func(c *Controller) { c.nav = nav }
}

// WithListener registers a callback for attempt events.
func WithListener(fn func(Event)) Option {
	return func(c *Controller) { c.listener = fn }
}

// WithLogger sets the controller's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) { c.log = log.With().Str("component", "attempt").Logger() }
}

// Controller owns a single attempt from load to submission.
// All methods are safe to call from the tick goroutine and from
// user-input goroutines at the same time.
type Controller struct {
	source    ExamSource
	submitter Submitter
	nav       Navigator
	listener  func(Event)
	log       zerolog.Logger

	mu        sync.Mutex
	examID    int64
	exam      *model.ExamDefinition
	loading   bool
	draft     map[int64]string
	current   int
	elapsed   int
	remaining int
	running   bool
	discarded bool
	state     State
	failure   string
	resultID  int64
}

// New creates an unstarted controller.
func New(source ExamSource, submitter Submitter, opts ...Option) *Controller {
	c := &Controller{
		source:    source,
		submitter: submitter,
		log:       zerolog.Nop(),
		state:     StateNotSubmitted,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the exam and starts the clock. A failed load leaves the
// controller unstarted so the caller can retry.
func (c *Controller) Load(ctx context.Context, examID int64) error {
	c.mu.Lock()
	if c.exam != nil {
		c.mu.Unlock()
		return ErrAlreadyLoaded
	}
	if c.loading {
		c.mu.Unlock()
		return ErrLoadInProgress
	}
	c.loading = true
	c.mu.Unlock()

	exam, err := c.source.StudentExam(ctx, examID)
	if err == nil && exam == nil {
		err = ErrMalformedExam
	}

	c.mu.Lock()
	c.loading = false
	if err != nil {
		c.mu.Unlock()
		c.log.Warn().Err(err).Int64("exam_id", examID).Msg("Exam load failed")
		return &LoadError{ExamID: examID, Err: err}
	}

	c.examID = examID
	c.exam = exam
	c.draft = make(map[int64]string, len(exam.Questions))
	c.current = 0
	c.elapsed = 0
	c.remaining = exam.DurationSeconds()
	c.state = StateNotSubmitted
	c.running = true
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.log.Info().
		Int64("exam_id", examID).
		Int("questions", len(exam.Questions)).
		Int("remaining_seconds", snap.RemainingSeconds).
		Msg("Attempt started")
	c.emit(Event{Kind: EventLoaded, Snapshot: snap})
	return nil
}

// RecordAnswer stores value verbatim for questionID, replacing any earlier
// value. It reports false and changes nothing when the question is unknown
// or the attempt is no longer open for edits.
func (c *Controller) RecordAnswer(questionID int64, value string) bool {
	c.mu.Lock()
	if !c.editableLocked() || !c.exam.HasQuestion(questionID) {
		c.mu.Unlock()
		c.log.Debug().Int64("question_id", questionID).Msg("Answer ignored")
		return false
	}
	c.draft[questionID] = value
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(Event{Kind: EventChanged, Snapshot: snap})
	return true
}

// Advance moves the displayed question by one, clamped to the first and
// last question, and returns the resulting index.
func (c *Controller) Advance(dir Direction) int {
	c.mu.Lock()
	if c.exam == nil {
		c.mu.Unlock()
		return 0
	}
	next := c.current
	switch dir {
	case DirectionNext:
		if next < len(c.exam.Questions)-1 {
			next++
		}
	case DirectionPrevious:
		if next > 0 {
			next--
		}
	}
	if next == c.current {
		c.mu.Unlock()
		return next
	}
	c.current = next
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(Event{Kind: EventChanged, Snapshot: snap})
	return next
}

// Tick advances the clock by one second. When the countdown reaches zero the
// clock stops and a Timeout submission is requested; it keeps ctx's values
// but not its cancellation. Tick reports whether
// the clock is still running, so the tick source knows when to stop.
func (c *Controller) Tick(ctx context.Context) bool {
	c.mu.Lock()
	if !c.running || c.state != StateNotSubmitted {
		c.mu.Unlock()
		return false
	}
	if c.remaining > 0 {
		c.remaining--
	}
	c.elapsed++
	expired := c.remaining == 0
	if expired {
		c.running = false
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(Event{Kind: EventTick, Snapshot: snap})
	if !expired {
		return true
	}

	c.log.Info().Int64("exam_id", snap.ExamID).Msg("Time is up, submitting")
	// ctx belongs to the tick source; stopping the clock must not abort a
	// submission already under way. The returned error is already recorded
	// in the Failed state.
	_, _ = c.RequestSubmit(context.WithoutCancel(ctx), TriggerTimeout)
	return false
}

// RequestSubmit sends the attempt unless a submission is already in flight
// or done. It reports whether this call started a submission. A failed
// submission leaves the attempt Failed with the clock stopped; calling
// RequestSubmit again retries with the same payload.
func (c *Controller) RequestSubmit(ctx context.Context, trigger Trigger) (bool, error) {
	c.mu.Lock()
	if c.exam == nil || c.discarded || c.state == StateSubmitting || c.state == StateSubmitted {
		c.mu.Unlock()
		c.log.Debug().Str("trigger", string(trigger)).Msg("Submit ignored")
		return false, nil
	}
	c.state = StateSubmitting
	c.failure = ""
	c.running = false
	req := c.buildRequestLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.log.Info().
		Int64("exam_id", req.ExamID).
		Str("trigger", string(trigger)).
		Int("answers", len(req.Answers)).
		Int("time_taken", req.TimeTaken).
		Msg("Submitting attempt")
	c.emit(Event{Kind: EventState, Snapshot: snap})

	result, err := c.submitter.SubmitExam(ctx, req)
	if err == nil && result == nil {
		err = ErrEmptyResult
	}

	c.mu.Lock()
	if err != nil {
		c.state = StateFailed
		c.failure = err.Error()
		snap = c.snapshotLocked()
		c.mu.Unlock()

		c.log.Error().Err(err).Int64("exam_id", req.ExamID).Msg("Submission failed")
		c.emit(Event{Kind: EventState, Snapshot: snap})
		return true, &SubmissionError{ExamID: req.ExamID, Trigger: trigger, Err: err}
	}
	c.state = StateSubmitted
	c.resultID = result.ID
	snap = c.snapshotLocked()
	c.mu.Unlock()

	c.log.Info().Int64("exam_id", req.ExamID).Int64("result_id", result.ID).Msg("Attempt submitted")
	c.emit(Event{Kind: EventState, Snapshot: snap})
	c.emit(Event{Kind: EventNavigate, Snapshot: snap, ResultID: result.ID})
	if c.nav != nil {
		c.nav.ToResult(result.ID)
	}
	return true, nil
}

// Abandon is the user's way back to the exam list, typically after a load
// error. It stops the clock of a running attempt without submitting.
func (c *Controller) Abandon() {
	c.Discard()
	if c.nav != nil {
		c.nav.ToExamList()
	}
}

// Discard stops the clock and closes the attempt to further input.
// An attempt already submitting is left to finish.
func (c *Controller) Discard() {
	c.mu.Lock()
	c.discarded = true
	c.running = false
	c.mu.Unlock()
}

// Running reports whether the clock is ticking.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Draft returns a copy of the recorded answers.
func (c *Controller) Draft() map[int64]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[int64]string, len(c.draft))
	for k, v := range c.draft {
		out[k] = v
	}
	return out
}

// AnsweredCount counts recorded answers that are not blank.
func (c *Controller) AnsweredCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answeredLocked()
}

func (c *Controller) editableLocked() bool {
	return c.exam != nil && !c.discarded && c.state == StateNotSubmitted
}

func (c *Controller) answeredLocked() int {
	n := 0
	for _, v := range c.draft {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

// buildRequestLocked lists every question in exam order; unanswered ones
// are sent with an empty answer.
func (c *Controller) buildRequestLocked() *model.SubmitRequest {
	answers := make([]model.Answer, 0, len(c.exam.Questions))
	for _, q := range c.exam.Questions {
		answers = append(answers, model.Answer{QuestionID: q.ID, Answer: c.draft[q.ID]})
	}
	return &model.SubmitRequest{
		ExamID:    c.examID,
		Answers:   answers,
		TimeTaken: c.elapsed / 60,
	}
}

func (c *Controller) emit(ev Event) {
	if c.listener != nil {
		c.listener(ev)
	}
}
