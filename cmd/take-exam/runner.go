package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-client/internal/apiclient"
	"github.com/stemsi/exstem-client/internal/attempt"
	"github.com/stemsi/exstem-client/internal/model"
	"github.com/stemsi/exstem-client/internal/service"
	"github.com/stemsi/exstem-client/internal/worker"
)

type outcome int

const (
	outcomeSubmitted outcome = iota
	outcomeBack
	outcomeInterrupted
)

const helpText = `Commands:
  n          next question
  p          previous question
  a <value>  answer the current question (a alone clears it)
  t          show the time left
  s          submit the exam
  q          leave without submitting
  h          this help`

// runner takes one exam in the terminal. It is the attempt's navigator:
// hand-offs arrive on buffered channels so they never block the caller.
type runner struct {
	client   *apiclient.Client
	students *service.StudentService
	in       *input
	tick     time.Duration
	log      zerolog.Logger

	ctrl       *attempt.Controller
	results    chan int64
	back       chan struct{}
	confirming bool
}

func newRunner(client *apiclient.Client, students *service.StudentService, in *input, tick time.Duration, log zerolog.Logger) *runner {
	return &runner{
		client:   client,
		students: students,
		in:       in,
		tick:     tick,
		log:      log,
		results:  make(chan int64, 1),
		back:     make(chan struct{}, 1),
	}
}

func (r *runner) ToResult(id int64) {
	select {
	case r.results <- id:
	default:
	}
}

func (r *runner) ToExamList() {
	select {
	case r.back <- struct{}{}:
	default:
	}
}

func (r *runner) run(ctx context.Context, examID int64) outcome {
	r.ctrl = attempt.New(r.client, r.client,
		attempt.WithNavigator(r),
		attempt.WithListener(r.onEvent),
		attempt.WithLogger(r.log),
	)

	if o, ok := r.load(ctx, examID); !ok {
		return o
	}

	clockCtx, stopClock := context.WithCancel(ctx)
	defer stopClock()
	go worker.NewClockWorker(r.ctrl, r.tick, r.log).Start(clockCtx)

	fmt.Println(helpText)
	r.render()

	for {
		select {
		case id := <-r.results:
			r.showResult(ctx, id)
			return outcomeSubmitted
		case <-r.back:
			return outcomeBack
		case <-ctx.Done():
			r.ctrl.Discard()
			fmt.Println("\nAttempt abandoned; nothing was submitted.")
			return outcomeInterrupted
		case line, ok := <-r.in.lines:
			if !ok {
				r.ctrl.Discard()
				return outcomeInterrupted
			}
			r.command(ctx, line)
		}
	}
}

// load retries on request; the attempt stays unstarted until it succeeds.
func (r *runner) load(ctx context.Context, examID int64) (outcome, bool) {
	for {
		fmt.Println("Loading exam...")
		err := r.ctrl.Load(ctx, examID)
		if err == nil {
			return 0, true
		}
		r.log.Debug().Err(err).Msg("Load failed")
		fmt.Printf("Failed to load exam: %s\n", reason(err))

		fmt.Print("[r]etry or [b]ack to the exam list: ")
		l, ok := r.in.line(ctx)
		if !ok {
			return outcomeInterrupted, false
		}
		if strings.EqualFold(l, "r") {
			continue
		}
		r.ctrl.Abandon()
		return outcomeBack, false
	}
}

func (r *runner) command(ctx context.Context, line string) {
	if r.confirming {
		r.confirming = false
		if strings.EqualFold(line, "y") || strings.EqualFold(line, "yes") {
			// Failures are reported through the state event.
			_, _ = r.ctrl.RequestSubmit(ctx, attempt.TriggerManual)
		} else {
			fmt.Println("Submission cancelled.")
		}
		return
	}

	cmd, arg, _ := strings.Cut(line, " ")
	switch cmd {
	case "n":
		r.ctrl.Advance(attempt.DirectionNext)
		r.render()
	case "p":
		r.ctrl.Advance(attempt.DirectionPrevious)
		r.render()
	case "a":
		r.answer(arg)
	case "t":
		snap := r.ctrl.Snapshot()
		fmt.Printf("Time remaining: %s (%d of %d answered)\n", snap.Remaining, snap.AnsweredCount, snap.QuestionCount)
	case "s":
		r.confirmSubmit()
	case "q":
		r.ctrl.Abandon()
		fmt.Println("Left the exam; nothing was submitted.")
	case "h", "?":
		fmt.Println(helpText)
	case "":
	default:
		fmt.Printf("Unknown command %q; h for help.\n", cmd)
	}
}

func (r *runner) answer(value string) {
	snap := r.ctrl.Snapshot()
	if snap.Current == nil {
		fmt.Println("This exam has no questions.")
		return
	}
	if value != "" && len(snap.Choices) > 0 && !validChoice(snap.Choices, value) {
		fmt.Printf("Pick one of: %s\n", choiceValues(snap.Choices))
		return
	}
	if !r.ctrl.RecordAnswer(snap.Current.ID, value) {
		fmt.Println("Answers can no longer be changed.")
		return
	}
	if value == "" {
		fmt.Println("Answer cleared.")
	} else {
		fmt.Println("Answer saved.")
	}
}

func (r *runner) confirmSubmit() {
	snap := r.ctrl.Snapshot()
	if snap.State == attempt.StateSubmitting || snap.State == attempt.StateSubmitted {
		fmt.Println("Already submitting.")
		return
	}
	unanswered := snap.QuestionCount - snap.AnsweredCount

	fmt.Println("\n=== Submit Exam ===")
	fmt.Printf("  Total Questions: %d\n", snap.QuestionCount)
	fmt.Printf("  Answered:        %d\n", snap.AnsweredCount)
	fmt.Printf("  Unanswered:      %d\n", unanswered)
	fmt.Printf("  Time Taken:      %s\n", attempt.FormatClock(snap.ElapsedSeconds))
	if unanswered > 0 {
		fmt.Printf("You have %d unanswered question(s).\n", unanswered)
	}
	fmt.Print("Submit now? [y/N]: ")
	r.confirming = true
}

func (r *runner) render() {
	snap := r.ctrl.Snapshot()
	fmt.Printf("\n%s  |  %s left  |  %d of %d answered\n", snap.Title, snap.Remaining, snap.AnsweredCount, snap.QuestionCount)
	if snap.Current == nil {
		fmt.Println("This exam has no questions. Type s to submit.")
		return
	}

	q := snap.Current
	fmt.Printf("Question %d of %d  (%s, %d points)\n", snap.CurrentIndex+1, snap.QuestionCount, q.Type.Label(), q.Points)
	fmt.Println(q.Text)
	for _, ch := range snap.Choices {
		mark := " "
		if ch.Value == snap.CurrentAnswer {
			mark = "*"
		}
		fmt.Printf("  %s %s) %s\n", mark, ch.Value, ch.Label)
	}
	if len(snap.Choices) == 0 && snap.CurrentAnswer != "" {
		fmt.Printf("  Your answer: %s\n", snap.CurrentAnswer)
	}
}

// onEvent runs on whichever goroutine changed the attempt.
func (r *runner) onEvent(ev attempt.Event) {
	switch ev.Kind {
	case attempt.EventTick:
		rem := ev.Snapshot.RemainingSeconds
		switch {
		case rem == 0:
			fmt.Println("\nTime is up! Submitting your answers...")
		case rem%60 == 0 || rem <= 10:
			fmt.Printf("\n[%s remaining]\n", ev.Snapshot.Remaining)
		}
	case attempt.EventState:
		switch ev.Snapshot.State {
		case attempt.StateSubmitting:
			fmt.Println("Submitting...")
		case attempt.StateFailed:
			fmt.Printf("Failed to submit exam: %s\nYour answers are kept. Type s to retry.\n", ev.Snapshot.FailureReason)
		}
	}
}

func (r *runner) showResult(ctx context.Context, id int64) {
	res, err := r.students.Result(ctx, id)
	if err != nil {
		fmt.Printf("Exam submitted, but the result could not be loaded: %s\n", reason(err))
		return
	}

	fmt.Println("\n=== Result ===")
	fmt.Printf("  Exam:       %s\n", res.ExamTitle)
	fmt.Printf("  Score:      %d / %d (%.1f%%)\n", res.Score, res.TotalMarks, res.Percentage)
	fmt.Printf("  Status:     %s\n", res.Status)
	fmt.Printf("  Time Taken: %d min\n", res.TimeTaken)
	for i, a := range res.Answers {
		mark := "x"
		if a.IsCorrect {
			mark = "✓"
		}
		fmt.Printf("  %s %d. %s  (your answer: %q)\n", mark, i+1, a.QuestionText, a.StudentAnswer)
	}
}

func validChoice(choices []model.Choice, value string) bool {
	for _, c := range choices {
		if c.Value == value {
			return true
		}
	}
	return false
}

func choiceValues(choices []model.Choice) string {
	vals := make([]string, len(choices))
	for i, c := range choices {
		vals[i] = c.Value
	}
	return strings.Join(vals, ", ")
}

// reason prefers the exam server's own message.
func reason(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var le *attempt.LoadError
	if errors.As(err, &le) {
		return le.Err.Error()
	}
	return err.Error()
}
