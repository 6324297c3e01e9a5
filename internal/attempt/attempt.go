// Package attempt runs one timed attempt at an exam: it holds the loaded
// exam, the answer draft and the countdown, and guarantees the attempt is
// submitted at most once whether the user or the timer asks first.
package attempt

import (
	"context"
	"errors"
	"fmt"

	"github.com/stemsi/exstem-client/internal/model"
)

// ExamSource fetches the exam served for an attempt.
type ExamSource interface {
	StudentExam(ctx context.Context, examID int64) (*model.ExamDefinition, error)
}

// Submitter sends a finished attempt and returns the graded result.
type Submitter interface {
	SubmitExam(ctx context.Context, req *model.SubmitRequest) (*model.ExamResult, error)
}

// Navigator receives the controller's navigation hand-offs.
type Navigator interface {
	ToResult(resultID int64)
	ToExamList()
}

// State is the submission state of an attempt.
type State string

const (
	StateNotSubmitted State = "NOT_SUBMITTED"
	StateSubmitting   State = "SUBMITTING"
	StateSubmitted    State = "SUBMITTED"
	StateFailed       State = "FAILED"
)

// Trigger says who asked for the submission.
type Trigger string

const (
	TriggerManual  Trigger = "MANUAL"
	TriggerTimeout Trigger = "TIMEOUT"
)

// Direction moves the displayed-question pointer.
type Direction string

const (
	DirectionNext     Direction = "next"
	DirectionPrevious Direction = "previous"
)

var (
	ErrAlreadyLoaded  = errors.New("attempt already loaded")
	ErrLoadInProgress = errors.New("attempt load already in progress")
	ErrMalformedExam  = errors.New("exam response carried no exam")
	ErrEmptyResult    = errors.New("submission response carried no result")
)

// LoadError reports a failed exam fetch. No attempt state is created.
type LoadError struct {
	ExamID int64
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load exam %d: %v", e.ExamID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SubmissionError reports a failed submit call. The answers and elapsed
// time are kept so a retry sends the same payload.
type SubmissionError struct {
	ExamID  int64
	Trigger Trigger
	Err     error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit exam %d (%s): %v", e.ExamID, e.Trigger, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// FormatClock renders seconds as HH:MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
