package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/stemsi/exstem-client/internal/model"
)

// AvailableExams lists the exams the student may take now.
func (c *Client) AvailableExams(ctx context.Context) ([]model.ExamSummary, error) {
	var out []model.ExamSummary
	if err := c.do(ctx, http.MethodGet, "/student/exams/available", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ErrMalformedExam is returned when a successful reply does not describe
// the requested exam.
var ErrMalformedExam = errors.New("malformed exam response")

// StudentExam fetches an exam with its questions for an attempt. An empty
// or null body, or an exam with another id, is ErrMalformedExam.
func (c *Client) StudentExam(ctx context.Context, examID int64) (*model.ExamDefinition, error) {
	var out *model.ExamDefinition
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/student/exams/%d", examID), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("exam %d: empty body: %w", examID, ErrMalformedExam)
	}
	if out.ID != examID {
		return nil, fmt.Errorf("exam %d: reply is for exam %d: %w", examID, out.ID, ErrMalformedExam)
	}
	return out, nil
}

// submitBody is the wire body of a submission; the exam id travels in the path.
type submitBody struct {
	Answers   []model.Answer `json:"answers"`
	TimeTaken int            `json:"timeTaken"`
}

// SubmitExam sends a finished attempt and returns the graded result.
func (c *Client) SubmitExam(ctx context.Context, req *model.SubmitRequest) (*model.ExamResult, error) {
	answers := req.Answers
	if answers == nil {
		answers = []model.Answer{}
	}
	body := submitBody{Answers: answers, TimeTaken: req.TimeTaken}

	var out model.ExamResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/student/exams/%d/submit", req.ExamID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StudentResults lists the student's graded attempts.
func (c *Client) StudentResults(ctx context.Context) ([]model.ExamResult, error) {
	var out []model.ExamResult
	if err := c.do(ctx, http.MethodGet, "/student/exams/results", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Result fetches one graded attempt with its per-question breakdown.
func (c *Client) Result(ctx context.Context, resultID int64) (*model.ExamResult, error) {
	var out model.ExamResult
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/student/exams/results/%d", resultID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
