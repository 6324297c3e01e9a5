package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stemsi/exstem-client/internal/apiclient"
	"github.com/stemsi/exstem-client/internal/attempt"
	"github.com/stemsi/exstem-client/internal/response"
	"github.com/stemsi/exstem-client/internal/roles"
	"github.com/stemsi/exstem-client/internal/service"
	"github.com/stemsi/exstem-client/internal/validator"
)

// AttemptHandler drives hosted exam attempts.
type AttemptHandler struct {
	attemptService *service.AttemptService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attemptService *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

type startAttemptRequest struct {
	ExamID int64 `json:"exam_id" binding:"required,gt=0"`
}

type recordAnswerRequest struct {
	Answer *string `json:"answer" binding:"required"`
}

type advanceRequest struct {
	Direction attempt.Direction `json:"direction" binding:"required,oneof=next previous"`
}

type attemptResponse struct {
	AttemptID  uuid.UUID        `json:"attempt_id"`
	Snapshot   attempt.Snapshot `json:"snapshot"`
	RedirectTo string           `json:"redirect_to,omitempty"`
}

func newAttemptResponse(sess *service.Session) attemptResponse {
	return attemptResponse{
		AttemptID:  sess.ID,
		Snapshot:   sess.Controller().Snapshot(),
		RedirectTo: sess.Destination(),
	}
}

// Start godoc
// POST /api/v1/student/attempts
// Loads the exam and starts its countdown. A failed load registers nothing;
// the client may post again or go back to the exam list.
func (h *AttemptHandler) Start(c *gin.Context) {
	var req startAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sess, err := h.attemptService.Start(c.Request.Context(), req.ExamID)
	if err != nil {
		h.failLoad(c, err)
		return
	}

	response.Success(c, http.StatusCreated, newAttemptResponse(sess))
}

// Get godoc
// GET /api/v1/student/attempts/:attempt_id
func (h *AttemptHandler) Get(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, newAttemptResponse(sess))
}

// RecordAnswer godoc
// PUT /api/v1/student/attempts/:attempt_id/answers/:question_id
// Stores the answer verbatim, replacing any earlier one. An empty answer
// clears the question.
func (h *AttemptHandler) RecordAnswer(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	questionID, err := strconv.ParseInt(c.Param("question_id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req recordAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ctrl := sess.Controller()
	if !ctrl.RecordAnswer(questionID, *req.Answer) {
		if ctrl.Snapshot().State != attempt.StateNotSubmitted {
			response.Fail(c, http.StatusConflict, response.ErrAttemptClosed)
		} else {
			response.Fail(c, http.StatusNotFound, response.ErrUnknownQuestion)
		}
		return
	}

	response.Success(c, http.StatusOK, newAttemptResponse(sess))
}

// Advance godoc
// POST /api/v1/student/attempts/:attempt_id/advance
func (h *AttemptHandler) Advance(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req advanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sess.Controller().Advance(req.Direction)
	response.Success(c, http.StatusOK, newAttemptResponse(sess))
}

// Submit godoc
// POST /api/v1/student/attempts/:attempt_id/submit
// Submits the attempt. Repeating the call while a submission is in flight
// or done changes nothing; after a failure it retries.
func (h *AttemptHandler) Submit(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	// A dropped browser request must not abort the submission.
	ctx := context.WithoutCancel(c.Request.Context())
	if _, err := h.attemptService.Submit(ctx, sess.ID); err != nil {
		var subErr *attempt.SubmissionError
		if !errors.As(err, &subErr) {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		response.FailWithDetail(c, http.StatusBadGateway, response.ErrSubmissionFailed, upstreamDetail(subErr.Err))
		return
	}

	response.Success(c, http.StatusOK, newAttemptResponse(sess))
}

// Discard godoc
// DELETE /api/v1/student/attempts/:attempt_id
// Stops the attempt without submitting and forgets it.
func (h *AttemptHandler) Discard(c *gin.Context) {
	id, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.attemptService.Discard(id); err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"redirect_to": roles.PathExamList})
}

// session resolves :attempt_id, answering the request itself when it cannot.
func (h *AttemptHandler) session(c *gin.Context) (*service.Session, bool) {
	id, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil, false
	}

	sess, err := h.attemptService.Get(id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
		return nil, false
	}
	return sess, true
}

func (h *AttemptHandler) failLoad(c *gin.Context, err error) {
	var loadErr *attempt.LoadError
	if !errors.As(err, &loadErr) {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	switch {
	case apiclient.IsUnauthorized(loadErr.Err):
		response.FailWithDetail(c, http.StatusUnauthorized, response.ErrSessionExpired, upstreamDetail(loadErr.Err))
	case apiclient.IsNotFound(loadErr.Err):
		response.FailWithDetail(c, http.StatusNotFound, response.ErrExamLoadFailed, upstreamDetail(loadErr.Err))
	default:
		response.FailWithDetail(c, http.StatusBadGateway, response.ErrExamLoadFailed, upstreamDetail(loadErr.Err))
	}
}

// upstreamDetail prefers the exam server's own message.
func upstreamDetail(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
