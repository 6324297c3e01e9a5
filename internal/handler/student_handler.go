package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/exstem-client/internal/response"
	"github.com/stemsi/exstem-client/internal/service"
)

// StudentHandler serves the student's exam and result listings.
type StudentHandler struct {
	studentService *service.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// ListExams godoc
// GET /api/v1/student/exams
func (h *StudentHandler) ListExams(c *gin.Context) {
	exams, err := h.studentService.AvailableExams(c.Request.Context())
	if err != nil {
		failUpstream(c, err, response.ErrUpstream)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}

// ListResults godoc
// GET /api/v1/student/results
func (h *StudentHandler) ListResults(c *gin.Context) {
	results, err := h.studentService.Results(c.Request.Context())
	if err != nil {
		failUpstream(c, err, response.ErrResultUnavailable)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// GetResult godoc
// GET /api/v1/student/results/:id
func (h *StudentHandler) GetResult(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.studentService.Result(c.Request.Context(), id)
	if err != nil {
		failUpstream(c, err, response.ErrResultUnavailable)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": result})
}
