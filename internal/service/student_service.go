package service

import (
	"context"

	"github.com/stemsi/exstem-client/internal/model"
)

// StudentService serves the student's exam and result listings.
type StudentService struct {
	api StudentAPI
}

// NewStudentService creates a new StudentService.
func NewStudentService(api StudentAPI) *StudentService {
	return &StudentService{api: api}
}

// AvailableExams lists exams the student may take now.
func (s *StudentService) AvailableExams(ctx context.Context) ([]model.ExamSummary, error) {
	exams, err := s.api.AvailableExams(ctx)
	if err != nil {
		return nil, err
	}
	if exams == nil {
		exams = []model.ExamSummary{}
	}
	return exams, nil
}

// Results lists the student's graded attempts.
func (s *StudentService) Results(ctx context.Context) ([]model.ExamResult, error) {
	results, err := s.api.StudentResults(ctx)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []model.ExamResult{}
	}
	return results, nil
}

// Result returns one graded attempt.
func (s *StudentService) Result(ctx context.Context, resultID int64) (*model.ExamResult, error) {
	return s.api.Result(ctx, resultID)
}
