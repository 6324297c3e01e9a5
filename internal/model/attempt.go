package model

// Answer is one entry of a submitted attempt. Skipped questions carry "".
type Answer struct {
	QuestionID int64  `json:"questionId"`
	Answer     string `json:"answer"`
}

// SubmitRequest is a finished attempt. TimeTaken is whole minutes, floored.
type SubmitRequest struct {
	ExamID    int64    `json:"examId"`
	Answers   []Answer `json:"answers"`
	TimeTaken int      `json:"timeTaken"`
}

// ResultStatus is the backend's pass/fail verdict.
type ResultStatus string

const (
	ResultStatusPassed ResultStatus = "PASSED"
	ResultStatusFailed ResultStatus = "FAILED"
)

// ExamResult is the graded attempt returned by the backend.
type ExamResult struct {
	ID          int64          `json:"id"`
	ExamID      int64          `json:"examId"`
	ExamTitle   string         `json:"examTitle"`
	StudentName string         `json:"studentName"`
	Score       int            `json:"score"`
	TotalMarks  int            `json:"totalMarks"`
	Percentage  float64        `json:"percentage"`
	Status      ResultStatus   `json:"status"`
	TimeTaken   int            `json:"timeTaken"`
	SubmittedAt string         `json:"submittedAt"`
	Answers     []AnswerDetail `json:"answers,omitempty"`
}

// AnswerDetail is the per-question breakdown of a graded attempt.
type AnswerDetail struct {
	ID             int64  `json:"id"`
	QuestionID     int64  `json:"questionId"`
	QuestionText   string `json:"questionText"`
	StudentAnswer  string `json:"studentAnswer"`
	CorrectAnswer  string `json:"correctAnswer"`
	IsCorrect      bool   `json:"isCorrect"`
	PointsAwarded  int    `json:"pointsAwarded"`
	QuestionPoints int    `json:"questionPoints"`
	Explanation    string `json:"explanation,omitempty"`
}
