package model

// ExamStatus enumerates the publication states reported by the backend.
type ExamStatus string

const (
	ExamStatusDraft     ExamStatus = "DRAFT"
	ExamStatusPublished ExamStatus = "PUBLISHED"
	ExamStatusCompleted ExamStatus = "COMPLETED"
)

// ExamSummary is an exam as listed on the student's exam page (no questions).
// Start and end times are kept as the backend's zone-less local timestamps.
type ExamSummary struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Duration      int        `json:"duration"`
	TotalMarks    int        `json:"totalMarks"`
	PassingMarks  int        `json:"passingMarks"`
	Status        ExamStatus `json:"status"`
	StartTime     *string    `json:"startTime"`
	EndTime       *string    `json:"endTime"`
	Available     bool       `json:"available"`
	CreatedBy     string     `json:"createdBy"`
	QuestionCount int        `json:"questionCount"`
}

// ExamDefinition is the exam served for an attempt. Duration is in minutes.
type ExamDefinition struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Duration    int        `json:"duration"`
	Questions   []Question `json:"questions"`
}

// DurationSeconds returns the attempt length in seconds, never negative.
func (e *ExamDefinition) DurationSeconds() int {
	if e.Duration <= 0 {
		return 0
	}
	return e.Duration * 60
}

// HasQuestion reports whether id belongs to the exam.
func (e *ExamDefinition) HasQuestion(id int64) bool {
	for i := range e.Questions {
		if e.Questions[i].ID == id {
			return true
		}
	}
	return false
}
