package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stemsi/exstem-client/internal/attempt"
	"github.com/stemsi/exstem-client/internal/model"
)

// AuthAPI is the part of the backend that signs accounts in.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*model.AuthResponse, error)
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)
}

// StudentAPI is the part of the backend a student uses.
type StudentAPI interface {
	attempt.ExamSource
	attempt.Submitter
	AvailableExams(ctx context.Context) ([]model.ExamSummary, error)
	StudentResults(ctx context.Context) ([]model.ExamResult, error)
	Result(ctx context.Context, resultID int64) (*model.ExamResult, error)
}

// Publisher receives every event of every hosted attempt.
type Publisher interface {
	Publish(id uuid.UUID, ev attempt.Event)
	Close(id uuid.UUID)
}
