package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-client/internal/attempt"
	"github.com/stemsi/exstem-client/internal/roles"
	"github.com/stemsi/exstem-client/internal/worker"
)

// ErrAttemptNotFound is returned for an unknown attempt id.
var ErrAttemptNotFound = errors.New("attempt not found")

// Session is one hosted attempt.
type Session struct {
	ID        uuid.UUID
	ExamID    int64
	StartedAt time.Time

	ctrl   *attempt.Controller
	cancel context.CancelFunc
	nav    *navigator
}

// Controller returns the attempt's controller.
func (s *Session) Controller() *attempt.Controller { return s.ctrl }

// Destination returns the page the attempt last asked the UI to open, or "".
func (s *Session) Destination() string { return s.nav.get() }

// navigator records hand-offs so the HTTP surface can report them.
type navigator struct {
	mu       sync.Mutex
	dest     string
	onResult func()
}

func (n *navigator) ToResult(id int64) {
	n.set(roles.ResultPath(id))
	if n.onResult != nil {
		n.onResult()
	}
}

func (n *navigator) ToExamList() { n.set(roles.PathExamList) }

func (n *navigator) set(dest string) {
	n.mu.Lock()
	n.dest = dest
	n.mu.Unlock()
}

func (n *navigator) get() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dest
}

// DefaultRetention is how long a submitted attempt stays readable.
const DefaultRetention = 5 * time.Minute

// AttemptOption configures an AttemptService.
type AttemptOption func(*AttemptService)

// WithRetention sets how long a submitted attempt is kept before it is
// released. A non-positive d releases it right after submission.
func WithRetention(d time.Duration) AttemptOption {
	return func(s *AttemptService) { s.retention = d }
}

// AttemptService hosts in-memory attempts, each with its own clock worker.
// Submitted attempts are released after the retention period.
type AttemptService struct {
	api       StudentAPI
	pub       Publisher
	tick      time.Duration
	retention time.Duration
	log       zerolog.Logger

	root     context.Context
	stop     context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewAttemptService creates a new AttemptService. pub may be nil.
func NewAttemptService(api StudentAPI, pub Publisher, tick time.Duration, log zerolog.Logger, opts ...AttemptOption) *AttemptService {
	root, stop := context.WithCancel(context.Background())
	s := &AttemptService{
		api:       api,
		pub:       pub,
		tick:      tick,
		retention: DefaultRetention,
		log:       log.With().Str("component", "attempt_service").Logger(),
		root:      root,
		stop:      stop,
		sessions:  make(map[uuid.UUID]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads examID into a new attempt and starts its clock. On a load
// error nothing is registered and no clock runs.
func (s *AttemptService) Start(ctx context.Context, examID int64) (*Session, error) {
	id := uuid.New()
	sess := &Session{ID: id, ExamID: examID, StartedAt: time.Now().UTC(), nav: &navigator{}}
	sess.nav.onResult = func() { s.retire(id) }

	sess.ctrl = attempt.New(s.api, s.api,
		attempt.WithNavigator(sess.nav),
		attempt.WithLogger(s.log.With().Str("attempt_id", id.String()).Logger()),
		attempt.WithListener(func(ev attempt.Event) {
			if s.pub != nil {
				s.pub.Publish(id, ev)
			}
		}),
	)
	if err := sess.ctrl.Load(ctx, examID); err != nil {
		return nil, err
	}

	workerCtx, cancel := context.WithCancel(s.root)
	sess.cancel = cancel

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		worker.NewClockWorker(sess.ctrl, s.tick, s.log).Start(workerCtx)
	}()

	s.log.Info().Str("attempt_id", id.String()).Int64("exam_id", examID).Msg("Attempt hosted")
	return sess, nil
}

// Get returns the attempt with id.
func (s *AttemptService) Get(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	return sess, nil
}

// Count returns the number of hosted attempts.
func (s *AttemptService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Submit is the user's submit action. A submission already in flight or
// done makes this a no-op; a failed one is retried.
func (s *AttemptService) Submit(ctx context.Context, id uuid.UUID) (attempt.Snapshot, error) {
	sess, err := s.Get(id)
	if err != nil {
		return attempt.Snapshot{}, err
	}
	_, err = sess.ctrl.RequestSubmit(ctx, attempt.TriggerManual)
	return sess.ctrl.Snapshot(), err
}

// Discard stops and forgets the attempt without submitting it. A
// submission already in flight still runs to completion.
func (s *AttemptService) Discard(id uuid.UUID) error {
	sess, ok := s.release(id)
	if !ok {
		return ErrAttemptNotFound
	}
	sess.ctrl.Abandon()
	s.log.Info().Str("attempt_id", id.String()).Msg("Attempt discarded")
	return nil
}

// retire schedules a submitted attempt for release.
func (s *AttemptService) retire(id uuid.UUID) {
	if s.retention <= 0 {
		s.evict(id)
		return
	}
	time.AfterFunc(s.retention, func() { s.evict(id) })
}

func (s *AttemptService) evict(id uuid.UUID) {
	if _, ok := s.release(id); ok {
		s.log.Debug().Str("attempt_id", id.String()).Msg("Submitted attempt released")
	}
}

// release unregisters the attempt, stops its worker and closes its streams.
func (s *AttemptService) release(id uuid.UUID) (*Session, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	sess.cancel()
	if s.pub != nil {
		s.pub.Close(id)
	}
	return sess, true
}

// Shutdown stops every clock and waits for the workers to exit; a worker
// inside a timeout submission exits once the call returns.
func (s *AttemptService) Shutdown() {
	s.stop()
	s.wg.Wait()
}
