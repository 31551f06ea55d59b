package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rd-risk-mcp-server/internal/domain"
)

const sessionLockStripes = 64

// SessionStatus is the progress view of an in-progress questionnaire
type SessionStatus struct {
	Session  *domain.Session     `json:"session"`
	Visible  []domain.QuestionID `json:"visible"`
	Missing  []domain.QuestionID `json:"missing"`
	Complete bool                `json:"complete"`
}

// SessionService drives a questionnaire one answer at a time. Answers stay in the session store
// and are dropped on reset or expiry.
//
// Answers to follow-up questions are kept when their parent changes. A hidden follow-up is
// ignored by scoring and validation and becomes relevant again if the parent unlocks it.
type SessionService struct {
	logger     *logrus.Logger
	store      domain.SessionStore
	parser     *InputParserService
	assessment *AssessmentService
	now        func() time.Time

	// read-modify-write of one session is serialized by the stripe its id hashes to
	locks [sessionLockStripes]sync.Mutex
}

// NewSessionService creates a new session service
func NewSessionService(store domain.SessionStore, assessment *AssessmentService, logger *logrus.Logger) *SessionService {
	return &SessionService{
		logger:     logger,
		store:      store,
		parser:     NewInputParserService(assessment.Schema()),
		assessment: assessment,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Start opens a new empty session
func (s *SessionService) Start(ctx context.Context) (*domain.Session, error) {
	now := s.now()
	session := &domain.Session{
		ID:        uuid.New().String(),
		Answers:   domain.AnswerSet{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	s.logger.WithField("session_id", session.ID).Debug("Session started")
	return session, nil
}

// Get returns the session with the given id
func (s *SessionService) Get(ctx context.Context, id string) (*domain.Session, error) {
	return s.store.Get(ctx, id)
}

// SetAnswer validates raw against the question and stores it
func (s *SessionService) SetAnswer(ctx context.Context, id, question string, raw any) (*SessionStatus, error) {
	answer, err := s.parser.ParseAnswer(question, raw)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, id, func(answers domain.AnswerSet) domain.AnswerSet {
		return answers.With(domain.QuestionID(question), answer)
	})
}

// ClearAnswer removes a stored answer. Clearing an unanswered question is a no-op.
func (s *SessionService) ClearAnswer(ctx context.Context, id, question string) (*SessionStatus, error) {
	if !s.assessment.Schema().Has(domain.QuestionID(question)) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownQuestion, question)
	}
	return s.update(ctx, id, func(answers domain.AnswerSet) domain.AnswerSet {
		return answers.Without(domain.QuestionID(question))
	})
}

func (s *SessionService) lock(id string) func() {
	h := fnv.New32a()
	h.Write([]byte(id))
	mu := &s.locks[h.Sum32()%sessionLockStripes]
	mu.Lock()
	return mu.Unlock
}

func (s *SessionService) update(ctx context.Context, id string, fn func(domain.AnswerSet) domain.AnswerSet) (*SessionStatus, error) {
	defer s.lock(id)()

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := &domain.Session{
		ID:        session.ID,
		Answers:   fn(session.Answers),
		CreatedAt: session.CreatedAt,
		UpdatedAt: s.now(),
	}
	if err := s.store.Put(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return s.status(next), nil
}

// Status reports the visible questions and what is still missing
func (s *SessionService) Status(ctx context.Context, id string) (*SessionStatus, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.status(session), nil
}

func (s *SessionService) status(session *domain.Session) *SessionStatus {
	visible := []domain.QuestionID{}
	for _, q := range s.assessment.Schema().VisibleQuestions(session.Answers) {
		visible = append(visible, q.ID)
	}
	missing := s.assessment.MissingRequired(session.Answers)
	return &SessionStatus{
		Session:  session,
		Visible:  visible,
		Missing:  missing,
		Complete: len(missing) == 0,
	}
}

// Evaluate runs the assessment on the session's answers. The session is left untouched.
func (s *SessionService) Evaluate(ctx context.Context, id string) (*domain.AssessmentOutcome, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.assessment.Evaluate(ctx, session.Answers)
}

// Reset discards the session and opens a fresh one with a new id
func (s *SessionService) Reset(ctx context.Context, id string) (*domain.Session, error) {
	if err := s.discard(ctx, id); err != nil {
		return nil, err
	}
	s.logger.WithField("session_id", id).Debug("Session reset")
	return s.Start(ctx)
}

func (s *SessionService) discard(ctx context.Context, id string) error {
	defer s.lock(id)()

	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to discard session: %w", err)
	}
	return nil
}
