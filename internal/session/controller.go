package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/sarikapunglia/Dronacharya/internal/genai"
	"github.com/sarikapunglia/Dronacharya/internal/quiz"
)

// State of one student session. Evaluation does not get its own resting
// state: a successful submit lands back in StateAuthenticated with
// refreshed history.
type State string

const (
	StateLoggedOut       State = "logged_out"
	StateAuthenticated   State = "authenticated"
	StateTestGenerated   State = "test_generated"
	StateAwaitingAnswers State = "awaiting_answers"
)

var (
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrNothingGenerated  = errors.New("generation service returned no questions")

	// ErrStaleHistory marks a submit whose result was persisted but whose
	// follow-up history refresh failed. The evaluation returned alongside
	// it is valid; only the cached history is out of date.
	ErrStaleHistory = errors.New("result saved but history refresh failed")
)

// QuestionService is the external generation/evaluation collaborator.
type QuestionService interface {
	GenerateQuestions(ctx context.Context, st quiz.Student, topic string, complexity quiz.Complexity, concepts string, count int) ([]quiz.Question, error)
	Evaluate(ctx context.Context, st quiz.Student, questions []quiz.Question, answers map[int]string) (genai.Evaluation, error)
}

const questionsPerTest = 10

// Controller drives one student session: login, generation, answer capture,
// evaluation, history. Every failed transition leaves the prior state
// untouched so the caller can retry without losing entered data. Calls are
// sequential; Controller is not safe for concurrent use.
type Controller struct {
	store quiz.Store
	svc   QuestionService

	state   State
	student quiz.Student
	test    *quiz.Test
	answers map[int]string
	history []quiz.HistoryEntry
}

func New(store quiz.Store, svc QuestionService) *Controller {
	return &Controller{store: store, svc: svc, state: StateLoggedOut}
}

func (c *Controller) State() State                 { return c.state }
func (c *Controller) Student() quiz.Student        { return c.student }
func (c *Controller) CurrentTest() *quiz.Test      { return c.test }
func (c *Controller) History() []quiz.HistoryEntry { return c.history }

func (c *Controller) Login(ctx context.Context, name string, age int, class string) error {
	if c.state != StateLoggedOut {
		return fmt.Errorf("%w: login from %s", ErrInvalidTransition, c.state)
	}
	st, err := c.store.Login(ctx, name, age, class)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	hist, err := c.store.GetHistory(ctx, st.ID)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	c.student = st
	c.history = hist
	c.state = StateAuthenticated
	return nil
}

func (c *Controller) GenerateTest(ctx context.Context, topic string, complexity quiz.Complexity, concepts string) (*quiz.Test, error) {
	if c.state != StateAuthenticated {
		return nil, fmt.Errorf("%w: generate from %s", ErrInvalidTransition, c.state)
	}
	questions, err := c.svc.GenerateQuestions(ctx, c.student, topic, complexity, concepts, questionsPerTest)
	if err != nil {
		return nil, fmt.Errorf("generate test: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNothingGenerated
	}
	id, err := c.store.SaveTest(ctx, c.student.ID, topic, complexity, concepts, questions)
	if err != nil {
		return nil, fmt.Errorf("generate test: %w", err)
	}
	c.test = &quiz.Test{
		ID:         id,
		StudentID:  c.student.ID,
		Topic:      topic,
		Complexity: complexity,
		Concepts:   concepts,
		Questions:  questions,
	}
	c.answers = map[int]string{}
	c.state = StateTestGenerated
	return c.test, nil
}

// Begin moves to answer capture. Pure presentation transition, no backend
// call; printing the test instead is equally valid from StateTestGenerated.
func (c *Controller) Begin() error {
	if c.state != StateTestGenerated {
		return fmt.Errorf("%w: begin from %s", ErrInvalidTransition, c.state)
	}
	c.state = StateAwaitingAnswers
	return nil
}

// SetAnswer records the student's answer for one question. Partial answer
// sets are allowed; Submit evaluates whatever is present.
func (c *Controller) SetAnswer(questionID int, answer string) error {
	if c.state != StateAwaitingAnswers {
		return fmt.Errorf("%w: answer from %s", ErrInvalidTransition, c.state)
	}
	c.answers[questionID] = answer
	return nil
}

func (c *Controller) Submit(ctx context.Context) (genai.Evaluation, error) {
	if c.state != StateAwaitingAnswers {
		return genai.Evaluation{}, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, c.state)
	}
	ev, err := c.svc.Evaluate(ctx, c.student, c.test.Questions, c.answers)
	if err != nil {
		return genai.Evaluation{}, fmt.Errorf("evaluate: %w", err)
	}
	if _, err := c.store.SaveResult(ctx, c.test.ID, c.answers, ev.Score, ev.Feedback, ev.Analysis); err != nil {
		return genai.Evaluation{}, fmt.Errorf("save result: %w", err)
	}

	// The result is persisted at this point, so the session returns to the
	// authenticated state even if the history refresh fails; the caller
	// gets the evaluation either way and can re-request history.
	c.test = nil
	c.answers = nil
	c.state = StateAuthenticated

	hist, err := c.store.GetHistory(ctx, c.student.ID)
	if err != nil {
		return ev, fmt.Errorf("%w: %v", ErrStaleHistory, err)
	}
	c.history = hist
	return ev, nil
}

// RefreshHistory re-reads the student's history from the bound backend.
func (c *Controller) RefreshHistory(ctx context.Context) ([]quiz.HistoryEntry, error) {
	if c.state == StateLoggedOut {
		return nil, fmt.Errorf("%w: history from %s", ErrInvalidTransition, c.state)
	}
	hist, err := c.store.GetHistory(ctx, c.student.ID)
	if err != nil {
		return nil, fmt.Errorf("refresh history: %w", err)
	}
	c.history = hist
	return hist, nil
}

// Logout discards all in-memory test and answer state unconditionally.
// Valid from any state.
func (c *Controller) Logout() {
	c.state = StateLoggedOut
	c.student = quiz.Student{}
	c.test = nil
	c.answers = nil
	c.history = nil
}
