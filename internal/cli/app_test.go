package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sarikapunglia/Dronacharya/internal/genai"
	"github.com/sarikapunglia/Dronacharya/internal/quiz"
	"github.com/sarikapunglia/Dronacharya/internal/session"
)

// scriptStore is an in-memory Store whose GetHistory can be told to start
// failing after a number of successful calls.
type scriptStore struct {
	historyCalls     int
	historyFailAfter int
}

func (s *scriptStore) Login(ctx context.Context, name string, age int, class string) (quiz.Student, error) {
	return quiz.Student{ID: 1, Name: name, Age: age, Class: class}, nil
}

func (s *scriptStore) SaveTest(ctx context.Context, studentID int64, topic string, complexity quiz.Complexity, concepts string, questions []quiz.Question) (int64, error) {
	return 1, nil
}

func (s *scriptStore) GetHistory(ctx context.Context, studentID int64) ([]quiz.HistoryEntry, error) {
	s.historyCalls++
	if s.historyFailAfter > 0 && s.historyCalls > s.historyFailAfter {
		return nil, quiz.ErrUnavailable
	}
	return []quiz.HistoryEntry{}, nil
}

func (s *scriptStore) SaveResult(ctx context.Context, testID int64, answers map[int]string, score int, feedback string, analysis quiz.Analysis) (int64, error) {
	return 1, nil
}

func (s *scriptStore) Close() error { return nil }

type scriptService struct{}

func (scriptService) GenerateQuestions(ctx context.Context, st quiz.Student, topic string, complexity quiz.Complexity, concepts string, count int) ([]quiz.Question, error) {
	return []quiz.Question{
		{ID: 1, Question: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4", Explanation: "count"},
	}, nil
}

func (scriptService) Evaluate(ctx context.Context, st quiz.Student, questions []quiz.Question, answers map[int]string) (genai.Evaluation, error) {
	return genai.Evaluation{Score: 50, Feedback: "Half right", Analysis: quiz.Analysis{}}, nil
}

func runScript(t *testing.T, store quiz.Store, lines ...string) string {
	t.Helper()

	ctrl := session.New(store, scriptService{})
	input := strings.Join(lines, "\n") + "\n"
	var out bytes.Buffer
	if err := Run(context.Background(), strings.NewReader(input), &out, ctrl); err != nil {
		t.Fatalf("Run failed: %v\noutput:\n%s", err, out.String())
	}
	return out.String()
}

func TestAnswerFlowPrintsScore(t *testing.T) {
	out := runScript(t, &scriptStore{},
		"Ann", "10", "5th",
		"new", "Math", "", "",
		"answer", "B",
		"exit",
	)

	if !strings.Contains(out, "Score: 50/100") {
		t.Fatalf("score not shown:\n%s", out)
	}
	if !strings.Contains(out, "Half right") {
		t.Fatalf("feedback not shown:\n%s", out)
	}
}

func TestAnswerShowsScoreWhenHistoryRefreshFails(t *testing.T) {
	// The login-time history load succeeds; the post-submit refresh fails.
	store := &scriptStore{historyFailAfter: 1}
	out := runScript(t, store,
		"Ann", "10", "5th",
		"new", "Math", "", "",
		"answer", "B",
		"exit",
	)

	if strings.Contains(out, "Submission failed") {
		t.Fatalf("saved result reported as failed submission:\n%s", out)
	}
	if !strings.Contains(out, "Score: 50/100") {
		t.Fatalf("score not shown despite the result being saved:\n%s", out)
	}
	if !strings.Contains(out, "history could not be refreshed") {
		t.Fatalf("missing stale-history notice:\n%s", out)
	}
}
