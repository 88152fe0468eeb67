package quiz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// RemoteStore implements Store against the networked backend's HTTP API.
// Status codes from the server are mapped back onto the shared error kinds,
// so callers cannot tell it apart from the embedded store.
type RemoteStore struct {
	baseURL    string
	httpClient *http.Client
}

func NewRemoteStore(baseURL string, client *http.Client) *RemoteStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteStore{baseURL: strings.TrimSuffix(baseURL, "/"), httpClient: client}
}

// Close is a no-op; the underlying http.Client owns no per-store state.
func (r *RemoteStore) Close() error { return nil }

type loginRequest struct {
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Class string `json:"className"`
}

type saveTestRequest struct {
	StudentID  int64      `json:"studentId"`
	Topic      string     `json:"topic"`
	Complexity Complexity `json:"complexity"`
	Concepts   string     `json:"concepts"`
	Questions  []Question `json:"questions"`
}

type saveResultRequest struct {
	TestID   int64          `json:"testId"`
	Answers  map[int]string `json:"answers"`
	Score    int            `json:"score"`
	Feedback string         `json:"feedback"`
	Analysis Analysis       `json:"analysis"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (r *RemoteStore) Login(ctx context.Context, name string, age int, class string) (Student, error) {
	if err := validateLogin(name, age, class); err != nil {
		return Student{}, err
	}
	var st Student
	if err := r.post(ctx, "/login", loginRequest{Name: name, Age: age, Class: class}, &st); err != nil {
		return Student{}, fmt.Errorf("login: %w", err)
	}
	return st, nil
}

func (r *RemoteStore) SaveTest(ctx context.Context, studentID int64, topic string, complexity Complexity, concepts string, questions []Question) (int64, error) {
	if err := validateTest(topic, complexity, questions); err != nil {
		return 0, err
	}
	var resp idResponse
	req := saveTestRequest{StudentID: studentID, Topic: topic, Complexity: complexity, Concepts: concepts, Questions: questions}
	if err := r.post(ctx, "/tests", req, &resp); err != nil {
		return 0, fmt.Errorf("save test: %w", err)
	}
	return resp.ID, nil
}

func (r *RemoteStore) GetHistory(ctx context.Context, studentID int64) ([]HistoryEntry, error) {
	var out []HistoryEntry
	path := "/students/" + strconv.FormatInt(studentID, 10) + "/history"
	if err := r.get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	return out, nil
}

func (r *RemoteStore) SaveResult(ctx context.Context, testID int64, answers map[int]string, score int, feedback string, analysis Analysis) (int64, error) {
	if err := validateResult(score); err != nil {
		return 0, err
	}
	var resp idResponse
	req := saveResultRequest{TestID: testID, Answers: answers, Score: score, Feedback: feedback, Analysis: analysis}
	if err := r.post(ctx, "/results", req, &resp); err != nil {
		return 0, fmt.Errorf("save result: %w", err)
	}
	return resp.ID, nil
}

func (r *RemoteStore) post(ctx context.Context, path string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return r.do(req, out)
}

func (r *RemoteStore) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return err
	}
	return r.do(req, out)
}

func (r *RemoteStore) do(req *http.Request, out any) error {
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		msg := apiErr.Error
		if msg == "" {
			msg = "request failed with status " + strconv.Itoa(resp.StatusCode)
		}
		// Inverse of the server's writeStoreError mapping: the server only
		// uses 500 for corrupt stored data; everything unclassified comes
		// back as 503.
		switch resp.StatusCode {
		case http.StatusBadRequest:
			return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
		case http.StatusConflict:
			return fmt.Errorf("%w: %s", ErrConstraint, msg)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, msg)
		case http.StatusInternalServerError:
			return fmt.Errorf("%w: %s", ErrCorruptData, msg)
		default:
			return fmt.Errorf("%w: %s", ErrUnavailable, msg)
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrCorruptData, err)
	}
	return nil
}
