package quiz_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strconv"
	"testing"

	api "github.com/sarikapunglia/Dronacharya/internal/api/http"
	"github.com/sarikapunglia/Dronacharya/internal/db"
	"github.com/sarikapunglia/Dronacharya/internal/quiz"
)

// newRemoteStore stands up the real networked backend (router over a sqlite
// store) and returns a RemoteStore speaking to it over the wire, plus the
// backing database handle for tests that need to tamper with stored rows.
// The point of these tests is backend parity: the same operations must
// behave the same through HTTP as they do in-process.
func newRemoteStore(t *testing.T) (*quiz.RemoteStore, *sql.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "server.db")
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	backend := quiz.NewSQLStore(dbh, db.DriverSQLite)

	srv := httptest.NewServer(api.NewRouter(backend, nil))
	t.Cleanup(func() {
		srv.Close()
		_ = backend.Close()
	})
	return quiz.NewRemoteStore(srv.URL, srv.Client()), dbh
}

func TestRemoteStoreEndToEndParity(t *testing.T) {
	store, _ := newRemoteStore(t)
	ctx := context.Background()

	st, err := store.Login(ctx, "Sam", 9, "4th")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if st.ID != 1 || st.Name != "Sam" || st.Age != 9 || st.Class != "4th" {
		t.Fatalf("unexpected student: %+v", st)
	}

	again, err := store.Login(ctx, "Sam", 9, "4th")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	if again.ID != st.ID {
		t.Fatalf("login not idempotent over the wire: %d vs %d", again.ID, st.ID)
	}

	questions := []quiz.Question{{
		ID:            1,
		Question:      "1/2+1/4=?",
		Options:       []string{"1/4", "3/4", "1/2", "1"},
		CorrectAnswer: "3/4",
		Explanation:   "Convert to quarters first.",
	}}
	testID, err := store.SaveTest(ctx, st.ID, "Fractions", quiz.ComplexityEasy, "", questions)
	if err != nil {
		t.Fatalf("SaveTest failed: %v", err)
	}
	if testID != 1 {
		t.Fatalf("expected test id 1, got %d", testID)
	}

	// Before a result exists the joined fields must come back null, and the
	// row must not be omitted.
	history, err := store.GetHistory(ctx, st.ID)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(history))
	}
	if history[0].Score != nil || history[0].Feedback != nil || history[0].Analysis != nil || history[0].CompletedAt != nil {
		t.Fatalf("expected null result fields, got %+v", history[0])
	}
	if !reflect.DeepEqual(history[0].Questions, questions) {
		t.Fatalf("questions did not survive the wire: %+v", history[0].Questions)
	}

	analysis := quiz.Analysis{Strengths: []string{"fractions"}, Weaknesses: []string{}, Suggestions: []string{}}
	resultID, err := store.SaveResult(ctx, testID, map[int]string{1: "3/4"}, 100, "Great job!", analysis)
	if err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}
	if resultID != 1 {
		t.Fatalf("expected result id 1, got %d", resultID)
	}

	history, err = store.GetHistory(ctx, st.ID)
	if err != nil {
		t.Fatalf("GetHistory after result failed: %v", err)
	}
	e := history[0]
	if e.Score == nil || *e.Score != 100 {
		t.Fatalf("score over the wire: got %v", e.Score)
	}
	if e.Feedback == nil || *e.Feedback != "Great job!" {
		t.Fatalf("feedback over the wire: got %v", e.Feedback)
	}
	if e.Analysis == nil || !reflect.DeepEqual(*e.Analysis, analysis) {
		t.Fatalf("analysis over the wire: got %+v", e.Analysis)
	}
}

func TestRemoteStoreMapsConstraintErrors(t *testing.T) {
	store, _ := newRemoteStore(t)
	ctx := context.Background()

	_, err := store.SaveResult(ctx, 9999, map[int]string{1: "x"}, 10, "", quiz.Analysis{})
	if !errors.Is(err, quiz.ErrConstraint) {
		t.Fatalf("expected ErrConstraint through the wire, got %v", err)
	}
}

func TestRemoteStoreRejectsInvalidInput(t *testing.T) {
	store, _ := newRemoteStore(t)
	ctx := context.Background()

	if _, err := store.Login(ctx, "", 7, "2nd"); !errors.Is(err, quiz.ErrInvalidInput) {
		t.Fatalf("empty name: expected ErrInvalidInput, got %v", err)
	}
	if _, err := store.Login(ctx, "Tia", 2, "KG"); !errors.Is(err, quiz.ErrInvalidInput) {
		t.Fatalf("age below minimum: expected ErrInvalidInput, got %v", err)
	}
	if _, err := store.SaveTest(ctx, 1, "", quiz.ComplexityEasy, "", []quiz.Question{{ID: 1}}); !errors.Is(err, quiz.ErrInvalidInput) {
		t.Fatalf("empty topic: expected ErrInvalidInput, got %v", err)
	}
	if _, err := store.SaveResult(ctx, 1, nil, 101, "", quiz.Analysis{}); !errors.Is(err, quiz.ErrInvalidInput) {
		t.Fatalf("score out of range: expected ErrInvalidInput, got %v", err)
	}
}

// Invalid input is rejected with the same kind even when the server cannot
// be reached, matching the embedded store which has no server at all.
func TestRemoteStoreRejectsInvalidInputBeforeDialing(t *testing.T) {
	store := quiz.NewRemoteStore("http://127.0.0.1:1", nil)

	_, err := store.Login(context.Background(), "", 7, "2nd")
	if !errors.Is(err, quiz.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRemoteStoreSurfacesCorruptData(t *testing.T) {
	store, dbh := newRemoteStore(t)
	ctx := context.Background()

	st, err := store.Login(ctx, "Sam", 9, "4th")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	testID, err := store.SaveTest(ctx, st.ID, "Fractions", quiz.ComplexityEasy, "", []quiz.Question{{
		ID: 1, Question: "1/2+1/4=?", CorrectAnswer: "3/4",
	}})
	if err != nil {
		t.Fatalf("SaveTest failed: %v", err)
	}
	if _, err := dbh.ExecContext(ctx, `UPDATE tests SET questions_json='not-json' WHERE id=$1`, testID); err != nil {
		t.Fatalf("corrupting row failed: %v", err)
	}

	if _, err := store.GetHistory(ctx, st.ID); !errors.Is(err, quiz.ErrCorruptData) {
		t.Fatalf("expected ErrCorruptData through the wire, got %v", err)
	}
}

func TestRemoteStoreStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, quiz.ErrInvalidInput},
		{http.StatusConflict, quiz.ErrConstraint},
		{http.StatusNotFound, quiz.ErrNotFound},
		{http.StatusInternalServerError, quiz.ErrCorruptData},
		{http.StatusServiceUnavailable, quiz.ErrUnavailable},
		{http.StatusTeapot, quiz.ErrUnavailable},
	}
	for _, tc := range cases {
		t.Run(strconv.Itoa(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				fmt.Fprint(w, `{"error":"boom"}`)
			}))
			defer srv.Close()

			store := quiz.NewRemoteStore(srv.URL, srv.Client())
			_, err := store.GetHistory(context.Background(), 1)
			if !errors.Is(err, tc.want) {
				t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
			}
		})
	}
}

func TestRemoteStoreUnreachableServer(t *testing.T) {
	store := quiz.NewRemoteStore("http://127.0.0.1:1", nil)

	_, err := store.Login(context.Background(), "Sam", 9, "4th")
	if !errors.Is(err, quiz.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
