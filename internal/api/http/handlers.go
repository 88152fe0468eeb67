package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/sarikapunglia/Dronacharya/internal/quiz"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type loginRequest struct {
	Name  string `json:"name" validate:"required"`
	Age   int    `json:"age" validate:"required,gte=3,lte=120"`
	Class string `json:"className" validate:"required"`
}

type createTestRequest struct {
	StudentID  int64           `json:"studentId" validate:"required"`
	Topic      string          `json:"topic" validate:"required"`
	Complexity quiz.Complexity `json:"complexity" validate:"required,oneof=Easy Medium Hard"`
	Concepts   string          `json:"concepts"`
	Questions  []quiz.Question `json:"questions" validate:"required,min=1"`
}

type createResultRequest struct {
	TestID   int64          `json:"testId" validate:"required"`
	Answers  map[int]string `json:"answers"`
	Score    int            `json:"score" validate:"gte=0,lte=100"`
	Feedback string         `json:"feedback"`
	Analysis quiz.Analysis  `json:"analysis"`
}

func LoginHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad json"})
			return
		}
		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		st, err := store.Login(r.Context(), req.Name, req.Age, req.Class)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func CreateTestHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad json"})
			return
		}
		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		id, err := store.SaveTest(r.Context(), req.StudentID, req.Topic, req.Complexity, req.Concepts, req.Questions)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, idResponse{ID: id})
	}
}

func HistoryHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID, err := strconv.ParseInt(chi.URLParam(r, "studentID"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "student id must be an integer"})
			return
		}
		history, err := store.GetHistory(r.Context(), studentID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, history)
	}
}

func CreateResultHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createResultRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad json"})
			return
		}
		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		id, err := store.SaveResult(r.Context(), req.TestID, req.Answers, req.Score, req.Feedback, req.Analysis)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, idResponse{ID: id})
	}
}

func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
