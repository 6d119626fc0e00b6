package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gradeworks/rubric-engine/internal/exam"
	"github.com/gradeworks/rubric-engine/internal/rubric"
)

// POST /exams
func CreateExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var e exam.Exam
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(e.Title) == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		if err := store.PutExam(r.Context(), e); err != nil {
			http.Error(w, "save exam: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

// GET /exams
func ListExamsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exams, err := store.ListExams(r.Context())
		if err != nil {
			http.Error(w, "list exams: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(exams)
	}
}

// GET /exams/{examUUID}
func GetExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "examUUID")
		e, err := store.GetExam(r.Context(), id)
		if err != nil {
			if errors.Is(err, exam.ErrNotFound) {
				http.Error(w, "exam not found", http.StatusNotFound)
				return
			}
			http.Error(w, "get exam: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(e)
	}
}

// POST /exams/{examUUID}/questions
func CreateQuestionHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q exam.Question
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		q.ExamUUID = chi.URLParam(r, "examUUID")
		if strings.TrimSpace(q.Statement) == "" {
			http.Error(w, "statement required", http.StatusBadRequest)
			return
		}
		if err := store.PutQuestion(r.Context(), q); err != nil {
			http.Error(w, "save question: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

// GET /exams/{examUUID}/questions
func ListQuestionsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs, err := store.ListQuestions(r.Context(), chi.URLParam(r, "examUUID"))
		if err != nil {
			http.Error(w, "list questions: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(qs)
	}
}

// GET /criteria
func ListCriteriaHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cs, err := store.ListCriteria(r.Context())
		if err != nil {
			http.Error(w, "list criteria: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(cs)
	}
}

// POST /criteria
func CreateCriterionHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c rubric.Criterion
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(c.Code) == "" || strings.TrimSpace(c.Name) == "" {
			http.Error(w, "code and name required", http.StatusBadRequest)
			return
		}
		if err := store.PutCriterion(r.Context(), c); err != nil {
			http.Error(w, "save criterion: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

// PUT /exams/{examUUID}/criteria — replace the exam-wide defaults.
func PutExamCriteriaHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examUUID := chi.URLParam(r, "examUUID")
		var in []rubric.ExamCriterion
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		for i := range in {
			in[i].ExamUUID = examUUID
			if err := store.UpsertExamCriterion(r.Context(), in[i]); err != nil {
				http.Error(w, "save exam criterion: "+err.Error(), http.StatusInternalServerError)
				return
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /exams/{examUUID}/criteria
func ListExamCriteriaHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ecs, err := store.ListExamCriteria(r.Context(), chi.URLParam(r, "examUUID"))
		if err != nil {
			http.Error(w, "list exam criteria: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(ecs)
	}
}
