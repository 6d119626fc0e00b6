package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gradeworks/rubric-engine/internal/audit"
	"github.com/gradeworks/rubric-engine/internal/exam"
	"github.com/gradeworks/rubric-engine/internal/rubric"
)

type overridePayload struct {
	UUID      string   `json:"uuid,omitempty"`
	Criteria  string   `json:"criteria_uuid"`
	Weight    *float64 `json:"weight_override,omitempty"`
	MaxPoints *float64 `json:"max_points_override,omitempty"`
	Active    bool     `json:"active"`
}

type answerPayload struct {
	UUID        string `json:"uuid,omitempty"`
	StudentUUID string `json:"student_uuid"`
	Text        string `json:"answer_text"`
}

type saveRubricReq struct {
	AutoDistribute bool              `json:"auto_distribute"`
	Overrides      []overridePayload `json:"overrides"`
	Answers        []answerPayload   `json:"answers"`
}

type saveRubricResp struct {
	Outcomes []rubric.OpOutcome `json:"outcomes"`
	Error    string             `json:"error,omitempty"`
}

// GET /questions/{questionUUID}/rubric — merged classified view of the
// persisted state.
func GetQuestionRubricHandler(store exam.Store, engine *rubric.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		questionUUID := chi.URLParam(r, "questionUUID")
		q, err := store.GetQuestion(r.Context(), questionUUID)
		if err != nil {
			if errors.Is(err, exam.ErrNotFound) {
				http.Error(w, "question not found", http.StatusNotFound)
				return
			}
			http.Error(w, "get question: "+err.Error(), http.StatusInternalServerError)
			return
		}
		criteria, err := store.ListCriteria(r.Context())
		if err != nil {
			http.Error(w, "list criteria: "+err.Error(), http.StatusInternalServerError)
			return
		}
		examCriteria, err := store.ListExamCriteria(r.Context(), q.ExamUUID)
		if err != nil {
			http.Error(w, "list exam criteria: "+err.Error(), http.StatusInternalServerError)
			return
		}
		s, err := engine.Begin(r.Context(), questionUUID, examCriteria, false)
		if err != nil {
			http.Error(w, "load rubric: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(s.Rows(criteria))
	}
}

// PUT /questions/{questionUUID}/rubric — submit an edited working set. The
// server snapshots the persisted baseline, swaps in the submitted working
// copy, reconciles, and plays the operation batch through the gateway. The
// response always carries the per-operation outcomes so the client can tell
// how far a failed commit got before stopping.
func SaveQuestionRubricHandler(store exam.Store, engine *rubric.Engine, events *audit.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		questionUUID := chi.URLParam(r, "questionUUID")
		q, err := store.GetQuestion(r.Context(), questionUUID)
		if err != nil {
			if errors.Is(err, exam.ErrNotFound) {
				http.Error(w, "question not found", http.StatusNotFound)
				return
			}
			http.Error(w, "get question: "+err.Error(), http.StatusInternalServerError)
			return
		}
		var req saveRubricReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}

		examCriteria, err := store.ListExamCriteria(r.Context(), q.ExamUUID)
		if err != nil {
			http.Error(w, "list exam criteria: "+err.Error(), http.StatusInternalServerError)
			return
		}
		s, err := engine.Begin(r.Context(), questionUUID, examCriteria, false)
		if err != nil {
			http.Error(w, "begin session: "+err.Error(), http.StatusInternalServerError)
			return
		}
		s.ReplaceWorking(toOverrides(questionUUID, req.Overrides), toAnswers(req.Answers), req.AutoDistribute)

		outcomes, err := s.Commit(r.Context())
		if outcomes == nil {
			outcomes = []rubric.OpOutcome{}
		}
		switch {
		case err == nil:
			if aerr := events.Append(r.Context(), audit.TypeRubricCommitted, questionUUID, outcomes); aerr != nil {
				log.Printf("audit append failed: %v", aerr)
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(saveRubricResp{Outcomes: outcomes})
		default:
			var verr *rubric.ValidationError
			if errors.As(err, &verr) {
				http.Error(w, verr.Error(), http.StatusUnprocessableEntity)
				return
			}
			// Partial commit: some operations are already applied remotely.
			// The client is expected to reload the question.
			if aerr := events.Append(r.Context(), audit.TypeCommitFailed, questionUUID, outcomes); aerr != nil {
				log.Printf("audit append failed: %v", aerr)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(saveRubricResp{Outcomes: outcomes, Error: err.Error()})
		}
	}
}

// GET /questions/{questionUUID}/answers
func ListAnswersHandler(gw rubric.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		answers, err := gw.ListAnswers(r.Context(), chi.URLParam(r, "questionUUID"))
		if err != nil {
			http.Error(w, "list answers: "+err.Error(), http.StatusInternalServerError)
			return
		}
		out := make([]answerPayload, 0, len(answers))
		for _, a := range answers {
			out = append(out, answerPayload{UUID: a.Ref.ID(), StudentUUID: a.StudentUUID, Text: a.Text})
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

func toOverrides(questionUUID string, in []overridePayload) []rubric.Override {
	out := make([]rubric.Override, 0, len(in))
	for _, p := range in {
		out = append(out, rubric.Override{
			UUID:         p.UUID,
			QuestionUUID: questionUUID,
			CriteriaUUID: p.Criteria,
			Weight:       p.Weight,
			MaxPoints:    p.MaxPoints,
			Active:       p.Active,
		})
	}
	return out
}

func toAnswers(in []answerPayload) []rubric.Answer {
	out := make([]rubric.Answer, 0, len(in))
	for _, p := range in {
		ref := rubric.PersistedRef(p.UUID)
		if p.UUID == "" {
			ref = rubric.LocalRef(uuid.NewString())
		}
		out = append(out, rubric.Answer{Ref: ref, StudentUUID: p.StudentUUID, Text: p.Text})
	}
	return out
}
