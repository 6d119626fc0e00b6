package exam

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/gradeworks/rubric-engine/internal/rubric"
)

type memoryStore struct {
	mu           sync.RWMutex
	exams        map[string]Exam
	questions    map[string]Question
	criteria     map[string]rubric.Criterion
	examCriteria map[string]rubric.ExamCriterion
}

// NewInMemoryStore backs the catalog with maps; handy for tests and demos.
func NewInMemoryStore() Store {
	return &memoryStore{
		exams:        map[string]Exam{},
		questions:    map[string]Question{},
		criteria:     map[string]rubric.Criterion{},
		examCriteria: map[string]rubric.ExamCriterion{},
	}
}

func (m *memoryStore) PutExam(_ context.Context, e Exam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.UUID == "" {
		e.UUID = uuid.NewString()
	}
	m.exams[e.UUID] = e
	return nil
}

func (m *memoryStore) GetExam(_ context.Context, id string) (Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.exams[id]
	if !ok {
		return Exam{}, ErrNotFound
	}
	return e, nil
}

func (m *memoryStore) ListExams(_ context.Context) ([]Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Exam, 0, len(m.exams))
	for _, e := range m.exams {
		out = append(out, e)
	}
	return out, nil
}

func (m *memoryStore) PutQuestion(_ context.Context, q Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q.UUID == "" {
		q.UUID = uuid.NewString()
	}
	m.questions[q.UUID] = q
	return nil
}

func (m *memoryStore) GetQuestion(_ context.Context, id string) (Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.questions[id]
	if !ok {
		return Question{}, ErrNotFound
	}
	return q, nil
}

func (m *memoryStore) ListQuestions(_ context.Context, examUUID string) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Question
	for _, q := range m.questions {
		if q.ExamUUID == examUUID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memoryStore) PutCriterion(_ context.Context, c rubric.Criterion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.UUID == "" {
		c.UUID = uuid.NewString()
	}
	m.criteria[c.UUID] = c
	return nil
}

func (m *memoryStore) ListCriteria(_ context.Context) ([]rubric.Criterion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]rubric.Criterion, 0, len(m.criteria))
	for _, c := range m.criteria {
		out = append(out, c)
	}
	return out, nil
}

func (m *memoryStore) UpsertExamCriterion(_ context.Context, ec rubric.ExamCriterion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, cur := range m.examCriteria {
		if cur.ExamUUID == ec.ExamUUID && cur.CriteriaUUID == ec.CriteriaUUID {
			ec.UUID = id
			m.examCriteria[id] = ec
			return nil
		}
	}
	if ec.UUID == "" {
		ec.UUID = uuid.NewString()
	}
	m.examCriteria[ec.UUID] = ec
	return nil
}

func (m *memoryStore) ListExamCriteria(_ context.Context, examUUID string) ([]rubric.ExamCriterion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []rubric.ExamCriterion
	for _, ec := range m.examCriteria {
		if ec.ExamUUID == examUUID {
			out = append(out, ec)
		}
	}
	return out, nil
}
