package exam

import (
	"context"

	"github.com/gradeworks/rubric-engine/internal/rubric"
)

// Store is the exam/question/criteria catalog. Criteria rows are reference
// data; exam criteria are the exam-wide defaults the weight distributor
// normalizes against.
type Store interface {
	PutExam(ctx context.Context, e Exam) error
	GetExam(ctx context.Context, uuid string) (Exam, error)
	ListExams(ctx context.Context) ([]Exam, error)

	PutQuestion(ctx context.Context, q Question) error
	GetQuestion(ctx context.Context, uuid string) (Question, error)
	ListQuestions(ctx context.Context, examUUID string) ([]Question, error)

	PutCriterion(ctx context.Context, c rubric.Criterion) error
	ListCriteria(ctx context.Context) ([]rubric.Criterion, error)

	UpsertExamCriterion(ctx context.Context, ec rubric.ExamCriterion) error
	ListExamCriteria(ctx context.Context, examUUID string) ([]rubric.ExamCriterion, error)
}
