package exam

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gradeworks/rubric-engine/internal/rubric"
)

var ErrNotFound = errors.New("not found")

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutExam(ctx context.Context, e Exam) error {
	if e.UUID == "" {
		e.UUID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exams (uuid,title,created_at) VALUES ($1,$2,$3)
		 ON CONFLICT (uuid) DO UPDATE SET title=EXCLUDED.title`,
		e.UUID, e.Title, time.Now().Unix())
	return err
}

func (s *SQLStore) GetExam(ctx context.Context, id string) (Exam, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT uuid,title,created_at FROM exams WHERE uuid=$1`, id)
	var e Exam
	if err := row.Scan(&e.UUID, &e.Title, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Exam{}, ErrNotFound
		}
		return Exam{}, err
	}
	return e, nil
}

func (s *SQLStore) ListExams(ctx context.Context) ([]Exam, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT uuid,title,created_at FROM exams ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Exam
	for rows.Next() {
		var e Exam
		if err := rows.Scan(&e.UUID, &e.Title, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutQuestion(ctx context.Context, q Question) error {
	if q.UUID == "" {
		q.UUID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO questions (uuid,exam_uuid,statement,position,created_at)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (uuid) DO UPDATE SET statement=EXCLUDED.statement, position=EXCLUDED.position`,
		q.UUID, q.ExamUUID, q.Statement, q.Position, time.Now().Unix())
	return err
}

func (s *SQLStore) GetQuestion(ctx context.Context, id string) (Question, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT uuid,exam_uuid,statement,position,created_at FROM questions WHERE uuid=$1`, id)
	var q Question
	if err := row.Scan(&q.UUID, &q.ExamUUID, &q.Statement, &q.Position, &q.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrNotFound
		}
		return Question{}, err
	}
	return q, nil
}

func (s *SQLStore) ListQuestions(ctx context.Context, examUUID string) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT uuid,exam_uuid,statement,position,created_at
		   FROM questions WHERE exam_uuid=$1 ORDER BY position, created_at`, examUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.UUID, &q.ExamUUID, &q.Statement, &q.Position, &q.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutCriterion(ctx context.Context, c rubric.Criterion) error {
	if c.UUID == "" {
		c.UUID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO grading_criteria (uuid,code,name,description,active)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (uuid) DO UPDATE SET code=EXCLUDED.code, name=EXCLUDED.name,
		   description=EXCLUDED.description, active=EXCLUDED.active`,
		c.UUID, c.Code, c.Name, c.Description, c.Active)
	return err
}

func (s *SQLStore) ListCriteria(ctx context.Context) ([]rubric.Criterion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT uuid,code,name,description,active FROM grading_criteria ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []rubric.Criterion
	for rows.Next() {
		var c rubric.Criterion
		if err := rows.Scan(&c.UUID, &c.Code, &c.Name, &c.Description, &c.Active); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) UpsertExamCriterion(ctx context.Context, ec rubric.ExamCriterion) error {
	if ec.UUID == "" {
		ec.UUID = uuid.NewString()
	}
	var mp sql.NullFloat64
	if ec.MaxPoints != nil {
		mp = sql.NullFloat64{Float64: *ec.MaxPoints, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exam_criteria (uuid,exam_uuid,criteria_uuid,weight,max_points,active)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (exam_uuid, criteria_uuid) DO UPDATE SET
		   weight=EXCLUDED.weight, max_points=EXCLUDED.max_points, active=EXCLUDED.active`,
		ec.UUID, ec.ExamUUID, ec.CriteriaUUID, ec.Weight, mp, ec.Active)
	return err
}

func (s *SQLStore) ListExamCriteria(ctx context.Context, examUUID string) ([]rubric.ExamCriterion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT uuid,exam_uuid,criteria_uuid,weight,max_points,active
		   FROM exam_criteria WHERE exam_uuid=$1 ORDER BY uuid`, examUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []rubric.ExamCriterion
	for rows.Next() {
		var ec rubric.ExamCriterion
		var mp sql.NullFloat64
		if err := rows.Scan(&ec.UUID, &ec.ExamUUID, &ec.CriteriaUUID, &ec.Weight, &mp, &ec.Active); err != nil {
			return nil, err
		}
		if mp.Valid {
			ec.MaxPoints = &mp.Float64
		}
		out = append(out, ec)
	}
	return out, rows.Err()
}
