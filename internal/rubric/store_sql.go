package rubric

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("row not found")

// SQLGateway persists overrides and answers through database/sql. Works with
// both drivers wired by internal/db (pgx stdlib and modernc sqlite); both
// accept $1 placeholders.
type SQLGateway struct {
	db *sql.DB
}

func NewSQLGateway(db *sql.DB) *SQLGateway { return &SQLGateway{db: db} }

func (g *SQLGateway) ListOverrides(ctx context.Context, questionUUID string) ([]Override, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT uuid, question_uuid, criteria_uuid, weight_override, max_points_override, active
		   FROM question_criteria_overrides
		  WHERE question_uuid=$1
		  ORDER BY created_at, uuid`, questionUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Override
	for rows.Next() {
		var ov Override
		var w, mp sql.NullFloat64
		if err := rows.Scan(&ov.UUID, &ov.QuestionUUID, &ov.CriteriaUUID, &w, &mp, &ov.Active); err != nil {
			return nil, err
		}
		if w.Valid {
			ov.Weight = &w.Float64
		}
		if mp.Valid {
			ov.MaxPoints = &mp.Float64
		}
		out = append(out, ov)
	}
	return out, rows.Err()
}

func (g *SQLGateway) CreateOverride(ctx context.Context, questionUUID string, in OverrideCreate) (Override, error) {
	id := uuid.NewString()
	now := time.Now().Unix()
	_, err := g.db.ExecContext(ctx,
		`INSERT INTO question_criteria_overrides
		   (uuid, question_uuid, criteria_uuid, weight_override, max_points_override, active, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$7)`,
		id, questionUUID, in.CriteriaUUID, nullFloat(in.Weight), nullFloat(in.MaxPoints), in.Active, now)
	if err != nil {
		return Override{}, err
	}
	return Override{
		UUID:         id,
		QuestionUUID: questionUUID,
		CriteriaUUID: in.CriteriaUUID,
		Weight:       copyFloat(in.Weight),
		MaxPoints:    copyFloat(in.MaxPoints),
		Active:       in.Active,
	}, nil
}

func (g *SQLGateway) UpdateOverride(ctx context.Context, id string, in OverrideUpdate) (Override, error) {
	res, err := g.db.ExecContext(ctx,
		`UPDATE question_criteria_overrides
		    SET weight_override=$1, max_points_override=$2, active=$3, updated_at=$4
		  WHERE uuid=$5`,
		nullFloat(in.Weight), nullFloat(in.MaxPoints), in.Active, time.Now().Unix(), id)
	if err != nil {
		return Override{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Override{}, ErrNotFound
	}
	return g.getOverride(ctx, id)
}

func (g *SQLGateway) DeleteOverride(ctx context.Context, id string) error {
	res, err := g.db.ExecContext(ctx,
		`DELETE FROM question_criteria_overrides WHERE uuid=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *SQLGateway) getOverride(ctx context.Context, id string) (Override, error) {
	row := g.db.QueryRowContext(ctx,
		`SELECT uuid, question_uuid, criteria_uuid, weight_override, max_points_override, active
		   FROM question_criteria_overrides WHERE uuid=$1`, id)
	var ov Override
	var w, mp sql.NullFloat64
	if err := row.Scan(&ov.UUID, &ov.QuestionUUID, &ov.CriteriaUUID, &w, &mp, &ov.Active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Override{}, ErrNotFound
		}
		return Override{}, err
	}
	if w.Valid {
		ov.Weight = &w.Float64
	}
	if mp.Valid {
		ov.MaxPoints = &mp.Float64
	}
	return ov, nil
}

func (g *SQLGateway) ListAnswers(ctx context.Context, questionUUID string) ([]Answer, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT uuid, student_uuid, answer_text
		   FROM student_answers
		  WHERE question_uuid=$1
		  ORDER BY created_at, uuid`, questionUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Answer
	for rows.Next() {
		var id, student, text string
		if err := rows.Scan(&id, &student, &text); err != nil {
			return nil, err
		}
		out = append(out, Answer{Ref: PersistedRef(id), StudentUUID: student, Text: text})
	}
	return out, rows.Err()
}

func (g *SQLGateway) CreateAnswer(ctx context.Context, questionUUID string, in AnswerCreate) (Answer, error) {
	id := uuid.NewString()
	now := time.Now().Unix()
	_, err := g.db.ExecContext(ctx,
		`INSERT INTO student_answers (uuid, question_uuid, student_uuid, answer_text, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$5)`,
		id, questionUUID, in.StudentUUID, in.Text, now)
	if err != nil {
		return Answer{}, err
	}
	return Answer{Ref: PersistedRef(id), StudentUUID: in.StudentUUID, Text: in.Text}, nil
}

func (g *SQLGateway) UpdateAnswer(ctx context.Context, id string, in AnswerUpdate) (Answer, error) {
	res, err := g.db.ExecContext(ctx,
		`UPDATE student_answers SET answer_text=$1, updated_at=$2 WHERE uuid=$3`,
		in.Text, time.Now().Unix(), id)
	if err != nil {
		return Answer{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Answer{}, ErrNotFound
	}
	row := g.db.QueryRowContext(ctx,
		`SELECT uuid, student_uuid, answer_text FROM student_answers WHERE uuid=$1`, id)
	var student, text string
	if err := row.Scan(&id, &student, &text); err != nil {
		return Answer{}, err
	}
	return Answer{Ref: PersistedRef(id), StudentUUID: student, Text: text}, nil
}

func (g *SQLGateway) DeleteAnswer(ctx context.Context, id string) error {
	res, err := g.db.ExecContext(ctx, `DELETE FROM student_answers WHERE uuid=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
