package rubric_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gradeworks/rubric-engine/internal/db"
	"github.com/gradeworks/rubric-engine/internal/exam"
	"github.com/gradeworks/rubric-engine/internal/rubric"
)

func openSeededDB(t *testing.T) (*rubric.SQLGateway, exam.Store) {
	t.Helper()
	ctx := context.Background()

	dbh, err := db.Open(ctx, db.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })

	store := exam.NewSQLStore(dbh)
	if err := store.PutExam(ctx, exam.Exam{UUID: "exam-1", Title: "Exam One"}); err != nil {
		t.Fatalf("seed exam: %v", err)
	}
	if err := store.PutQuestion(ctx, exam.Question{UUID: "q-1", ExamUUID: "exam-1", Statement: "Explain photosynthesis."}); err != nil {
		t.Fatalf("seed question: %v", err)
	}
	for _, c := range []rubric.Criterion{
		{UUID: "crit-a", Code: "CONT", Name: "Content", Active: true},
		{UUID: "crit-b", Code: "FORM", Name: "Form", Active: true},
	} {
		if err := store.PutCriterion(ctx, c); err != nil {
			t.Fatalf("seed criterion: %v", err)
		}
	}
	for _, ec := range []rubric.ExamCriterion{
		{ExamUUID: "exam-1", CriteriaUUID: "crit-a", Weight: 50, Active: true},
		{ExamUUID: "exam-1", CriteriaUUID: "crit-b", Weight: 50, Active: true},
	} {
		if err := store.UpsertExamCriterion(ctx, ec); err != nil {
			t.Fatalf("seed exam criterion: %v", err)
		}
	}
	return rubric.NewSQLGateway(dbh), store
}

func TestSQLGateway_OverrideCRUD(t *testing.T) {
	ctx := context.Background()
	gw, _ := openSeededDB(t)

	w := 40.0
	created, err := gw.CreateOverride(ctx, "q-1", rubric.OverrideCreate{
		CriteriaUUID: "crit-a", Weight: &w, Active: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.UUID == "" {
		t.Fatalf("create must assign a uuid")
	}

	rows, err := gw.ListOverrides(ctx, "q-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].CriteriaUUID != "crit-a" || *rows[0].Weight != 40 {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	updated, err := gw.UpdateOverride(ctx, created.UUID, rubric.OverrideUpdate{
		UUID: created.UUID, Active: false,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Active || updated.Weight != nil {
		t.Fatalf("update must clear unset fields, got %+v", updated)
	}

	if _, err := gw.UpdateOverride(ctx, "missing", rubric.OverrideUpdate{UUID: "missing"}); !errors.Is(err, rubric.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := gw.DeleteOverride(ctx, created.UUID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rows, _ := gw.ListOverrides(ctx, "q-1"); len(rows) != 0 {
		t.Fatalf("expected no rows after delete, got %+v", rows)
	}
}

func TestSQLGateway_AnswerCRUD(t *testing.T) {
	ctx := context.Background()
	gw, _ := openSeededDB(t)

	created, err := gw.CreateAnswer(ctx, "q-1", rubric.AnswerCreate{StudentUUID: "s-1", Text: "first draft"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.Ref.Persisted() || created.Ref.ID() == "" {
		t.Fatalf("created answer must carry a persisted ref, got %+v", created.Ref)
	}

	updated, err := gw.UpdateAnswer(ctx, created.Ref.ID(), rubric.AnswerUpdate{UUID: created.Ref.ID(), Text: "second draft"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Text != "second draft" {
		t.Fatalf("unexpected text: %q", updated.Text)
	}

	answers, err := gw.ListAnswers(ctx, "q-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(answers) != 1 || answers[0].Text != "second draft" {
		t.Fatalf("unexpected answers: %+v", answers)
	}

	if err := gw.DeleteAnswer(ctx, created.Ref.ID()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := gw.DeleteAnswer(ctx, created.Ref.ID()); !errors.Is(err, rubric.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestSQLGateway_EngineCommitRoundTrip(t *testing.T) {
	ctx := context.Background()
	gw, store := openSeededDB(t)

	ecs, err := store.ListExamCriteria(ctx, "exam-1")
	if err != nil {
		t.Fatalf("exam criteria: %v", err)
	}

	engine := rubric.NewEngine(gw)
	s, err := engine.Begin(ctx, "q-1", ecs, true)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	s.AddAnswer("s-1", "an answer")

	outcomes, err := s.Commit(ctx)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	// two synthesized overrides plus one answer
	if len(outcomes) != 3 {
		t.Fatalf("expected 3 operations, got %d: %+v", len(outcomes), outcomes)
	}

	rows, err := gw.ListOverrides(ctx, "q-1")
	if err != nil {
		t.Fatalf("list overrides: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 persisted overrides, got %d", len(rows))
	}
	for _, ov := range rows {
		if ov.Weight == nil || *ov.Weight != 50 {
			t.Fatalf("expected weight 50 on %s, got %v", ov.CriteriaUUID, ov.Weight)
		}
	}
}
