package rubric

import (
	"testing"
)

func TestDiffOverrides_IdenticalSetsAreEmpty(t *testing.T) {
	rows := []Override{
		{UUID: "a", CriteriaUUID: "crit-a", Weight: fptr(10), Active: true},
		{UUID: "b", CriteriaUUID: "crit-b", MaxPoints: fptr(5), Active: false},
	}

	plan := DiffOverrides(rows, cloneOverrides(rows))

	if !plan.Empty() {
		t.Fatalf("identical baseline/working must produce an empty plan: %+v", plan)
	}
}

func TestDiffOverrides_DeleteCreateUpdate(t *testing.T) {
	baseline := []Override{
		{UUID: "a", CriteriaUUID: "crit-a", Weight: fptr(10), Active: true},
		{UUID: "b", CriteriaUUID: "crit-b", Weight: fptr(20), Active: true},
	}
	working := []Override{
		{UUID: "a", CriteriaUUID: "crit-a", Weight: fptr(15), Active: true},
		{CriteriaUUID: "crit-c", Active: true}, // no uuid: new
	}

	plan := DiffOverrides(baseline, working)

	if len(plan.Deletes) != 1 || plan.Deletes[0] != "b" {
		t.Fatalf("expected deletes=[b], got %v", plan.Deletes)
	}
	if len(plan.Creates) != 1 || plan.Creates[0].CriteriaUUID != "crit-c" {
		t.Fatalf("expected one create for crit-c, got %+v", plan.Creates)
	}
	if len(plan.Updates) != 1 || plan.Updates[0].UUID != "a" || *plan.Updates[0].Weight != 15 {
		t.Fatalf("expected update (a, weight=15), got %+v", plan.Updates)
	}
}

func TestDiffOverrides_ActiveFlipIsAnUpdate(t *testing.T) {
	baseline := []Override{{UUID: "a", CriteriaUUID: "crit-a", Active: true}}
	working := []Override{{UUID: "a", CriteriaUUID: "crit-a", Active: false}}

	plan := DiffOverrides(baseline, working)

	if len(plan.Updates) != 1 || plan.Updates[0].Active {
		t.Fatalf("deactivation must surface as an update, got %+v", plan)
	}
	if len(plan.Deletes) != 0 {
		t.Fatalf("deactivation is not a delete: %v", plan.Deletes)
	}
}

func TestDiffOverrides_NilVsSetFieldDiffers(t *testing.T) {
	baseline := []Override{{UUID: "a", CriteriaUUID: "crit-a", Active: true}}
	working := []Override{{UUID: "a", CriteriaUUID: "crit-a", MaxPoints: fptr(10), Active: true}}

	plan := DiffOverrides(baseline, working)

	if len(plan.Updates) != 1 {
		t.Fatalf("setting a previously unset field must update, got %+v", plan)
	}
}

func TestDiffAnswers_IdenticalTextIsNoop(t *testing.T) {
	baseline := []Answer{{Ref: PersistedRef("a1"), StudentUUID: "s1", Text: "same"}}
	working := []Answer{{Ref: PersistedRef("a1"), StudentUUID: "s1", Text: "same"}}

	plan := DiffAnswers(baseline, working)

	if !plan.Empty() {
		t.Fatalf("matched pair with identical text must be a no-op: %+v", plan)
	}
}

func TestDiffAnswers_RemovedPersistedAnswerIsSingleDelete(t *testing.T) {
	baseline := []Answer{
		{Ref: PersistedRef("a1"), StudentUUID: "s1", Text: "keep"},
		{Ref: PersistedRef("a2"), StudentUUID: "s2", Text: "drop"},
	}
	working := []Answer{
		{Ref: PersistedRef("a1"), StudentUUID: "s1", Text: "keep"},
	}

	plan := DiffAnswers(baseline, working)

	if len(plan.Deletes) != 1 || plan.Deletes[0] != "a2" {
		t.Fatalf("expected exactly one delete for a2, got %v", plan.Deletes)
	}
	if len(plan.Creates) != 0 || len(plan.Updates) != 0 {
		t.Fatalf("no create/update expected for a removed answer: %+v", plan)
	}
}

func TestDiffAnswers_LocalDraftCreatesEvenWithSameText(t *testing.T) {
	// Identity is the persisted/local tag, not text equality: a local draft
	// duplicating a persisted answer's text still creates.
	baseline := []Answer{{Ref: PersistedRef("a1"), StudentUUID: "s1", Text: "same"}}
	working := []Answer{
		{Ref: PersistedRef("a1"), StudentUUID: "s1", Text: "same"},
		{Ref: LocalRef("draft-1"), StudentUUID: "s2", Text: "same"},
	}

	plan := DiffAnswers(baseline, working)

	if len(plan.Creates) != 1 || plan.Creates[0].StudentUUID != "s2" {
		t.Fatalf("expected one create for s2, got %+v", plan.Creates)
	}
}

func TestDiffAnswers_EditedTextUpdates(t *testing.T) {
	baseline := []Answer{{Ref: PersistedRef("a1"), StudentUUID: "s1", Text: "old"}}
	working := []Answer{{Ref: PersistedRef("a1"), StudentUUID: "s1", Text: "new"}}

	plan := DiffAnswers(baseline, working)

	if len(plan.Updates) != 1 || plan.Updates[0].UUID != "a1" || plan.Updates[0].Text != "new" {
		t.Fatalf("expected update (a1, new), got %+v", plan.Updates)
	}
}
