package rubric

import (
	"math"
	"testing"
)

func fptr(f float64) *float64 { return &f }

func baseCriteria(n int) []ExamCriterion {
	out := make([]ExamCriterion, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, ExamCriterion{
			UUID:         "ec-" + string(rune('a'+i)),
			ExamUUID:     "exam-1",
			CriteriaUUID: "crit-" + string(rune('a'+i)),
			Weight:       100 / float64(n),
			Active:       true,
		})
	}
	return out
}

func activeWeightSum(ovs []Override) float64 {
	sum := 0.0
	for _, ov := range ovs {
		if ov.Active && ov.Weight != nil {
			sum += *ov.Weight
		}
	}
	return sum
}

func TestRedistribute_EvenSplit(t *testing.T) {
	ecs := baseCriteria(3)

	out := Redistribute(ecs, nil, true)

	if len(out) != 3 {
		t.Fatalf("expected 3 synthesized overrides, got %d", len(out))
	}
	want := 100.0 / 3.0
	for _, ov := range out {
		if ov.Weight == nil || *ov.Weight != want {
			t.Fatalf("expected weight %v on %s, got %v", want, ov.CriteriaUUID, ov.Weight)
		}
		if !ov.Active {
			t.Fatalf("synthesized override must be active")
		}
	}
	if sum := activeWeightSum(out); math.Abs(sum-100) > 1e-9 {
		t.Fatalf("active weights must sum to 100, got %v", sum)
	}
}

func TestRedistribute_DeactivatedCriterionExcluded(t *testing.T) {
	ecs := baseCriteria(3)
	working := []Override{
		{UUID: "ov-1", CriteriaUUID: "crit-a", Active: false},
	}

	out := Redistribute(ecs, working, true)

	for _, ov := range out {
		switch ov.CriteriaUUID {
		case "crit-a":
			if ov.Weight != nil {
				t.Fatalf("inactive override must not be assigned a weight, got %v", *ov.Weight)
			}
		default:
			if ov.Weight == nil || *ov.Weight != 50 {
				t.Fatalf("expected 100/(N-1)=50 on %s, got %v", ov.CriteriaUUID, ov.Weight)
			}
		}
	}
}

func TestRedistribute_OffLeavesInputUnchanged(t *testing.T) {
	ecs := baseCriteria(2)
	working := []Override{
		{UUID: "ov-1", CriteriaUUID: "crit-a", Weight: fptr(70), Active: true},
	}

	out := Redistribute(ecs, working, false)

	if len(out) != 1 {
		t.Fatalf("auto off must not synthesize overrides, got %d entries", len(out))
	}
	if *out[0].Weight != 70 {
		t.Fatalf("auto off must freeze weights, got %v", *out[0].Weight)
	}
}

func TestRedistribute_EmptyActiveSetGuard(t *testing.T) {
	ecs := baseCriteria(1)
	working := []Override{
		{UUID: "ov-1", CriteriaUUID: "crit-a", Weight: fptr(100), Active: false},
	}

	out := Redistribute(ecs, working, true)

	// N=0: nothing to divide by, input comes back as-is.
	if len(out) != 1 || out[0].Weight == nil || *out[0].Weight != 100 {
		t.Fatalf("empty active set must leave working untouched, got %+v", out)
	}
}

func TestRedistribute_SynthesizedCopiesMaxPoints(t *testing.T) {
	ecs := baseCriteria(1)
	ecs[0].MaxPoints = fptr(25)

	out := Redistribute(ecs, nil, true)

	if len(out) != 1 {
		t.Fatalf("expected one synthesized override, got %d", len(out))
	}
	if out[0].MaxPoints == nil || *out[0].MaxPoints != 25 {
		t.Fatalf("synthesized override must copy max_points, got %v", out[0].MaxPoints)
	}
}

func TestRedistribute_AddedCriterionJoinsActiveSet(t *testing.T) {
	ecs := baseCriteria(2)
	working := []Override{
		{CriteriaUUID: "crit-extra", Active: true}, // added, not yet persisted
	}

	out := Redistribute(ecs, working, true)

	if len(out) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(out))
	}
	want := 100.0 / 3.0
	for _, ov := range out {
		if ov.Weight == nil || math.Abs(*ov.Weight-want) > 1e-9 {
			t.Fatalf("expected %v on %s, got %v", want, ov.CriteriaUUID, ov.Weight)
		}
	}
}
