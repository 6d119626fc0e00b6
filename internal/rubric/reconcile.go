package rubric

// OverrideCreate is the payload for a new override row. CriteriaUUID is fixed
// at creation and never appears in an update.
type OverrideCreate struct {
	CriteriaUUID string   `json:"criteria_uuid"`
	Weight       *float64 `json:"weight_override,omitempty"`
	MaxPoints    *float64 `json:"max_points_override,omitempty"`
	Active       bool     `json:"active"`
}

// OverrideUpdate carries the mutable fields of an existing override. All
// three are sent even when only one changed; the remote treats absent ones
// the same as unchanged and sending the full set keeps the diff simple.
type OverrideUpdate struct {
	UUID      string   `json:"uuid"`
	Weight    *float64 `json:"weight_override,omitempty"`
	MaxPoints *float64 `json:"max_points_override,omitempty"`
	Active    bool     `json:"active"`
}

// OverridePlan is the minimal operation set turning a persisted baseline into
// the working set. Commit order is deletes, creates, updates.
type OverridePlan struct {
	Deletes []string
	Creates []OverrideCreate
	Updates []OverrideUpdate
}

func (p OverridePlan) Empty() bool {
	return len(p.Deletes) == 0 && len(p.Creates) == 0 && len(p.Updates) == 0
}

// DiffOverrides computes the override plan. Baseline rows whose uuid is gone
// from working are deleted; working rows without a uuid are created; matched
// rows are updated when weight, max_points, or active differ.
func DiffOverrides(baseline, working []Override) OverridePlan {
	var plan OverridePlan

	inWorking := make(map[string]*Override, len(working))
	for i := range working {
		if working[i].UUID != "" {
			inWorking[working[i].UUID] = &working[i]
		}
	}
	for i := range baseline {
		if _, ok := inWorking[baseline[i].UUID]; !ok {
			plan.Deletes = append(plan.Deletes, baseline[i].UUID)
		}
	}

	inBaseline := make(map[string]*Override, len(baseline))
	for i := range baseline {
		inBaseline[baseline[i].UUID] = &baseline[i]
	}
	for i := range working {
		w := &working[i]
		if w.UUID == "" {
			plan.Creates = append(plan.Creates, OverrideCreate{
				CriteriaUUID: w.CriteriaUUID,
				Weight:       w.Weight,
				MaxPoints:    w.MaxPoints,
				Active:       w.Active,
			})
			continue
		}
		b, ok := inBaseline[w.UUID]
		if !ok {
			continue
		}
		if !floatEq(b.Weight, w.Weight) || !floatEq(b.MaxPoints, w.MaxPoints) || b.Active != w.Active {
			plan.Updates = append(plan.Updates, OverrideUpdate{
				UUID:      w.UUID,
				Weight:    w.Weight,
				MaxPoints: w.MaxPoints,
				Active:    w.Active,
			})
		}
	}
	return plan
}

// AnswerCreate is the payload for a new answer row.
type AnswerCreate struct {
	StudentUUID string `json:"student_uuid"`
	Text        string `json:"answer_text"`
}

// AnswerUpdate re-texts an existing answer.
type AnswerUpdate struct {
	UUID string `json:"uuid"`
	Text string `json:"answer_text"`
}

// AnswerPlan is the analogous plan for student answers.
type AnswerPlan struct {
	Deletes []string
	Creates []AnswerCreate
	Updates []AnswerUpdate
}

func (p AnswerPlan) Empty() bool {
	return len(p.Deletes) == 0 && len(p.Creates) == 0 && len(p.Updates) == 0
}

// DiffAnswers computes the answer plan. Identity comes from the explicit
// persisted/local tag on each draft, not from field equality: persisted
// baseline rows missing from working are deleted, local drafts are created,
// and a persisted match is updated only when its text changed.
func DiffAnswers(baseline, working []Answer) AnswerPlan {
	var plan AnswerPlan

	inWorking := make(map[string]*Answer, len(working))
	for i := range working {
		if working[i].Ref.Persisted() {
			inWorking[working[i].Ref.ID()] = &working[i]
		}
	}
	for i := range baseline {
		if _, ok := inWorking[baseline[i].Ref.ID()]; !ok {
			plan.Deletes = append(plan.Deletes, baseline[i].Ref.ID())
		}
	}

	inBaseline := make(map[string]*Answer, len(baseline))
	for i := range baseline {
		inBaseline[baseline[i].Ref.ID()] = &baseline[i]
	}
	for i := range working {
		w := &working[i]
		if !w.Ref.Persisted() {
			plan.Creates = append(plan.Creates, AnswerCreate{
				StudentUUID: w.StudentUUID,
				Text:        w.Text,
			})
			continue
		}
		b, ok := inBaseline[w.Ref.ID()]
		if !ok {
			continue
		}
		if b.Text != w.Text {
			plan.Updates = append(plan.Updates, AnswerUpdate{UUID: w.Ref.ID(), Text: w.Text})
		}
	}
	return plan
}

func floatEq(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
