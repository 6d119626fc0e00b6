package rubric

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Op identifies one remote write issued during commit.
type Op struct {
	Entity string `json:"entity"` // "override" | "answer"
	Action string `json:"action"` // "delete" | "create" | "update"
	UUID   string `json:"uuid,omitempty"`
}

// OpOutcome is the per-operation result of a commit. Err is nil on success;
// the caller decides how to handle a partially applied batch.
type OpOutcome struct {
	Op  Op     `json:"op"`
	Err string `json:"error,omitempty"`
}

const (
	EntityOverride = "override"
	EntityAnswer   = "answer"

	ActionDelete = "delete"
	ActionCreate = "create"
	ActionUpdate = "update"
)

var (
	ErrSessionCommitted = errors.New("edit session already committed")
	ErrCriterionPresent = errors.New("criterion already present")
	ErrCriterionAbsent  = errors.New("criterion not part of this question")
	ErrAddedCriterion   = errors.New("added criterion can only be removed")
	ErrAnswerAbsent     = errors.New("answer not in working set")
)

// Engine begins edit sessions against an injected gateway.
type Engine struct {
	gw Gateway
}

func NewEngine(gw Gateway) *Engine { return &Engine{gw: gw} }

// Session owns the baseline/working pair for one question being edited.
// Baseline is snapshot once and only ever read for diffing; all mutation goes
// through the session methods and lands on working. A session drives exactly
// one successful commit and is discarded afterwards.
type Session struct {
	gw           Gateway
	questionUUID string
	examCriteria []ExamCriterion

	baselineOverrides []Override
	baselineAnswers   []Answer
	workingOverrides  []Override
	workingAnswers    []Answer

	autoDistribute bool
	committed      bool
}

// Begin snapshots the persisted overrides and answers of a question and opens
// a session over them. examCriteria are the exam-wide defaults the weight
// distributor normalizes against.
func (e *Engine) Begin(ctx context.Context, questionUUID string, examCriteria []ExamCriterion, autoDistribute bool) (*Session, error) {
	overrides, err := e.gw.ListOverrides(ctx, questionUUID)
	if err != nil {
		return nil, fmt.Errorf("load overrides: %w", err)
	}
	answers, err := e.gw.ListAnswers(ctx, questionUUID)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	s := &Session{
		gw:                e.gw,
		questionUUID:      questionUUID,
		examCriteria:      append([]ExamCriterion(nil), examCriteria...),
		baselineOverrides: overrides,
		baselineAnswers:   answers,
		workingOverrides:  cloneOverrides(overrides),
		workingAnswers:    append([]Answer(nil), answers...),
		autoDistribute:    autoDistribute,
	}
	if autoDistribute {
		s.workingOverrides = Redistribute(s.examCriteria, s.workingOverrides, true)
	}
	return s, nil
}

func (s *Session) QuestionUUID() string  { return s.questionUUID }
func (s *Session) AutoDistribute() bool  { return s.autoDistribute }
func (s *Session) Overrides() []Override { return cloneOverrides(s.workingOverrides) }
func (s *Session) Answers() []Answer     { return append([]Answer(nil), s.workingAnswers...) }

// Rows returns the classified merged view of the current working set.
func (s *Session) Rows(criteria []Criterion) []Row {
	return BuildRubric(criteria, s.examCriteria, s.workingOverrides)
}

// AddCriterion adds a criterion that is not part of the exam defaults as an
// override-only ("added") entry.
func (s *Session) AddCriterion(criteriaUUID string) error {
	if s.findExamCriterion(criteriaUUID) != nil {
		return ErrCriterionPresent
	}
	if s.findOverride(criteriaUUID) != nil {
		return ErrCriterionPresent
	}
	s.workingOverrides = append(s.workingOverrides, Override{
		QuestionUUID: s.questionUUID,
		CriteriaUUID: criteriaUUID,
		Active:       true,
	})
	s.redistribute()
	return nil
}

// RemoveCriterion excludes a criterion from the question. A base criterion is
// deactivated through an override (the exam default survives); an added
// criterion is dropped from the working set entirely.
func (s *Session) RemoveCriterion(criteriaUUID string) error {
	ov := s.findOverride(criteriaUUID)
	base := s.findExamCriterion(criteriaUUID)
	switch {
	case base == nil && ov == nil:
		return ErrCriterionAbsent
	case base == nil:
		s.dropOverride(criteriaUUID)
	case ov == nil:
		s.workingOverrides = append(s.workingOverrides, Override{
			QuestionUUID: s.questionUUID,
			CriteriaUUID: criteriaUUID,
			MaxPoints:    copyFloat(base.MaxPoints),
			Active:       false,
		})
	default:
		ov.Active = false
		ov.Weight = nil
	}
	s.redistribute()
	return nil
}

// RestoreCriterion reactivates a previously removed base criterion. Added
// criteria cannot be restored: remove drops them for good.
func (s *Session) RestoreCriterion(criteriaUUID string) error {
	ov := s.findOverride(criteriaUUID)
	if ov == nil {
		return ErrCriterionAbsent
	}
	if s.findExamCriterion(criteriaUUID) == nil {
		return ErrAddedCriterion
	}
	ov.Active = true
	s.redistribute()
	return nil
}

// Customize sets per-question weight/points on a criterion, synthesizing the
// override when the question still inherits the exam default. Customizing is
// not a distribution trigger: under auto-distribution the weight will be
// normalized again by the next add/remove/toggle.
func (s *Session) Customize(criteriaUUID string, weight, maxPoints *float64) error {
	ov := s.findOverride(criteriaUUID)
	if ov == nil {
		base := s.findExamCriterion(criteriaUUID)
		if base == nil {
			return ErrCriterionAbsent
		}
		s.workingOverrides = append(s.workingOverrides, Override{
			QuestionUUID: s.questionUUID,
			CriteriaUUID: criteriaUUID,
			Active:       true,
		})
		ov = &s.workingOverrides[len(s.workingOverrides)-1]
	}
	if weight != nil {
		ov.Weight = copyFloat(weight)
	}
	if maxPoints != nil {
		ov.MaxPoints = copyFloat(maxPoints)
	}
	return nil
}

// SetAutoDistribute toggles distribution mode. Toggling on re-synthesizes and
// renormalizes immediately; toggling off freezes the current values.
func (s *Session) SetAutoDistribute(on bool) {
	s.autoDistribute = on
	s.redistribute()
}

// AddAnswer appends a local-only draft and returns its ref.
func (s *Session) AddAnswer(studentUUID, text string) Ref {
	ref := LocalRef(uuid.NewString())
	s.workingAnswers = append(s.workingAnswers, Answer{
		Ref:         ref,
		StudentUUID: studentUUID,
		Text:        text,
	})
	return ref
}

// EditAnswer rewrites the text of a working draft.
func (s *Session) EditAnswer(ref Ref, text string) error {
	for i := range s.workingAnswers {
		if s.workingAnswers[i].Ref == ref {
			s.workingAnswers[i].Text = text
			return nil
		}
	}
	return ErrAnswerAbsent
}

// RemoveAnswer drops a draft from the working set. Removing a persisted draft
// turns into exactly one delete on commit.
func (s *Session) RemoveAnswer(ref Ref) error {
	for i := range s.workingAnswers {
		if s.workingAnswers[i].Ref == ref {
			s.workingAnswers = append(s.workingAnswers[:i], s.workingAnswers[i+1:]...)
			return nil
		}
	}
	return ErrAnswerAbsent
}

// ReplaceWorking swaps in an externally edited working set, as submitted by a
// remote editor that held its own copy. The baseline stays the snapshot taken
// at Begin; persisted rows are matched to it by uuid during commit.
func (s *Session) ReplaceWorking(overrides []Override, answers []Answer, autoDistribute bool) {
	s.workingOverrides = cloneOverrides(overrides)
	s.workingAnswers = append([]Answer(nil), answers...)
	s.autoDistribute = autoDistribute
	s.redistribute()
}

// Commit validates the working set, diffs it against the baseline, and plays
// the resulting operations through the gateway strictly in order: override
// deletes, creates, updates, then the same for answers. Each operation waits
// for the previous one; a failure stops the rest of the batch. The returned
// outcomes cover every operation attempted, so the caller can see exactly how
// far a partially applied commit got. Nothing is rolled back or retried.
func (s *Session) Commit(ctx context.Context) ([]OpOutcome, error) {
	if s.committed {
		return nil, ErrSessionCommitted
	}
	if err := validateWorking(s.workingOverrides, s.workingAnswers); err != nil {
		return nil, err
	}

	ovPlan := DiffOverrides(s.baselineOverrides, s.workingOverrides)
	ansPlan := DiffAnswers(s.baselineAnswers, s.workingAnswers)

	var outcomes []OpOutcome
	run := func(op Op, call func() error) error {
		err := call()
		oc := OpOutcome{Op: op}
		if err != nil {
			oc.Err = err.Error()
		}
		outcomes = append(outcomes, oc)
		if err != nil {
			return &PersistenceError{Op: op, Err: err}
		}
		return nil
	}

	for _, id := range ovPlan.Deletes {
		if err := run(Op{EntityOverride, ActionDelete, id}, func() error {
			return s.gw.DeleteOverride(ctx, id)
		}); err != nil {
			return outcomes, err
		}
	}
	for _, in := range ovPlan.Creates {
		if err := run(Op{EntityOverride, ActionCreate, ""}, func() error {
			_, err := s.gw.CreateOverride(ctx, s.questionUUID, in)
			return err
		}); err != nil {
			return outcomes, err
		}
	}
	for _, in := range ovPlan.Updates {
		if err := run(Op{EntityOverride, ActionUpdate, in.UUID}, func() error {
			_, err := s.gw.UpdateOverride(ctx, in.UUID, in)
			return err
		}); err != nil {
			return outcomes, err
		}
	}

	for _, id := range ansPlan.Deletes {
		if err := run(Op{EntityAnswer, ActionDelete, id}, func() error {
			return s.gw.DeleteAnswer(ctx, id)
		}); err != nil {
			return outcomes, err
		}
	}
	for _, in := range ansPlan.Creates {
		if err := run(Op{EntityAnswer, ActionCreate, ""}, func() error {
			_, err := s.gw.CreateAnswer(ctx, s.questionUUID, in)
			return err
		}); err != nil {
			return outcomes, err
		}
	}
	for _, in := range ansPlan.Updates {
		if err := run(Op{EntityAnswer, ActionUpdate, in.UUID}, func() error {
			_, err := s.gw.UpdateAnswer(ctx, in.UUID, in)
			return err
		}); err != nil {
			return outcomes, err
		}
	}

	s.committed = true
	return outcomes, nil
}

func (s *Session) redistribute() {
	s.workingOverrides = Redistribute(s.examCriteria, s.workingOverrides, s.autoDistribute)
}

func (s *Session) findOverride(criteriaUUID string) *Override {
	for i := range s.workingOverrides {
		if s.workingOverrides[i].CriteriaUUID == criteriaUUID {
			return &s.workingOverrides[i]
		}
	}
	return nil
}

func (s *Session) findExamCriterion(criteriaUUID string) *ExamCriterion {
	for i := range s.examCriteria {
		if s.examCriteria[i].CriteriaUUID == criteriaUUID {
			return &s.examCriteria[i]
		}
	}
	return nil
}

func (s *Session) dropOverride(criteriaUUID string) {
	for i := range s.workingOverrides {
		if s.workingOverrides[i].CriteriaUUID == criteriaUUID {
			s.workingOverrides = append(s.workingOverrides[:i], s.workingOverrides[i+1:]...)
			return
		}
	}
}

func cloneOverrides(in []Override) []Override {
	out := make([]Override, len(in))
	for i := range in {
		out[i] = in[i]
		out[i].Weight = copyFloat(in[i].Weight)
		out[i].MaxPoints = copyFloat(in[i].MaxPoints)
	}
	return out
}
