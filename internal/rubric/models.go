package rubric

// Criterion is exam-independent reference data: one row of the grading
// criteria catalog (e.g. "ORT" / "orthography").
type Criterion struct {
	UUID        string `json:"uuid"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

// ExamCriterion is the exam-wide default for a criterion: its weight share
// and optional point cap before any per-question override applies.
type ExamCriterion struct {
	UUID         string   `json:"uuid"`
	ExamUUID     string   `json:"exam_uuid"`
	CriteriaUUID string   `json:"criteria_uuid"`
	Weight       float64  `json:"weight"`
	MaxPoints    *float64 `json:"max_points,omitempty"`
	Active       bool     `json:"active"`
}

// Override customizes, excludes, or adds a criterion for a single question.
// UUID is empty until the row has been persisted. Active=false means "this
// criterion does not apply to this question"; the exam default is untouched.
// A persisted override with no override fields set still counts as customized.
type Override struct {
	UUID         string   `json:"uuid,omitempty"`
	QuestionUUID string   `json:"question_uuid"`
	CriteriaUUID string   `json:"criteria_uuid"`
	Weight       *float64 `json:"weight_override,omitempty"`
	MaxPoints    *float64 `json:"max_points_override,omitempty"`
	Active       bool     `json:"active"`
}

// Ref identifies an answer draft as either a persisted row (carrying its
// remote uuid) or a local-only draft that has never been saved. Keeping the
// distinction explicit avoids sniffing id string shapes.
type Ref struct {
	id        string
	persisted bool
}

// PersistedRef refers to a row that exists remotely under uuid.
func PersistedRef(uuid string) Ref { return Ref{id: uuid, persisted: true} }

// LocalRef refers to a draft that only exists in the working set. The key is
// used to address the draft during editing and is never sent to the gateway.
func LocalRef(key string) Ref { return Ref{id: key} }

func (r Ref) Persisted() bool { return r.persisted }

// ID returns the remote uuid for persisted refs, the local key otherwise.
func (r Ref) ID() string { return r.id }

// Answer is one student's answer draft for the question being edited.
type Answer struct {
	Ref         Ref
	StudentUUID string
	Text        string
}

// Status classifies how a criterion applies to one question.
type Status string

const (
	// StatusInherited: exam default applies untouched, no working override.
	StatusInherited Status = "inherited"
	// StatusCustomized: exam criterion with an active working override.
	StatusCustomized Status = "customized"
	// StatusRemoved: working override with active=false excludes it.
	StatusRemoved Status = "removed"
	// StatusAdded: present only as a working override, no exam default.
	StatusAdded Status = "added"
)

// Row is the merged per-question view of one criterion.
type Row struct {
	Criterion Criterion      `json:"criterion"`
	Exam      *ExamCriterion `json:"exam_criterion,omitempty"`
	Override  *Override      `json:"override,omitempty"`
	Status    Status         `json:"status"`
	Weight    *float64       `json:"weight,omitempty"`
	MaxPoints *float64       `json:"max_points,omitempty"`
}

// BuildRubric merges the exam-level defaults with the working overrides into
// one classified row per criterion relevant to the question. Order is exam
// criteria first (catalog order), then added criteria in override order.
func BuildRubric(criteria []Criterion, examCriteria []ExamCriterion, overrides []Override) []Row {
	byCriterion := make(map[string]Criterion, len(criteria))
	for _, c := range criteria {
		byCriterion[c.UUID] = c
	}
	ovByCriterion := make(map[string]*Override, len(overrides))
	for i := range overrides {
		ovByCriterion[overrides[i].CriteriaUUID] = &overrides[i]
	}

	rows := make([]Row, 0, len(examCriteria))
	covered := make(map[string]bool, len(examCriteria))
	for i := range examCriteria {
		ec := &examCriteria[i]
		covered[ec.CriteriaUUID] = true
		row := Row{
			Criterion: byCriterion[ec.CriteriaUUID],
			Exam:      ec,
			Status:    StatusInherited,
			MaxPoints: ec.MaxPoints,
		}
		w := ec.Weight
		row.Weight = &w
		if ov := ovByCriterion[ec.CriteriaUUID]; ov != nil {
			row.Override = ov
			if !ov.Active {
				row.Status = StatusRemoved
				row.Weight = nil
			} else {
				row.Status = StatusCustomized
				if ov.Weight != nil {
					row.Weight = ov.Weight
				}
				if ov.MaxPoints != nil {
					row.MaxPoints = ov.MaxPoints
				}
			}
		}
		rows = append(rows, row)
	}
	for i := range overrides {
		ov := &overrides[i]
		if covered[ov.CriteriaUUID] {
			continue
		}
		row := Row{
			Criterion: byCriterion[ov.CriteriaUUID],
			Override:  ov,
			Status:    StatusAdded,
			Weight:    ov.Weight,
			MaxPoints: ov.MaxPoints,
		}
		if !ov.Active {
			// An added criterion has nothing to fall back to; an inactive
			// added override is shown as removed until it is dropped.
			row.Status = StatusRemoved
			row.Weight = nil
		}
		rows = append(rows, row)
	}
	return rows
}
