package rubric

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateWorking runs before any reconciliation. A failure here means no
// gateway call is made at all.
func validateWorking(overrides []Override, answers []Answer) error {
	for i := range overrides {
		ov := &overrides[i]
		if ov.Weight != nil {
			if err := validate.Var(*ov.Weight, "gt=0,lte=100"); err != nil {
				return &ValidationError{Field: "weight_override", Reason: "must be in (0, 100]"}
			}
		}
		if ov.MaxPoints != nil {
			if err := validate.Var(*ov.MaxPoints, "gte=0"); err != nil {
				return &ValidationError{Field: "max_points_override", Reason: "must not be negative"}
			}
		}
	}
	for i := range answers {
		if err := validate.Var(strings.TrimSpace(answers[i].Text), "required"); err != nil {
			return &ValidationError{Field: "answer_text", Reason: "must not be empty"}
		}
		if err := validate.Var(answers[i].StudentUUID, "required"); err != nil {
			return &ValidationError{Field: "student_uuid", Reason: "must not be empty"}
		}
	}
	return nil
}
