package rubric

// Redistribute recomputes weight shares across the active criterion set of a
// question. The active set is every exam criterion that is not overridden to
// active=false, plus every added override with active=true.
//
// When autoDistribute is off the working set is returned unchanged: weights
// stay exactly as the user last set them, with no guarantee they sum to 100.
// When it is on, each active entry gets weight 100/N as a raw float; entries
// outside the active set are not assigned. Exam criteria in the active set
// that have no working override yet get one synthesized first (max_points
// copied from the exam default, active=true), so that the share lands on a
// concrete override row.
func Redistribute(examCriteria []ExamCriterion, working []Override, autoDistribute bool) []Override {
	if !autoDistribute {
		return working
	}

	ovByCriterion := make(map[string]int, len(working))
	for i := range working {
		ovByCriterion[working[i].CriteriaUUID] = i
	}

	// Synthesize overrides for base criteria that are active but untouched.
	for i := range examCriteria {
		ec := &examCriteria[i]
		if !ec.Active {
			continue
		}
		if _, ok := ovByCriterion[ec.CriteriaUUID]; ok {
			continue
		}
		working = append(working, Override{
			CriteriaUUID: ec.CriteriaUUID,
			MaxPoints:    copyFloat(ec.MaxPoints),
			Active:       true,
		})
		ovByCriterion[ec.CriteriaUUID] = len(working) - 1
	}

	n := 0
	for i := range working {
		if working[i].Active {
			n++
		}
	}
	if n == 0 {
		return working
	}

	share := 100.0 / float64(n)
	for i := range working {
		if working[i].Active {
			w := share
			working[i].Weight = &w
		}
	}
	return working
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
