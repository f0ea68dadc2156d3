package models

// SumPoints totals the points of the referenced problems in reference order.
// It reports false when any reference has no matching problem, in which case
// the returned total is the number of references.
func SumPoints(problemIDs []string, problems []Problem) (int, bool) {
	byID := make(map[string]*Problem, len(problems))
	for i := range problems {
		byID[problems[i].ID] = &problems[i]
	}

	total := 0
	for _, id := range problemIDs {
		p, ok := byID[id]
		if !ok {
			return len(problemIDs), false
		}
		total += p.EffectivePoints()
	}
	return total, true
}
