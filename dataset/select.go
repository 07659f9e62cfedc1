package dataset

import (
	"sort"

	"github.com/kilianp07/regcast/core/model"
)

// Categories returns the distinct categories in lexical order.
func Categories(recs []Record) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range recs {
		if _, ok := seen[r.Category]; ok || r.Category == "" {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	sort.Strings(out)
	return out
}

// Observations extracts the series of category. When category equals
// allCategory the counts of every category are summed per year. Rows are
// returned as found; repeated years are left for sample validation to reject.
func Observations(recs []Record, category, allCategory string) []model.Observation {
	if allCategory != "" && category == allCategory {
		return aggregate(recs)
	}
	var out []model.Observation
	for _, r := range recs {
		if r.Category == category {
			out = append(out, model.Observation{Year: r.Year, Count: r.Count})
		}
	}
	return out
}

func aggregate(recs []Record) []model.Observation {
	sums := make(map[int]int64)
	for _, r := range recs {
		sums[r.Year] += r.Count
	}
	out := make([]model.Observation, 0, len(sums))
	for y, c := range sums {
		out = append(out, model.Observation{Year: y, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
