package nutrition

import (
	"sort"

	"mcp-calorie-calc/internal/models"
)

// Aggregate sums quantity × nutrients over the matched resolutions.
// Unmatched resolutions add nothing. Each field's contributions are summed
// in sorted order, so any permutation of the input gives bit-identical totals.
func Aggregate(resolutions []models.Resolution) models.Nutrients {
	var parts [9][]float64
	for _, r := range resolutions {
		if !r.Matched() {
			continue
		}
		n := r.Entry.Nutrients.Scale(float64(r.Mention.Quantity))
		for i, v := range vector(n) {
			parts[i] = append(parts[i], v)
		}
	}

	var sums [9]float64
	for i, p := range parts {
		sort.Float64s(p)
		for _, v := range p {
			sums[i] += v
		}
	}
	return models.Nutrients{
		Calories:    sums[0],
		Cholesterol: sums[1],
		TotalFat:    sums[2],
		Sodium:      sums[3],
		TotalCarbs:  sums[4],
		Fiber:       sums[5],
		Sugar:       sums[6],
		Calcium:     sums[7],
		Protein:     sums[8],
	}
}

// vector lists the fields in the fixed order calories, cholesterol, total fat,
// sodium, total carbs, fiber, sugar, calcium, protein.
func vector(n models.Nutrients) [9]float64 {
	return [9]float64{
		n.Calories, n.Cholesterol, n.TotalFat, n.Sodium, n.TotalCarbs,
		n.Fiber, n.Sugar, n.Calcium, n.Protein,
	}
}
