package analyzer

import (
	"fmt"
	"strings"

	"mcp-calorie-calc/internal/models"
)

func nutrientTable(n models.Nutrients) []models.NutrientRow {
	return []models.NutrientRow{
		{Nutrient: "Total Calories", Amount: n.Calories},
		{Nutrient: "Total Cholesterol", Amount: n.Cholesterol},
		{Nutrient: "Total Fat", Amount: n.TotalFat},
		{Nutrient: "Total Sodium", Amount: n.Sodium},
		{Nutrient: "Total Carbohydrates", Amount: n.TotalCarbs},
		{Nutrient: "Total Fiber", Amount: n.Fiber},
		{Nutrient: "Total Sugar", Amount: n.Sugar},
		{Nutrient: "Total Calcium", Amount: n.Calcium},
		{Nutrient: "Total Protein", Amount: n.Protein},
	}
}

// breakdown gives each of the eight non-calorie nutrients its share of their
// sum, in percent. All shares are zero when the sum is zero.
func breakdown(n models.Nutrients) []models.BreakdownSlice {
	rows := nutrientTable(n)[1:]

	var sum float64
	for _, r := range rows {
		sum += r.Amount
	}

	out := make([]models.BreakdownSlice, len(rows))
	for i, r := range rows {
		out[i] = models.BreakdownSlice{Nutrient: r.Nutrient, Amount: r.Amount}
		if sum > 0 {
			out[i].Percent = r.Amount / sum * 100
		}
	}
	return out
}

func verdictMessage(v models.Verdict) string {
	switch v.Status {
	case models.Exceeded:
		return fmt.Sprintf("Warning: You have exceeded your daily caloric limit by %.2f kcal", v.Amount)
	case models.WithinLimit:
		return fmt.Sprintf("You are within your daily caloric limit. You have %.2f kcal remaining.", v.Amount)
	default:
		return ""
	}
}

func unmatchedWarning(r models.Resolution) models.UnmatchedWarning {
	msg := fmt.Sprintf("Sorry, I couldn't find the food item '%s' in the dataset.", r.Mention.ItemName)
	if len(r.Suggestions) > 0 {
		msg += fmt.Sprintf(" Did you mean: %s?", strings.Join(r.Suggestions, ", "))
	}
	return models.UnmatchedWarning{
		ItemName:    r.Mention.ItemName,
		Message:     msg,
		Suggestions: r.Suggestions,
	}
}
