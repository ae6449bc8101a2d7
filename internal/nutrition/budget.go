package nutrition

import "mcp-calorie-calc/internal/models"

// Evaluate classifies total calories against an optional daily limit.
// Hitting the limit exactly is within it, with nothing remaining.
func Evaluate(total float64, limit *float64) models.Verdict {
	if limit == nil {
		return models.Verdict{Status: models.NoLimitSet}
	}
	if total > *limit {
		return models.Verdict{Status: models.Exceeded, Amount: total - *limit}
	}
	return models.Verdict{Status: models.WithinLimit, Amount: *limit - total}
}
