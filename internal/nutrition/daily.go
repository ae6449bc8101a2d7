package nutrition

import (
	"errors"
	"fmt"

	"mcp-calorie-calc/internal/models"
)

var (
	ErrUnknownGender   = errors.New("unknown gender")
	ErrUnknownActivity = errors.New("unknown activity level")
)

//nolint:gochecknoglobals // static lookup table
var activityMultipliers = map[models.ActivityLevel]float64{
	models.Sedentary:        1.2,
	models.LightlyActive:    1.375,
	models.ModeratelyActive: 1.55,
	models.VeryActive:       1.725,
	models.SuperActive:      1.9,
}

// BMR is the revised Harris-Benedict basal metabolic rate in kcal/day for
// weight in kg, height in cm and age in years.
func BMR(gender models.Gender, weightKg, heightCm, age float64) (float64, error) {
	switch gender {
	case models.Male:
		return 88.362 + 13.397*weightKg + 4.799*heightCm - 5.677*age, nil
	case models.Female:
		return 447.593 + 9.247*weightKg + 3.098*heightCm - 4.330*age, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownGender, gender)
	}
}

// DailyLimit scales the BMR by the activity multiplier.
func DailyLimit(req models.DailyLimitRequest) (models.DailyLimitResponse, error) {
	bmr, err := BMR(req.Gender, req.WeightKg, req.HeightCm, req.Age)
	if err != nil {
		return models.DailyLimitResponse{}, err
	}
	mult, ok := activityMultipliers[req.ActivityLevel]
	if !ok {
		return models.DailyLimitResponse{}, fmt.Errorf("%w: %q", ErrUnknownActivity, req.ActivityLevel)
	}
	return models.DailyLimitResponse{BMR: bmr, CaloricLimit: bmr * mult}, nil
}
