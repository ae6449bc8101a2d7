// internal/models/nutrition.go
package models

import "time"

// Nutrients is the fixed nine-field nutrient vector of a catalog entry or a meal total.
type Nutrients struct {
	Calories    float64 `json:"calories"`
	Cholesterol float64 `json:"cholesterol"`
	TotalFat    float64 `json:"total_fat"`
	Sodium      float64 `json:"sodium"`
	TotalCarbs  float64 `json:"total_carbs"`
	Fiber       float64 `json:"fiber"`
	Sugar       float64 `json:"sugar"`
	Calcium     float64 `json:"calcium"`
	Protein     float64 `json:"protein"`
}

// Scale returns n with every field multiplied by q.
func (n Nutrients) Scale(q float64) Nutrients {
	return Nutrients{
		Calories:    n.Calories * q,
		Cholesterol: n.Cholesterol * q,
		TotalFat:    n.TotalFat * q,
		Sodium:      n.Sodium * q,
		TotalCarbs:  n.TotalCarbs * q,
		Fiber:       n.Fiber * q,
		Sugar:       n.Sugar * q,
		Calcium:     n.Calcium * q,
		Protein:     n.Protein * q,
	}
}

type CatalogEntry struct {
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	Nutrients Nutrients `json:"nutrients"`
}

// Mention is one (item, quantity) pair pulled out of a meal description.
type Mention struct {
	RawText  string `json:"raw_text"`
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
}

// Resolution is Matched when Entry is set, Unmatched otherwise.
type Resolution struct {
	Mention     Mention       `json:"mention"`
	Entry       *CatalogEntry `json:"entry,omitempty"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

func (r Resolution) Matched() bool {
	return r.Entry != nil
}

type VerdictStatus string

const (
	WithinLimit VerdictStatus = "within_limit"
	Exceeded    VerdictStatus = "exceeded"
	NoLimitSet  VerdictStatus = "no_limit"
)

// Verdict classifies a calorie total against a daily limit. Amount is the
// remaining budget for WithinLimit and the overage for Exceeded.
type Verdict struct {
	Status VerdictStatus `json:"status"`
	Amount float64       `json:"amount"`
}

type NutrientRow struct {
	Nutrient string  `json:"nutrient"`
	Amount   float64 `json:"amount"`
}

type BreakdownSlice struct {
	Nutrient string  `json:"nutrient"`
	Amount   float64 `json:"amount"`
	Percent  float64 `json:"percent"`
}

// UnmatchedWarning is reported once per item that could not be resolved.
type UnmatchedWarning struct {
	ItemName    string   `json:"item_name"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

type Report struct {
	ID             string             `json:"id"`
	Description    string             `json:"description"`
	Mentions       []Mention          `json:"mentions"`
	Resolutions    []Resolution       `json:"resolutions"`
	Totals         Nutrients          `json:"totals"`
	Table          []NutrientRow      `json:"table"`
	Breakdown      []BreakdownSlice   `json:"breakdown"`
	CaloricLimit   *float64           `json:"caloric_limit,omitempty"`
	Verdict        Verdict            `json:"verdict"`
	VerdictMessage string             `json:"verdict_message,omitempty"`
	Warnings       []UnmatchedWarning `json:"warnings,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

type ActivityLevel string

const (
	Sedentary        ActivityLevel = "sedentary"
	LightlyActive    ActivityLevel = "lightly_active"
	ModeratelyActive ActivityLevel = "moderately_active"
	VeryActive       ActivityLevel = "very_active"
	SuperActive      ActivityLevel = "super_active"
)

// DailyLimitRequest carries the body metrics used to estimate a daily calorie need.
type DailyLimitRequest struct {
	Gender        Gender        `json:"gender"`
	WeightKg      float64       `json:"weight_kg"`
	HeightCm      float64       `json:"height_cm"`
	Age           float64       `json:"age"`
	ActivityLevel ActivityLevel `json:"activity_level"`
}

type DailyLimitResponse struct {
	BMR          float64 `json:"bmr"`
	CaloricLimit float64 `json:"caloric_limit"`
}
