package nutrition

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-calorie-calc/internal/catalog"
	"mcp-calorie-calc/internal/models"
)

func fastFood(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]models.CatalogEntry{
		{Name: "chicken burger", Source: "dataset1", Nutrients: models.Nutrients{Calories: 500, TotalFat: 20, Protein: 25}},
		{Name: "chicken fries", Source: "dataset1", Nutrients: models.Nutrients{Calories: 300, Sodium: 700}},
		{Name: "chicken nugget", Source: "dataset2", Nutrients: models.Nutrients{Calories: 50, Protein: 3}},
		{Name: "chicken wings", Source: "dataset2", Nutrients: models.Nutrients{Calories: 90}},
		{Name: "hamburger", Source: "dataset2", Nutrients: models.Nutrients{Calories: 250}},
	})
	require.NoError(t, err)
	return c
}

func mention(name string, qty int) models.Mention {
	return models.Mention{RawText: name, ItemName: name, Quantity: qty}
}

func TestResolve_FirstMatchWins(t *testing.T) {
	r := NewResolver(fastFood(t))

	res := r.Resolve(mention("chicken", 1))
	require.True(t, res.Matched())
	assert.Equal(t, "chicken burger", res.Entry.Name)

	res = r.Resolve(mention("burger", 2))
	require.True(t, res.Matched())
	assert.Equal(t, "chicken burger", res.Entry.Name)
	assert.Equal(t, 2, res.Mention.Quantity)
}

func TestResolve_UnmatchedWithSuggestions(t *testing.T) {
	r := NewResolver(fastFood(t))

	res := r.Resolve(mention("hamburgers", 1))
	assert.False(t, res.Matched())
	assert.Equal(t, "hamburgers", res.Mention.ItemName)
	assert.Equal(t, []string{"hamburger"}, res.Suggestions)

	res = r.Resolve(mention("wing", 2))
	require.True(t, res.Matched(), "substring match reaches chicken wings")
	assert.Equal(t, "chicken wings", res.Entry.Name)

	res = r.Resolve(mention("unicorns", 2))
	assert.False(t, res.Matched())
	assert.Empty(t, res.Suggestions)
}

func TestResolve_SingularFallback(t *testing.T) {
	strict := NewResolver(fastFood(t))
	lenient := NewResolver(fastFood(t), WithSingularFallback(true))

	assert.False(t, strict.Resolve(mention("nuggets", 4)).Matched())

	res := lenient.Resolve(mention("nuggets", 4))
	require.True(t, res.Matched())
	assert.Equal(t, "chicken nugget", res.Entry.Name)

	res = lenient.Resolve(mention("hamburgers", 1))
	require.True(t, res.Matched())
	assert.Equal(t, "hamburger", res.Entry.Name)
}

func TestResolve_SuggestionLimits(t *testing.T) {
	r := NewResolver(fastFood(t), WithSuggestions(1, 0.5))

	res := r.Resolve(mention("chiken burgr", 1))
	require.False(t, res.Matched())
	assert.Equal(t, []string{"chicken burger"}, res.Suggestions)
}

func TestResolveAll_KeepsOrder(t *testing.T) {
	r := NewResolver(fastFood(t))
	got := r.ResolveAll([]models.Mention{mention("fries", 1), mention("unicorn", 2), mention("burger", 1)})

	require.Len(t, got, 3)
	assert.Equal(t, "chicken fries", got[0].Entry.Name)
	assert.False(t, got[1].Matched())
	assert.Equal(t, "chicken burger", got[2].Entry.Name)
	assert.Empty(t, r.ResolveAll(nil))
}

func TestResolve_SingularFallbackUsesRealSingulars(t *testing.T) {
	c, err := catalog.New([]models.CatalogEntry{
		{Name: "fried rice", Nutrients: models.Nutrients{Calories: 520}},
		{Name: "small fry", Nutrients: models.Nutrients{Calories: 230}},
		{Name: "club sandwich", Nutrients: models.Nutrients{Calories: 590}},
		{Name: "glass noodles", Nutrients: models.Nutrients{Calories: 190}},
	})
	require.NoError(t, err)
	r := NewResolver(c, WithSingularFallback(true))

	tests := []struct {
		in    string
		want  string
		match bool
	}{
		{"fries", "small fry", true},
		{"sandwiches", "club sandwich", true},
		{"glass", "glass noodles", true},
		{"tacos", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			res := r.Resolve(mention(tt.in, 1))
			require.Equal(t, tt.match, res.Matched())
			if tt.match {
				assert.Equal(t, tt.want, res.Entry.Name)
			}
		})
	}
}

func TestAggregate_ScalesSingleEntry(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for range 50 {
		e := models.CatalogEntry{Name: "x", Nutrients: models.Nutrients{
			Calories: rng.Float64() * 1000, Cholesterol: rng.Float64() * 100, TotalFat: rng.Float64() * 50,
			Sodium: rng.Float64() * 2000, TotalCarbs: rng.Float64() * 100, Fiber: rng.Float64() * 10,
			Sugar: rng.Float64() * 40, Calcium: rng.Float64() * 30, Protein: rng.Float64() * 60,
		}}
		q := rng.Intn(20) + 1

		got := Aggregate([]models.Resolution{{Mention: mention("x", q), Entry: &e}})
		assert.Equal(t, e.Nutrients.Scale(float64(q)), got)
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var resolutions []models.Resolution
	for i := range 12 {
		e := models.CatalogEntry{Name: "x", Nutrients: models.Nutrients{
			Calories: rng.Float64() * 733.3, Sodium: rng.Float64() * 1e-3, Protein: float64(i) / 3,
		}}
		resolutions = append(resolutions, models.Resolution{Mention: mention("x", rng.Intn(5)+1), Entry: &e})
	}
	resolutions = append(resolutions, models.Resolution{Mention: mention("unicorn", 3)})

	want := Aggregate(resolutions)
	for range 20 {
		shuffled := append([]models.Resolution(nil), resolutions...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.Equal(t, want, Aggregate(shuffled))
	}
}

func TestAggregate_UnmatchedAndEmpty(t *testing.T) {
	assert.Equal(t, models.Nutrients{}, Aggregate(nil))
	assert.Equal(t, models.Nutrients{}, Aggregate([]models.Resolution{
		{Mention: mention("wings", 2), Suggestions: []string{"chicken wings"}},
	}))
}

func TestScenario_FastFoodMeal(t *testing.T) {
	r := NewResolver(fastFood(t), WithSingularFallback(true))
	mentions := []models.Mention{mention("burger", 1), mention("fries", 1), mention("nuggets", 4)}

	totals := Aggregate(r.ResolveAll(mentions))
	assert.Equal(t, 1000.0, totals.Calories)
	assert.Equal(t, 37.0, totals.Protein)
	assert.Equal(t, 700.0, totals.Sodium)
}

func TestEvaluate(t *testing.T) {
	limit := func(v float64) *float64 { return &v }

	tests := []struct {
		name  string
		total float64
		limit *float64
		want  models.Verdict
	}{
		{"no limit", 2500, nil, models.Verdict{Status: models.NoLimitSet}},
		{"exceeded", 2500, limit(2000), models.Verdict{Status: models.Exceeded, Amount: 500}},
		{"within", 1200, limit(2000), models.Verdict{Status: models.WithinLimit, Amount: 800}},
		{"boundary", 2000, limit(2000), models.Verdict{Status: models.WithinLimit, Amount: 0}},
		{"empty meal", 0, limit(1800), models.Verdict{Status: models.WithinLimit, Amount: 1800}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.total, tt.limit))
		})
	}
}

func TestDailyLimit(t *testing.T) {
	got, err := DailyLimit(models.DailyLimitRequest{
		Gender: models.Male, WeightKg: 70, HeightCm: 170, Age: 30, ActivityLevel: models.Sedentary,
	})
	require.NoError(t, err)
	assert.InDelta(t, 1671.672, got.BMR, 1e-9)
	assert.InDelta(t, 2006.0064, got.CaloricLimit, 1e-9)

	got, err = DailyLimit(models.DailyLimitRequest{
		Gender: models.Female, WeightKg: 60, HeightCm: 165, Age: 25, ActivityLevel: models.ModeratelyActive,
	})
	require.NoError(t, err)
	assert.InDelta(t, 1405.333, got.BMR, 1e-9)
	assert.InDelta(t, 2178.26615, got.CaloricLimit, 1e-9)
}

func TestDailyLimit_Errors(t *testing.T) {
	_, err := DailyLimit(models.DailyLimitRequest{Gender: "other", ActivityLevel: models.Sedentary})
	assert.ErrorIs(t, err, ErrUnknownGender)

	_, err = DailyLimit(models.DailyLimitRequest{Gender: models.Male, ActivityLevel: "couch"})
	assert.ErrorIs(t, err, ErrUnknownActivity)
}
