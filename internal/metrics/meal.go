package metrics

import "github.com/prometheus/client_golang/prometheus"

// Meal analysis Prometheus metrics.
var (
	MealAnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calorie_calc",
			Name:      "meal_analyses_total",
			Help:      "Total number of analyzed meal descriptions",
		},
		[]string{"status"}, // "ok" / "error"
	)

	MealAnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "calorie_calc",
			Name:      "meal_analysis_duration_seconds",
			Help:      "Time to extract, resolve and total one meal description",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	MentionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calorie_calc",
			Name:      "mentions_total",
			Help:      "Extracted food mentions by resolution outcome",
		},
		[]string{"resolution"}, // "matched" / "unmatched"
	)

	VerdictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calorie_calc",
			Name:      "verdicts_total",
			Help:      "Caloric budget verdicts by status",
		},
		[]string{"status"},
	)

	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calorie_calc",
			Name:      "tool_calls_total",
			Help:      "MCP tool calls by tool name and HTTP status",
		},
		[]string{"tool", "status"},
	)

	CatalogEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "calorie_calc",
			Name:      "catalog_entries",
			Help:      "Number of entries in the loaded nutrient catalog",
		},
	)
)

var mealMetricsRegistered bool

// RegisterMealMetrics registers the meal metrics. Must be called once from main.
func RegisterMealMetrics() {
	if mealMetricsRegistered {
		return
	}
	prometheus.MustRegister(MealAnalysesTotal)
	prometheus.MustRegister(MealAnalysisDuration)
	prometheus.MustRegister(MentionsTotal)
	prometheus.MustRegister(VerdictsTotal)
	prometheus.MustRegister(ToolCallsTotal)
	prometheus.MustRegister(CatalogEntries)
	mealMetricsRegistered = true
}
