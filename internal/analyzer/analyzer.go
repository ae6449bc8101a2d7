// Package analyzer runs a meal description through extraction, resolution,
// aggregation and the caloric budget check, and assembles the report.
package analyzer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mcp-calorie-calc/internal/extract"
	"mcp-calorie-calc/internal/logger"
	"mcp-calorie-calc/internal/metrics"
	"mcp-calorie-calc/internal/models"
	"mcp-calorie-calc/internal/nutrition"
)

// MentionExtractor turns meal text into mentions.
type MentionExtractor interface {
	Extract(ctx context.Context, text string) ([]models.Mention, error)
}

// Service holds no per-request state; concurrent Analyze calls share only the
// read-only catalog behind the resolver.
type Service struct {
	extractor MentionExtractor
	resolver  *nutrition.Resolver
	now       func() time.Time
}

func New(extractor MentionExtractor, resolver *nutrition.Resolver) *Service {
	return &Service{extractor: extractor, resolver: resolver, now: time.Now}
}

// NewFromConfig wires an extractor and resolver whose behavior follows mode.
func NewFromConfig(ex *extract.Extractor, catalog nutrition.Catalog, maxSuggestions int, cutoff float64) *Service {
	resolver := nutrition.NewResolver(catalog,
		nutrition.WithSingularFallback(ex.Mode() == extract.ModeCompound),
		nutrition.WithSuggestions(maxSuggestions, cutoff),
	)
	return New(ex, resolver)
}

// Analyze produces the nutrition report for one description. Unmatched items
// never fail the call; they are reported as warnings next to the totals of
// the matched ones.
func (s *Service) Analyze(ctx context.Context, description string, limit *float64) (*models.Report, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	mentions, err := s.extractor.Extract(ctx, description)
	if err != nil {
		metrics.MealAnalysesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	resolutions := s.resolver.ResolveAll(mentions)
	totals := nutrition.Aggregate(resolutions)
	verdict := nutrition.Evaluate(totals.Calories, limit)

	var warnings []models.UnmatchedWarning
	for _, r := range resolutions {
		if r.Matched() {
			metrics.MentionsTotal.WithLabelValues("matched").Inc()
			continue
		}
		metrics.MentionsTotal.WithLabelValues("unmatched").Inc()
		log.Info("Food item not found in catalog",
			zap.String("item", r.Mention.ItemName),
			zap.Strings("suggestions", r.Suggestions),
		)
		warnings = append(warnings, unmatchedWarning(r))
	}

	if mentions == nil {
		mentions = []models.Mention{}
	}
	report := &models.Report{
		ID:             uuid.NewString(),
		Description:    description,
		Mentions:       mentions,
		Resolutions:    resolutions,
		Totals:         totals,
		Table:          nutrientTable(totals),
		Breakdown:      breakdown(totals),
		CaloricLimit:   limit,
		Verdict:        verdict,
		VerdictMessage: verdictMessage(verdict),
		Warnings:       warnings,
		CreatedAt:      s.now(),
	}

	metrics.VerdictsTotal.WithLabelValues(string(verdict.Status)).Inc()
	metrics.MealAnalysesTotal.WithLabelValues("ok").Inc()
	metrics.MealAnalysisDuration.Observe(time.Since(start).Seconds())

	log.Debug("Meal analyzed",
		zap.String("report_id", report.ID),
		zap.Int("mentions", len(mentions)),
		zap.Int("unmatched", len(warnings)),
		zap.Float64("calories", totals.Calories),
		zap.String("verdict", string(verdict.Status)),
	)
	return report, nil
}
