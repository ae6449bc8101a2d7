// internal/server/tools.go
package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"go.uber.org/zap"

	"mcp-calorie-calc/internal/logger"
	"mcp-calorie-calc/internal/models"
	"mcp-calorie-calc/internal/nutrition"
)

type AnalyzeMealParams struct {
	Description  string   `json:"description" description:"Free-text description of the meal eaten" validate:"max=2000"`
	SessionID    string   `json:"session_id,omitempty" description:"Session whose stored caloric limit applies"`
	CaloricLimit *float64 `json:"caloric_limit,omitempty" description:"Daily caloric limit in kcal; overrides the session limit" validate:"omitempty,gte=100,lte=5000"`
}

type LookupFoodParams struct {
	Name string `json:"name" description:"Food name or part of one" validate:"required"`
}

type SuggestFoodsParams struct {
	Name   string  `json:"name" description:"Possibly misspelled food name" validate:"required"`
	Max    int     `json:"max,omitempty" description:"Maximum number of suggestions (defaults to 3)" validate:"omitempty,gte=1,lte=10"`
	Cutoff float64 `json:"cutoff,omitempty" description:"Minimum similarity in (0, 1] (defaults to 0.6)" validate:"omitempty,gt=0,lte=1"`
}

type SetCaloricLimitParams struct {
	SessionID    string  `json:"session_id" description:"Session to store the limit for" validate:"required"`
	CaloricLimit float64 `json:"caloric_limit" description:"Daily caloric limit in kcal" validate:"required,gte=100,lte=5000"`
}

type CalculateDailyLimitParams struct {
	SessionID     string  `json:"session_id,omitempty" description:"Store the calculated limit for this session"`
	Gender        string  `json:"gender" description:"male or female" validate:"required,oneof=male female"`
	WeightKg      float64 `json:"weight_kg" description:"Body weight in kg" validate:"required,gte=30,lte=200"`
	HeightCm      float64 `json:"height_cm" description:"Height in cm" validate:"required,gte=100,lte=250"`
	Age           float64 `json:"age" description:"Age in years" validate:"required,gte=10,lte=100"`
	ActivityLevel string  `json:"activity_level" description:"Activity level" validate:"required,oneof=sedentary lightly_active moderately_active very_active super_active"`
}

type GetCaloricLimitParams struct {
	SessionID string `json:"session_id" description:"Session to read the limit of" validate:"required"`
}

// extractParams decodes the request arguments into target and validates it.
func (s *CalorieServer) extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal arguments: %v", ErrInvalidParams, err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("%w: failed to unmarshal parameters: %v", ErrInvalidParams, err)
	}

	return s.validator.Validate(target)
}

// handleAnalyzeMeal extracts, resolves and totals the foods in a description.
// An explicit caloric_limit wins over the limit stored for the session.
func (s *CalorieServer) handleAnalyzeMeal(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AnalyzeMealParams
	if err := s.extractParams(req, &params); err != nil {
		return nil, err
	}

	limit := params.CaloricLimit
	if limit == nil && params.SessionID != "" {
		if stored, ok := s.limits.Get(params.SessionID); ok {
			limit = &stored
		}
	}

	report, err := s.analyzer.Analyze(ctx, params.Description, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze meal: %w", err)
	}

	return s.createJSONResponse(report)
}

func (s *CalorieServer) handleLookupFood(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params LookupFoodParams
	if err := s.extractParams(req, &params); err != nil {
		return nil, err
	}

	entries := s.catalog.Find(params.Name)
	if entries == nil {
		entries = []models.CatalogEntry{}
	}
	return s.createJSONResponse(map[string]interface{}{
		"name":    params.Name,
		"count":   len(entries),
		"entries": entries,
	})
}

func (s *CalorieServer) handleSuggestFoods(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params SuggestFoodsParams
	if err := s.extractParams(req, &params); err != nil {
		return nil, err
	}

	if params.Max == 0 {
		params.Max = s.config.MaxSuggestions
	}
	if params.Cutoff == 0 {
		params.Cutoff = s.config.Cutoff
	}

	suggestions := s.catalog.Suggest(params.Name, params.Max, params.Cutoff)
	if suggestions == nil {
		suggestions = []string{}
	}
	return s.createJSONResponse(map[string]interface{}{
		"name":        params.Name,
		"suggestions": suggestions,
	})
}

func (s *CalorieServer) handleSetCaloricLimit(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params SetCaloricLimitParams
	if err := s.extractParams(req, &params); err != nil {
		return nil, err
	}

	s.limits.Set(params.SessionID, params.CaloricLimit)
	logger.FromContext(ctx).Debug("Caloric limit set",
		zap.String("session_id", params.SessionID),
		zap.Float64("caloric_limit", params.CaloricLimit),
	)

	return s.createJSONResponse(map[string]interface{}{
		"session_id":    params.SessionID,
		"caloric_limit": params.CaloricLimit,
	})
}

// handleCalculateDailyLimit estimates a daily limit from body metrics and
// activity, and stores it when a session is given.
func (s *CalorieServer) handleCalculateDailyLimit(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params CalculateDailyLimitParams
	if err := s.extractParams(req, &params); err != nil {
		return nil, err
	}

	resp, err := nutrition.DailyLimit(models.DailyLimitRequest{
		Gender:        models.Gender(params.Gender),
		WeightKg:      params.WeightKg,
		HeightCm:      params.HeightCm,
		Age:           params.Age,
		ActivityLevel: models.ActivityLevel(params.ActivityLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	if params.SessionID != "" {
		s.limits.Set(params.SessionID, resp.CaloricLimit)
		logger.FromContext(ctx).Debug("Caloric limit calculated",
			zap.String("session_id", params.SessionID),
			zap.Float64("caloric_limit", resp.CaloricLimit),
		)
	}

	return s.createJSONResponse(resp)
}

func (s *CalorieServer) handleGetCaloricLimit(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GetCaloricLimitParams
	if err := s.extractParams(req, &params); err != nil {
		return nil, err
	}

	result := map[string]interface{}{"session_id": params.SessionID}
	if limit, ok := s.limits.Get(params.SessionID); ok {
		result["caloric_limit"] = limit
	} else {
		result["caloric_limit"] = nil
	}
	return s.createJSONResponse(result)
}

// registerTools builds the tool table handleHTTP dispatches on.
func (s *CalorieServer) registerTools() error {
	s.tools = map[string]toolHandler{
		"analyze_meal":          s.handleAnalyzeMeal,
		"lookup_food":           s.handleLookupFood,
		"suggest_foods":         s.handleSuggestFoods,
		"set_caloric_limit":     s.handleSetCaloricLimit,
		"calculate_daily_limit": s.handleCalculateDailyLimit,
		"get_caloric_limit":     s.handleGetCaloricLimit,
	}

	for name := range s.tools {
		s.logger.Debug("Registered tool", zap.String("tool", name))
	}

	return nil
}
