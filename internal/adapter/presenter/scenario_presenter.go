package presenter

import (
	scenarioDTO "github.com/dcatrain/dca-feedback/internal/adapter/dto/scenario"
	"github.com/dcatrain/dca-feedback/internal/domain/entities"
)

// ToScenarioResponse converts a catalog entry to its wire shape
func ToScenarioResponse(s entities.Scenario) scenarioDTO.ScenarioResponse {
	return scenarioDTO.ScenarioResponse{
		Key:         s.Key,
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Complexity:  s.Complexity,
	}
}

// ToScenarioListResponse converts the full catalog
func ToScenarioListResponse(scenarios []entities.Scenario, actions []string) *scenarioDTO.ListResponse {
	out := make([]scenarioDTO.ScenarioResponse, 0, len(scenarios))
	for _, s := range scenarios {
		out = append(out, ToScenarioResponse(s))
	}
	return &scenarioDTO.ListResponse{
		Success:   true,
		Scenarios: out,
		Actions:   actions,
	}
}

// ToScenarioDetailResponse converts one scenario with its recommendation
func ToScenarioDetailResponse(s entities.Scenario, rec *entities.ActionRecommendation) *scenarioDTO.DetailResponse {
	resp := &scenarioDTO.DetailResponse{
		Success:  true,
		Scenario: ToScenarioResponse(s),
	}
	if rec != nil {
		resp.Recommendation = &scenarioDTO.RecommendationResponse{
			PredictedAction: rec.PredictedAction,
			Confidence:      rec.Confidence,
			Reasoning:       rec.Reasoning,
		}
	}
	return resp
}
