package scenario

// ScenarioResponse is one catalog entry
type ScenarioResponse struct {
	Key         string `json:"key"`
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Complexity  int    `json:"complexity"`
}

// RecommendationResponse is the heuristic first-action suggestion
type RecommendationResponse struct {
	PredictedAction string  `json:"predicted_action"`
	Confidence      float64 `json:"confidence"`
	Reasoning       string  `json:"reasoning"`
}

// ListResponse returns the full catalog with the canonical action vocabulary
type ListResponse struct {
	Success   bool               `json:"success"`
	Scenarios []ScenarioResponse `json:"scenarios"`
	Actions   []string           `json:"actions"`
}

// DetailResponse returns one scenario with its recommended first action
type DetailResponse struct {
	Success        bool                    `json:"success"`
	Scenario       ScenarioResponse        `json:"scenario"`
	Recommendation *RecommendationResponse `json:"recommendation,omitempty"`
}
