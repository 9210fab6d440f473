package entities

// Scenario is one entry of the static training scenario catalog.
type Scenario struct {
	Key         string `json:"key"`
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Complexity  int    `json:"complexity"`
}

// ActionRecommendation is the heuristic first-action suggestion for a
// scenario, produced while the trained model stays an external collaborator.
type ActionRecommendation struct {
	ScenarioKey     string  `json:"scenario_key"`
	PredictedAction string  `json:"predicted_action"`
	Confidence      float64 `json:"confidence"`
	Reasoning       string  `json:"reasoning"`
}
