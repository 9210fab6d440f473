package scenario

import (
	"fmt"
	"sort"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
	uerrors "github.com/dcatrain/dca-feedback/internal/usecase/errors"
)

// Actions is the canonical action vocabulary trainees choose from. Order
// matters: it mirrors the model's action index.
var Actions = []string{
	"assess_situation",
	"dispatch_small_team",
	"dispatch_large_team",
	"call_fedfire",
	"activate_foam_system",
	"ship_recall",
	"evacuate_space",
	"monitor_situation",
}

var catalog = map[string]entities.Scenario{
	"engine_room_fuel": {
		Key:         "engine_room_fuel",
		ID:          1,
		Title:       "Engine Room JP-5 Fuel Fire",
		Description: "Small fuel fire in engine room, crew available",
		Complexity:  6,
	},
	"berthing_electrical": {
		Key:         "berthing_electrical",
		ID:          2,
		Title:       "Berthing Electrical Fire",
		Description: "Electrical fire in crew berthing, smoke present",
		Complexity:  4,
	},
	"hangar_aircraft": {
		Key:         "hangar_aircraft",
		ID:          3,
		Title:       "Hangar Bay Aircraft Fire",
		Description: "Aircraft fire in hangar bay, high risk scenario",
		Complexity:  10,
	},
	"galley_cooking": {
		Key:         "galley_cooking",
		ID:          4,
		Title:       "Galley Cooking Fire",
		Description: "Cooking fire in ship's galley, contained area",
		Complexity:  3,
	},
}

// Service serves the static scenario catalog and the heuristic first-action
// recommendation used when the trained model is not reachable.
type Service interface {
	// List returns the catalog ordered by scenario id
	List() []entities.Scenario

	// Get returns one scenario by key
	Get(key string) (entities.Scenario, error)

	// Known reports whether the key is in the catalog
	Known(key string) bool

	// Recommend returns the complexity-based first action for a scenario
	Recommend(key string) (entities.ActionRecommendation, error)
}

type catalogService struct{}

// NewService creates the catalog service.
func NewService() Service {
	return &catalogService{}
}

func (s *catalogService) List() []entities.Scenario {
	out := make([]entities.Scenario, 0, len(catalog))
	for _, sc := range catalog {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *catalogService) Get(key string) (entities.Scenario, error) {
	sc, ok := catalog[key]
	if !ok {
		return entities.Scenario{}, fmt.Errorf("scenario %q: %w", key, uerrors.ErrNotFound)
	}
	return sc, nil
}

func (s *catalogService) Known(key string) bool {
	_, ok := catalog[key]
	return ok
}

func (s *catalogService) Recommend(key string) (entities.ActionRecommendation, error) {
	sc, ok := catalog[key]
	if !ok {
		return entities.ActionRecommendation{}, fmt.Errorf("scenario %q: %w", key, uerrors.ErrNotFound)
	}

	rec := entities.ActionRecommendation{ScenarioKey: key}
	switch {
	case sc.Complexity <= 3:
		rec.PredictedAction = "dispatch_small_team"
		rec.Confidence = 0.92
		rec.Reasoning = "Low complexity fire can be handled by small team"
	case sc.Complexity <= 6:
		rec.PredictedAction = "dispatch_large_team"
		rec.Confidence = 0.88
		rec.Reasoning = "Medium complexity requires larger response team"
	case sc.Complexity <= 8:
		rec.PredictedAction = "call_fedfire"
		rec.Confidence = 0.85
		rec.Reasoning = "High complexity needs professional fire department"
	default:
		rec.PredictedAction = "ship_recall"
		rec.Confidence = 0.90
		rec.Reasoning = "Critical situation requires all-hands response"
	}
	return rec, nil
}
