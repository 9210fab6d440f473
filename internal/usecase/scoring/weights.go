package scoring

// WeightTriple is the convex weighting applied to the three sub-scores of a
// response evaluation. Each triple sums to 1.0.
type WeightTriple struct {
	Speed    float64 `json:"speed"`
	Protocol float64 `json:"protocol"`
	Safety   float64 `json:"safety"`
}

// Sum returns the total of the three weights.
func (w WeightTriple) Sum() float64 {
	return w.Speed + w.Protocol + w.Safety
}

// defaultWeights applies to any category not in the table. Unknown categories
// are not an error; the caller logs them at low severity.
var defaultWeights = WeightTriple{Speed: 0.3, Protocol: 0.4, Safety: 0.3}

// categoryWeights maps the named exercise phases to their weight triples.
// Early phases reward fast reaction; later phases reward procedure and
// safety discipline over raw speed.
var categoryWeights = map[string]WeightTriple{
	"Initial Response":    {Speed: 0.4, Protocol: 0.4, Safety: 0.2},
	"Investigation Phase": {Speed: 0.3, Protocol: 0.3, Safety: 0.4},
	"Fire Attack":         {Speed: 0.4, Protocol: 0.3, Safety: 0.3},
	"Containment":         {Speed: 0.2, Protocol: 0.4, Safety: 0.4},
	"Overhaul":            {Speed: 0.2, Protocol: 0.5, Safety: 0.3},
}

// WeightsFor returns the weight triple for a category and whether the
// category was recognized.
func WeightsFor(category string) (WeightTriple, bool) {
	if w, ok := categoryWeights[category]; ok {
		return w, true
	}
	return defaultWeights, false
}

// Categories lists the recognized category names.
func Categories() []string {
	names := make([]string, 0, len(categoryWeights))
	for name := range categoryWeights {
		names = append(names, name)
	}
	return names
}
