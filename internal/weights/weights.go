// Package weights holds the per-agent weight profiles used by score
// consolidation and by the consensus check. Profiles are plain values,
// constructed explicitly and passed down; nothing here is process-global.
package weights

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Agent names as they appear in score maps and weight profiles.
const (
	ContextEvaluator     = "context_evaluator"
	FactChecker          = "fact_checker"
	DepthAnalyzer        = "depth_analyzer"
	RelevanceAnalyzer    = "relevance_analyzer"
	StructureAnalyzer    = "structure_analyzer"
	HistoricalReflection = "historical_reflection"
	HumanReasoning       = "human_reasoning"
	ReflectiveValidator  = "reflective_validator"
)

// Config is one named weight profile. Historical sits outside the weighted
// sum (the adjustment is additive), but it still claims a share of the
// budget: absolute weights plus Historical must sum to 1.0.
type Config struct {
	Name       string             `yaml:"name"`
	Weights    map[string]float64 `yaml:"weights"`
	Historical float64            `yaml:"historical"`
}

// sumTolerance bounds floating-point drift in profile files.
const sumTolerance = 0.01

// Validate checks that the weight budget sums to 1.0 within tolerance and
// that no weight is negative.
func (c Config) Validate() error {
	if c.Historical < 0 {
		return fmt.Errorf("weights: profile %q: negative historical weight", c.Name)
	}
	total := c.Historical
	for name, w := range c.Weights {
		if w < 0 {
			return fmt.Errorf("weights: profile %q: negative weight for %s", c.Name, name)
		}
		total += w
	}
	if math.Abs(total-1.0) > sumTolerance {
		return fmt.Errorf("weights: profile %q: weights sum to %.4f, want 1.0 ± %.2f", c.Name, total, sumTolerance)
	}
	return nil
}

// Active returns the sum of the absolute-score weights; the weighted sum
// is normalized by it so uniform inputs are preserved.
func (c Config) Active() float64 {
	total := 0.0
	for _, w := range c.Weights {
		total += w
	}
	return total
}

// Weight returns the configured weight for an agent, 0 when absent.
func (c Config) Weight(agent string) float64 { return c.Weights[agent] }

// Default mirrors the primary consolidation profile: seven absolute-score
// weights summing to 1.0 less the historical share carried separately.
func Default() Config {
	return Config{
		Name: "default",
		Weights: map[string]float64{
			ContextEvaluator:    0.15,
			FactChecker:         0.20,
			DepthAnalyzer:       0.10,
			RelevanceAnalyzer:   0.10,
			StructureAnalyzer:   0.10,
			HumanReasoning:      0.20,
			ReflectiveValidator: 0.10,
		},
		Historical: 0.05,
	}
}

// Consensus is the second, independently tuned profile used by the
// human-vs-weighted divergence check. Historical is intentionally absent.
func Consensus() Config {
	return Config{
		Name: "consensus",
		Weights: map[string]float64{
			ContextEvaluator:    0.15,
			FactChecker:         0.20,
			DepthAnalyzer:       0.10,
			RelevanceAnalyzer:   0.10,
			StructureAnalyzer:   0.10,
			HumanReasoning:      0.20,
			ReflectiveValidator: 0.15,
		},
	}
}

// FactHeavy emphasizes credibility for fast-moving markets coverage.
func FactHeavy() Config {
	return Config{
		Name: "fact_heavy",
		Weights: map[string]float64{
			ContextEvaluator:    0.10,
			FactChecker:         0.30,
			DepthAnalyzer:       0.10,
			RelevanceAnalyzer:   0.10,
			StructureAnalyzer:   0.05,
			HumanReasoning:      0.20,
			ReflectiveValidator: 0.10,
		},
		Historical: 0.05,
	}
}

// DepthFocused favors analytical substance over presentation.
func DepthFocused() Config {
	return Config{
		Name: "depth_focused",
		Weights: map[string]float64{
			ContextEvaluator:    0.10,
			FactChecker:         0.15,
			DepthAnalyzer:       0.30,
			RelevanceAnalyzer:   0.10,
			StructureAnalyzer:   0.05,
			HumanReasoning:      0.15,
			ReflectiveValidator: 0.10,
		},
		Historical: 0.05,
	}
}

// HumanCentric weighs perceived reader value highest.
func HumanCentric() Config {
	return Config{
		Name: "human_centric",
		Weights: map[string]float64{
			ContextEvaluator:    0.10,
			FactChecker:         0.10,
			DepthAnalyzer:       0.10,
			RelevanceAnalyzer:   0.10,
			StructureAnalyzer:   0.05,
			HumanReasoning:      0.40,
			ReflectiveValidator: 0.10,
		},
		Historical: 0.05,
	}
}

// Builtin returns the named built-in profile.
func Builtin(name string) (Config, error) {
	switch name {
	case "", "default":
		return Default(), nil
	case "consensus":
		return Consensus(), nil
	case "fact_heavy":
		return FactHeavy(), nil
	case "depth_focused":
		return DepthFocused(), nil
	case "human_centric":
		return HumanCentric(), nil
	}
	return Config{}, fmt.Errorf("weights: unknown profile %q", name)
}

type profileFile struct {
	Profiles []Config `yaml:"profiles"`
}

// LoadFile reads additional profiles from a YAML file. Every loaded
// profile is validated before the map is returned.
func LoadFile(path string) (map[string]Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("weights: read %s: %w", path, err)
	}
	var pf profileFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return nil, fmt.Errorf("weights: parse %s: %w", path, err)
	}
	out := make(map[string]Config, len(pf.Profiles))
	for _, p := range pf.Profiles {
		if p.Name == "" {
			return nil, fmt.Errorf("weights: %s: profile without a name", path)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		out[p.Name] = p
	}
	return out, nil
}
