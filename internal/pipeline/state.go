// Package pipeline drives one article through preprocessing, the scoring
// stages, consolidation, and validation, and runs batches of such runs with
// bounded parallelism.
package pipeline

import (
	"newsgrade/internal/agents"
	"newsgrade/internal/consolidate"
)

// State holds one optional slot per stage. A nil slot means the stage
// never ran, which is different from a stage that ran and produced an
// empty or fallback result.
type State struct {
	Pre          *agents.PreprocessResult
	Context      *agents.ContextResult
	Fact         *agents.FactResult
	Depth        *agents.DepthResult
	Relevance    *agents.RelevanceResult
	Structure    *agents.StructureResult
	Historical   *agents.HistoricalResult
	Reflective   *agents.ReflectiveResult
	Human        *agents.HumanResult
	Summary      *agents.SummaryResult
	Consolidated *consolidate.Result
	Consensus    *consolidate.ConsensusResult
	Validated    *consolidate.Validated
}

// scoreMap flattens the absolute scores recorded so far for consolidation
// and consensus. Historical is additive and deliberately not included.
func (s *State) scoreMap() map[string]float64 {
	out := make(map[string]float64, 7)
	if s.Context != nil {
		out[s.Context.Score.AgentName] = s.Context.Score.Value
	}
	if s.Fact != nil {
		out[s.Fact.Score.AgentName] = s.Fact.Score.Value
	}
	if s.Depth != nil {
		out[s.Depth.Score.AgentName] = s.Depth.Score.Value
	}
	if s.Relevance != nil {
		out[s.Relevance.Score.AgentName] = s.Relevance.Score.Value
	}
	if s.Structure != nil {
		out[s.Structure.Score.AgentName] = s.Structure.Score.Value
	}
	if s.Reflective != nil {
		out[s.Reflective.Score.AgentName] = s.Reflective.Score.Value
	}
	if s.Human != nil {
		out[s.Human.Score.AgentName] = s.Human.Score.Value
	}
	return out
}
