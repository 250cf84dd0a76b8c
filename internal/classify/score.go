package classify

import (
	"fmt"
	"time"
)

// AgentScore is the immutable result of one scoring stage. Fallback marks
// scores substituted after a failed or unparsable completion call, so
// synthetic values stay distinguishable from genuine ones downstream.
type AgentScore struct {
	Value      float64        `json:"value"`
	Confidence float64        `json:"confidence"`
	Reasoning  string         `json:"reasoning,omitempty"`
	AgentName  string         `json:"agent_name,omitempty"`
	Fallback   bool           `json:"fallback,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// NewAgentScore validates the score against the agents' shared range.
func NewAgentScore(agentName string, value, confidence float64, reasoning string) (AgentScore, error) {
	if value < 0.1 || value > 10.0 {
		return AgentScore{}, fmt.Errorf("score value %v out of range [0.1, 10.0]", value)
	}
	if confidence < 0.0 || confidence > 1.0 {
		return AgentScore{}, fmt.Errorf("confidence %v out of range [0.0, 1.0]", confidence)
	}
	return AgentScore{
		Value:      value,
		Confidence: confidence,
		Reasoning:  reasoning,
		AgentName:  agentName,
		CreatedAt:  time.Now(),
	}, nil
}

// FallbackScore builds the deterministic substitute used when an agent call
// fails. The value is always flagged; tests assert it never masquerades as a
// genuine score.
func FallbackScore(agentName string, value float64, reason string) AgentScore {
	return AgentScore{
		Value:      value,
		Confidence: 0.0,
		Reasoning:  reason,
		AgentName:  agentName,
		Fallback:   true,
		CreatedAt:  time.Now(),
	}
}

func (s AgentScore) IsLow(threshold float64) bool  { return s.Value < threshold }
func (s AgentScore) IsHigh(threshold float64) bool { return s.Value >= threshold }
