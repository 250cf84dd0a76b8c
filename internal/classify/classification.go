package classify

import (
	"fmt"
	"time"
)

// Category is the 7-level classification band derived from the final score.
type Category string

const (
	Outstanding Category = "Outstanding"
	Excellent   Category = "Excellent"
	VeryGood    Category = "Very Good"
	Good        Category = "Good"
	Fair        Category = "Fair"
	Poor        Category = "Poor"
	VeryPoor    Category = "Very Poor"
)

// Rank gives the total order over categories, lowest quality first.
func (c Category) Rank() int {
	switch c {
	case VeryPoor:
		return 0
	case Poor:
		return 1
	case Fair:
		return 2
	case Good:
		return 3
	case VeryGood:
		return 4
	case Excellent:
		return 5
	case Outstanding:
		return 6
	}
	return -1
}

// Quality is the coarse 3-level band used by downstream filtering.
type Quality string

const (
	QualityHigh   Quality = "high"
	QualityMedium Quality = "medium"
	QualityLow    Quality = "low"
)

// ScoreToCategory maps a final score onto its category band. Thresholds are
// non-overlapping and totally ordered.
func ScoreToCategory(score float64) Category {
	switch {
	case score >= 8.6:
		return Outstanding
	case score >= 7.6:
		return Excellent
	case score >= 6.6:
		return VeryGood
	case score >= 5.1:
		return Good
	case score >= 3.1:
		return Fair
	case score >= 2.1:
		return Poor
	default:
		return VeryPoor
	}
}

// ScoreToQuality maps a final score onto the coarse quality band.
func ScoreToQuality(score float64) Quality {
	switch {
	case score >= 7.0:
		return QualityHigh
	case score >= 4.0:
		return QualityMedium
	default:
		return QualityLow
	}
}

// Classification is the frozen final result for one article. Build it with
// NewClassification or FromScore and do not mutate it afterwards.
type Classification struct {
	FinalScore float64            `json:"final_score"`
	Category   Category           `json:"category"`
	Quality    Quality            `json:"quality_level"`
	Summary    string             `json:"summary"`
	Rationale  string             `json:"rationale"`
	Confidence float64            `json:"confidence"`
	SubScores  map[string]float64 `json:"sub_scores"`
	Warnings   []string           `json:"warnings"`
	CreatedAt  time.Time          `json:"created_at"`
}

// NewClassification validates ranges and checks the caller-supplied category
// and quality against the score-derived ones. A mismatch is soft: the
// caller's value is kept and a warning appended, so upstream overrides stay
// possible.
func NewClassification(finalScore float64, category Category, quality Quality, summary, rationale string, confidence float64, subScores map[string]float64, warnings []string) (Classification, error) {
	if finalScore < 0.1 || finalScore > 10.0 {
		return Classification{}, fmt.Errorf("final score %v out of range [0.1, 10.0]", finalScore)
	}
	if confidence < 0.0 || confidence > 1.0 {
		return Classification{}, fmt.Errorf("confidence %v out of range [0.0, 1.0]", confidence)
	}
	if subScores == nil {
		subScores = map[string]float64{}
	}
	ws := append([]string(nil), warnings...)
	if expected := ScoreToCategory(finalScore); category != expected {
		ws = append(ws, fmt.Sprintf("category %q may not match score %.1f (expected %q)", category, finalScore, expected))
	}
	if expected := ScoreToQuality(finalScore); quality != expected {
		ws = append(ws, fmt.Sprintf("quality level %q may not match score %.1f (expected %q)", quality, finalScore, expected))
	}
	return Classification{
		FinalScore: finalScore,
		Category:   category,
		Quality:    quality,
		Summary:    summary,
		Rationale:  rationale,
		Confidence: confidence,
		SubScores:  subScores,
		Warnings:   ws,
		CreatedAt:  time.Now(),
	}, nil
}

// FromScore derives category and quality from the score itself.
func FromScore(finalScore float64, summary, rationale string, confidence float64, subScores map[string]float64, warnings []string) (Classification, error) {
	return NewClassification(finalScore, ScoreToCategory(finalScore), ScoreToQuality(finalScore), summary, rationale, confidence, subScores, warnings)
}

func (c Classification) IsHighQuality() bool { return c.Quality == QualityHigh }
func (c Classification) HasWarnings() bool   { return len(c.Warnings) > 0 }
