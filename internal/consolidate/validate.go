package consolidate

import (
	"log"

	"newsgrade/internal/classify"
)

// Candidate is the final-result draft assembled by the pipeline before
// validation. Fields may be missing or out of range when upstream stages
// degraded.
type Candidate struct {
	FinalScore    float64
	WeightedScore float64
	Category      classify.Category
	Quality       classify.Quality
	Summary       string
	Rationale     string
	Confidence    float64
}

// Validated is the checked final result. InvalidFields lists every field
// that had to be substituted; an empty list means the candidate passed
// untouched.
type Validated struct {
	FinalScore    float64
	Category      classify.Category
	Quality       classify.Quality
	Summary       string
	Rationale     string
	Confidence    float64
	InvalidFields []string
}

// ValidateFinal checks the candidate field by field and substitutes safe
// defaults for anything invalid. It never fails: an entirely broken
// candidate still yields a complete mid-range result. An out-of-range
// final score prefers the weighted score when that one is usable.
func ValidateFinal(c Candidate) Validated {
	var invalid []string

	score := c.FinalScore
	if score < minScore || score > maxScore {
		invalid = append(invalid, "final_score")
		if c.WeightedScore >= minScore && c.WeightedScore <= maxScore {
			score = c.WeightedScore
		} else {
			score = neutralScore
		}
	}

	category := c.Category
	if category.Rank() < 0 {
		invalid = append(invalid, "category")
		category = classify.ScoreToCategory(score)
	}

	quality := c.Quality
	switch quality {
	case classify.QualityHigh, classify.QualityMedium, classify.QualityLow:
	default:
		invalid = append(invalid, "quality_level")
		quality = classify.ScoreToQuality(score)
	}

	summary := c.Summary
	if summary == "" {
		invalid = append(invalid, "summary")
		summary = "summary unavailable"
	}

	rationale := c.Rationale
	if rationale == "" {
		invalid = append(invalid, "rationale")
		rationale = "rationale unavailable"
	}

	confidence := c.Confidence
	if confidence < 0.0 || confidence > 1.0 {
		invalid = append(invalid, "confidence")
		confidence = 0.5
	}

	if len(invalid) > 0 {
		log.Printf("final validator substituted fields: %v", invalid)
	}
	return Validated{
		FinalScore:    score,
		Category:      category,
		Quality:       quality,
		Summary:       summary,
		Rationale:     rationale,
		Confidence:    confidence,
		InvalidFields: invalid,
	}
}
