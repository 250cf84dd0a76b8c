// Package export flattens pipeline results into tabular records and
// writes them as CSV or JSON. Spreadsheet generation itself lives in the
// downstream tooling that consumes these files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"newsgrade/internal/classify"
	"newsgrade/internal/weights"
)

// agentColumns fixes the per-agent column order.
var agentColumns = []string{
	weights.ContextEvaluator,
	weights.FactChecker,
	weights.DepthAnalyzer,
	weights.RelevanceAnalyzer,
	weights.StructureAnalyzer,
	weights.ReflectiveValidator,
	weights.HumanReasoning,
}

// Record is one flat row per article.
type Record struct {
	ID           string             `json:"id"`
	URL          string             `json:"url"`
	Title        string             `json:"title"`
	ContentType  string             `json:"content_type"`
	Status       string             `json:"status"`
	StatusReason string             `json:"status_reason"`
	AgentScores  map[string]float64 `json:"agent_scores"`
	FinalScore   float64            `json:"final_score"`
	Category     string             `json:"category"`
	Quality      string             `json:"quality_level"`
	Confidence   float64            `json:"confidence"`
	Divergent    bool               `json:"divergent"`
	Warnings     int                `json:"warnings"`
}

// FromArticle flattens one article, terminal or not.
func FromArticle(a *classify.Article) Record {
	rec := Record{
		ID:           a.ID,
		URL:          a.URL,
		Title:        a.Title,
		ContentType:  string(a.ContentType),
		Status:       string(a.Status),
		StatusReason: a.StatusReason(),
		AgentScores:  make(map[string]float64, len(a.Scores)),
	}
	for name, s := range a.Scores {
		rec.AgentScores[name] = s.Value
	}
	if _, ok := a.Metadata["divergence"]; ok {
		rec.Divergent = true
	}
	if a.Result != nil {
		rec.FinalScore = a.Result.FinalScore
		rec.Category = string(a.Result.Category)
		rec.Quality = string(a.Result.Quality)
		rec.Confidence = a.Result.Confidence
		rec.Warnings = len(a.Result.Warnings)
	}
	return rec
}

// WriteCSV writes a header row plus one row per record.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	header := []string{"id", "url", "title", "content_type", "status", "status_reason"}
	header = append(header, agentColumns...)
	header = append(header, "final_score", "category", "quality_level", "confidence", "divergent", "warnings")
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{r.ID, r.URL, r.Title, r.ContentType, r.Status, r.StatusReason}
		for _, agent := range agentColumns {
			if v, ok := r.AgentScores[agent]; ok {
				row = append(row, strconv.FormatFloat(v, 'f', 1, 64))
			} else {
				row = append(row, "")
			}
		}
		row = append(row,
			strconv.FormatFloat(r.FinalScore, 'f', 1, 64),
			r.Category, r.Quality,
			strconv.FormatFloat(r.Confidence, 'f', 2, 64),
			strconv.FormatBool(r.Divergent),
			strconv.Itoa(r.Warnings),
		)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: write row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the records as one indented JSON array.
func WriteJSON(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
