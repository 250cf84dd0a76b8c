package pipeline

import (
	"context"
	"log"
	"strings"
	"time"

	"newsgrade/internal/agents"
	"newsgrade/internal/classify"
	"newsgrade/internal/consolidate"
	"newsgrade/internal/llm"
	"newsgrade/internal/weights"
)

// DuplicateChecker answers whether an article was seen recently and
// records classified ones for future checks.
type DuplicateChecker interface {
	IsDuplicate(ctx context.Context, a *classify.Article) (bool, string, error)
	Remember(ctx context.Context, a *classify.Article) error
}

// Runner executes the per-article state machine. Construct it with every
// collaborator it needs; there are no package-level defaults to reach for.
type Runner struct {
	Client           llm.Client
	Weights          weights.Config
	ConsensusWeights weights.Config
	AgentOpts        agents.Options
	Duplicates       DuplicateChecker // optional
	Events           EventSink        // optional

	// MinWords and DivergenceThreshold override the preprocessor skip
	// rule and the consensus check; zero keeps the defaults.
	MinWords            int
	DivergenceThreshold float64
}

func (r *Runner) sink() EventSink {
	if r.Events != nil {
		return r.Events
	}
	return nopSink{}
}

// Run drives one article to a terminal status. Agent failures degrade to
// fallback scores and never abort; only cancellation leaves the article
// non-terminal, with whatever partial state it accumulated.
func (r *Runner) Run(ctx context.Context, a *classify.Article) *State {
	st := &State{}
	a.Status = classify.StatusProcessing
	r.sink().Publish(Event{Type: EventArticleStarted, ArticleID: a.ID, Time: time.Now()})

	pre := agents.PreprocessWithMin(a.Title, a.Content, r.MinWords)
	st.Pre = &pre
	r.stageDone(a, "preprocessor", 0)
	if pre.Skip {
		a.MarkSkipped(pre.SkipReason)
		r.done(a)
		return st
	}
	a.Content = pre.Content

	if r.Duplicates != nil {
		dup, matchedID, err := r.Duplicates.IsDuplicate(ctx, a)
		if err != nil {
			log.Printf("duplicate check failed for %s: %v", a.ID, err)
		} else if dup {
			a.MarkSkipped("duplicate of " + matchedID)
			r.done(a)
			return st
		}
	}

	in := agents.Input{Title: a.Title, Content: a.Content}

	if r.canceled(ctx, a) {
		return st
	}
	cres := agents.EvaluateContext(ctx, r.Client, in, r.AgentOpts)
	st.Context = &cres
	a.AddScore(cres.Score.AgentName, cres.Score)
	r.stageDone(a, cres.Score.AgentName, cres.Score.Value)
	if !cres.ShouldContinue {
		a.MarkSkipped("low context score")
		r.done(a)
		return st
	}

	type scoringStage struct {
		name string
		run  func()
	}
	stages := []scoringStage{
		{agents.StageFact, func() {
			res := agents.CheckFacts(ctx, r.Client, in, r.AgentOpts)
			st.Fact = &res
			a.AddScore(res.Score.AgentName, res.Score)
		}},
		{agents.StageDepth, func() {
			res := agents.AnalyzeDepth(ctx, r.Client, in, r.AgentOpts)
			st.Depth = &res
			a.AddScore(res.Score.AgentName, res.Score)
		}},
		{agents.StageRelevance, func() {
			res := agents.AnalyzeRelevance(ctx, r.Client, in, r.AgentOpts)
			st.Relevance = &res
			a.AddScore(res.Score.AgentName, res.Score)
		}},
		{agents.StageStructure, func() {
			res := agents.AnalyzeStructure(ctx, r.Client, in, r.AgentOpts)
			st.Structure = &res
			a.AddScore(res.Score.AgentName, res.Score)
		}},
		{agents.StageHistorical, func() {
			res := agents.ReflectHistory(ctx, r.Client, in, r.AgentOpts)
			st.Historical = &res
		}},
		{agents.StageReflective, func() {
			res := agents.ValidateReflectively(ctx, r.Client, in, r.AgentOpts)
			st.Reflective = &res
			a.AddScore(res.Score.AgentName, res.Score)
		}},
		{agents.StageHuman, func() {
			res := agents.JudgeAsHuman(ctx, r.Client, in, r.AgentOpts)
			st.Human = &res
			a.AddScore(res.Score.AgentName, res.Score)
		}},
		{agents.StageSummary, func() {
			res := agents.Summarize(ctx, r.Client, in, r.AgentOpts)
			st.Summary = &res
		}},
	}
	for _, stage := range stages {
		if r.canceled(ctx, a) {
			return st
		}
		stage.run()
		r.stageDone(a, stage.name, stageScore(a, stage.name))
	}

	r.finish(a, st)
	r.done(a)
	return st
}

// finish runs the deterministic tail: consolidation, editor caps,
// consensus, validation, and the frozen classification.
func (r *Runner) finish(a *classify.Article, st *State) {
	scores := st.scoreMap()
	cin := consolidate.Inputs{
		Scores:      scores,
		ContentType: a.ContentType,
	}
	if st.Historical != nil {
		cin.HistoricalAdjustment = st.Historical.Adjustment
	}
	if st.Depth != nil {
		cin.DepthLevel = st.Depth.Level
		cin.TechnicalElements = st.Depth.TechnicalElements
	}
	if st.Relevance != nil {
		cin.IndustryChanging = st.Relevance.IndustryChanging
	}

	con := consolidate.Consolidate(cin, r.Weights)
	st.Consolidated = &con

	final := consolidate.HumanAdjust(con.Final, a.ContentType)
	warnings := append([]string(nil), con.Warnings...)
	if final != con.Final {
		a.Metadata["human_adjusted_from"] = con.Final
	}

	cons := consolidate.ConsensusAt(scores, r.ConsensusWeights, r.DivergenceThreshold)
	st.Consensus = &cons
	if cons.Divergent {
		warnings = append(warnings, "human and weighted scores diverge")
		a.Metadata["divergence"] = cons.Difference
	}
	if st.Reflective != nil && st.Reflective.SuggestedAdjustment != 0 {
		a.Metadata["reflective_suggested_adjustment"] = st.Reflective.SuggestedAdjustment
		warnings = append(warnings, "reflective validator suggests a score adjustment")
	}
	if con.RequiresHumanReview || cons.Divergent {
		a.Metadata["requires_human_review"] = true
	}

	summary, title := "", a.Title
	if st.Summary != nil {
		summary, title = st.Summary.Summary, st.Summary.Title
	}
	validated := consolidate.ValidateFinal(consolidate.Candidate{
		FinalScore:    final,
		WeightedScore: cons.WeightedScore,
		Category:      classify.ScoreToCategory(final),
		Quality:       classify.ScoreToQuality(final),
		Summary:       summary,
		Rationale:     r.rationale(st),
		Confidence:    consolidate.Confidence(con.Components),
	})
	st.Validated = &validated
	if len(validated.InvalidFields) > 0 {
		a.Metadata["invalid_fields"] = validated.InvalidFields
	}
	a.Metadata["clean_title"] = title

	result, err := classify.NewClassification(
		validated.FinalScore, validated.Category, validated.Quality,
		validated.Summary, validated.Rationale, validated.Confidence,
		scores, warnings,
	)
	if err != nil {
		// The validator guarantees ranges, so this is a programming
		// defect, the one error class that marks the article ERROR.
		a.MarkErrored("classification build failed: " + err.Error())
		return
	}
	a.SetClassification(result)
}

// rationale stitches the most useful stage reasoning into one paragraph.
func (r *Runner) rationale(st *State) string {
	var parts []string
	if st.Context != nil && st.Context.Score.Reasoning != "" {
		parts = append(parts, st.Context.Score.Reasoning)
	}
	if st.Fact != nil && st.Fact.CredImpact != "" {
		parts = append(parts, st.Fact.CredImpact)
	}
	if st.Depth != nil && st.Depth.Score.Reasoning != "" {
		parts = append(parts, st.Depth.Score.Reasoning)
	}
	if st.Human != nil && st.Human.Score.Reasoning != "" {
		parts = append(parts, st.Human.Score.Reasoning)
	}
	return strings.Join(parts, " ")
}

func (r *Runner) canceled(ctx context.Context, a *classify.Article) bool {
	if ctx.Err() == nil {
		return false
	}
	log.Printf("run canceled for %s with partial state", a.ID)
	return true
}

func (r *Runner) stageDone(a *classify.Article, stage string, score float64) {
	r.sink().Publish(Event{Type: EventStageDone, ArticleID: a.ID, Stage: stage, Score: score, Time: time.Now()})
}

func (r *Runner) done(a *classify.Article) {
	score, _ := a.FinalScore()
	r.sink().Publish(Event{
		Type: EventArticleDone, ArticleID: a.ID,
		Status: string(a.Status), Score: score, Time: time.Now(),
	})
}

func stageScore(a *classify.Article, stage string) float64 {
	if s, ok := a.Scores[stage]; ok {
		return s.Value
	}
	return 0
}
