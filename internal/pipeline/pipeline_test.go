package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsgrade/internal/agents"
	"newsgrade/internal/classify"
	"newsgrade/internal/llm"
	"newsgrade/internal/weights"
)

func testRunner(fake *llm.FakeClient) *Runner {
	return &Runner{
		Client:           fake,
		Weights:          weights.Default(),
		ConsensusWeights: weights.Consensus(),
	}
}

func longBody() string {
	return strings.TrimSpace(strings.Repeat("bitcoin liquidity macro policy outlook funding basis desk ", 10))
}

func testArticle(t *testing.T, id string) *classify.Article {
	t.Helper()
	a, err := classify.NewArticle(id, "https://example.com/"+id, "ETF flows turn positive", longBody())
	require.NoError(t, err)
	return a
}

func TestRunHappyPath(t *testing.T) {
	fake := llm.NewFakeClient()
	a := testArticle(t, "a1")

	st := testRunner(fake).Run(context.Background(), a)

	require.Equal(t, classify.StatusClassified, a.Status)
	require.NotNil(t, a.Result)
	assert.Equal(t, 7.0, a.Result.FinalScore)
	assert.Equal(t, classify.VeryGood, a.Result.Category)
	assert.Equal(t, classify.QualityHigh, a.Result.Quality)
	assert.Empty(t, a.Result.Warnings)
	assert.NotNil(t, st.Consolidated)
	assert.NotNil(t, st.Validated)
	assert.Len(t, a.Scores, 7)
}

func TestRunSkipsShortArticleWithoutLLMCalls(t *testing.T) {
	fake := llm.NewFakeClient()
	a, err := classify.NewArticle("a1", "https://example.com/a1", "Title", "just a few words here")
	require.NoError(t, err)

	st := testRunner(fake).Run(context.Background(), a)

	assert.Equal(t, classify.StatusSkipped, a.Status)
	assert.Equal(t, "too short", a.StatusReason())
	assert.Nil(t, st.Context)
	assert.Zero(t, fake.Calls(agents.StageContext))
	assert.Zero(t, fake.Calls(agents.StageFact))
}

func TestRunLowContextEarlyExit(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.SetScore(agents.StageContext, 2.0)
	a := testArticle(t, "a1")

	st := testRunner(fake).Run(context.Background(), a)

	assert.Equal(t, classify.StatusSkipped, a.Status)
	assert.Equal(t, "low context score", a.StatusReason())
	assert.NotNil(t, st.Context)
	assert.Zero(t, fake.Calls(agents.StageFact))
	assert.Zero(t, fake.Calls(agents.StageHuman))
}

func TestRunSurvivesFactCheckerFailure(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.FailStage(agents.StageFact, errors.New("provider down"))
	a := testArticle(t, "a1")

	testRunner(fake).Run(context.Background(), a)

	require.Equal(t, classify.StatusClassified, a.Status)
	fs, ok := a.Scores[agents.StageFact]
	require.True(t, ok)
	assert.True(t, fs.Fallback)
	assert.Equal(t, 5.0, fs.Value)
	// The other stages still ran.
	assert.Equal(t, 1, fake.Calls(agents.StageHuman))
	assert.Equal(t, 1, fake.Calls(agents.StageSummary))
}

func TestRunFlagsDivergence(t *testing.T) {
	fake := llm.NewFakeClient()
	for _, stage := range []string{
		agents.StageContext, agents.StageFact, agents.StageDepth,
		agents.StageRelevance, agents.StageStructure, agents.StageReflective,
	} {
		fake.SetScore(stage, 5.0)
	}
	fake.SetScore(agents.StageHuman, 9.5)
	a := testArticle(t, "a1")

	st := testRunner(fake).Run(context.Background(), a)

	require.Equal(t, classify.StatusClassified, a.Status)
	require.NotNil(t, st.Consensus)
	assert.True(t, st.Consensus.Divergent)
	assert.Equal(t, true, a.Metadata["requires_human_review"])
	found := false
	for _, w := range a.Result.Warnings {
		if strings.Contains(w, "diverge") {
			found = true
		}
	}
	assert.True(t, found, "divergence warning missing: %v", a.Result.Warnings)
}

func TestRunRecordsReflectiveSuggestion(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.SetPayload(agents.StageReflective, json.RawMessage(
		`{"reflective_score": 6.5, "process_issues": ["score spread"], "suggested_adjustment": -0.5}`))
	a := testArticle(t, "a1")

	testRunner(fake).Run(context.Background(), a)

	require.Equal(t, classify.StatusClassified, a.Status)
	assert.Equal(t, -0.5, a.Metadata["reflective_suggested_adjustment"])
	assert.Contains(t, a.Result.Warnings, "reflective validator suggests a score adjustment")
}

type fakeDup struct {
	dup        bool
	remembered []string
}

func (f *fakeDup) IsDuplicate(_ context.Context, a *classify.Article) (bool, string, error) {
	return f.dup, "earlier-id", nil
}
func (f *fakeDup) Remember(_ context.Context, a *classify.Article) error {
	f.remembered = append(f.remembered, a.ID)
	return nil
}

func TestRunSkipsDuplicates(t *testing.T) {
	fake := llm.NewFakeClient()
	r := testRunner(fake)
	r.Duplicates = &fakeDup{dup: true}
	a := testArticle(t, "a1")

	r.Run(context.Background(), a)

	assert.Equal(t, classify.StatusSkipped, a.Status)
	assert.Contains(t, a.StatusReason(), "duplicate of")
	assert.Zero(t, fake.Calls(agents.StageContext))
}

type memStore struct {
	mu    sync.Mutex
	saved []string
}

func (m *memStore) Save(_ context.Context, a *classify.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, a.ID)
	return nil
}

func TestBatchProcessesAllArticles(t *testing.T) {
	fake := llm.NewFakeClient()
	dup := &fakeDup{}
	r := testRunner(fake)
	r.Duplicates = dup
	store := &memStore{}
	b := &Batch{Runner: r, Store: store, Concurrency: 3}

	articles := []*classify.Article{
		testArticle(t, "a1"), testArticle(t, "a2"), testArticle(t, "a3"), testArticle(t, "a4"),
	}
	sum := b.Process(context.Background(), articles)

	assert.Equal(t, 4, sum.Classified)
	assert.Len(t, store.saved, 4)
	assert.Len(t, dup.remembered, 4)
}

func TestBatchCancellationPersistsPartialState(t *testing.T) {
	fake := llm.NewFakeClient()
	store := &memStore{}
	b := &Batch{Runner: testRunner(fake), Store: store, Concurrency: 2}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	articles := []*classify.Article{testArticle(t, "a1"), testArticle(t, "a2")}
	sum := b.Process(ctx, articles)

	// Canceled before the first LLM stage: articles stay non-terminal but
	// are still persisted.
	assert.Equal(t, 2, sum.Incomplete)
	assert.Len(t, store.saved, 2)
	for _, a := range articles {
		assert.False(t, a.Terminal())
	}
}
