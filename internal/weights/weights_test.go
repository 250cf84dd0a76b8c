package weights

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinProfilesValidate(t *testing.T) {
	for _, name := range []string{"default", "consensus", "fact_heavy", "depth_focused", "human_centric"} {
		cfg, err := Builtin(name)
		if err != nil {
			t.Fatalf("Builtin(%q): %v", name, err)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("profile %q does not validate: %v", name, err)
		}
	}
	if _, err := Builtin("nope"); err == nil {
		t.Fatal("unknown profile must be rejected")
	}
}

func TestValidateRejectsBadSums(t *testing.T) {
	cfg := Config{Name: "broken", Weights: map[string]float64{FactChecker: 0.5, HumanReasoning: 0.3}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("weights summing to 0.8 must be rejected")
	}
	cfg = Config{Name: "neg", Weights: map[string]float64{FactChecker: 1.2, HumanReasoning: -0.2}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative weight must be rejected")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	doc := `profiles:
  - name: editorial
    historical: 0.05
    weights:
      context_evaluator: 0.10
      fact_checker: 0.20
      depth_analyzer: 0.15
      relevance_analyzer: 0.10
      structure_analyzer: 0.10
      human_reasoning: 0.20
      reflective_validator: 0.10
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	p, ok := got["editorial"]
	if !ok {
		t.Fatalf("profile missing from %v", got)
	}
	if p.Historical != 0.05 || p.Weight(DepthAnalyzer) != 0.15 {
		t.Fatalf("unexpected profile contents: %+v", p)
	}
}

func TestLoadFileRejectsInvalidProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	doc := `profiles:
  - name: bad
    weights:
      fact_checker: 0.5
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("invalid profile must fail LoadFile")
	}
}
