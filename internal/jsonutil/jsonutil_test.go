package jsonutil

import (
	"encoding/json"
	"testing"
)

func TestDecodePlainObject(t *testing.T) {
	res := Decode(json.RawMessage(`{"context_score": 7.5, "reasoning": "solid sourcing"}`))
	if !res.OK {
		t.Fatalf("decode failed: %v", res.Err)
	}
	if got := res.Number("context_score", 5.0); got != 7.5 {
		t.Fatalf("context_score = %v, want 7.5", got)
	}
	if got := res.Text("reasoning", ""); got != "solid sourcing" {
		t.Fatalf("reasoning = %q", got)
	}
}

func TestDecodeFencedObject(t *testing.T) {
	raw := "```json\n{\"depth_score\": 6}\n```"
	res := Decode(json.RawMessage(raw))
	if !res.OK {
		t.Fatalf("decode failed: %v", res.Err)
	}
	if got := res.Number("depth_score", 0); got != 6 {
		t.Fatalf("depth_score = %v, want 6", got)
	}
}

func TestDecodeObjectInProse(t *testing.T) {
	raw := `Here is my assessment: {"human_score": 8.0} I hope that helps.`
	res := Decode(json.RawMessage(raw))
	if !res.OK {
		t.Fatalf("decode failed: %v", res.Err)
	}
	if got := res.Number("human_score", 0); got != 8.0 {
		t.Fatalf("human_score = %v, want 8.0", got)
	}
}

func TestDecodeFailureKeepsRaw(t *testing.T) {
	res := Decode(json.RawMessage("the model refused to answer"))
	if res.OK {
		t.Fatal("expected failure branch")
	}
	if res.Err == nil || res.Raw == "" {
		t.Fatalf("failure branch must carry raw text and error, got raw=%q err=%v", res.Raw, res.Err)
	}
}

func TestNumberAcceptsQuotedValues(t *testing.T) {
	res := Decode(json.RawMessage(`{"historical_adjustment": "+0.5", "credibility": "6.5"}`))
	if !res.OK {
		t.Fatalf("decode failed: %v", res.Err)
	}
	if got := res.Number("historical_adjustment", 0); got != 0.5 {
		t.Fatalf("historical_adjustment = %v, want 0.5", got)
	}
	if got := res.Number("credibility", 0); got != 6.5 {
		t.Fatalf("credibility = %v, want 6.5", got)
	}
	if got := res.Number("missing", 5.0); got != 5.0 {
		t.Fatalf("missing key should fall back, got %v", got)
	}
}

func TestUnmarshalFlexDoubleEscaped(t *testing.T) {
	raw := []byte(`"{\"structure_score\": 7}"`)
	var v map[string]any
	if err := UnmarshalFlex(raw, &v); err != nil {
		t.Fatalf("UnmarshalFlex: %v", err)
	}
	if v["structure_score"] != float64(7) {
		t.Fatalf("structure_score = %v", v["structure_score"])
	}
}
