package models

import (
	"encoding/json"
	"testing"
)

func TestParseAgentKind(t *testing.T) {
	tests := []struct {
		tag  string
		want AgentKind
	}{
		{"Agent_Pro", AgentPro},
		{"Agent_Contra", AgentContra},
		{"Agent_Judge", AgentJudge},
		{"Agent_Synthesizer", AgentSynthesizer},
		{"pro", AgentPro},
		{"  JUDGE ", AgentJudge},
		{"agent-synthesizer", AgentSynthesizer},
		{"Agent_Moderator", AgentUnknown},
		{"", AgentUnknown},
		{"Agent_", AgentUnknown},
	}

	for _, tt := range tests {
		if got := ParseAgentKind(tt.tag); got != tt.want {
			t.Errorf("ParseAgentKind(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestAgentKindString(t *testing.T) {
	if AgentSynthesizer.String() != "Synthesizer" {
		t.Errorf("expected Synthesizer, got %s", AgentSynthesizer.String())
	}
	if AgentKind(42).String() != "Unknown" {
		t.Errorf("out-of-range kind should be Unknown, got %s", AgentKind(42).String())
	}
}

func TestQueryResponseToResult(t *testing.T) {
	body := `{
		"query": "What is the capital?",
		"debate_rounds": [
			{"agent": "Agent_Pro", "content": "a"},
			{"agent": "Agent_Oracle", "content": "b"},
			{"agent": "Agent_Synthesizer", "content": "Paris"}
		],
		"sources": ["doc1.pdf", "doc1.pdf"]
	}`

	var resp QueryResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	res := resp.ToResult()

	if res.Query != "What is the capital?" {
		t.Errorf("unexpected query %q", res.Query)
	}
	if len(res.Rounds) != 3 {
		t.Fatalf("expected 3 rounds, got %d", len(res.Rounds))
	}
	if res.Rounds[1].Agent != AgentUnknown || res.Rounds[1].Tag != "Agent_Oracle" {
		t.Errorf("unrecognized tag should degrade to Unknown and keep raw tag, got %+v", res.Rounds[1])
	}
	if res.Rounds[2].Agent != AgentSynthesizer {
		t.Errorf("expected synthesizer last, got %v", res.Rounds[2].Agent)
	}
	if len(res.Sources) != 2 {
		t.Errorf("sources must pass through unmodified, got %v", res.Sources)
	}
}

func TestStatusResponseToStatus_CopiesFiles(t *testing.T) {
	wire := StatusResponse{IndexReady: true, ChunkCount: 7, FilesIndexed: []string{"a.pdf"}}
	st := wire.ToStatus()
	wire.FilesIndexed[0] = "mutated"

	if st.FilesIndexed[0] != "a.pdf" {
		t.Error("ToStatus should not alias the wire slice")
	}
	if !st.IndexReady || st.ChunkCount != 7 {
		t.Errorf("unexpected status %+v", st)
	}
}
