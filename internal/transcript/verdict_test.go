package transcript

import (
	"testing"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    float64
		found   bool
	}{
		{
			name:    "labeled score wins over earlier numbers",
			content: "Evaluation: Pro cited 3 brochures. Contra cited 2 memos.\nScore: 9/10.",
			want:    9,
			found:   true,
		},
		{
			name:    "case insensitive with equals",
			content: "SCORE = 6.5",
			want:    6.5,
			found:   true,
		},
		{
			name:    "first number fallback",
			content: "I rate this 7 out of 10",
			want:    7,
			found:   true,
		},
		{
			name:    "no number",
			content: "The debate was inconclusive.",
			found:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseScore(tt.content)
			if got.Found != tt.found {
				t.Fatalf("ParseScore() found = %v, want %v", got.Found, tt.found)
			}
			if got.Value != tt.want {
				t.Errorf("ParseScore() = %v, want %v", got.Value, tt.want)
			}
		})
	}
}

func TestJudgeScorePassing(t *testing.T) {
	if (JudgeScore{Value: 6, Found: true}).Passing() != true {
		t.Error("6 should pass")
	}
	if (JudgeScore{Value: 5.9, Found: true}).Passing() {
		t.Error("5.9 should not pass")
	}
	if (JudgeScore{Value: 9}).Passing() {
		t.Error("a missing score never passes")
	}
	if got := (JudgeScore{Value: 8.5, Found: true}).String(); got != "8.5/10" {
		t.Errorf("String() = %q", got)
	}
	if got := (JudgeScore{}).String(); got != "" {
		t.Errorf("String() = %q, want empty", got)
	}
}

func TestParseVerdict_Structured(t *testing.T) {
	content := "STEP 1 — DIRECT ANSWER:\nThe total is $12,000.\n\n" +
		"STEP 2 — BREAKDOWN:\n- Tuition: $10,000\n- Fees: $2,000\n\n" +
		"STEP 3 — CONTEXT:\nPrices valid for 2024."

	v := ParseVerdict(content)

	if !v.Structured {
		t.Fatal("expected structured verdict")
	}
	if v.DirectAnswer != "The total is $12,000." {
		t.Errorf("DirectAnswer = %q", v.DirectAnswer)
	}
	if v.Breakdown != "- Tuition: $10,000\n- Fees: $2,000" {
		t.Errorf("Breakdown = %q", v.Breakdown)
	}
	if v.Context != "Prices valid for 2024." {
		t.Errorf("Context = %q", v.Context)
	}
	if len(v.Sections) != 3 {
		t.Fatalf("Sections = %d, want 3", len(v.Sections))
	}
	if v.Sections[1].Title != "BREAKDOWN" {
		t.Errorf("Sections[1].Title = %q", v.Sections[1].Title)
	}
}

func TestParseVerdict_Variants(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		answer string
	}{
		{"inline answer", "STEP 1 — DIRECT ANSWER: Yes.", "Yes."},
		{"hyphen separator", "STEP 1 - DIRECT ANSWER: Yes.", "Yes."},
		{"colon separator", "Step 1: Direct Answer: Yes.", "Yes."},
		{"bold heading", "**STEP 1 — DIRECT ANSWER:** Yes.", "Yes."},
		{"bold before colon", "**STEP 1 — DIRECT ANSWER**: Yes.", "Yes."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ParseVerdict(tt.input)
			if !v.Structured {
				t.Fatalf("ParseVerdict(%q) not structured", tt.input)
			}
			if v.DirectAnswer != tt.answer {
				t.Errorf("DirectAnswer = %q, want %q", v.DirectAnswer, tt.answer)
			}
		})
	}
}

func TestParseVerdict_ConditionsCountAsBreakdown(t *testing.T) {
	v := ParseVerdict("STEP 1 — DIRECT ANSWER: Yes\nSTEP 2 — CONDITIONS:\nOnly residents\nSTEP 3 — CONTEXT: none")
	if v.Breakdown != "Only residents" {
		t.Errorf("Breakdown = %q", v.Breakdown)
	}
	if v.Sections[1].Title != "CONDITIONS" {
		t.Errorf("Title = %q", v.Sections[1].Title)
	}
}

func TestParseVerdict_Unstructured(t *testing.T) {
	v := ParseVerdict("Some preamble.\nFinal Answer: 42")
	if v.Structured {
		t.Error("expected unstructured verdict")
	}
	if v.DirectAnswer != "42" {
		t.Errorf("DirectAnswer = %q", v.DirectAnswer)
	}

	v = ParseVerdict("  just prose  ")
	if v.DirectAnswer != "just prose" || v.Structured {
		t.Errorf("unexpected verdict %+v", v)
	}
}
