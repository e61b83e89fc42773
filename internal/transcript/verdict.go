// internal/transcript/verdict.go
package transcript

import (
	"regexp"
	"strconv"
	"strings"
)

// PassingScore is the judge score at which the backend accepts a debate
const PassingScore = 6.0

// JudgeScore is the score found in the last judge round
type JudgeScore struct {
	Value float64
	Found bool
}

// Passing reports whether the score clears PassingScore
func (s JudgeScore) Passing() bool {
	return s.Found && s.Value >= PassingScore
}

func (s JudgeScore) String() string {
	if !s.Found {
		return ""
	}
	return strconv.FormatFloat(s.Value, 'f', -1, 64) + "/10"
}

// Section is one "STEP n — TITLE:" block of a verdict
type Section struct {
	Step  int
	Title string
	Body  string
}

// Verdict is the synthesizer's answer split into its steps.
// Structured is false when no step headings were found.
type Verdict struct {
	DirectAnswer string
	Breakdown    string
	Context      string
	Sections     []Section
	Structured   bool
}

// Patterns for parsing agent output
var (
	labeledScorePattern = regexp.MustCompile(`(?i)score\s*[:=]?\s*(\d+(?:\.\d+)?)`)
	numberPattern       = regexp.MustCompile(`\d+(?:\.\d+)?`)

	// "STEP 1 — DIRECT ANSWER:", tolerant of markdown emphasis and of
	// hyphen, en dash or em dash separators
	stepPattern = regexp.MustCompile(`(?im)^[\s*#_]*STEP\s*(\d+)\s*[—–\-:.]*\s*([^:\n*]*?)\s*[*_]*:[*_]*[ \t]*`)

	finalAnswerPattern = regexp.MustCompile(`(?i)final answer\s*:\s*`)
)

// ParseScore extracts a judge score. An explicit "Score: n" wins,
// otherwise the first number in the text is used.
func ParseScore(content string) JudgeScore {
	if match := labeledScorePattern.FindStringSubmatch(content); match != nil {
		if v, err := strconv.ParseFloat(match[1], 64); err == nil {
			return JudgeScore{Value: v, Found: true}
		}
	}
	if match := numberPattern.FindString(content); match != "" {
		if v, err := strconv.ParseFloat(match, 64); err == nil {
			return JudgeScore{Value: v, Found: true}
		}
	}
	return JudgeScore{}
}

// ParseVerdict splits synthesizer output into its step sections.
// Step 2 is the breakdown whatever its title (BREAKDOWN, CONDITIONS).
func ParseVerdict(content string) Verdict {
	locs := stepPattern.FindAllStringSubmatchIndex(content, -1)
	if len(locs) == 0 {
		return parseUnstructured(content)
	}

	v := Verdict{Structured: true}
	for i, loc := range locs {
		end := len(content)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		step, _ := strconv.Atoi(content[loc[2]:loc[3]])
		sec := Section{
			Step:  step,
			Title: strings.TrimSpace(content[loc[4]:loc[5]]),
			Body:  strings.TrimSpace(content[loc[1]:end]),
		}
		v.Sections = append(v.Sections, sec)

		switch step {
		case 1:
			v.DirectAnswer = sec.Body
		case 2:
			v.Breakdown = sec.Body
		case 3:
			v.Context = sec.Body
		}
	}
	return v
}

func parseUnstructured(content string) Verdict {
	if loc := finalAnswerPattern.FindStringIndex(content); loc != nil {
		return Verdict{DirectAnswer: strings.TrimSpace(content[loc[1]:])}
	}
	return Verdict{DirectAnswer: strings.TrimSpace(content)}
}
