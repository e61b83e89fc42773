// internal/transcript/present.go
// Pure mapping from a debate result to what the transcript pane shows.
package transcript

import (
	"strings"

	"debatecore/internal/models"
)

// unknownLabel is used when a round carries no tag at all
const unknownLabel = "Unknown"

// RoundView is one rendered debate turn
type RoundView struct {
	Agent      models.AgentKind
	AgentLabel string
	IsVerdict  bool
	BodyText   string
}

// PresentationModel is everything the transcript pane needs
type PresentationModel struct {
	Query        string
	RoundViews   []RoundView
	EvidenceList []string
	Score        JudgeScore
	Verdict      Verdict
}

// Empty reports whether there is nothing to show
func (m PresentationModel) Empty() bool {
	return len(m.RoundViews) == 0 && len(m.EvidenceList) == 0
}

// Present maps a result to its presentation. It is deterministic and
// keeps rounds in backend order.
func Present(result models.QueryResult) PresentationModel {
	m := PresentationModel{
		Query:      result.Query,
		RoundViews: make([]RoundView, 0, len(result.Rounds)),
	}

	var lastJudge, lastVerdict string
	for _, r := range result.Rounds {
		view := RoundView{
			Agent:      r.Agent,
			AgentLabel: Label(r.Tag, r.Agent),
			IsVerdict:  r.Agent == models.AgentSynthesizer,
			BodyText:   r.Content,
		}
		m.RoundViews = append(m.RoundViews, view)

		switch r.Agent {
		case models.AgentJudge:
			lastJudge = r.Content
		case models.AgentSynthesizer:
			lastVerdict = r.Content
		}
	}

	if len(result.Sources) > 0 {
		m.EvidenceList = make([]string, len(result.Sources))
		copy(m.EvidenceList, result.Sources)
	}

	if lastJudge != "" {
		m.Score = ParseScore(lastJudge)
	}
	if lastVerdict != "" {
		m.Verdict = ParseVerdict(lastVerdict)
	}
	return m
}

// Label turns a raw agent tag into display text by replacing every
// underscore or hyphen with a space. An empty tag falls back to the
// kind name, then to "Unknown".
func Label(tag string, kind models.AgentKind) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		if kind != models.AgentUnknown {
			return "Agent " + kind.String()
		}
		return unknownLabel
	}
	label := strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return ' '
		}
		return r
	}, tag)
	return strings.Join(strings.Fields(label), " ")
}
