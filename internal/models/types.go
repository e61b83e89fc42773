// internal/models/types.go
package models

import "strings"

// AgentKind identifies the debate role that produced a round
type AgentKind int

const (
	AgentUnknown AgentKind = iota
	AgentPro
	AgentContra
	AgentJudge
	AgentSynthesizer
)

func (k AgentKind) String() string {
	switch k {
	case AgentPro:
		return "Pro"
	case AgentContra:
		return "Contra"
	case AgentJudge:
		return "Judge"
	case AgentSynthesizer:
		return "Synthesizer"
	default:
		return "Unknown"
	}
}

// ParseAgentKind maps a raw backend tag to an AgentKind.
// Both "Agent_Pro" and "Pro" forms are accepted, case-insensitively.
// Anything unrecognized degrades to AgentUnknown.
func ParseAgentKind(tag string) AgentKind {
	t := strings.ToLower(strings.TrimSpace(tag))
	t = strings.TrimPrefix(t, "agent_")
	t = strings.TrimPrefix(t, "agent-")
	t = strings.TrimPrefix(t, "agent ")

	switch t {
	case "pro":
		return AgentPro
	case "contra":
		return AgentContra
	case "judge":
		return AgentJudge
	case "synthesizer":
		return AgentSynthesizer
	default:
		return AgentUnknown
	}
}

// DebateRound is one agent contribution, in debate turn order
type DebateRound struct {
	Agent   AgentKind
	Tag     string // raw tag as sent by the backend
	Content string
}

// QueryResult is a successful /query response
type QueryResult struct {
	Query   string
	Rounds  []DebateRound
	Sources []string
}

// BackendStatus is the latest /status snapshot
type BackendStatus struct {
	IndexReady   bool
	ChunkCount   int
	FilesIndexed []string
}

// UploadReceipt is a successful /upload response
type UploadReceipt struct {
	Filename string
	Message  string
}
