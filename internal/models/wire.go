// internal/models/wire.go
package models

// Wire shapes of the backend HTTP contract.

type StatusResponse struct {
	IndexReady   bool     `json:"index_ready"`
	ChunkCount   int      `json:"chunk_count"`
	FilesIndexed []string `json:"files_indexed"`
}

type QueryRequest struct {
	Query string `json:"query"`
}

type WireRound struct {
	Agent   string `json:"agent"`
	Content string `json:"content"`
}

// QueryResponse carries either a debate or, with HTTP 200, a logical error
type QueryResponse struct {
	Query        string      `json:"query"`
	DebateRounds []WireRound `json:"debate_rounds"`
	Sources      []string    `json:"sources"`
	Error        string      `json:"error,omitempty"`
}

type UploadResponse struct {
	Message string `json:"message"`
}

// ErrorDetail is the body of a non-2xx FastAPI response
type ErrorDetail struct {
	Detail string `json:"detail"`
}

func (s StatusResponse) ToStatus() BackendStatus {
	files := make([]string, len(s.FilesIndexed))
	copy(files, s.FilesIndexed)
	return BackendStatus{
		IndexReady:   s.IndexReady,
		ChunkCount:   s.ChunkCount,
		FilesIndexed: files,
	}
}

func (r QueryResponse) ToResult() QueryResult {
	rounds := make([]DebateRound, len(r.DebateRounds))
	for i, wr := range r.DebateRounds {
		rounds[i] = DebateRound{
			Agent:   ParseAgentKind(wr.Agent),
			Tag:     wr.Agent,
			Content: wr.Content,
		}
	}
	sources := make([]string, len(r.Sources))
	copy(sources, r.Sources)
	return QueryResult{
		Query:   r.Query,
		Rounds:  rounds,
		Sources: sources,
	}
}
