package entity

// NoAnswerMessage is returned when nothing in the organization's documents
// is relevant enough to answer.
const NoAnswerMessage = "I couldn't find a relevant answer to your question."

type TurnRole string

const (
	TurnRoleUser      TurnRole = "user"
	TurnRoleAssistant TurnRole = "assistant"
)

// Turn is a single prior message in a conversation.
type Turn struct {
	Role    TurnRole `json:"role"`
	Content string   `json:"content"`
}

type SearchMode string

const (
	SearchModeGenerative SearchMode = "generative"
	SearchModeExtractive SearchMode = "extractive"
)

// SearchResult is what the query path hands back to callers.
type SearchResult struct {
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}

// NoAnswer returns the sentinel result for an unanswerable query.
func NoAnswer() SearchResult {
	return SearchResult{Content: NoAnswerMessage, Similarity: 0}
}

type SearchRequest struct {
	OrganizationID string     `json:"-"`
	Query          string     `json:"query"`
	History        []Turn     `json:"history,omitempty"`
	Mode           SearchMode `json:"mode,omitempty"`
}
