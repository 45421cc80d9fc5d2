package entity

// CompletionMessage is a single chat message sent to the text-generation service.
type CompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest describes one call to the text-generation service.
type CompletionRequest struct {
	SystemPrompt string
	Messages     []CompletionMessage
	Temperature  float32
	MaxTokens    int
	// JSONResponse asks the service for a structured JSON object.
	JSONResponse bool
}

// GeneratedQuestion is one item of the structured query-generation output.
type GeneratedQuestion struct {
	Query          string `json:"query"`
	ExpectedAnswer string `json:"expectedAnswer"`
	Category       string `json:"category"`
	Complexity     string `json:"complexity"`
	Tone           string `json:"tone"`
}

type GeneratedQuestions struct {
	Questions []GeneratedQuestion `json:"questions"`
}
