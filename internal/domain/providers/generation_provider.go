package providers

import "context"

// Message is a single chat message sent to the generation service
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerationProvider defines the interface to the external text-generation service
type GenerationProvider interface {
	// GenerateQuizText returns raw quiz-format text for the given prompt pair.
	// The provider validates the response against the quiz format markers and
	// retries transient failures internally.
	GenerateQuizText(ctx context.Context, system, user Message) (string, error)

	// GenerateAnswer returns a free-text clarification answer
	GenerateAnswer(ctx context.Context, system, user Message) (string, error)
}
