package entity

type SuggestionRequest struct {
	Suggestion string `json:"suggestion"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

// ImageRequest carries the raw widget message; the prompt is derived from it
// by the image relay.
type ImageRequest struct {
	Message string `json:"message"`
}

// EmailMessage is built per suggestion and handed to a Mailer.
type EmailMessage struct {
	From     string
	To       string
	Subject  string
	HTMLBody string
}

const (
	ReplyTypeText  = "text"
	ReplyTypeImage = "image"
)

type ChatReply struct {
	Response string `json:"response"`
	Type     string `json:"type"`
}

type ImageReply struct {
	Response string `json:"response"`
	Type     string `json:"type"`
}

// SuggestionReply mirrors what the chat widget reads from /submit_suggestion.
type SuggestionReply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorReply is the error envelope shared by the chat and image relays.
type ErrorReply struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}
