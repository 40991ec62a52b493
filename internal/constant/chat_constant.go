package constant

const (
	DefaultSystemPrompt = `You are a friendly, helpful assistant. Answer clearly and concisely, ask a short clarifying question when a request is ambiguous, and keep a warm, conversational tone.`

	ChatContentMaxLength = 10000
	ChatTitleMaxLength   = 200

	// Titles derived from the first message keep at most this many characters.
	ChatDerivedTitleLength = 50
	ChatDerivedTitleSuffix = "..."

	ChatRefundMessage = "AI response failed. Your token has been refunded."
	ChatErrorMessage  = "Failed to get AI response. Please try again."
)
