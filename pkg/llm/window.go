package llm

const DefaultContextWindowSize = 20

// ContextWindow keeps only the most recent Size messages of a history.
// Older context is dropped, never summarized. Size <= 0 disables truncation.
type ContextWindow struct {
	Size int
}

func NewContextWindow(size int) ContextWindow {
	return ContextWindow{Size: size}
}

func (w ContextWindow) Apply(history []Message) []Message {
	if w.Size <= 0 || len(history) <= w.Size {
		return history
	}
	return history[len(history)-w.Size:]
}

// BuildMessages prepends the system prompt to the windowed history.
func (w ContextWindow) BuildMessages(systemPrompt string, history []Message) []Message {
	windowed := w.Apply(history)
	messages := make([]Message, 0, len(windowed)+1)
	messages = append(messages, Message{Role: "system", Content: systemPrompt})
	return append(messages, windowed...)
}
