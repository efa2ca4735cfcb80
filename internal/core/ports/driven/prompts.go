package driven

// PromptStore provides access to LLM prompt templates.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts.
	Reload()
}

// Well-known prompt names.
const (
	// PromptChatSystem is the system prompt prepended to chat
	// conversations. It has no format placeholders.
	PromptChatSystem = "chat_system"
)
