package ai

// Provider identifies which hosted LLM API serves a request.
type Provider string

const (
	ProviderOpenRouter Provider = "openrouter"
	ProviderGemini     Provider = "gemini"
)

// ChatMessage is the provider-neutral turn format. The wire clients convert
// it to each provider's shape.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Safe default models substituted when a request falls back to the other
// provider. Fixed per direction, deliberately not configurable.
const (
	FallbackOpenRouterModel = "claude-3-haiku-20240307"
	FallbackGeminiModel     = "gemini-1.5-flash"
)

var geminiModels = map[string]bool{
	"gemini-2.0-flash":    true,
	"gemini-1.5-flash":    true,
	"gemini-1.5-flash-8b": true,
	"gemini-1.5-pro":      true,
}

// ProviderFor classifies a model id. The Gemini family is a fixed set;
// everything else, unknown ids included, is forwarded to the
// OpenAI-compatible gateway and left to the provider to reject.
func ProviderFor(model string) Provider {
	if geminiModels[model] {
		return ProviderGemini
	}
	return ProviderOpenRouter
}

// fallbackFor returns the other provider and its safe default model.
func fallbackFor(p Provider) (Provider, string) {
	if p == ProviderGemini {
		return ProviderOpenRouter, FallbackOpenRouterModel
	}
	return ProviderGemini, FallbackGeminiModel
}
