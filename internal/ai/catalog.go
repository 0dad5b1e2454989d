package ai

// ModelInfo is one entry of the static model catalog.
type ModelInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
	Free     bool   `json:"free"`
}

var openRouterCatalog = []ModelInfo{
	{ID: "claude-3-opus-20240229", Name: "Claude 3 Opus", Provider: "OpenRouter", Free: false},
	{ID: "claude-3-sonnet-20240229", Name: "Claude 3 Sonnet", Provider: "OpenRouter", Free: false},
	{ID: "claude-3-haiku-20240307", Name: "Claude 3 Haiku", Provider: "OpenRouter", Free: false},
}

var geminiCatalog = []ModelInfo{
	{ID: "gemini-2.0-flash", Name: "Gemini 2.0 Flash", Provider: "Google", Free: true},
	{ID: "gemini-1.5-flash", Name: "Gemini 1.5 Flash", Provider: "Google", Free: true},
	{ID: "gemini-1.5-pro", Name: "Gemini 1.5 Pro", Provider: "Google", Free: true},
	{ID: "gemini-1.5-flash-8b", Name: "Gemini 1.5 Flash 8B", Provider: "Google", Free: true},
}

// AvailableModels returns the catalog filtered to providers with at least
// one configured key.
func (r *Router) AvailableModels() []ModelInfo {
	models := make([]ModelInfo, 0, len(openRouterCatalog)+len(geminiCatalog))
	if r.HasProvider(ProviderOpenRouter) {
		models = append(models, openRouterCatalog...)
	}
	if r.HasProvider(ProviderGemini) {
		models = append(models, geminiCatalog...)
	}
	return models
}
