package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"
)

// KeysExhaustedError reports that every key in a provider's pool failed.
// LastErr is the final attempt's error; earlier ones are only logged.
type KeysExhaustedError struct {
	Provider Provider
	LastErr  error
}

func (e *KeysExhaustedError) Error() string {
	return fmt.Sprintf("all %s API keys failed. Last error: %v", e.Provider, e.LastErr)
}

func (e *KeysExhaustedError) Unwrap() error {
	return e.LastErr
}

// FallbackError reports that both the primary provider and the
// cross-provider fallback failed. Both errors are retained so callers can
// tell "B down, A also down" apart from "A down, B never tried".
type FallbackError struct {
	PrimaryErr  error
	FallbackErr error
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("primary provider failed: %v; fallback failed: %v", e.PrimaryErr, e.FallbackErr)
}

func (e *FallbackError) Unwrap() error {
	return e.FallbackErr
}

// Config holds the endpoints and credential pools for both providers.
type Config struct {
	OpenRouterBaseURL string
	GeminiBaseURL     string
	OpenRouterKeys    []string
	GeminiKeys        []string
	RequestTimeout    time.Duration
}

// Router dispatches a chat request to the provider implied by its model id,
// rotating through that provider's key pool, and retries once against the
// other provider with its safe default model when the primary is exhausted.
type Router struct {
	openRouter *OpenRouterClient
	gemini     *GeminiClient
	pools      map[Provider]*Pool
}

func NewRouter(cfg Config) *Router {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}
	return &Router{
		openRouter: NewOpenRouterClient(cfg.OpenRouterBaseURL, httpClient),
		gemini:     NewGeminiClient(cfg.GeminiBaseURL, httpClient),
		pools: map[Provider]*Pool{
			ProviderOpenRouter: NewPool(cfg.OpenRouterKeys),
			ProviderGemini:     NewPool(cfg.GeminiKeys),
		},
	}
}

// HasProvider reports whether any keys are configured for the provider.
func (r *Router) HasProvider(p Provider) bool {
	pool, ok := r.pools[p]
	return ok && !pool.Empty()
}

// Configured reports whether at least one provider has keys.
func (r *Router) Configured() bool {
	return r.HasProvider(ProviderOpenRouter) || r.HasProvider(ProviderGemini)
}

// Complete routes messages to the provider for model, falling back to the
// other provider's default model on total failure of the primary.
func (r *Router) Complete(ctx context.Context, messages []ChatMessage, model string) (string, error) {
	primary := ProviderFor(model)

	text, primaryErr := r.execute(ctx, primary, messages, model)
	if primaryErr == nil {
		return text, nil
	}

	backup, backupModel := fallbackFor(primary)
	if !r.HasProvider(backup) {
		return "", primaryErr
	}

	log.Printf("%s model %s failed, trying %s backup %s: %v", primary, model, backup, backupModel, primaryErr)
	text, backupErr := r.execute(ctx, backup, messages, backupModel)
	if backupErr != nil {
		return "", &FallbackError{PrimaryErr: primaryErr, FallbackErr: backupErr}
	}
	return text, nil
}

// execute tries the provider call once per key in rotation order. Every
// failure moves on to the next key; there is no backoff and no
// retryable/non-retryable distinction.
func (r *Router) execute(ctx context.Context, provider Provider, messages []ChatMessage, model string) (string, error) {
	pool := r.pools[provider]
	if pool.Empty() {
		return "", &KeysExhaustedError{
			Provider: provider,
			LastErr:  errors.New("no API keys configured"),
		}
	}

	var lastErr error
	for attempt := 0; attempt < pool.Size(); attempt++ {
		key, ok := pool.Next()
		if !ok {
			break
		}

		text, err := r.call(ctx, provider, key, messages, model)
		if err == nil {
			return text, nil
		}
		lastErr = err
		log.Printf("%s API key %s failed (attempt %d/%d): %v", provider, MaskKey(key), attempt+1, pool.Size(), err)
	}
	return "", &KeysExhaustedError{Provider: provider, LastErr: lastErr}
}

func (r *Router) call(ctx context.Context, provider Provider, key string, messages []ChatMessage, model string) (string, error) {
	if provider == ProviderGemini {
		return r.gemini.Complete(ctx, key, messages, model)
	}
	return r.openRouter.Complete(ctx, key, messages, model)
}
