package brushwork

import "strings"

// Family is the wire-protocol group a provider is classified into. It is
// derived from the profile on every call and never stored.
type Family string

const (
	// FamilyGeminiNative is Google's official Generative Language API.
	FamilyGeminiNative Family = "gemini-native"
	// FamilyGeminiCompatible is any third-party service speaking the Gemini
	// wire format. This is the classifier's fallback.
	FamilyGeminiCompatible Family = "gemini-compatible"
	// FamilyChatCompletions is an OpenAI chat-completions reseller that
	// returns generated images inside a chat message.
	FamilyChatCompletions Family = "chat-completions"
	// FamilyUnifiedImage is an aggregator exposing a single
	// images/generations style endpoint across models.
	FamilyUnifiedImage Family = "unified-image-endpoint"
	// FamilyGraphExecutor is a locally running node-graph executor reached
	// over HTTP and driven by job submission and polling.
	FamilyGraphExecutor Family = "graph-executor"
)

// String returns the family identifier.
func (f Family) String() string { return string(f) }

// ClassifyProvider maps a provider's declared name and base URL to its
// protocol family. Matching is case-insensitive substring matching against
// a fixed priority-ordered marker list; every input maps to exactly one
// family, with gemini-compatible as the catch-all. No network call is made.
func ClassifyProvider(name, baseURL string) Family {
	n := strings.ToLower(name)
	u := strings.ToLower(baseURL)

	switch {
	case strings.Contains(u, "googleapis.com"):
		return FamilyGeminiNative
	case strings.Contains(u, "tu-zi") || strings.Contains(u, "tuzi") ||
		strings.Contains(n, "tu-zi") || strings.Contains(n, "tuzi"):
		return FamilyUnifiedImage
	case strings.Contains(u, "openrouter") || strings.Contains(n, "openrouter") ||
		strings.Contains(u, "yunwu") || strings.Contains(n, "yunwu"):
		return FamilyChatCompletions
	case strings.Contains(u, ":8188") || strings.Contains(n, "comfy") ||
		strings.Contains(u, "comfy"):
		return FamilyGraphExecutor
	default:
		return FamilyGeminiCompatible
	}
}
