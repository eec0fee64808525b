package brushwork

import "strings"

// Profile identifies one configured backend service. It is supplied by the
// host, is immutable for the duration of a generation call, and is never
// persisted by this module.
type Profile struct {
	// Name is the host-facing label for the provider. It participates in
	// protocol-family classification alongside BaseURL.
	Name string

	// BaseURL is the root endpoint of the service, e.g.
	// "https://generativelanguage.googleapis.com" or "http://127.0.0.1:8188".
	BaseURL string

	// APIKey authenticates remote services. The local graph executor does
	// not use one.
	APIKey string

	// Model is the provider-native model identifier. Empty selects the
	// family's default.
	Model string
}

// Validate rejects a malformed profile before any payload is built.
// The graph-executor family runs locally and is exempt from the API key
// requirement.
func (p Profile) Validate(family Family) error {
	if strings.TrimSpace(p.BaseURL) == "" {
		return NewConfigError("provider base URL is not set", nil)
	}
	if strings.TrimSpace(p.APIKey) == "" && family != FamilyGraphExecutor {
		return NewConfigError("provider API key is not set", nil)
	}
	return nil
}
